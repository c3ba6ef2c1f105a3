package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/congo-pay/localwallet/internal/facade"
	"github.com/congo-pay/localwallet/internal/middleware"
)

// RegisterWalletRoutes wires the caller's wallet endpoints. r must already
// be behind JWTAuth; idempotency guards the mutating routes.
func RegisterWalletRoutes(r fiber.Router, api *facade.Facade, idempotency fiber.Handler) {
	r.Get("/", func(c *fiber.Ctx) error {
		return respond(c, api.GetWallet(c.UserContext(), facade.Request[struct{}]{UserID: middleware.UserID(c)}))
	})

	r.Get("/history", func(c *fiber.Ctx) error {
		return respond(c, api.GetHistory(c.UserContext(), facade.Request[struct{}]{UserID: middleware.UserID(c)}))
	})

	r.Post("/deposit", idempotency, func(c *fiber.Ctx) error {
		body, err := decodeBody[facade.DepositBody](c)
		if err != nil {
			return err
		}
		return respond(c, api.Deposit(c.UserContext(), facade.Request[facade.DepositBody]{UserID: middleware.UserID(c), Body: body}))
	})

	r.Post("/transfer", idempotency, func(c *fiber.Ctx) error {
		body, err := decodeBody[facade.TransferBody](c)
		if err != nil {
			return err
		}
		return respond(c, api.Transfer(c.UserContext(), facade.Request[facade.TransferBody]{UserID: middleware.UserID(c), Body: body}))
	})
}
