package routes

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/congo-pay/localwallet/internal/auth"
	"github.com/congo-pay/localwallet/internal/domain"
	"github.com/congo-pay/localwallet/internal/facade"
)

type loginResponse struct {
	facade.LoginResult
	auth.Token
}

// RegisterAuthRoutes wires registration and login. A successful login also
// carries an access token for the wallet routes.
func RegisterAuthRoutes(r fiber.Router, api *facade.Facade, tokens *auth.Service, rateLimiter fiber.Handler) {
	group := r.Group("/auth")

	group.Post("/register", func(c *fiber.Ctx) error {
		body, err := decodeBody[facade.RegisterBody](c)
		if err != nil {
			return err
		}
		return respond(c, api.Register(c.UserContext(), facade.Request[facade.RegisterBody]{Body: body}))
	})

	group.Post("/login", rateLimiter, func(c *fiber.Ctx) error {
		body, err := decodeBody[facade.LoginBody](c)
		if err != nil {
			return err
		}
		resp := api.Login(c.UserContext(), facade.Request[facade.LoginBody]{Body: body})
		result, ok := resp.Body.(facade.LoginResult)
		if resp.Status != http.StatusOK || !ok {
			return respond(c, resp)
		}

		tok, err := tokens.Issue(domain.User{ID: result.User.ID, Username: result.User.Username})
		if err != nil {
			return err
		}
		return c.Status(http.StatusOK).JSON(loginResponse{LoginResult: result, Token: tok})
	})
}
