package routes

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/congo-pay/localwallet/internal/auth"
	"github.com/congo-pay/localwallet/internal/config"
	"github.com/congo-pay/localwallet/internal/facade"
	"github.com/congo-pay/localwallet/internal/identity"
	"github.com/congo-pay/localwallet/internal/logging"
	"github.com/congo-pay/localwallet/internal/metrics"
	"github.com/congo-pay/localwallet/internal/middleware"
	"github.com/congo-pay/localwallet/internal/notification"
	"github.com/congo-pay/localwallet/internal/storage"
	"github.com/congo-pay/localwallet/internal/wallet"
)

// Deps aggregates shared dependencies required to wire routes. DB and Cache
// are optional; Store is required.
type Deps struct {
	Cfg      config.Config
	DB       *pgxpool.Pool
	Cache    *redis.Client
	Store    *storage.Store
	Logger   *slog.Logger
	Registry *prometheus.Registry
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	if d.Store == nil {
		return errors.New("routes: store is required")
	}
	if d.Logger == nil {
		d.Logger = logging.Discard()
	}
	if d.Registry == nil {
		d.Registry = prometheus.NewRegistry()
	}

	encoder, err := identity.NewEncoder(d.Cfg.CredentialEncoding)
	if err != nil {
		return fmt.Errorf("credential encoder: %w", err)
	}

	notifier := notification.NewLoggerNotifier(d.Logger)
	walletSvc := wallet.NewService(d.Store, d.Store, notifier, d.Logger)
	identitySvc := identity.NewService(d.Store, walletSvc, encoder, d.Logger)
	api := facade.New(identitySvc, walletSvc, metrics.New(d.Registry), d.Logger)
	tokens := auth.NewService(d.Cfg.JWTSecret, d.Cfg.AppName, d.Cfg.AccessTokenTTL)

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Audit(d.Logger))

	RegisterHealthRoutes(app, d)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{})))

	v1 := app.Group("/api/v1")
	v1.Get("/ping", func(c *fiber.Ctx) error {
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": middleware.GetRequestID(c),
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	RegisterAuthRoutes(v1, api, tokens, middleware.LoginRateLimit(d.Cache, d.Cfg.LoginAttempts, d.Logger))

	protected := v1.Group("/wallet", middleware.JWTAuth(tokens))
	RegisterWalletRoutes(protected, api, middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))

	return nil
}

// ErrorHandler renders errors returned by handlers and middleware as
// {"error": message} with the matching status.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "internal error"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		msg = fe.Message
	}
	return c.Status(code).JSON(facade.ErrorBody{Error: msg})
}

// respond writes a facade response as-is.
func respond(c *fiber.Ctx, resp facade.Response) error {
	return c.Status(resp.Status).JSON(resp.Body)
}

// decodeBody parses the JSON request body into B. An empty body yields the
// zero value so the facade can report the missing fields.
func decodeBody[B any](c *fiber.Ctx) (B, error) {
	var body B
	raw := c.Body()
	if len(raw) == 0 {
		return body, nil
	}
	if err := c.App().Config().JSONDecoder(raw, &body); err != nil {
		return body, fiber.NewError(fiber.StatusBadRequest, "invalid JSON body")
	}
	return body, nil
}
