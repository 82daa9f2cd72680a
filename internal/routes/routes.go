package routes

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"

	"github.com/gas-drip/gas_drip/internal/config"
	"github.com/gas-drip/gas_drip/internal/faucet"
	"github.com/gas-drip/gas_drip/internal/ledger"
	"github.com/gas-drip/gas_drip/internal/middleware"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	Chain  ledger.Client
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Audit(d.Logger))

	RegisterHealthRoutes(app, d)

	dripSvc := faucet.NewService(d.Chain, faucet.Limits{
		DefaultAmount: d.Cfg.DripAmountWei,
		Threshold:     d.Cfg.ThresholdWei,
		MaxAmount:     d.Cfg.MaxAmountWei,
	}, d.Cfg.ConfirmTimeout, d.Logger)
	dripHandler := faucet.NewHandler(dripSvc, d.Cfg.IsDev())

	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals(middleware.RequestIDHeader).(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	RegisterTransactionRoutes(api, d.Chain)

	protected := api.Group("", middleware.APIKey(d.Cfg.APIKeys))
	RegisterDripRoutes(protected, dripHandler, middleware.DripRateLimit(d.Cache, d.Cfg.DripsPerHour))

	return nil
}
