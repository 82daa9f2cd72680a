package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
)

// RegisterHealthRoutes adds the liveness endpoint. Every check is a live
// round trip to the chain head, no caching or retries.
func RegisterHealthRoutes(app *fiber.App, d Deps) {
	app.Get("/healthz", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()

		chainStatus := "ok"
		var height uint64
		if h, err := d.Chain.BlockNumber(ctx); err != nil {
			chainStatus = err.Error()
		} else if h == 0 {
			chainStatus = "chain not progressing"
		} else {
			height = h
		}

		redisStatus := "ok"
		if d.Cache != nil {
			if err := d.Cache.Ping(ctx).Err(); err != nil {
				redisStatus = err.Error()
			}
		}

		status := http.StatusOK
		if chainStatus != "ok" || redisStatus != "ok" {
			status = http.StatusServiceUnavailable
		}
		return c.Status(status).JSON(fiber.Map{
			"status":       fiber.Map{"chain": chainStatus, "redis": redisStatus},
			"block_height": height,
			"timestamp":    time.Now().UTC().Format(time.RFC3339Nano),
		})
	})
}
