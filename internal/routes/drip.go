package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gas-drip/gas_drip/internal/faucet"
)

// RegisterDripRoutes wires the drip endpoint behind its rate limiter.
func RegisterDripRoutes(r fiber.Router, h *faucet.Handler, rateLimit fiber.Handler) {
	r.Post("/drips", rateLimit, h.Drip)
}
