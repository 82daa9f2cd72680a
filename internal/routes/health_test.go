package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/gas-drip/gas_drip/internal/ledger"
	"github.com/gas-drip/gas_drip/internal/logging"
)

const walletAddr = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"

func TestHealthzReportsChainHeight(t *testing.T) {
	app := fiber.New()
	RegisterHealthRoutes(app, Deps{
		Chain:  ledger.NewInMemory(walletAddr),
		Logger: logging.Discard(),
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}
