package faucet

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/gas-drip/gas_drip/internal/ledger"
)

func newHandlerApp(t *testing.T, chain *ledger.InMemory, dev bool) *fiber.App {
	t.Helper()
	app := fiber.New()
	app.Post("/drips", NewHandler(newTestService(t, chain), dev).Drip)
	return app
}

func postDrip(t *testing.T, app *fiber.App, body string) (*http.Response, []byte) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/drips", strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req, 10_000)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, respBody
}

func TestHandlerReturnsCreatedOnSuccess(t *testing.T) {
	chain := ledger.NewInMemory(faucetAddr)
	chain.SetBalance(faucetAddr, eth(t, "1"))
	app := newHandlerApp(t, chain, true)

	resp, body := postDrip(t, app, `{"address":"`+aliceAddr+`"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.StatusCode, body)
	}

	var dr DripResponse
	if err := json.Unmarshal(body, &dr); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if dr.Hash == "" || dr.Amount != "0.01" || dr.To != aliceAddr {
		t.Fatalf("unexpected response: %+v", dr)
	}
}

func TestHandlerMapsFailureKindsToStatuses(t *testing.T) {
	cases := []struct {
		name   string
		setup  func(*ledger.InMemory)
		body   string
		status int
		kind   FailureKind
	}{
		{
			name:   "invalid address",
			setup:  func(l *ledger.InMemory) {},
			body:   `{"address":"nope"}`,
			status: http.StatusBadRequest,
			kind:   FailInvalidAddress,
		},
		{
			name:   "self transfer",
			setup:  func(l *ledger.InMemory) {},
			body:   `{"address":"` + faucetAddr + `"}`,
			status: http.StatusBadRequest,
			kind:   FailSelfTransfer,
		},
		{
			name: "recipient already funded",
			setup: func(l *ledger.InMemory) {
				l.SetBalance(aliceAddr, eth(t, "1"))
			},
			body:   `{"address":"` + aliceAddr + `"}`,
			status: http.StatusConflict,
			kind:   FailSufficientBalance,
		},
		{
			name:   "wallet insolvent",
			setup:  func(l *ledger.InMemory) {},
			body:   `{"address":"` + aliceAddr + `","amount":"5"}`,
			status: http.StatusServiceUnavailable,
			kind:   FailInsufficientBalance,
		},
		{
			name: "transfer failed on chain",
			setup: func(l *ledger.InMemory) {
				l.SetBalance(faucetAddr, eth(t, "1"))
				l.FailMining(true)
			},
			body:   `{"address":"` + aliceAddr + `"}`,
			status: http.StatusBadGateway,
			kind:   FailTxFailed,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			chain := ledger.NewInMemory(faucetAddr)
			tc.setup(chain)
			app := newHandlerApp(t, chain, true)

			resp, body := postDrip(t, app, tc.body)
			if resp.StatusCode != tc.status {
				t.Fatalf("expected %d, got %d: %s", tc.status, resp.StatusCode, body)
			}

			var fr FailureResponse
			if err := json.Unmarshal(body, &fr); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if fr.Kind != string(tc.kind) {
				t.Fatalf("expected kind %s, got %s", tc.kind, fr.Kind)
			}
		})
	}
}

func TestHandlerCarriesBalanceAndThresholdOnDecline(t *testing.T) {
	chain := ledger.NewInMemory(faucetAddr)
	chain.SetBalance(aliceAddr, eth(t, "0.005"))
	app := newHandlerApp(t, chain, true)

	resp, body := postDrip(t, app, `{"address":"`+aliceAddr+`"}`)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}

	var fr FailureResponse
	if err := json.Unmarshal(body, &fr); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if fr.BalanceWei != eth(t, "0.005").String() {
		t.Fatalf("expected observed balance in response, got %q", fr.BalanceWei)
	}
	if fr.ThresholdWei != eth(t, "0.005").String() {
		t.Fatalf("expected threshold in response, got %q", fr.ThresholdWei)
	}
}
