package faucet

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes the drip endpoint.
type Handler struct {
	service *Service
	dev     bool
}

// NewHandler constructs a faucet handler. In dev mode unexpected failure
// details are returned to the caller instead of being redacted.
func NewHandler(service *Service, dev bool) *Handler {
	return &Handler{service: service, dev: dev}
}

// Drip handles POST requests for a gas drip.
func (h *Handler) Drip(c *fiber.Ctx) error {
	var req DripRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	result, err := h.service.Drip(c.UserContext(), DripInput{
		Recipient: req.Address,
		Amount:    req.Amount,
	})
	if err != nil {
		de, ok := AsDripError(err)
		if !ok {
			return fiber.NewError(http.StatusInternalServerError, "internal error")
		}
		return c.Status(statusFor(de.Kind)).JSON(h.toFailure(de))
	}

	return c.Status(http.StatusCreated).JSON(DripResponse{
		Hash:        result.Hash,
		From:        result.From,
		To:          result.To,
		Amount:      result.Amount,
		GasUsed:     result.GasUsed,
		BlockNumber: result.BlockNumber,
		CompletedAt: result.CompletedAt,
	})
}

func (h *Handler) toFailure(de *DripError) FailureResponse {
	resp := FailureResponse{
		Kind:  string(de.Kind),
		Error: de.Message,
		Hash:  de.Hash,
	}
	if de.Balance != nil {
		resp.BalanceWei = de.Balance.String()
	}
	if de.Threshold != nil {
		resp.ThresholdWei = de.Threshold.String()
	}
	if de.Kind == FailUnexpected && !h.dev {
		resp.Error = "internal error"
	}
	return resp
}

func statusFor(kind FailureKind) int {
	switch kind {
	case FailInvalidAddress, FailSelfTransfer, FailInvalidAmount:
		return http.StatusBadRequest
	case FailSufficientBalance:
		return http.StatusConflict
	case FailInsufficientBalance, FailLedgerUnavailable:
		return http.StatusServiceUnavailable
	case FailTxIncomplete, FailTxFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
