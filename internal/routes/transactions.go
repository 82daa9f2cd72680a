package routes

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/gas-drip/gas_drip/internal/ledger"
)

type transactionResponse struct {
	Hash          string  `json:"hash"`
	From          string  `json:"from,omitempty"`
	To            string  `json:"to,omitempty"`
	ValueWei      string  `json:"value_wei"`
	FeeWei        string  `json:"fee_wei"`
	Pending       bool    `json:"pending"`
	Succeeded     bool    `json:"succeeded"`
	BlockNumber   *uint64 `json:"block_number,omitempty"`
	Confirmations uint64  `json:"confirmations"`
}

// RegisterTransactionRoutes wires the transaction status lookup. Lookup
// failures are non-fatal and collapse to 404.
func RegisterTransactionRoutes(r fiber.Router, chain ledger.Client) {
	r.Get("/transactions/:hash", func(c *fiber.Ctx) error {
		record, err := chain.TransactionByHash(c.UserContext(), c.Params("hash"))
		if err != nil {
			return fiber.NewError(http.StatusNotFound, "transaction not found")
		}

		resp := transactionResponse{
			Hash:          record.Hash,
			From:          record.From,
			To:            record.To,
			Pending:       record.Pending,
			Succeeded:     record.Succeeded,
			BlockNumber:   record.BlockNumber,
			Confirmations: record.Confirmations,
		}
		if record.Value != nil {
			resp.ValueWei = record.Value.String()
		}
		if record.Fee != nil {
			resp.FeeWei = record.Fee.String()
		}
		return c.Status(http.StatusOK).JSON(resp)
	})
}
