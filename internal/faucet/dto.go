package faucet

import "time"

// DripRequest captures caller-provided data to request a drip.
type DripRequest struct {
	Address string `json:"address"`
	Amount  string `json:"amount,omitempty"`
}

// DripResponse represents the API response for a confirmed drip.
type DripResponse struct {
	Hash        string    `json:"hash"`
	From        string    `json:"from"`
	To          string    `json:"to"`
	Amount      string    `json:"amount_eth"`
	GasUsed     uint64    `json:"gas_used"`
	BlockNumber uint64    `json:"block_number"`
	CompletedAt time.Time `json:"completed_at"`
}

// FailureResponse carries a typed drip failure to the caller. Balance and
// threshold are present for balance-gate declines, the hash for failures that
// happened after submission.
type FailureResponse struct {
	Kind         string `json:"kind"`
	Error        string `json:"error"`
	BalanceWei   string `json:"balance_wei,omitempty"`
	ThresholdWei string `json:"threshold_wei,omitempty"`
	Hash         string `json:"hash,omitempty"`
}
