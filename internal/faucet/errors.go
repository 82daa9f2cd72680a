package faucet

import (
	"errors"
	"fmt"
	"math/big"
)

// FailureKind is the closed taxonomy of non-success drip outcomes. Every
// failure path through the engine produces exactly one of these.
type FailureKind string

const (
	FailInvalidAddress      FailureKind = "invalid_address"
	FailSelfTransfer        FailureKind = "self_transfer"
	FailInvalidAmount       FailureKind = "invalid_amount"
	FailSufficientBalance   FailureKind = "sufficient_balance"
	FailInsufficientBalance FailureKind = "insufficient_balance"
	FailLedgerUnavailable   FailureKind = "ledger_unavailable"
	FailTxIncomplete        FailureKind = "transaction_incomplete"
	FailTxFailed            FailureKind = "transaction_failed"
	FailUnexpected          FailureKind = "unexpected"
)

// CallerFault reports whether the failure is the caller's to fix, which maps
// to a 4xx response at the HTTP boundary. An insolvent faucet wallet is the
// operator's problem, not the caller's, so it is deliberately not in this set.
func (k FailureKind) CallerFault() bool {
	switch k {
	case FailInvalidAddress, FailSelfTransfer, FailInvalidAmount, FailSufficientBalance:
		return true
	default:
		return false
	}
}

// DripError is the typed failure returned by the engine. Balance, Threshold
// and Hash are populated when the decision observed them, so callers and logs
// can reconstruct why the drip did not happen.
type DripError struct {
	Kind      FailureKind
	Message   string
	Recipient string
	Balance   *big.Int
	Threshold *big.Int
	Hash      string
	cause     error
}

func (e *DripError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *DripError) Unwrap() error {
	return e.cause
}

// AsDripError extracts the typed failure from an error chain.
func AsDripError(err error) (*DripError, bool) {
	var de *DripError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
