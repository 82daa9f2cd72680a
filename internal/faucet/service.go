package faucet

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/gas-drip/gas_drip/internal/ledger"
	"github.com/gas-drip/gas_drip/internal/wallet"
)

// Limits are the business thresholds of the distribution decision, all in wei.
type Limits struct {
	// DefaultAmount is dripped when the caller does not name an amount.
	DefaultAmount *big.Int
	// Threshold declines recipients whose balance is already at or above it.
	Threshold *big.Int
	// MaxAmount caps caller-specified amounts.
	MaxAmount *big.Int
}

// Service is the distribution engine: it decides whether, and for how much,
// value moves from the custodial wallet to a recipient. Each Drip call is an
// independent stateless pipeline; the only shared state is the wallet handle.
type Service struct {
	client         ledger.Client
	limits         Limits
	confirmTimeout time.Duration
	logger         *slog.Logger

	// mu serializes the solvency-check-then-submit window so two concurrent
	// drips cannot both pass the wallet balance gate against the same funds.
	// Confirmation waits run outside the lock.
	mu sync.Mutex
}

// DripInput is the per-call request. Amount is a decimal ether string and may
// be empty, in which case the configured default applies.
type DripInput struct {
	Recipient string
	Amount    string
}

// DripResult is the confirmed outcome of a successful drip.
type DripResult struct {
	Hash        string
	From        string
	To          string
	Amount      string
	GasUsed     uint64
	BlockNumber uint64
	CompletedAt time.Time
}

// NewService builds the engine around a ledger client and its limits.
func NewService(client ledger.Client, limits Limits, confirmTimeout time.Duration, logger *slog.Logger) *Service {
	return &Service{
		client:         client,
		limits:         limits,
		confirmTimeout: confirmTimeout,
		logger:         logger,
	}
}

// Drip runs the decision pipeline in fixed order, short-circuiting on the
// first failing gate. Steps before the recipient balance gate never touch the
// network. Every error returned is a *DripError.
func (s *Service) Drip(ctx context.Context, input DripInput) (DripResult, error) {
	// Address validation and normalization.
	if !common.IsHexAddress(input.Recipient) {
		return DripResult{}, &DripError{
			Kind:      FailInvalidAddress,
			Message:   fmt.Sprintf("recipient %q is not a valid address", input.Recipient),
			Recipient: input.Recipient,
		}
	}
	recipient := common.HexToAddress(input.Recipient).Hex()

	// Self-transfer guard.
	if strings.EqualFold(recipient, s.client.WalletAddress()) {
		return DripResult{}, &DripError{
			Kind:      FailSelfTransfer,
			Message:   "recipient is the faucet wallet",
			Recipient: recipient,
		}
	}

	// Amount resolution.
	value, dripErr := s.resolveAmount(input.Amount)
	if dripErr != nil {
		dripErr.Recipient = recipient
		return DripResult{}, dripErr
	}

	// Recipient sufficiency gate. Checked before wallet solvency so already
	// funded recipients are declined without touching wallet state.
	recipientBalance, err := s.client.BalanceAt(ctx, recipient)
	if err != nil {
		return DripResult{}, s.ledgerFailure(err, recipient, "")
	}
	if recipientBalance.Cmp(s.limits.Threshold) >= 0 {
		s.logger.Info("drip declined, recipient already funded",
			slog.String("recipient", recipient),
			slog.String("balance_wei", recipientBalance.String()),
			slog.String("threshold_wei", s.limits.Threshold.String()))
		return DripResult{}, &DripError{
			Kind:      FailSufficientBalance,
			Message:   "recipient balance is at or above the faucet threshold",
			Recipient: recipient,
			Balance:   recipientBalance,
			Threshold: s.limits.Threshold,
		}
	}

	hash, dripErr := s.submit(ctx, recipient, value)
	if dripErr != nil {
		return DripResult{}, dripErr
	}

	// Once submitted the transfer runs to completion on its own clock: the
	// wait survives caller disconnect and is bounded only by confirmTimeout.
	waitCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.confirmTimeout)
	defer cancel()

	receipt, err := s.client.WaitMined(waitCtx, hash)
	if err != nil {
		return DripResult{}, s.ledgerFailure(err, recipient, hash)
	}
	if receipt == nil {
		s.logger.Error("drip unconfirmed",
			slog.String("recipient", recipient),
			slog.String("hash", hash))
		return DripResult{}, &DripError{
			Kind:      FailTxIncomplete,
			Message:   "transfer submitted but no receipt obtained",
			Recipient: recipient,
			Hash:      hash,
		}
	}
	if !receipt.Succeeded {
		// The fee may have left the wallet even though the transfer did not
		// happen; surface the hash so the loss is traceable.
		s.logger.Error("drip mined but failed",
			slog.String("recipient", recipient),
			slog.String("hash", hash),
			slog.Uint64("block", receipt.BlockNumber))
		return DripResult{}, &DripError{
			Kind:      FailTxFailed,
			Message:   "transfer was mined with a failed status",
			Recipient: recipient,
			Hash:      hash,
		}
	}

	result := DripResult{
		Hash:        receipt.Hash,
		From:        s.client.WalletAddress(),
		To:          recipient,
		Amount:      wallet.FormatEther(value),
		GasUsed:     receipt.GasUsed,
		BlockNumber: receipt.BlockNumber,
		CompletedAt: time.Now().UTC(),
	}
	s.logger.Info("drip completed",
		slog.String("recipient", recipient),
		slog.String("amount", result.Amount),
		slog.String("hash", result.Hash),
		slog.Uint64("block", result.BlockNumber))
	return result, nil
}

// submit holds the wallet lock across the solvency gate, fee price fetch and
// submission, which is the window where two concurrent drips could otherwise
// double-spend the same observed balance.
func (s *Service) submit(ctx context.Context, recipient string, value *big.Int) (string, *DripError) {
	s.mu.Lock()
	defer s.mu.Unlock()

	walletBalance, err := s.client.BalanceAt(ctx, s.client.WalletAddress())
	if err != nil {
		return "", s.ledgerFailure(err, recipient, "")
	}
	if walletBalance.Cmp(value) < 0 {
		// Fee cost is deliberately excluded from this local heuristic; the
		// node re-checks value plus fee authoritatively at submission.
		s.logger.Error("faucet wallet cannot cover drip",
			slog.String("recipient", recipient),
			slog.String("wallet_balance_wei", walletBalance.String()),
			slog.String("value_wei", value.String()))
		return "", &DripError{
			Kind:      FailInsufficientBalance,
			Message:   "faucet wallet balance cannot cover the requested amount",
			Recipient: recipient,
			Balance:   walletBalance,
		}
	}

	gasPrice, err := s.client.SuggestGasPrice(ctx)
	if err != nil {
		return "", s.ledgerFailure(err, recipient, "")
	}

	hash, err := s.client.SubmitTransfer(ctx, recipient, value, gasPrice)
	if err != nil {
		return "", s.ledgerFailure(err, recipient, "")
	}
	return hash, nil
}

func (s *Service) resolveAmount(raw string) (*big.Int, *DripError) {
	if raw == "" {
		return s.limits.DefaultAmount, nil
	}
	value, err := wallet.ParseEther(raw)
	if err != nil {
		return nil, &DripError{
			Kind:    FailInvalidAmount,
			Message: err.Error(),
			cause:   err,
		}
	}
	if value.Sign() <= 0 {
		return nil, &DripError{
			Kind:    FailInvalidAmount,
			Message: "amount must be greater than zero",
		}
	}
	if value.Cmp(s.limits.MaxAmount) > 0 {
		return nil, &DripError{
			Kind:    FailInvalidAmount,
			Message: fmt.Sprintf("amount exceeds the maximum of %s", wallet.FormatEther(s.limits.MaxAmount)),
		}
	}
	return value, nil
}

// ledgerFailure maps ledger sentinel errors onto the failure taxonomy without
// losing the decline/insolvency/failure distinctions.
func (s *Service) ledgerFailure(err error, recipient, hash string) *DripError {
	de := &DripError{
		Recipient: recipient,
		Hash:      hash,
		cause:     err,
	}
	switch {
	case errors.Is(err, ledger.ErrInsufficientFunds):
		de.Kind = FailInsufficientBalance
		de.Message = "ledger rejected the transfer for insufficient wallet funds"
	case errors.Is(err, ledger.ErrUnavailable):
		de.Kind = FailLedgerUnavailable
		de.Message = "ledger is unreachable, retry later"
	default:
		de.Kind = FailUnexpected
		de.Message = "unexpected ledger failure"
	}
	s.logger.Error("drip failed",
		slog.String("recipient", recipient),
		slog.String("kind", string(de.Kind)),
		slog.String("hash", hash),
		slog.Any("error", err))
	return de
}
