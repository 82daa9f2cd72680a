package ledger

import (
	"context"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/params"
)

var (
	// ErrUnavailable occurs when the ledger network cannot be reached or the
	// node rejects a call for transport-level reasons.
	ErrUnavailable = errors.New("ledger unavailable")

	// ErrInsufficientFunds is the node-side rejection of a submission whose
	// sender cannot cover value plus fee. It is authoritative, unlike the
	// engine's local solvency pre-check.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrNotFound indicates the requested transaction is unknown to the ledger.
	ErrNotFound = errors.New("transaction not found")
)

const (
	// TransferGasLimit is the fixed fee-unit budget of a plain value transfer.
	TransferGasLimit uint64 = 21000

	// DefaultGasPriceWei is used when the network reports no usable price.
	DefaultGasPriceWei = params.GWei
)

// Receipt is the confirmed outcome of a submitted transfer.
type Receipt struct {
	Hash        string
	GasUsed     uint64
	BlockNumber uint64
	Succeeded   bool
}

// Record describes a looked-up transaction for the status endpoint.
type Record struct {
	Hash          string
	From          string
	To            string
	Value         *big.Int
	Fee           *big.Int
	Pending       bool
	Succeeded     bool
	BlockNumber   *uint64
	Confirmations uint64
}

// Client is the sole point of contact with the remote ledger. Implementations
// translate their transport's failures into the package sentinel errors so
// callers never inspect error text.
type Client interface {
	// WalletAddress returns the checksummed address of the custodial wallet
	// this client signs for.
	WalletAddress() string

	// BalanceAt reports the live balance of an address in wei.
	BalanceAt(ctx context.Context, address string) (*big.Int, error)

	// SuggestGasPrice returns the current fee price in wei per gas unit. It
	// falls back to DefaultGasPriceWei when the network reports no price and
	// never fails purely because price data is absent.
	SuggestGasPrice(ctx context.Context) (*big.Int, error)

	// SubmitTransfer signs and broadcasts a plain value transfer from the
	// wallet and returns its hash.
	SubmitTransfer(ctx context.Context, to string, value, gasPrice *big.Int) (string, error)

	// WaitMined blocks until the transaction is included or ctx expires. An
	// absent receipt is reported as (nil, nil), not as an error.
	WaitMined(ctx context.Context, hash string) (*Receipt, error)

	// TransactionByHash looks up a transaction for the status endpoint.
	// Unknown hashes and lookup failures both collapse to ErrNotFound.
	TransactionByHash(ctx context.Context, hash string) (*Record, error)

	// BlockNumber probes the chain head. Any height > 0 signals a reachable,
	// progressing ledger.
	BlockNumber(ctx context.Context) (uint64, error)
}
