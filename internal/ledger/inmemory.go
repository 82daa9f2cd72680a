package ledger

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"sync"
)

// InMemory is a concurrency-safe fake chain that mines every submission
// instantly. It backs unit tests and local development without a node.
type InMemory struct {
	mu       sync.Mutex
	wallet   string
	balances map[string]*big.Int
	receipts map[string]*Receipt
	records  map[string]*Record
	height   uint64
	gasPrice *big.Int

	submitErr       error
	balanceErr      error
	failMining      bool
	withholdReceipt bool

	balanceCalls int
	submitCalls  int
}

// NewInMemory creates a fake ledger whose custodial wallet is walletAddress.
func NewInMemory(walletAddress string) *InMemory {
	return &InMemory{
		wallet:   walletAddress,
		balances: make(map[string]*big.Int),
		receipts: make(map[string]*Receipt),
		records:  make(map[string]*Record),
		height:   1,
	}
}

func (l *InMemory) WalletAddress() string {
	return l.wallet
}

func (l *InMemory) BalanceAt(_ context.Context, address string) (*big.Int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balanceCalls++
	if l.balanceErr != nil {
		return nil, l.balanceErr
	}
	return new(big.Int).Set(l.balance(address)), nil
}

func (l *InMemory) SuggestGasPrice(_ context.Context) (*big.Int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.gasPrice == nil || l.gasPrice.Sign() <= 0 {
		return big.NewInt(DefaultGasPriceWei), nil
	}
	return new(big.Int).Set(l.gasPrice), nil
}

// SubmitTransfer applies the transfer immediately: value plus fee leave the
// wallet and a receipt becomes available at the next block height. A mining
// failure still burns the fee, matching how a reverted transfer behaves on a
// real chain.
func (l *InMemory) SubmitTransfer(_ context.Context, to string, value, gasPrice *big.Int) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.submitCalls++
	if l.submitErr != nil {
		err := l.submitErr
		l.submitErr = nil
		return "", err
	}

	fee := new(big.Int).Mul(gasPrice, new(big.Int).SetUint64(TransferGasLimit))
	cost := new(big.Int).Add(value, fee)

	walletBalance := l.balance(l.wallet)
	if walletBalance.Cmp(cost) < 0 {
		return "", fmt.Errorf("%w: balance %s, tx cost %s", ErrInsufficientFunds, walletBalance, cost)
	}

	l.height++
	hash := fmt.Sprintf("0x%064x", l.height)

	walletBalance.Sub(walletBalance, fee)
	succeeded := !l.failMining
	if succeeded {
		walletBalance.Sub(walletBalance, value)
		recipient := l.balance(to)
		recipient.Add(recipient, value)
	}

	l.receipts[hash] = &Receipt{
		Hash:        hash,
		GasUsed:     TransferGasLimit,
		BlockNumber: l.height,
		Succeeded:   succeeded,
	}
	mined := l.height
	l.records[hash] = &Record{
		Hash:        hash,
		From:        l.wallet,
		To:          to,
		Value:       new(big.Int).Set(value),
		Fee:         fee,
		Succeeded:   succeeded,
		BlockNumber: &mined,
	}

	return hash, nil
}

func (l *InMemory) WaitMined(_ context.Context, hash string) (*Receipt, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.withholdReceipt {
		return nil, nil
	}
	receipt, ok := l.receipts[hash]
	if !ok {
		return nil, nil
	}
	return receipt, nil
}

func (l *InMemory) TransactionByHash(_ context.Context, hash string) (*Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	record, ok := l.records[hash]
	if !ok {
		return nil, ErrNotFound
	}
	if record.BlockNumber != nil && l.height >= *record.BlockNumber {
		record.Confirmations = l.height - *record.BlockNumber
	}
	return record, nil
}

func (l *InMemory) BlockNumber(_ context.Context) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.height, nil
}

// balance returns the mutable balance entry for an address. Callers hold l.mu.
func (l *InMemory) balance(address string) *big.Int {
	key := strings.ToLower(address)
	if _, ok := l.balances[key]; !ok {
		l.balances[key] = new(big.Int)
	}
	return l.balances[key]
}
