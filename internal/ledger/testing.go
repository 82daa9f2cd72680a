package ledger

import "math/big"

// Test controls for the in-memory ledger. Kept out of inmemory.go so the fake
// chain's behavior and its test scripting read separately.

// SetBalance seeds an address with the given wei balance.
func (l *InMemory) SetBalance(address string, wei *big.Int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balance(address).Set(wei)
}

// SetGasPrice pins the suggested gas price. A nil or non-positive price makes
// the fake fall back to DefaultGasPriceWei like the real client.
func (l *InMemory) SetGasPrice(wei *big.Int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.gasPrice = wei
}

// FailNextSubmit makes the next SubmitTransfer return err.
func (l *InMemory) FailNextSubmit(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.submitErr = err
}

// FailBalances makes every BalanceAt return err until reset with nil.
func (l *InMemory) FailBalances(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balanceErr = err
}

// FailMining makes subsequent submissions mine with a failed status. The fee
// is still charged.
func (l *InMemory) FailMining(fail bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.failMining = fail
}

// WithholdReceipts makes WaitMined report every receipt as absent.
func (l *InMemory) WithholdReceipts(withhold bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.withholdReceipt = withhold
}

// SubmitCalls reports how many submissions were attempted.
func (l *InMemory) SubmitCalls() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.submitCalls
}

// BalanceCalls reports how many balance lookups were issued.
func (l *InMemory) BalanceCalls() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balanceCalls
}
