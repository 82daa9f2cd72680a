package ledger

import (
	"context"
	"errors"
	"math/big"
	"testing"
)

const (
	walletAddr = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
	otherAddr  = "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"
)

func wei(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("bad wei literal: " + s)
	}
	return v
}

func TestInMemoryTransferMovesValueAndChargesFee(t *testing.T) {
	ctx := context.Background()
	l := NewInMemory(walletAddr)
	l.SetBalance(walletAddr, wei("1000000000000000000")) // 1 ether

	gasPrice := big.NewInt(DefaultGasPriceWei)
	value := wei("250000000000000000") // 0.25 ether

	hash, err := l.SubmitTransfer(ctx, otherAddr, value, gasPrice)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	receipt, err := l.WaitMined(ctx, hash)
	if err != nil {
		t.Fatalf("wait mined: %v", err)
	}
	if receipt == nil || !receipt.Succeeded {
		t.Fatalf("expected successful receipt, got %+v", receipt)
	}
	if receipt.GasUsed != TransferGasLimit {
		t.Fatalf("expected gas used %d, got %d", TransferGasLimit, receipt.GasUsed)
	}

	recipient, _ := l.BalanceAt(ctx, otherAddr)
	if recipient.Cmp(value) != 0 {
		t.Fatalf("expected recipient balance %s, got %s", value, recipient)
	}

	fee := new(big.Int).Mul(gasPrice, new(big.Int).SetUint64(TransferGasLimit))
	wantWallet := new(big.Int).Sub(wei("1000000000000000000"), new(big.Int).Add(value, fee))
	wallet, _ := l.BalanceAt(ctx, walletAddr)
	if wallet.Cmp(wantWallet) != 0 {
		t.Fatalf("expected wallet balance %s, got %s", wantWallet, wallet)
	}
}

func TestInMemoryRejectsUnaffordableTransfer(t *testing.T) {
	ctx := context.Background()
	l := NewInMemory(walletAddr)
	l.SetBalance(walletAddr, wei("100"))

	_, err := l.SubmitTransfer(ctx, otherAddr, wei("100"), big.NewInt(DefaultGasPriceWei))
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
}

func TestInMemoryFailedMiningBurnsOnlyTheFee(t *testing.T) {
	ctx := context.Background()
	l := NewInMemory(walletAddr)
	l.SetBalance(walletAddr, wei("1000000000000000000"))
	l.FailMining(true)

	gasPrice := big.NewInt(DefaultGasPriceWei)
	hash, err := l.SubmitTransfer(ctx, otherAddr, wei("500000000000000000"), gasPrice)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	receipt, err := l.WaitMined(ctx, hash)
	if err != nil {
		t.Fatalf("wait mined: %v", err)
	}
	if receipt == nil || receipt.Succeeded {
		t.Fatalf("expected failed receipt, got %+v", receipt)
	}

	recipient, _ := l.BalanceAt(ctx, otherAddr)
	if recipient.Sign() != 0 {
		t.Fatalf("failed transfer must not credit the recipient, got %s", recipient)
	}

	fee := new(big.Int).Mul(gasPrice, new(big.Int).SetUint64(TransferGasLimit))
	wantWallet := new(big.Int).Sub(wei("1000000000000000000"), fee)
	wallet, _ := l.BalanceAt(ctx, walletAddr)
	if wallet.Cmp(wantWallet) != 0 {
		t.Fatalf("expected only the fee deducted, wallet %s want %s", wallet, wantWallet)
	}
}

func TestInMemoryWithheldReceiptReportsAbsent(t *testing.T) {
	ctx := context.Background()
	l := NewInMemory(walletAddr)
	l.SetBalance(walletAddr, wei("1000000000000000000"))
	l.WithholdReceipts(true)

	hash, err := l.SubmitTransfer(ctx, otherAddr, wei("1000"), big.NewInt(DefaultGasPriceWei))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	receipt, err := l.WaitMined(ctx, hash)
	if err != nil {
		t.Fatalf("wait mined: %v", err)
	}
	if receipt != nil {
		t.Fatalf("expected absent receipt, got %+v", receipt)
	}
}

func TestInMemoryTransactionLookup(t *testing.T) {
	ctx := context.Background()
	l := NewInMemory(walletAddr)
	l.SetBalance(walletAddr, wei("1000000000000000000"))

	if _, err := l.TransactionByHash(ctx, "0xdeadbeef"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	value := wei("1000")
	hash, err := l.SubmitTransfer(ctx, otherAddr, value, big.NewInt(DefaultGasPriceWei))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	record, err := l.TransactionByHash(ctx, hash)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if record.From != walletAddr || record.To != otherAddr {
		t.Fatalf("unexpected endpoints %s -> %s", record.From, record.To)
	}
	if record.Value.Cmp(value) != 0 {
		t.Fatalf("expected value %s, got %s", value, record.Value)
	}
	if !record.Succeeded || record.Pending {
		t.Fatalf("expected mined successful record, got %+v", record)
	}
}

func TestInMemoryGasPriceFallsBackToDefault(t *testing.T) {
	ctx := context.Background()
	l := NewInMemory(walletAddr)

	price, err := l.SuggestGasPrice(ctx)
	if err != nil {
		t.Fatalf("gas price: %v", err)
	}
	if price.Cmp(big.NewInt(DefaultGasPriceWei)) != 0 {
		t.Fatalf("expected default gas price, got %s", price)
	}

	l.SetGasPrice(big.NewInt(42))
	price, err = l.SuggestGasPrice(ctx)
	if err != nil {
		t.Fatalf("gas price: %v", err)
	}
	if price.Int64() != 42 {
		t.Fatalf("expected pinned price 42, got %s", price)
	}
}
