package wallet

import (
	"crypto/ecdsa"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
)

// Wallet is the single custodial account the faucet spends from. The private
// key is held in memory for the process lifetime and never persisted.
type Wallet struct {
	address string
	key     *ecdsa.PrivateKey
}

// FromHexKey derives a wallet from a hex-encoded secp256k1 private key. A
// leading 0x prefix is tolerated.
func FromHexKey(hexKey string) (*Wallet, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(hexKey), "0x")
	if trimmed == "" {
		return nil, fmt.Errorf("wallet private key is required")
	}

	key, err := crypto.HexToECDSA(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse wallet private key: %w", err)
	}

	pub, ok := key.Public().(*ecdsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("derive wallet public key")
	}

	return &Wallet{
		address: crypto.PubkeyToAddress(*pub).Hex(),
		key:     key,
	}, nil
}

// Address returns the checksummed hex address of the wallet.
func (w *Wallet) Address() string {
	return w.address
}

// PrivateKey exposes the signing key for the ledger client.
func (w *Wallet) PrivateKey() *ecdsa.PrivateKey {
	return w.key
}
