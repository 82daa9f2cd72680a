package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/gas-drip/gas_drip/internal/wallet"
)

const receiptPollInterval = 2 * time.Second

type ethereumClient struct {
	rpc     *ethclient.Client
	wallet  *wallet.Wallet
	chainID *big.Int
	signer  types.Signer
	logger  *slog.Logger
}

// NewEthereum dials the node at rpcURL and binds the custodial wallet to it.
// When wantChainID is non-zero the node's chain ID must match it, so a faucet
// configured for a testnet can never sign against mainnet by accident.
func NewEthereum(ctx context.Context, rpcURL string, w *wallet.Wallet, wantChainID int64, logger *slog.Logger) (Client, error) {
	rpc, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dial ethereum node: %w", err)
	}

	chainID, err := rpc.ChainID(ctx)
	if err != nil {
		rpc.Close()
		return nil, fmt.Errorf("query chain id: %w", err)
	}
	if wantChainID != 0 && chainID.Int64() != wantChainID {
		rpc.Close()
		return nil, fmt.Errorf("node reports chain id %s, configured for %d", chainID, wantChainID)
	}

	logger.Info("ethereum ledger connected",
		slog.String("chain_id", chainID.String()),
		slog.String("wallet", w.Address()))

	return &ethereumClient{
		rpc:     rpc,
		wallet:  w,
		chainID: chainID,
		signer:  types.LatestSignerForChainID(chainID),
		logger:  logger,
	}, nil
}

func (c *ethereumClient) WalletAddress() string {
	return c.wallet.Address()
}

func (c *ethereumClient) BalanceAt(ctx context.Context, address string) (*big.Int, error) {
	balance, err := c.rpc.BalanceAt(ctx, common.HexToAddress(address), nil)
	if err != nil {
		return nil, classify(err)
	}
	return balance, nil
}

func (c *ethereumClient) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	price, err := c.rpc.SuggestGasPrice(ctx)
	if err != nil || price == nil || price.Sign() <= 0 {
		if err != nil {
			c.logger.Warn("gas price unavailable, using default", slog.Any("error", err))
		}
		return big.NewInt(DefaultGasPriceWei), nil
	}
	return price, nil
}

func (c *ethereumClient) SubmitTransfer(ctx context.Context, to string, value, gasPrice *big.Int) (string, error) {
	from := common.HexToAddress(c.wallet.Address())

	nonce, err := c.rpc.PendingNonceAt(ctx, from)
	if err != nil {
		return "", classify(err)
	}

	tx := types.NewTransaction(nonce, common.HexToAddress(to), value, TransferGasLimit, gasPrice, nil)
	signedTx, err := types.SignTx(tx, c.signer, c.wallet.PrivateKey())
	if err != nil {
		return "", fmt.Errorf("sign transfer: %w", err)
	}

	if err := c.rpc.SendTransaction(ctx, signedTx); err != nil {
		return "", classify(err)
	}

	return signedTx.Hash().Hex(), nil
}

func (c *ethereumClient) WaitMined(ctx context.Context, hash string) (*Receipt, error) {
	h := common.HexToHash(hash)
	ticker := time.NewTicker(receiptPollInterval)
	defer ticker.Stop()

	for {
		receipt, err := c.rpc.TransactionReceipt(ctx, h)
		if err == nil {
			return &Receipt{
				Hash:        hash,
				GasUsed:     receipt.GasUsed,
				BlockNumber: receipt.BlockNumber.Uint64(),
				Succeeded:   receipt.Status == types.ReceiptStatusSuccessful,
			}, nil
		}
		if !errors.Is(err, ethereum.NotFound) {
			c.logger.Warn("receipt poll failed", slog.String("hash", hash), slog.Any("error", err))
		}

		select {
		case <-ctx.Done():
			// The client gave up; the transfer may still land later.
			return nil, nil
		case <-ticker.C:
		}
	}
}

func (c *ethereumClient) TransactionByHash(ctx context.Context, hash string) (*Record, error) {
	h := common.HexToHash(hash)

	tx, pending, err := c.rpc.TransactionByHash(ctx, h)
	if err != nil {
		return nil, ErrNotFound
	}

	record := &Record{
		Hash:    hash,
		Value:   tx.Value(),
		Fee:     new(big.Int).Mul(tx.GasPrice(), new(big.Int).SetUint64(tx.Gas())),
		Pending: pending,
	}
	if tx.To() != nil {
		record.To = tx.To().Hex()
	}
	if sender, err := types.Sender(c.signer, tx); err == nil {
		record.From = sender.Hex()
	}
	if pending {
		return record, nil
	}

	receipt, err := c.rpc.TransactionReceipt(ctx, h)
	if err != nil {
		return record, nil
	}
	mined := receipt.BlockNumber.Uint64()
	record.BlockNumber = &mined
	record.Succeeded = receipt.Status == types.ReceiptStatusSuccessful
	record.Fee = new(big.Int).Mul(tx.GasPrice(), new(big.Int).SetUint64(receipt.GasUsed))
	if head, err := c.rpc.BlockNumber(ctx); err == nil && head >= mined {
		record.Confirmations = head - mined
	}

	return record, nil
}

func (c *ethereumClient) BlockNumber(ctx context.Context) (uint64, error) {
	height, err := c.rpc.BlockNumber(ctx)
	if err != nil {
		return 0, classify(err)
	}
	return height, nil
}

// classify maps go-ethereum error text onto the package sentinels. The node
// exposes no structured codes for these, so the substring matching the rest of
// the codebase must never do is concentrated here.
func classify(err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "insufficient funds"),
		strings.Contains(msg, "insufficient balance"):
		return fmt.Errorf("%w: %s", ErrInsufficientFunds, err)
	default:
		return fmt.Errorf("%w: %s", ErrUnavailable, err)
	}
}
