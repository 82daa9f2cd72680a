package config

import (
	"fmt"
	"math/big"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gas-drip/gas_drip/internal/wallet"
)

const (
	defaultAppName       = "GasDrip"
	defaultAppEnv        = "development"
	defaultPort          = "8080"
	defaultLogLevel      = "info"
	defaultShutdownDelay = 10 * time.Second
	defaultConfirmWait   = 90 * time.Second
	defaultDripAmount    = "0.01"
	defaultThreshold     = "0.005"
	defaultMaxAmount     = "1"
	defaultDripsPerHour  = 5

	shutdownSecondsEnvVar  = "SHUTDOWN_TIMEOUT_SECONDS"
	shutdownDurationEnvVar = "SHUTDOWN_TIMEOUT"
	confirmDurationEnvVar  = "CONFIRM_TIMEOUT"
)

// Config captures application runtime configuration loaded from environment
// variables. The faucet amounts are parsed from decimal ether strings into wei
// at load time so misconfiguration fails the process at startup.
type Config struct {
	AppName  string
	AppEnv   string
	Port     string
	LogLevel string

	RPCURL    string
	ChainID   int64
	WalletKey string

	DripAmountWei *big.Int
	ThresholdWei  *big.Int
	MaxAmountWei  *big.Int

	RedisURL     string
	DripsPerHour int
	APIKeys      []string

	ConfirmTimeout time.Duration
	ShutdownPeriod time.Duration
}

// Load reads configuration values from the environment and populates a Config
// instance.
func Load() (Config, error) {
	cfg := Config{
		AppName:        getEnv("APP_NAME", defaultAppName),
		AppEnv:         getEnv("APP_ENV", defaultAppEnv),
		Port:           getEnv("PORT", defaultPort),
		LogLevel:       strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		RPCURL:         os.Getenv("ETH_RPC_URL"),
		WalletKey:      os.Getenv("WALLET_PRIVATE_KEY"),
		RedisURL:       os.Getenv("REDIS_URL"),
		DripsPerHour:   defaultDripsPerHour,
		ConfirmTimeout: defaultConfirmWait,
		ShutdownPeriod: defaultShutdownDelay,
	}

	if cfg.RPCURL == "" {
		return Config{}, fmt.Errorf("ETH_RPC_URL must be set")
	}
	if cfg.WalletKey == "" {
		return Config{}, fmt.Errorf("WALLET_PRIVATE_KEY must be set")
	}

	if v := os.Getenv("CHAIN_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("invalid CHAIN_ID: %w", err)
		}
		cfg.ChainID = id
	}

	var err error
	if cfg.DripAmountWei, err = amountEnv("FAUCET_AMOUNT", defaultDripAmount); err != nil {
		return Config{}, err
	}
	if cfg.ThresholdWei, err = amountEnv("FAUCET_THRESHOLD", defaultThreshold); err != nil {
		return Config{}, err
	}
	if cfg.MaxAmountWei, err = amountEnv("FAUCET_MAX_AMOUNT", defaultMaxAmount); err != nil {
		return Config{}, err
	}
	if cfg.DripAmountWei.Sign() <= 0 {
		return Config{}, fmt.Errorf("FAUCET_AMOUNT must be greater than zero")
	}
	if cfg.DripAmountWei.Cmp(cfg.MaxAmountWei) > 0 {
		return Config{}, fmt.Errorf("FAUCET_AMOUNT exceeds FAUCET_MAX_AMOUNT")
	}

	if v := os.Getenv("DRIPS_PER_HOUR"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return Config{}, fmt.Errorf("invalid DRIPS_PER_HOUR: %q", v)
		}
		cfg.DripsPerHour = n
	}

	if v := os.Getenv("API_KEYS"); v != "" {
		for _, key := range strings.Split(v, ",") {
			if key = strings.TrimSpace(key); key != "" {
				cfg.APIKeys = append(cfg.APIKeys, key)
			}
		}
	}

	if v := os.Getenv(confirmDurationEnvVar); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", confirmDurationEnvVar, err)
		}
		cfg.ConfirmTimeout = d
	}

	if v := os.Getenv(shutdownSecondsEnvVar); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", shutdownSecondsEnvVar, err)
		}
		cfg.ShutdownPeriod = time.Duration(seconds) * time.Second
	} else if v := os.Getenv(shutdownDurationEnvVar); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", shutdownDurationEnvVar, err)
		}
		cfg.ShutdownPeriod = d
	}

	return cfg, nil
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}

// IsDev reports whether the process runs in a development environment.
func (c Config) IsDev() bool {
	switch strings.ToLower(c.AppEnv) {
	case "dev", "development", "local":
		return true
	default:
		return false
	}
}

func amountEnv(key, fallback string) (*big.Int, error) {
	wei, err := wallet.ParseEther(getEnv(key, fallback))
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", key, err)
	}
	return wei, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
