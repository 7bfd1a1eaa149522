package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Titan settings
	TitanAuthToken string
	TitanBaseURL   string

	// Wallet settings
	UserPubkey string
	PrivateKey string
	SendTx     bool

	// RPC settings
	RPCUrl string

	// HTTP client settings
	HTTPTimeout  time.Duration
	MaxRetries   int
	RetryBackoff time.Duration

	// Redis settings
	RedisAddr string

	// Stub service settings
	StubAddr string

	LogLevel string
}

func Load() *Config {
	return &Config{
		// Titan
		TitanAuthToken: getEnv("TITAN_AUTH_TOKEN", ""),
		TitanBaseURL:   getEnv("TITAN_BASE_URL", "https://api.titan.exchange"),

		// Wallet
		UserPubkey: getEnv("USER_PUBKEY", ""),
		PrivateKey: getEnv("PRIVATE_KEY", ""),
		SendTx:     getBoolEnv("TITAN_SEND_TX", false),

		// RPC
		RPCUrl: getEnv("SOLANA_RPC_URL", "https://api.mainnet-beta.solana.com"),

		// HTTP
		HTTPTimeout:  getDurationEnv("HTTP_TIMEOUT", 12*time.Second),
		MaxRetries:   getIntEnv("MAX_RETRIES", 3),
		RetryBackoff: getDurationEnv("RETRY_BACKOFF", time.Second),

		// Redis is optional; empty disables quote publishing.
		RedisAddr: getEnv("REDIS_ADDR", ""),

		StubAddr: getEnv("STUB_ADDR", ":8089"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// Validate checks the settings every binary needs. Values are only checked
// for presence; the Titan token is passed through untouched.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.TitanAuthToken) == "" {
		errs = append(errs, errors.New("TITAN_AUTH_TOKEN is required"))
	}
	if strings.TrimSpace(c.TitanBaseURL) == "" {
		errs = append(errs, errors.New("TITAN_BASE_URL must not be empty"))
	}
	if c.SendTx {
		if strings.TrimSpace(c.PrivateKey) == "" {
			errs = append(errs, errors.New("PRIVATE_KEY is required when TITAN_SEND_TX is set"))
		}
		if strings.TrimSpace(c.RPCUrl) == "" {
			errs = append(errs, errors.New("SOLANA_RPC_URL is required when TITAN_SEND_TX is set"))
		}
	}
	return errors.Join(errs...)
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getIntEnv(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getBoolEnv(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

func getDurationEnv(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
