package rpc

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/sirupsen/logrus"
)

// ErrAccountNotFound is returned by GetAccountInfo when the account does
// not exist.
var ErrAccountNotFound = errors.New("account not found")

// Client is an HTTP client with retry and timeout support for Solana RPC
type Client struct {
	httpClient   *http.Client
	baseURL      string
	maxRetries   int
	retryBackoff time.Duration
	logger       *logrus.Logger
}

// ClientConfig holds configuration for the RPC client
type ClientConfig struct {
	BaseURL      string
	Timeout      time.Duration
	MaxRetries   int
	RetryBackoff time.Duration
	Logger       *logrus.Logger
}

// NewClient creates a new RPC client with retry support
func NewClient(cfg ClientConfig) *Client {
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		baseURL:      cfg.BaseURL,
		maxRetries:   cfg.MaxRetries,
		retryBackoff: cfg.RetryBackoff,
		logger:       cfg.Logger,
	}
}

// Call makes a JSON-RPC call with retry logic. Only transport failures and
// non-200 statuses are retried; a JSON-RPC error in the body is returned to
// the caller as part of result.
func (c *Client) Call(ctx context.Context, method string, params interface{}, result interface{}) error {
	body := map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  method,
		"params":  params,
	}

	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	var lastErr error
	backoff := c.retryBackoff

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			c.logger.WithFields(logrus.Fields{
				"attempt": attempt,
				"backoff": backoff,
				"method":  method,
			}).Debug("retrying RPC call")

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2 // exponential backoff
		}

		resp, err := c.doRequest(ctx, data)
		if err != nil {
			lastErr = err
			continue
		}

		if err := json.Unmarshal(resp, result); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}

		return nil
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

func (c *Client) doRequest(ctx context.Context, data []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL, bytes.NewBuffer(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	// Handle rate limiting
	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("rate limited (429)")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return body, nil
}

// GetLatestBlockhash fetches the most recent blockhash at commitment
// ("processed" when empty).
func (c *Client) GetLatestBlockhash(ctx context.Context, commitment string) (*Blockhash, error) {
	if commitment == "" {
		commitment = "processed"
	}
	params := []any{
		map[string]any{"commitment": commitment},
	}

	var resp BlockhashResponse
	if err := c.Call(ctx, "getLatestBlockhash", params, &resp); err != nil {
		return nil, fmt.Errorf("getLatestBlockhash RPC failed: %w", err)
	}
	if resp.Error != nil {
		return nil, resp.Error
	}

	hash, err := solana.HashFromBase58(resp.Result.Value.Blockhash)
	if err != nil {
		return nil, fmt.Errorf("invalid blockhash format: %w", err)
	}
	return &Blockhash{
		Hash:                 hash,
		LastValidBlockHeight: resp.Result.Value.LastValidBlockHeight,
	}, nil
}

// GetAccountInfo fetches an account with base64-encoded data.
func (c *Client) GetAccountInfo(ctx context.Context, pubkey solana.PublicKey, commitment string) (*AccountInfo, error) {
	opts := map[string]any{"encoding": "base64"}
	if commitment != "" {
		opts["commitment"] = commitment
	}
	params := []any{pubkey.String(), opts}

	var resp AccountInfoResponse
	if err := c.Call(ctx, "getAccountInfo", params, &resp); err != nil {
		return nil, fmt.Errorf("getAccountInfo RPC failed: %w", err)
	}
	if resp.Error != nil {
		return nil, resp.Error
	}
	if resp.Result.Value == nil {
		return nil, fmt.Errorf("%s: %w", pubkey, ErrAccountNotFound)
	}

	v := resp.Result.Value
	if len(v.Data) != 2 || v.Data[1] != "base64" {
		return nil, fmt.Errorf("getAccountInfo: unexpected data encoding %v", v.Data)
	}
	data, err := base64.StdEncoding.DecodeString(v.Data[0])
	if err != nil {
		return nil, fmt.Errorf("getAccountInfo: invalid base64 data: %w", err)
	}
	owner, err := solana.PublicKeyFromBase58(v.Owner)
	if err != nil {
		return nil, fmt.Errorf("getAccountInfo: invalid owner: %w", err)
	}

	return &AccountInfo{
		Lamports:   v.Lamports,
		Owner:      owner,
		Data:       data,
		Executable: v.Executable,
	}, nil
}

// SendTransaction submits a serialized, signed transaction and returns its
// signature.
func (c *Client) SendTransaction(ctx context.Context, raw []byte, opts SendOptions) (solana.Signature, error) {
	cfg := map[string]any{
		"encoding":      "base64",
		"skipPreflight": opts.SkipPreflight,
	}
	if opts.PreflightCommitment != "" {
		cfg["preflightCommitment"] = opts.PreflightCommitment
	}
	if opts.MaxRetries != nil {
		cfg["maxRetries"] = *opts.MaxRetries
	}
	params := []any{base64.StdEncoding.EncodeToString(raw), cfg}

	var resp SendTransactionResponse
	if err := c.Call(ctx, "sendTransaction", params, &resp); err != nil {
		return solana.Signature{}, fmt.Errorf("sendTransaction RPC failed: %w", err)
	}
	if resp.Error != nil {
		return solana.Signature{}, resp.Error
	}

	sig, err := solana.SignatureFromBase58(resp.Result)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("invalid signature in response: %w", err)
	}
	return sig, nil
}
