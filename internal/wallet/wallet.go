package wallet

import (
	"context"
	"crypto/ed25519"
	"encoding/json"
	"fmt"
	"strings"

	projectrpc "github.com/aman-zulfiqar/titan-swap-client/internal/rpc"
	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
	"github.com/sirupsen/logrus"
)

// RPC is the part of the Solana JSON-RPC API the wallet needs.
type RPC interface {
	GetLatestBlockhash(ctx context.Context, commitment string) (*projectrpc.Blockhash, error)
	GetAccountInfo(ctx context.Context, pubkey solana.PublicKey, commitment string) (*projectrpc.AccountInfo, error)
	SendTransaction(ctx context.Context, raw []byte, opts projectrpc.SendOptions) (solana.Signature, error)
}

type WalletConfig struct {
	PrivateKey string // base58-encoded 64-byte key OR solana-keygen JSON array

	// ExpectedPubkey, when set, must match the key derived from PrivateKey.
	ExpectedPubkey string

	DefaultCommitment string // e.g. "confirmed"
	SendOptions       *projectrpc.SendOptions
	Logger            *logrus.Logger
}

type Wallet struct {
	cfg    WalletConfig
	rpc    RPC
	priv   solana.PrivateKey
	pub    solana.PublicKey
	logger *logrus.Logger
}

func NewWallet(cfg WalletConfig, rpc RPC) (*Wallet, error) {
	if rpc == nil {
		return nil, fmt.Errorf("wallet: rpc client is required")
	}
	if cfg.DefaultCommitment == "" {
		cfg.DefaultCommitment = "confirmed"
	}
	if cfg.SendOptions == nil {
		opts := projectrpc.DefaultSendOptions()
		cfg.SendOptions = &opts
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	if strings.TrimSpace(cfg.PrivateKey) == "" {
		return nil, fmt.Errorf("wallet: PrivateKey is required")
	}

	priv, err := ParsePrivateKey(cfg.PrivateKey)
	if err != nil {
		return nil, err
	}
	pub := priv.PublicKey()

	if want := strings.TrimSpace(cfg.ExpectedPubkey); want != "" {
		expected, err := solana.PublicKeyFromBase58(want)
		if err != nil {
			return nil, fmt.Errorf("wallet: invalid expected public key: %w", err)
		}
		if !expected.Equals(pub) {
			return nil, fmt.Errorf("wallet: private key is for %s, expected %s", pub, expected)
		}
	}

	return &Wallet{
		cfg:    cfg,
		rpc:    rpc,
		priv:   priv,
		pub:    pub,
		logger: cfg.Logger,
	}, nil
}

func (w *Wallet) Address() string             { return w.pub.String() }
func (w *Wallet) PublicKey() solana.PublicKey { return w.pub }

// ParsePrivateKey accepts a base58 string or a solana-keygen JSON byte array.
func ParsePrivateKey(s string) (solana.PrivateKey, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "[") {
		var ints []int
		if err := json.Unmarshal([]byte(s), &ints); err != nil {
			return nil, fmt.Errorf("wallet: invalid JSON private key: %w", err)
		}
		b := make([]byte, len(ints))
		for i, v := range ints {
			if v < 0 || v > 255 {
				return nil, fmt.Errorf("wallet: invalid byte at %d: %d", i, v)
			}
			b[i] = byte(v)
		}
		if len(b) != ed25519.PrivateKeySize {
			return nil, fmt.Errorf("wallet: expected %d bytes, got %d", ed25519.PrivateKeySize, len(b))
		}
		return solana.PrivateKey(ed25519.PrivateKey(b)), nil
	}

	raw, err := base58.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("wallet: invalid base58 private key: %w", err)
	}
	if len(raw) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("wallet: expected %d bytes, got %d", ed25519.PrivateKeySize, len(raw))
	}
	return solana.PrivateKey(ed25519.PrivateKey(raw)), nil
}
