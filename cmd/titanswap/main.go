package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/aman-zulfiqar/titan-swap-client/internal/cache"
	"github.com/aman-zulfiqar/titan-swap-client/internal/config"
	"github.com/aman-zulfiqar/titan-swap-client/internal/constants"
	"github.com/aman-zulfiqar/titan-swap-client/internal/models"
	projectrpc "github.com/aman-zulfiqar/titan-swap-client/internal/rpc"
	"github.com/aman-zulfiqar/titan-swap-client/internal/titan"
	"github.com/aman-zulfiqar/titan-swap-client/internal/wallet"
	"github.com/gagliardetto/solana-go"
	"github.com/joho/godotenv"
	"github.com/mr-tron/base58"
	"github.com/sirupsen/logrus"
)

const (
	solMint  = constants.MintSOL
	usdcMint = constants.MintUSDC
)

type options struct {
	inputMint   solana.PublicKey
	outputMint  solana.PublicKey
	amount      uint64
	slippageBps uint16
	maxAccounts uint64
	mode        titan.SwapMode
	selector    titan.RouteSelector
	verbose     bool
}

func loadEnv(logger *logrus.Logger) {
	_, filename, _, _ := runtime.Caller(0)
	projectRoot := filepath.Join(filepath.Dir(filename), "../..")
	envPath := filepath.Join(projectRoot, ".env")

	if err := godotenv.Load(envPath); err != nil {
		logger.Debugf("no .env file found at %s, using system environment variables", envPath)
	} else {
		logger.Debugf("loaded .env from %s", envPath)
	}
}

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	logger.SetOutput(os.Stderr)

	loadEnv(logger)

	cfg := config.Load()
	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(lvl)
	}

	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		logger.WithError(err).Fatal("invalid arguments")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, opts, os.Stdout, logger); err != nil {
		logger.WithError(err).Fatal("titanswap failed")
	}
}

func parseFlags(args []string, errOut io.Writer) (*options, error) {
	fs := flag.NewFlagSet("titanswap", flag.ContinueOnError)
	fs.SetOutput(errOut)

	in := fs.String("in", solMint, "input mint")
	out := fs.String("out", usdcMint, "output mint")
	amount := fs.Uint64("amount", 100_000_000, "amount in base units of the input mint (output mint for ExactOut)")
	slippage := fs.Uint("slippage-bps", 50, "slippage tolerance in basis points")
	maxAccounts := fs.Uint64("max-accounts", 50, "account limit for the route, 0 for none")
	mode := fs.String("mode", "ExactIn", "ExactIn or ExactOut")
	selector := fs.String("select", "first", "route choice: first or best")
	verbose := fs.Bool("v", false, "print every instruction")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	o := &options{amount: *amount, maxAccounts: *maxAccounts, verbose: *verbose}
	var err error
	if o.inputMint, err = solana.PublicKeyFromBase58(*in); err != nil {
		return nil, fmt.Errorf("-in: %w", err)
	}
	if o.outputMint, err = solana.PublicKeyFromBase58(*out); err != nil {
		return nil, fmt.Errorf("-out: %w", err)
	}
	if *slippage > 10_000 {
		return nil, fmt.Errorf("-slippage-bps: %d is above 10000", *slippage)
	}
	o.slippageBps = uint16(*slippage)
	if o.mode, err = titan.ParseSwapMode(*mode); err != nil {
		return nil, fmt.Errorf("-mode: %w", err)
	}
	switch strings.ToLower(*selector) {
	case "first":
		o.selector = titan.FirstRoute
	case "best":
		o.selector = titan.BestOutAmount
	default:
		return nil, fmt.Errorf("-select: %q is not first or best", *selector)
	}
	return o, nil
}

func run(ctx context.Context, cfg *config.Config, o *options, stdout io.Writer, logger *logrus.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	user, err := solana.PublicKeyFromBase58(strings.TrimSpace(cfg.UserPubkey))
	if err != nil {
		return fmt.Errorf("USER_PUBKEY: %w", err)
	}

	var signer *wallet.Wallet
	if strings.TrimSpace(cfg.PrivateKey) != "" {
		rpcClient := projectrpc.NewClient(projectrpc.ClientConfig{
			BaseURL:      cfg.RPCUrl,
			Timeout:      cfg.HTTPTimeout,
			MaxRetries:   cfg.MaxRetries,
			RetryBackoff: cfg.RetryBackoff,
			Logger:       logger,
		})
		signer, err = wallet.NewWallet(wallet.WalletConfig{
			PrivateKey:     cfg.PrivateKey,
			ExpectedPubkey: user.String(),
			Logger:         logger,
		}, rpcClient)
		if err != nil {
			return err
		}
	}

	client, err := titan.NewClient(cfg.TitanAuthToken,
		titan.WithBaseURL(cfg.TitanBaseURL),
		titan.WithHTTPClient(newHTTPClient(cfg.HTTPTimeout)),
		titan.WithRouteSelector(o.selector),
		titan.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	req := &titan.QuoteRequest{
		InputMint:     o.inputMint,
		OutputMint:    o.outputMint,
		Amount:        o.amount,
		UserPublicKey: user,
		SwapMode:      &o.mode,
		SlippageBps:   o.slippageBps,
	}
	if o.maxAccounts > 0 {
		req.MaxAccounts = &o.maxAccounts
	}

	quote, err := client.Quote(ctx, req)
	if err != nil {
		return fmt.Errorf("quote: %w", err)
	}
	fmt.Fprintf(stdout, "Quote: %d -> %d (%d bps slippage, %s)\n",
		quote.InAmount, quote.OutAmount, quote.SlippageBps, plural(len(quote.RoutePlan), "step"))
	fmt.Fprintf(stdout, "  %s -> %s\n",
		constants.FormatAmount(quote.InputMint.String(), quote.InAmount),
		constants.FormatAmount(quote.OutputMint.String(), quote.OutAmount))
	for i, step := range quote.RoutePlan {
		fmt.Fprintf(stdout, "  %d. %-16s %d -> %d\n", i+1, step.SwapInfo.Label, step.SwapInfo.InAmount, step.SwapInfo.OutAmount)
	}

	publishQuote(ctx, cfg, quote, logger)

	swap, err := client.Swap(quote)
	if err != nil {
		return fmt.Errorf("swap: %w", err)
	}
	fmt.Fprintf(stdout, "Swap: %s, %d CU limit, %s\n",
		plural(len(swap.Instructions), "instruction"), swap.ComputeUnitLimit,
		plural(len(swap.AddressLookupTableAddresses), "ALT"))
	if o.verbose {
		for i, ix := range swap.Instructions {
			data, err := ix.Data()
			if err != nil {
				return fmt.Errorf("instruction %d data: %w", i, err)
			}
			program := ix.ProgramID().String()
			if name := constants.ProgramName(program); name != "" {
				program += " (" + name + ")"
			}
			fmt.Fprintf(stdout, "  ix %d: program %s, %d accounts, data %s\n",
				i, program, len(ix.Accounts()), base58.Encode(data))
		}
	}

	if !cfg.SendTx {
		fmt.Fprintln(stdout, "\nSet TITAN_SEND_TX=true to actually send the transaction")
		return nil
	}
	if signer == nil {
		return errors.New("PRIVATE_KEY is required to send")
	}

	fmt.Fprintln(stdout, "\nSending transaction...")
	sig, err := signer.Execute(ctx, swap)
	if err != nil {
		return fmt.Errorf("send: %w", err)
	}
	fmt.Fprintf(stdout, "\nTransaction sent: %s\n", sig)
	fmt.Fprintf(stdout, "Explorer: https://solscan.io/tx/%s\n", sig)
	return nil
}

// publishQuote is best effort; a Redis outage never fails the swap.
func publishQuote(ctx context.Context, cfg *config.Config, quote *titan.QuoteResponse, logger *logrus.Logger) {
	if cfg.RedisAddr == "" {
		return
	}
	pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	pub, err := cache.NewQuotePublisherFromAddr(pctx, cfg.RedisAddr, logger)
	if err != nil {
		logger.WithError(err).Warn("quote publishing disabled")
		return
	}
	defer pub.Close()

	ev := models.NewQuoteEvent(quote, time.Now())
	if err := pub.PublishQuote(pctx, ev); err != nil {
		logger.WithError(err).Warn("failed to publish quote")
	}
	if err := cache.NewQuoteCache(pub.Client(), cache.DefaultLatestTTL, logger).Store(pctx, ev); err != nil {
		logger.WithError(err).Warn("failed to cache quote")
	}
}

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = titan.DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
