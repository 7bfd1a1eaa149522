package constants

import (
	"strconv"
	"strings"
)

// Well-known mints
const (
	MintSOL  = "So11111111111111111111111111111111111111112"
	MintUSDC = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
	MintUSDT = "Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB"
)

// Redis Pub/Sub channels
const (
	PubSubChannelQuotes = "quotes:all"
	PubSubPairPrefix    = "quotes:pair:"
)

// DEX program addresses seen in routes
var ProgramAddresses = map[string]string{
	"Jupiter":       "JUP6LkbZbjS1jKKwapdHNy74zcZ3tLUZoi5QNyVTaV4",
	"Orca":          "9W959DqEETiGZocYWCQPaJ6sBmUzgfxXfqGeTEdp3aQP",
	"OrcaWhirlpool": "whirLbMiicVdio4qvUfM5KAg6Ct8VwpYzGff3uctyCc",
	"ComputeBudget": "ComputeBudget111111111111111111111111111111",
	"Memo":          "MemoSq4gqABAXKb96qnH8TysNcWxMyWCqXgDLGmfcHr",
}

// ProgramName returns the label for a known program id, or "" if unknown.
func ProgramName(id string) string {
	for name, addr := range ProgramAddresses {
		if addr == id {
			return name
		}
	}
	return ""
}

type Token struct {
	Symbol   string
	Decimals uint8
}

// Tokens maps mint addresses to display metadata.
var Tokens = map[string]Token{
	MintSOL:  {"SOL", 9},
	MintUSDC: {"USDC", 6},
	MintUSDT: {"USDT", 6},
	"mSoLzYCxHdYgdzU16g5QSh3i5K3z3KZK7ytfqcJm7So":  {"mSOL", 9},
	"7vfCXTUXx5WJV5JADk17DUJ4ksgau7utNKj4b963voxs": {"ETH", 8},
	"3NZ9JMVBmGAqocybic2c7LQCJScmgsAZ6vQqTDzcqmJh": {"BTC", 8},
	"DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263": {"BONK", 5},
	"JUPyiwrYJFskUPiHa7hkeR8VUtAeFoSYbKedZNsDvCN":  {"JUP", 6},
	"4k3Dyjzvzp8eMZWUXbBCjEvwSkkk59S5iCNLY3QrkX6R": {"RAY", 6},
}

// FormatAmount renders a base-unit amount of mint. Known mints get their
// decimals and symbol; anything else is printed raw.
func FormatAmount(mint string, amount uint64) string {
	tok, ok := Tokens[mint]
	if !ok {
		return strconv.FormatUint(amount, 10)
	}
	s := strconv.FormatUint(amount, 10)
	d := int(tok.Decimals)
	if d == 0 {
		return s + " " + tok.Symbol
	}
	if len(s) <= d {
		s = strings.Repeat("0", d-len(s)+1) + s
	}
	whole, frac := s[:len(s)-d], strings.TrimRight(s[len(s)-d:], "0")
	if frac == "" {
		return whole + " " + tok.Symbol
	}
	return whole + "." + frac + " " + tok.Symbol
}
