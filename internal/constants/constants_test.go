package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		mint   string
		amount uint64
		want   string
	}{
		{MintSOL, 100_000_000, "0.1 SOL"},
		{MintSOL, 1_000_000_000, "1 SOL"},
		{MintSOL, 1, "0.000000001 SOL"},
		{MintSOL, 0, "0 SOL"},
		{MintUSDC, 15_230_000, "15.23 USDC"},
		{MintUSDC, 123_456_789_012, "123456.789012 USDC"},
		{"unknown", 42, "42"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatAmount(tt.mint, tt.amount))
	}
}

func TestProgramName(t *testing.T) {
	assert.Equal(t, "Memo", ProgramName("MemoSq4gqABAXKb96qnH8TysNcWxMyWCqXgDLGmfcHr"))
	assert.Equal(t, "", ProgramName("11111111111111111111111111111111"))
}
