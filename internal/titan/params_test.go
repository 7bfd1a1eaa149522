package titan

import (
	"net/url"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paramKeys(params []Param) []string {
	keys := make([]string, len(params))
	for i, p := range params {
		keys[i] = p.Key
	}
	return keys
}

func TestQueryParams_RequiredOnly(t *testing.T) {
	req := testRequest()
	req.SlippageBps = 0

	params := QueryParams(req)
	assert.Equal(t, []Param{
		{"inputMint", "So11111111111111111111111111111111111111112"},
		{"outputMint", "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"},
		{"amount", "100000000"},
		{"userPublicKey", "9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM"},
	}, params)
}

func TestQueryParams_AllOptionalInOrder(t *testing.T) {
	mode := ExactOut
	direct := true
	dexes := "Whirlpool,Phoenix"
	providers := "titan,metis"
	req := testRequest()
	req.MaxAccounts = u64(50)
	req.SwapMode = &mode
	req.SlippageBps = 75
	req.OnlyDirectRoutes = &direct
	req.ExcludedDexes = &dexes
	req.SizeConstraint = u64(1232)
	req.AccountsLimitWritable = u64(24)
	req.Providers = &providers

	params := QueryParams(req)
	assert.Equal(t, []string{
		"inputMint", "outputMint", "amount", "userPublicKey",
		"accountsLimitTotal", "swapMode", "slippageBps", "onlyDirectRoutes",
		"excludeDexes", "sizeConstraint", "accountsLimitWritable", "providers",
	}, paramKeys(params))

	byKey := map[string]string{}
	for _, p := range params {
		byKey[p.Key] = p.Value
	}
	assert.Equal(t, "50", byKey["accountsLimitTotal"])
	assert.Equal(t, "ExactOut", byKey["swapMode"])
	assert.Equal(t, "75", byKey["slippageBps"])
	assert.Equal(t, "true", byKey["onlyDirectRoutes"])
	assert.Equal(t, "Whirlpool,Phoenix", byKey["excludeDexes"])
	assert.Equal(t, "1232", byKey["sizeConstraint"])
	assert.Equal(t, "24", byKey["accountsLimitWritable"])
	assert.Equal(t, "titan,metis", byKey["providers"])
}

func TestQueryParams_Slippage(t *testing.T) {
	tests := []struct {
		bps     uint16
		present bool
		value   string
	}{
		{0, false, ""},
		{1, true, "1"},
		{50, true, "50"},
		{10_000, true, "10000"},
		{65_535, true, "65535"},
	}
	for _, tt := range tests {
		req := testRequest()
		req.SlippageBps = tt.bps
		var got *Param
		for _, p := range QueryParams(req) {
			if p.Key == "slippageBps" {
				p := p
				got = &p
			}
		}
		if !tt.present {
			assert.Nil(t, got, "bps %d", tt.bps)
			continue
		}
		require.NotNil(t, got, "bps %d", tt.bps)
		assert.Equal(t, tt.value, got.Value)
	}
}

func TestQueryParams_SwapModeTokens(t *testing.T) {
	for _, mode := range []SwapMode{ExactIn, ExactOut} {
		m := mode
		req := testRequest()
		req.SwapMode = &m
		var got string
		for _, p := range QueryParams(req) {
			if p.Key == "swapMode" {
				got = p.Value
			}
		}
		parsed, err := ParseSwapMode(got)
		require.NoError(t, err)
		assert.Equal(t, mode, parsed)
	}
}

func TestQueryParams_InvalidSwapModeOmitted(t *testing.T) {
	req := testRequest()
	bad := SwapMode(5)
	req.SwapMode = &bad
	assert.NotContains(t, paramKeys(QueryParams(req)), "swapMode")
	assert.NotContains(t, EncodeQuery(QueryParams(req)), "SwapMode(")
}

func TestQueryParams_AddressMatchesWireBytes(t *testing.T) {
	// The string form sent in the query and the 32 bytes that come back on
	// the wire describe the same address.
	req := testRequest()
	params := QueryParams(req)

	raw := [32]byte(mintA)
	fromWire := solana.PublicKey(raw)
	assert.Equal(t, params[0].Value, fromWire.String())

	parsed, err := solana.PublicKeyFromBase58(params[0].Value)
	require.NoError(t, err)
	assert.Equal(t, raw, [32]byte(parsed))
}

func TestEncodeQuery_KeepsOrderAndEscapes(t *testing.T) {
	q := EncodeQuery([]Param{
		{"outputMint", "B"},
		{"amount", "10"},
		{"excludeDexes", "Raydium CLMM,Orca"},
	})
	assert.Equal(t, "outputMint=B&amount=10&excludeDexes=Raydium+CLMM%2COrca", q)

	values, err := url.ParseQuery(q)
	require.NoError(t, err)
	assert.Equal(t, "Raydium CLMM,Orca", values.Get("excludeDexes"))
}
