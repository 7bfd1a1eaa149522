package main

import (
	"bytes"
	"context"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/aman-zulfiqar/titan-swap-client/internal/config"
	"github.com/aman-zulfiqar/titan-swap-client/internal/stub"
	"github.com/aman-zulfiqar/titan-swap-client/internal/titan"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUser = "9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM"

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestParseFlags_Defaults(t *testing.T) {
	o, err := parseFlags(nil, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, solMint, o.inputMint.String())
	assert.Equal(t, usdcMint, o.outputMint.String())
	assert.Equal(t, uint64(100_000_000), o.amount)
	assert.Equal(t, uint16(50), o.slippageBps)
	assert.Equal(t, uint64(50), o.maxAccounts)
	assert.Equal(t, titan.ExactIn, o.mode)
}

func TestParseFlags_Rejects(t *testing.T) {
	for _, args := range [][]string{
		{"-in", "not-a-key"},
		{"-mode", "exactin"},
		{"-slippage-bps", "10001"},
		{"-select", "random"},
		{"-amount", "-5"},
	} {
		_, err := parseFlags(args, io.Discard)
		assert.Error(t, err, "args %v", args)
	}
}

func TestRun_AgainstStub(t *testing.T) {
	s, err := stub.NewServer(stub.ServerDeps{
		Source: stub.SyntheticSource{OutPerIn: 0.25, Label: "StubAMM"},
		Config: stub.ServerConfig{AuthToken: "tok"},
		Logger: quietLogger(),
	})
	require.NoError(t, err)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	cfg := &config.Config{
		TitanAuthToken: "tok",
		TitanBaseURL:   srv.URL,
		UserPubkey:     testUser,
	}
	o, err := parseFlags([]string{"-amount", "1000", "-v"}, io.Discard)
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), cfg, o, &out, quietLogger()))

	text := out.String()
	assert.Contains(t, text, "Quote: 1000 -> 250 (50 bps slippage, 1 step)")
	assert.Contains(t, text, "0.000001 SOL -> 0.00025 USDC")
	assert.Contains(t, text, "StubAMM")
	assert.Contains(t, text, "Swap: 1 instruction, 60000 CU limit, 0 ALTs")
	assert.Contains(t, text, "ix 0: program MemoSq4gqABAXKb96qnH8TysNcWxMyWCqXgDLGmfcHr")
	assert.Contains(t, text, "Set TITAN_SEND_TX=true")
}

func TestRun_NoRoutes(t *testing.T) {
	s, err := stub.NewServer(stub.ServerDeps{
		Source: stub.NewStaticSource(&titan.SwapQuotes{ID: "none"}),
		Logger: quietLogger(),
	})
	require.NoError(t, err)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	cfg := &config.Config{TitanAuthToken: "tok", TitanBaseURL: srv.URL, UserPubkey: testUser}
	o, err := parseFlags(nil, io.Discard)
	require.NoError(t, err)

	err = run(context.Background(), cfg, o, io.Discard, quietLogger())
	assert.ErrorIs(t, err, titan.ErrNoRoutesAvailable)
}

func TestRun_InvalidConfig(t *testing.T) {
	o, err := parseFlags(nil, io.Discard)
	require.NoError(t, err)

	assert.Error(t, run(context.Background(), &config.Config{TitanBaseURL: "http://x"}, o, io.Discard, quietLogger()))
	assert.Error(t, run(context.Background(), &config.Config{
		TitanAuthToken: "tok", TitanBaseURL: "http://x", UserPubkey: "bad",
	}, o, io.Discard, quietLogger()))
}

func TestPlural(t *testing.T) {
	assert.Equal(t, "1 step", plural(1, "step"))
	assert.Equal(t, "0 ALTs", plural(0, "ALT"))
	assert.Equal(t, "3 instructions", plural(3, "instruction"))
}
