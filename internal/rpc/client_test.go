package rpc

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rpcRequest struct {
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
}

func newTestClient(t *testing.T, handler func(req rpcRequest) (int, string)) (*Client, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		body, _ := io.ReadAll(r.Body)
		var req rpcRequest
		require.NoError(t, json.Unmarshal(body, &req))
		status, out := handler(req)
		w.WriteHeader(status)
		_, _ = io.WriteString(w, out)
	}))
	t.Cleanup(srv.Close)

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewClient(ClientConfig{
		BaseURL:      srv.URL,
		Timeout:      time.Second,
		MaxRetries:   2,
		RetryBackoff: time.Millisecond,
		Logger:       logger,
	}), &calls
}

func TestGetLatestBlockhash(t *testing.T) {
	hash := solana.HashFromBytes(make([]byte, 32))
	c, _ := newTestClient(t, func(req rpcRequest) (int, string) {
		assert.Equal(t, "getLatestBlockhash", req.Method)
		assert.JSONEq(t, `{"commitment":"processed"}`, string(req.Params[0]))
		return 200, `{"jsonrpc":"2.0","id":1,"result":{"context":{"slot":1},"value":{"blockhash":"` +
			hash.String() + `","lastValidBlockHeight":99}}}`
	})

	bh, err := c.GetLatestBlockhash(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, hash, bh.Hash)
	assert.Equal(t, uint64(99), bh.LastValidBlockHeight)
}

func TestCall_RetriesServerErrors(t *testing.T) {
	var n int32
	c, calls := newTestClient(t, func(req rpcRequest) (int, string) {
		if atomic.AddInt32(&n, 1) < 3 {
			return http.StatusTooManyRequests, ""
		}
		return 200, `{"result":"` + solana.Signature{}.String() + `"}`
	})

	_, err := c.SendTransaction(context.Background(), []byte{1, 2, 3}, DefaultSendOptions())
	require.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(calls))
}

func TestCall_GivesUpAfterMaxRetries(t *testing.T) {
	c, calls := newTestClient(t, func(req rpcRequest) (int, string) {
		return http.StatusBadGateway, ""
	})

	_, err := c.GetLatestBlockhash(context.Background(), "confirmed")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max retries exceeded")
	assert.Equal(t, int32(3), atomic.LoadInt32(calls))
}

func TestGetAccountInfo(t *testing.T) {
	owner := solana.MustPublicKeyFromBase58("AddressLookupTab1e1111111111111111111111111")
	payload := []byte{1, 2, 3, 4}
	c, _ := newTestClient(t, func(req rpcRequest) (int, string) {
		assert.Equal(t, "getAccountInfo", req.Method)
		return 200, `{"result":{"value":{"lamports":5,"owner":"` + owner.String() +
			`","data":["` + base64.StdEncoding.EncodeToString(payload) + `","base64"],"executable":false}}}`
	})

	info, err := c.GetAccountInfo(context.Background(), solana.PublicKey{}, "confirmed")
	require.NoError(t, err)
	assert.Equal(t, uint64(5), info.Lamports)
	assert.Equal(t, owner, info.Owner)
	assert.Equal(t, payload, info.Data)
}

func TestGetAccountInfo_Missing(t *testing.T) {
	c, _ := newTestClient(t, func(req rpcRequest) (int, string) {
		return 200, `{"result":{"value":null}}`
	})
	_, err := c.GetAccountInfo(context.Background(), solana.PublicKey{}, "")
	assert.True(t, errors.Is(err, ErrAccountNotFound))
}

func TestSendTransaction(t *testing.T) {
	raw := []byte{9, 8, 7}
	c, calls := newTestClient(t, func(req rpcRequest) (int, string) {
		assert.Equal(t, "sendTransaction", req.Method)
		var encoded string
		require.NoError(t, json.Unmarshal(req.Params[0], &encoded))
		assert.Equal(t, base64.StdEncoding.EncodeToString(raw), encoded)
		assert.JSONEq(t, `{"encoding":"base64","skipPreflight":false,"preflightCommitment":"processed","maxRetries":3}`,
			string(req.Params[1]))
		return 200, `{"error":{"code":-32002,"message":"Blockhash not found"}}`
	})

	_, err := c.SendTransaction(context.Background(), raw, DefaultSendOptions())
	var rpcErr *RPCError
	require.True(t, errors.As(err, &rpcErr))
	assert.Equal(t, -32002, rpcErr.Code)
	// JSON-RPC errors are not retried.
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}
