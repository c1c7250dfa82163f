package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/egaotan/solana-tokenswap/backend"
	"github.com/egaotan/solana-tokenswap/store"
	"github.com/egaotan/solana-tokenswap/tokenswap"
	"github.com/gagliardetto/solana-go"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingSink struct {
	quotes []*store.Quote
}

func (s *recordingSink) StoreQuote(quote *store.Quote) {
	s.quotes = append(s.quotes, quote)
}

var poolAddress = solana.MustPublicKeyFromBase58("9W959DqEETiGZocYWCQPaJ6sBmUzgfxXfqGeTEdp3aQP")

func newTestServer(t *testing.T) (*gin.Engine, *recordingSink) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	swap := tokenswap.SwapV1{
		IsInitialized: true,
		Fees:          tokenswap.Fees{TradeFeeNumerator: 25, TradeFeeDenominator: 10000},
		SwapCurve:     tokenswap.NewConstantProductCurve(),
	}
	registry := backend.NewRegistry(nil, nil, nil)
	registry.Put(&backend.PoolState{
		Address:   poolAddress,
		Kind:      "tokenswap",
		Height:    12,
		DecimalsA: 6,
		DecimalsB: 6,
		Swap:      tokenswap.NewSwapVersion(swap),
		Pool:      swap.Pool(1000000, 1000000, 1000000000),
	})
	sink := &recordingSink{}
	return NewServer(registry, sink, ":0", zap.NewNop()).Router(), sink
}

func do(t *testing.T, router *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	out := map[string]interface{}{}
	if w.Body.Len() > 0 && w.Body.Bytes()[0] == '{' {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	}
	return w, out
}

func TestPools(t *testing.T) {
	router, _ := newTestServer(t)

	w, _ := do(t, router, http.MethodGet, "/api/pools", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var views []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &views))
	require.Len(t, views, 1)
	assert.Equal(t, "constant_product", views[0]["curve_type"])
	assert.Equal(t, "1", views[0]["price"])

	w, view := do(t, router, http.MethodGet, "/api/pools/"+poolAddress.String(), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1000000000), view["pool_supply"])

	w, _ = do(t, router, http.MethodGet, "/api/pools/nope", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w, _ = do(t, router, http.MethodGet, "/api/pools/"+solana.TokenProgramID.String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestQuoteSwap(t *testing.T) {
	router, sink := newTestServer(t)

	w, out := do(t, router, http.MethodPost, "/api/quote/swap", &SwapRequest{Pool: poolAddress.String(), AmountIn: 10000})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, float64(9877), out["amount_out"])
	assert.Equal(t, float64(25), out["trade_fee"])
	assert.Equal(t, "0.01", out["ui_amount_in"])
	assert.Equal(t, "a_to_b", out["direction"])

	id := w.Header().Get(RequestIdHeader)
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, id, out["request_id"])
	require.Len(t, sink.quotes, 1)
	assert.Equal(t, id, sink.quotes[0].RequestId)
	assert.Equal(t, OperationSwap, sink.quotes[0].Operation)

	w, out = do(t, router, http.MethodPost, "/api/quote/swap", &SwapRequest{Pool: poolAddress.String(), AmountIn: 10000, MinimumAmountOut: 9878, Direction: "b_to_a"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, out["error"], "slippage")

	w, _ = do(t, router, http.MethodPost, "/api/quote/swap", &SwapRequest{Pool: poolAddress.String(), AmountIn: 10, Direction: "up"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w, _ = do(t, router, http.MethodPost, "/api/quote/swap", map[string]interface{}{"amount_in": 10})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Len(t, sink.quotes, 1)
}

func TestQuoteMintsRequestId(t *testing.T) {
	router, sink := newTestServer(t)
	client := uuid.NewString()
	data, err := json.Marshal(&SwapRequest{Pool: poolAddress.String(), AmountIn: 10000})
	require.NoError(t, err)

	var ids []string
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/quote/swap", bytes.NewReader(data))
		req.Header.Set(RequestIdHeader, client)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		ids = append(ids, w.Header().Get(RequestIdHeader))
	}
	assert.NotEqual(t, client, ids[0])
	assert.NotEqual(t, ids[0], ids[1])
	require.Len(t, sink.quotes, 2)
	assert.Equal(t, ids[0], sink.quotes[0].RequestId)
	assert.Equal(t, ids[1], sink.quotes[1].RequestId)
}

func TestQuoteLiquidity(t *testing.T) {
	router, sink := newTestServer(t)
	pool := poolAddress.String()

	w, out := do(t, router, http.MethodPost, "/api/quote/deposit", &LiquidityRequest{Pool: pool, Mode: ModeAll, PoolTokenAmount: 100000000, TokenALimit: 100000, TokenBLimit: 100000})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, float64(100000), out["token_a_amount"])
	assert.Equal(t, float64(1100000000), out["new_pool_supply"])

	w, out = do(t, router, http.MethodPost, "/api/quote/deposit", &LiquidityRequest{Pool: pool, Mode: ModeSingle, TokenAmount: 1000000})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, float64(413771551), out["pool_token_amount"])

	w, out = do(t, router, http.MethodPost, "/api/quote/withdraw", &LiquidityRequest{Pool: pool, Mode: ModeSingle, TokenAmount: 500000, PoolTokenLimit: 292451416, Direction: "b_to_a"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, float64(292451416), out["pool_token_amount"])
	assert.Equal(t, float64(500000), out["token_b_amount"])

	w, _ = do(t, router, http.MethodPost, "/api/quote/withdraw", &LiquidityRequest{Pool: pool, Mode: ModeAll, PoolTokenAmount: 100000000, TokenALimit: 100001})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w, _ = do(t, router, http.MethodPost, "/api/quote/withdraw", &LiquidityRequest{Pool: pool, Mode: "half"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	require.Len(t, sink.quotes, 3)
	assert.Equal(t, "deposit_all", sink.quotes[0].Operation)
	assert.Equal(t, "withdraw_single", sink.quotes[2].Operation)
}
