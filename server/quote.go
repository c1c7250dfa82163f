package server

import (
	"errors"
	"net/http"

	"github.com/egaotan/solana-tokenswap/backend"
	"github.com/egaotan/solana-tokenswap/store"
	"github.com/egaotan/solana-tokenswap/tokenswap"
	"github.com/egaotan/solana-tokenswap/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	OperationSwap     = "swap"
	OperationDeposit  = "deposit"
	OperationWithdraw = "withdraw"
)

var errInvalidMode = errors.New("mode must be all or single")

// statusOf maps a quoting error onto a response code. Anything the curve
// rejects is reported as unprocessable.
func statusOf(err error) int {
	switch {
	case errors.Is(err, tokenswap.ErrExceededSlippage),
		errors.Is(err, tokenswap.ErrZeroTradingTokens),
		errors.Is(err, tokenswap.ErrUnsupportedCurveOperation),
		errors.Is(err, tokenswap.ErrCalculationFailure),
		errors.Is(err, tokenswap.ErrConversionFailure),
		errors.Is(err, tokenswap.ErrUnsupportedCurveType),
		errors.Is(err, tokenswap.ErrInvalidFee):
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadRequest
}

func (server *Server) fail(c *gin.Context, status int, err error) {
	id := c.GetString(RequestIdHeader)
	server.logger.Info("quote rejected", zap.String("request_id", id), zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(status, &ErrorResponse{RequestId: id, Error: err.Error()})
}

func (server *Server) record(quote *store.Quote) {
	if server.sink != nil {
		server.sink.StoreQuote(quote)
	}
}

func (server *Server) quoteSwap(c *gin.Context) {
	var request SwapRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		server.fail(c, http.StatusBadRequest, err)
		return
	}
	direction, err := parseDirection(request.Direction)
	if err != nil {
		server.fail(c, http.StatusBadRequest, err)
		return
	}
	state, ok := server.pool(c, request.Pool)
	if !ok {
		return
	}
	quote, err := state.Pool.Swap(request.AmountIn, request.MinimumAmountOut, direction)
	if err != nil {
		server.fail(c, statusOf(err), err)
		return
	}
	inDecimals, outDecimals := state.DecimalsA, state.DecimalsB
	if direction == tokenswap.BtoA {
		inDecimals, outDecimals = outDecimals, inDecimals
	}
	response := &SwapResponse{
		RequestId:   c.GetString(RequestIdHeader),
		Pool:        request.Pool,
		Slot:        state.Height,
		Direction:   direction.String(),
		AmountIn:    quote.AmountIn,
		AmountOut:   quote.AmountOut,
		UiAmountIn:  utils.UiAmount(quote.AmountIn, inDecimals),
		UiAmountOut: utils.UiAmount(quote.AmountOut, outDecimals),
		TradeFee:    quote.TradeFee,
		OwnerFee:    quote.OwnerFee,
		NewReserveA: quote.NewReserveA,
		NewReserveB: quote.NewReserveB,
		PriceImpact: priceImpact(state, quote),
	}
	server.record(&store.Quote{
		RequestId: response.RequestId,
		Pool:      response.Pool,
		Operation: OperationSwap,
		Direction: response.Direction,
		AmountIn:  quote.AmountIn,
		AmountOut: quote.AmountOut,
		TradeFee:  quote.TradeFee,
		OwnerFee:  quote.OwnerFee,
		Slot:      state.Height,
	})
	c.JSON(http.StatusOK, response)
}

func (server *Server) quoteDeposit(c *gin.Context) {
	server.quoteLiquidity(c, OperationDeposit)
}

func (server *Server) quoteWithdraw(c *gin.Context) {
	server.quoteLiquidity(c, OperationWithdraw)
}

func liquidity(state *backend.PoolState, operation string, request *LiquidityRequest) (*tokenswap.LiquidityQuote, error) {
	direction, err := parseDirection(request.Direction)
	if err != nil {
		return nil, err
	}
	pool := state.Pool
	switch {
	case request.Mode == ModeAll && operation == OperationDeposit:
		return pool.DepositAllTokenTypes(request.PoolTokenAmount, request.TokenALimit, request.TokenBLimit)
	case request.Mode == ModeAll:
		return pool.WithdrawAllTokenTypes(request.PoolTokenAmount, request.TokenALimit, request.TokenBLimit)
	case request.Mode == ModeSingle && operation == OperationDeposit:
		return pool.DepositSingleTokenTypeExactAmountIn(request.TokenAmount, request.PoolTokenLimit, direction)
	case request.Mode == ModeSingle:
		return pool.WithdrawSingleTokenTypeExactAmountOut(request.TokenAmount, request.PoolTokenLimit, direction)
	}
	return nil, errInvalidMode
}

func (server *Server) quoteLiquidity(c *gin.Context, operation string) {
	request := LiquidityRequest{Mode: ModeAll}
	if err := c.ShouldBindJSON(&request); err != nil {
		server.fail(c, http.StatusBadRequest, err)
		return
	}
	state, ok := server.pool(c, request.Pool)
	if !ok {
		return
	}
	quote, err := liquidity(state, operation, &request)
	if err != nil {
		server.fail(c, statusOf(err), err)
		return
	}
	response := &LiquidityResponse{
		RequestId:       c.GetString(RequestIdHeader),
		Pool:            request.Pool,
		Slot:            state.Height,
		Mode:            request.Mode,
		PoolTokenAmount: quote.PoolTokenAmount,
		TokenAAmount:    quote.TokenAAmount,
		TokenBAmount:    quote.TokenBAmount,
		NewReserveA:     quote.NewReserveA,
		NewReserveB:     quote.NewReserveB,
		NewPoolSupply:   quote.NewPoolSupply,
	}
	record := &store.Quote{
		RequestId:       response.RequestId,
		Pool:            response.Pool,
		Operation:       operation + "_" + request.Mode,
		PoolTokenAmount: quote.PoolTokenAmount,
		TokenAAmount:    quote.TokenAAmount,
		TokenBAmount:    quote.TokenBAmount,
		Slot:            state.Height,
	}
	server.record(record)
	c.JSON(http.StatusOK, response)
}
