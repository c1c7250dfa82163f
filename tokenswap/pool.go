package tokenswap

import (
	"fmt"

	"github.com/egaotan/solana-tokenswap/u128"
	"lukechampine.com/uint128"
)

// OwnerFeeSchedule is implemented by fee schedules that route part of the
// trading fee out of the pool instead of leaving it in the source reserve.
type OwnerFeeSchedule interface {
	OwnerFee(tradingTokens uint128.Uint128) (uint128.Uint128, error)
}

// Pool is a snapshot of a pool's reserves and pool token supply together with
// its curve and fees. Direction arguments name the touched side for the
// single sided flows: AtoB for token A, BtoA for token B.
type Pool struct {
	Curve      SwapCurve
	Fees       FeeSchedule
	ReserveA   uint64
	ReserveB   uint64
	PoolSupply uint64
}

type SwapQuote struct {
	Direction TradeDirection
	// AmountIn is what the trader pays, trade fee included.
	AmountIn    uint64
	AmountOut   uint64
	TradeFee    uint64
	OwnerFee    uint64
	NewReserveA uint64
	NewReserveB uint64
}

// LiquidityQuote describes a deposit or a withdrawal.
type LiquidityQuote struct {
	PoolTokenAmount uint64
	TokenAAmount    uint64
	TokenBAmount    uint64
	NewReserveA     uint64
	NewReserveB     uint64
	NewPoolSupply   uint64
}

func toU64(v uint128.Uint128) (uint64, error) {
	n, err := u128.ToU64(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrConversionFailure, err)
	}
	return n, nil
}

// NewPool validates a pool at creation and mints the initial pool supply.
func NewPool(curve SwapCurve, fees FeeSchedule, reserveA, reserveB uint64) (*Pool, error) {
	if err := fees.Validate(); err != nil {
		return nil, err
	}
	if err := curve.Validate(); err != nil {
		return nil, err
	}
	if err := curve.ValidateSupply(reserveA, reserveB); err != nil {
		return nil, err
	}
	supply, err := toU64(curve.NewPoolSupply())
	if err != nil {
		return nil, err
	}
	return &Pool{Curve: curve, Fees: fees, ReserveA: reserveA, ReserveB: reserveB, PoolSupply: supply}, nil
}

func (p *Pool) orient(direction TradeDirection) (uint64, uint64) {
	if direction == AtoB {
		return p.ReserveA, p.ReserveB
	}
	return p.ReserveB, p.ReserveA
}

func (p *Pool) reserves(source, other uint64, direction TradeDirection) (uint64, uint64) {
	if direction == AtoB {
		return source, other
	}
	return other, source
}

// NormalizedValue is the curve's value of the current reserves.
func (p *Pool) NormalizedValue() (uint128.Uint128, error) {
	return p.Curve.NormalizedValue(u128.From64(p.ReserveA), u128.From64(p.ReserveB))
}

func (p *Pool) Swap(amountIn, minimumAmountOut uint64, direction TradeDirection) (*SwapQuote, error) {
	swapSource, swapDestination := p.orient(direction)
	result, err := p.Curve.Swap(u128.From64(amountIn), u128.From64(swapSource), u128.From64(swapDestination), direction, p.Fees)
	if err != nil {
		return nil, err
	}
	amountOut, err := toU64(result.DestinationAmount)
	if err != nil {
		return nil, err
	}
	if amountOut == 0 {
		return nil, ErrZeroTradingTokens
	}
	if amountOut < minimumAmountOut {
		return nil, fmt.Errorf("%w: out %d, minimum %d", ErrExceededSlippage, amountOut, minimumAmountOut)
	}
	paid, err := u128.Add(result.SourceAmountSwapped, result.TradeFee)
	if err != nil {
		return nil, calcErr(err)
	}
	newSource := result.NewSwapSourceAmount
	ownerFee := u128.Zero
	if schedule, ok := p.Fees.(OwnerFeeSchedule); ok {
		if ownerFee, err = schedule.OwnerFee(u128.From64(amountIn)); err != nil {
			return nil, err
		}
		if newSource, err = u128.Sub(newSource, ownerFee); err != nil {
			return nil, calcErr(err)
		}
	}
	quote := &SwapQuote{Direction: direction, AmountOut: amountOut}
	if quote.AmountIn, err = toU64(paid); err != nil {
		return nil, err
	}
	if quote.TradeFee, err = toU64(result.TradeFee); err != nil {
		return nil, err
	}
	if quote.OwnerFee, err = toU64(ownerFee); err != nil {
		return nil, err
	}
	newSourceReserve, err := toU64(newSource)
	if err != nil {
		return nil, err
	}
	newDestinationReserve, err := toU64(result.NewSwapDestinationAmount)
	if err != nil {
		return nil, err
	}
	quote.NewReserveA, quote.NewReserveB = p.reserves(newSourceReserve, newDestinationReserve, direction)
	return quote, nil
}

// DepositAllTokenTypes prices poolTokenAmount in both tokens, rounding up.
// An empty pool mints the curve's initial supply instead.
func (p *Pool) DepositAllTokenTypes(poolTokenAmount, maximumTokenA, maximumTokenB uint64) (*LiquidityQuote, error) {
	if !p.Curve.AllowsDeposits() {
		return nil, ErrUnsupportedCurveOperation
	}
	tokens, supply := u128.From64(poolTokenAmount), u128.From64(p.PoolSupply)
	if supply.IsZero() {
		tokens = p.Curve.NewPoolSupply()
		supply = tokens
	}
	results, err := p.Curve.PoolTokensToTradingTokens(tokens, supply, u128.From64(p.ReserveA), u128.From64(p.ReserveB), Ceiling)
	if err != nil {
		return nil, err
	}
	tokenA, err := toU64(results.TokenAAmount)
	if err != nil {
		return nil, err
	}
	if tokenA > maximumTokenA {
		return nil, fmt.Errorf("%w: token a %d, maximum %d", ErrExceededSlippage, tokenA, maximumTokenA)
	}
	if tokenA == 0 {
		return nil, ErrZeroTradingTokens
	}
	tokenB, err := toU64(results.TokenBAmount)
	if err != nil {
		return nil, err
	}
	if tokenB > maximumTokenB {
		return nil, fmt.Errorf("%w: token b %d, maximum %d", ErrExceededSlippage, tokenB, maximumTokenB)
	}
	if tokenB == 0 {
		return nil, ErrZeroTradingTokens
	}
	return p.liquidityQuote(tokens, tokenA, tokenB, true)
}

// WithdrawAllTokenTypes prices poolTokenAmount in both tokens, rounding down
// and never past the reserves.
func (p *Pool) WithdrawAllTokenTypes(poolTokenAmount, minimumTokenA, minimumTokenB uint64) (*LiquidityQuote, error) {
	tokens := u128.From64(poolTokenAmount)
	results, err := p.Curve.PoolTokensToTradingTokens(tokens, u128.From64(p.PoolSupply), u128.From64(p.ReserveA), u128.From64(p.ReserveB), Floor)
	if err != nil {
		return nil, err
	}
	tokenA, err := toU64(u128.Min(results.TokenAAmount, u128.From64(p.ReserveA)))
	if err != nil {
		return nil, err
	}
	if tokenA < minimumTokenA {
		return nil, fmt.Errorf("%w: token a %d, minimum %d", ErrExceededSlippage, tokenA, minimumTokenA)
	}
	if tokenA == 0 && p.ReserveA != 0 {
		return nil, ErrZeroTradingTokens
	}
	tokenB, err := toU64(u128.Min(results.TokenBAmount, u128.From64(p.ReserveB)))
	if err != nil {
		return nil, err
	}
	if tokenB < minimumTokenB {
		return nil, fmt.Errorf("%w: token b %d, minimum %d", ErrExceededSlippage, tokenB, minimumTokenB)
	}
	if tokenB == 0 && p.ReserveB != 0 {
		return nil, ErrZeroTradingTokens
	}
	return p.liquidityQuote(tokens, tokenA, tokenB, false)
}

func (p *Pool) DepositSingleTokenTypeExactAmountIn(sourceAmount, minimumPoolTokenAmount uint64, direction TradeDirection) (*LiquidityQuote, error) {
	if !p.Curve.AllowsDeposits() {
		return nil, ErrUnsupportedCurveOperation
	}
	tokens := p.Curve.NewPoolSupply()
	if p.PoolSupply > 0 {
		var err error
		tokens, err = p.Curve.DepositSingleTokenType(u128.From64(sourceAmount), u128.From64(p.ReserveA), u128.From64(p.ReserveB),
			u128.From64(p.PoolSupply), direction, p.Fees)
		if err != nil {
			return nil, err
		}
	}
	poolTokenAmount, err := toU64(tokens)
	if err != nil {
		return nil, err
	}
	if poolTokenAmount < minimumPoolTokenAmount {
		return nil, fmt.Errorf("%w: pool tokens %d, minimum %d", ErrExceededSlippage, poolTokenAmount, minimumPoolTokenAmount)
	}
	if poolTokenAmount == 0 {
		return nil, ErrZeroTradingTokens
	}
	tokenA, tokenB := p.reserves(sourceAmount, 0, direction)
	return p.liquidityQuote(tokens, tokenA, tokenB, true)
}

func (p *Pool) WithdrawSingleTokenTypeExactAmountOut(destinationAmount, maximumPoolTokenAmount uint64, direction TradeDirection) (*LiquidityQuote, error) {
	tokens, err := p.Curve.WithdrawSingleTokenTypeExactOut(u128.From64(destinationAmount), u128.From64(p.ReserveA), u128.From64(p.ReserveB),
		u128.From64(p.PoolSupply), direction, p.Fees)
	if err != nil {
		return nil, err
	}
	poolTokenAmount, err := toU64(tokens)
	if err != nil {
		return nil, err
	}
	if poolTokenAmount > maximumPoolTokenAmount {
		return nil, fmt.Errorf("%w: pool tokens %d, maximum %d", ErrExceededSlippage, poolTokenAmount, maximumPoolTokenAmount)
	}
	if poolTokenAmount == 0 {
		return nil, ErrZeroTradingTokens
	}
	tokenA, tokenB := p.reserves(destinationAmount, 0, direction)
	return p.liquidityQuote(tokens, tokenA, tokenB, false)
}

func (p *Pool) liquidityQuote(poolTokens uint128.Uint128, tokenA, tokenB uint64, deposit bool) (*LiquidityQuote, error) {
	poolTokenAmount, err := toU64(poolTokens)
	if err != nil {
		return nil, err
	}
	reserveA, reserveB, supply := u128.From64(p.ReserveA), u128.From64(p.ReserveB), u128.From64(p.PoolSupply)
	amountA, amountB := u128.From64(tokenA), u128.From64(tokenB)
	if deposit {
		reserveA, err = u128.Add(reserveA, amountA)
		if err == nil {
			reserveB, err = u128.Add(reserveB, amountB)
		}
		if err == nil {
			supply, err = u128.Add(supply, poolTokens)
		}
	} else {
		reserveA, err = u128.Sub(reserveA, amountA)
		if err == nil {
			reserveB, err = u128.Sub(reserveB, amountB)
		}
		if err == nil {
			supply, err = u128.Sub(supply, poolTokens)
		}
	}
	if err != nil {
		return nil, calcErr(err)
	}
	quote := &LiquidityQuote{PoolTokenAmount: poolTokenAmount, TokenAAmount: tokenA, TokenBAmount: tokenB}
	if quote.NewReserveA, err = toU64(reserveA); err != nil {
		return nil, err
	}
	if quote.NewReserveB, err = toU64(reserveB); err != nil {
		return nil, err
	}
	if quote.NewPoolSupply, err = toU64(supply); err != nil {
		return nil, err
	}
	return quote, nil
}
