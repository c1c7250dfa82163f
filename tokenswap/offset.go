package tokenswap

import (
	"github.com/egaotan/solana-tokenswap/u128"
	"lukechampine.com/uint128"
)

// OffsetCurve is a constant product curve where token B carries a virtual
// balance of TokenBOffset on top of the real reserve.
type OffsetCurve struct {
	TokenBOffset uint64
}

func (c OffsetCurve) withOffset(swapTokenBAmount uint128.Uint128) (uint128.Uint128, error) {
	amount, err := u128.Add(swapTokenBAmount, u128.From64(c.TokenBOffset))
	if err != nil {
		return u128.Zero, calcErr(err)
	}
	return amount, nil
}

func (c OffsetCurve) SwapWithoutFees(sourceAmount, swapSourceAmount, swapDestinationAmount uint128.Uint128, direction TradeDirection) (SwapWithoutFeesResult, error) {
	virtualSource, virtualDestination := swapSourceAmount, swapDestinationAmount
	var err error
	if direction == AtoB {
		virtualDestination, err = c.withOffset(swapDestinationAmount)
	} else {
		virtualSource, err = c.withOffset(swapSourceAmount)
	}
	if err != nil {
		return SwapWithoutFeesResult{}, err
	}
	result, err := swapConstantProduct(sourceAmount, virtualSource, virtualDestination)
	if err != nil {
		return SwapWithoutFeesResult{}, err
	}
	// the virtual balance can price a trade but never be paid out
	if result.NewSwapSourceAmount, err = u128.Add(swapSourceAmount, result.SourceAmountSwapped); err != nil {
		return SwapWithoutFeesResult{}, calcErr(err)
	}
	if result.NewSwapDestinationAmount, err = u128.Sub(swapDestinationAmount, result.DestinationAmountSwapped); err != nil {
		return SwapWithoutFeesResult{}, calcErr(err)
	}
	return result, nil
}

func (c OffsetCurve) DepositSingleTokenType(sourceAmount, swapTokenAAmount, swapTokenBAmount, poolSupply uint128.Uint128, direction TradeDirection) (uint128.Uint128, error) {
	swapTokenBAmount, err := c.withOffset(swapTokenBAmount)
	if err != nil {
		return u128.Zero, err
	}
	return depositSingleTokenTypeConstantProduct(sourceAmount, swapTokenAAmount, swapTokenBAmount, poolSupply, direction, Floor)
}

func (c OffsetCurve) WithdrawSingleTokenTypeExactOut(destinationAmount, swapTokenAAmount, swapTokenBAmount, poolSupply uint128.Uint128, direction TradeDirection) (uint128.Uint128, error) {
	swapTokenBAmount, err := c.withOffset(swapTokenBAmount)
	if err != nil {
		return u128.Zero, err
	}
	return withdrawSingleTokenTypeConstantProduct(destinationAmount, swapTokenAAmount, swapTokenBAmount, poolSupply, direction, Ceiling)
}

func (c OffsetCurve) PoolTokensToTradingTokens(poolTokens, poolTokenSupply, swapTokenAAmount, swapTokenBAmount uint128.Uint128, round RoundDirection) (TradingTokenResult, error) {
	swapTokenBAmount, err := c.withOffset(swapTokenBAmount)
	if err != nil {
		return TradingTokenResult{}, err
	}
	return poolTokensToTradingTokens(poolTokens, poolTokenSupply, swapTokenAAmount, swapTokenBAmount, round)
}

func (c OffsetCurve) NormalizedValue(swapTokenAAmount, swapTokenBAmount uint128.Uint128) (uint128.Uint128, error) {
	swapTokenBAmount, err := c.withOffset(swapTokenBAmount)
	if err != nil {
		return u128.Zero, err
	}
	return normalizedValueConstantProduct(swapTokenAAmount, swapTokenBAmount)
}

func (OffsetCurve) NewPoolSupply() uint128.Uint128 {
	return newPoolSupply()
}

func (c OffsetCurve) Validate() error {
	if c.TokenBOffset == 0 {
		return ErrInvalidCurve
	}
	return nil
}

// ValidateSupply only requires token A, token B may start empty.
func (OffsetCurve) ValidateSupply(tokenAAmount, _ uint64) error {
	if tokenAAmount == 0 {
		return ErrEmptySupply
	}
	return nil
}

// AllowsDeposits is false, only the pool creator funds an offset pool.
func (OffsetCurve) AllowsDeposits() bool {
	return false
}
