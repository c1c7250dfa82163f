package tokenswap

import (
	"github.com/egaotan/solana-tokenswap/u128"
	"github.com/holiman/uint256"
	"lukechampine.com/uint128"
)

// ConstantPriceCurve trades token B at a fixed price in token A.
type ConstantPriceCurve struct {
	TokenBPrice uint64
}

func (c ConstantPriceCurve) SwapWithoutFees(sourceAmount, swapSourceAmount, swapDestinationAmount uint128.Uint128, direction TradeDirection) (SwapWithoutFeesResult, error) {
	tokenBPrice := u128.From64(c.TokenBPrice)
	var sourceAmountSwapped, destinationAmountSwapped uint128.Uint128
	var err error
	switch direction {
	case BtoA:
		sourceAmountSwapped = sourceAmount
		if destinationAmountSwapped, err = u128.Mul(sourceAmount, tokenBPrice); err != nil {
			return SwapWithoutFeesResult{}, calcErr(err)
		}
	default:
		if destinationAmountSwapped, err = u128.Div(sourceAmount, tokenBPrice); err != nil {
			return SwapWithoutFeesResult{}, calcErr(err)
		}
		// only whole units of token B are bought, the remainder stays with the trader
		remainder, err := u128.Rem(sourceAmount, tokenBPrice)
		if err != nil {
			return SwapWithoutFeesResult{}, calcErr(err)
		}
		sourceAmountSwapped = sourceAmount.SubWrap(remainder)
	}
	if sourceAmountSwapped.IsZero() || destinationAmountSwapped.IsZero() {
		return SwapWithoutFeesResult{}, ErrZeroTradingTokens
	}
	newSwapSourceAmount, err := u128.Add(swapSourceAmount, sourceAmountSwapped)
	if err != nil {
		return SwapWithoutFeesResult{}, calcErr(err)
	}
	newSwapDestinationAmount, err := u128.Sub(swapDestinationAmount, destinationAmountSwapped)
	if err != nil {
		return SwapWithoutFeesResult{}, calcErr(err)
	}
	return SwapWithoutFeesResult{
		SourceAmountSwapped:      sourceAmountSwapped,
		DestinationAmountSwapped: destinationAmountSwapped,
		NewSwapSourceAmount:      newSwapSourceAmount,
		NewSwapDestinationAmount: newSwapDestinationAmount,
	}, nil
}

// totalValue is a + b * price, in token A.
func (c ConstantPriceCurve) totalValue(swapTokenAAmount, swapTokenBAmount uint128.Uint128) (*uint256.Int, error) {
	valueB, err := u128.Mul256(u128.Widen(swapTokenBAmount), uint256.NewInt(c.TokenBPrice))
	if err != nil {
		return nil, err
	}
	return u128.Add256(valueB, u128.Widen(swapTokenAAmount))
}

// tradingTokensToPoolTokens values the traded amount in token A and converts
// it to the matching share of the pool supply.
func (c ConstantPriceCurve) tradingTokensToPoolTokens(sourceAmount, swapTokenAAmount, swapTokenBAmount, poolSupply uint128.Uint128, direction TradeDirection, round RoundDirection) (uint128.Uint128, error) {
	givenValue := u128.Widen(sourceAmount)
	var err error
	if direction == BtoA {
		if givenValue, err = u128.Mul256(givenValue, uint256.NewInt(c.TokenBPrice)); err != nil {
			return u128.Zero, calcErr(err)
		}
	}
	totalValue, err := c.totalValue(swapTokenAAmount, swapTokenBAmount)
	if err != nil {
		return u128.Zero, calcErr(err)
	}
	numerator, err := u128.Mul256(u128.Widen(poolSupply), givenValue)
	if err != nil {
		return u128.Zero, calcErr(err)
	}
	var poolTokens *uint256.Int
	if round == Floor {
		poolTokens, err = u128.Div256(numerator, totalValue)
	} else {
		poolTokens, err = u128.CeilDiv256(numerator, totalValue)
	}
	if err != nil {
		return u128.Zero, calcErr(err)
	}
	amount, err := u128.Narrow(poolTokens)
	if err != nil {
		return u128.Zero, calcErr(err)
	}
	return amount, nil
}

func (c ConstantPriceCurve) DepositSingleTokenType(sourceAmount, swapTokenAAmount, swapTokenBAmount, poolSupply uint128.Uint128, direction TradeDirection) (uint128.Uint128, error) {
	return c.tradingTokensToPoolTokens(sourceAmount, swapTokenAAmount, swapTokenBAmount, poolSupply, direction, Floor)
}

func (c ConstantPriceCurve) WithdrawSingleTokenTypeExactOut(destinationAmount, swapTokenAAmount, swapTokenBAmount, poolSupply uint128.Uint128, direction TradeDirection) (uint128.Uint128, error) {
	return c.tradingTokensToPoolTokens(destinationAmount, swapTokenAAmount, swapTokenBAmount, poolSupply, direction, Ceiling)
}

func (c ConstantPriceCurve) PoolTokensToTradingTokens(poolTokens, poolTokenSupply, swapTokenAAmount, swapTokenBAmount uint128.Uint128, round RoundDirection) (TradingTokenResult, error) {
	value, err := c.NormalizedValue(swapTokenAAmount, swapTokenBAmount)
	if err != nil {
		return TradingTokenResult{}, err
	}
	poolValue, err := u128.Mul256(u128.Widen(poolTokens), u128.Widen(value))
	if err != nil {
		return TradingTokenResult{}, calcErr(err)
	}
	supply := u128.Widen(poolTokenSupply)
	price := uint256.NewInt(c.TokenBPrice)

	var tokenA, tokenB *uint256.Int
	if round == Floor {
		if tokenA, err = u128.Div256(poolValue, supply); err != nil {
			return TradingTokenResult{}, calcErr(err)
		}
		valueInB, err := u128.Div256(poolValue, price)
		if err != nil {
			return TradingTokenResult{}, calcErr(err)
		}
		if tokenB, err = u128.Div256(valueInB, supply); err != nil {
			return TradingTokenResult{}, calcErr(err)
		}
	} else {
		if tokenA, err = u128.CeilDiv256(poolValue, supply); err != nil {
			return TradingTokenResult{}, calcErr(err)
		}
		valueInB, err := u128.CeilDiv256(poolValue, price)
		if err != nil {
			return TradingTokenResult{}, calcErr(err)
		}
		if tokenB, err = u128.CeilDiv256(valueInB, supply); err != nil {
			return TradingTokenResult{}, calcErr(err)
		}
	}
	tokenAAmount, err := u128.Narrow(tokenA)
	if err != nil {
		return TradingTokenResult{}, calcErr(err)
	}
	tokenBAmount, err := u128.Narrow(tokenB)
	if err != nil {
		return TradingTokenResult{}, calcErr(err)
	}
	return TradingTokenResult{TokenAAmount: tokenAAmount, TokenBAmount: tokenBAmount}, nil
}

// NormalizedValue is half the pool value in token A.
func (c ConstantPriceCurve) NormalizedValue(swapTokenAAmount, swapTokenBAmount uint128.Uint128) (uint128.Uint128, error) {
	total, err := c.totalValue(swapTokenAAmount, swapTokenBAmount)
	if err != nil {
		return u128.Zero, calcErr(err)
	}
	value, err := u128.Narrow(new(uint256.Int).Rsh(total, 1))
	if err != nil {
		return u128.Zero, calcErr(err)
	}
	return value, nil
}

func (ConstantPriceCurve) NewPoolSupply() uint128.Uint128 {
	return newPoolSupply()
}

func (c ConstantPriceCurve) Validate() error {
	if c.TokenBPrice == 0 {
		return ErrInvalidCurve
	}
	return nil
}

func (ConstantPriceCurve) ValidateSupply(tokenAAmount, tokenBAmount uint64) error {
	return validateSupply(tokenAAmount, tokenBAmount)
}

func (ConstantPriceCurve) AllowsDeposits() bool {
	return true
}
