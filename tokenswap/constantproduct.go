package tokenswap

import (
	"github.com/egaotan/solana-tokenswap/u128"
	"github.com/holiman/uint256"
	"lukechampine.com/uint128"
)

// precision scales the single-sided deposit/withdraw square roots so the
// floor of the root loses less than one pool token.
var precision = uint256.NewInt(1_000_000_000_000)

// ConstantProductCurve keeps reserve_a * reserve_b constant.
type ConstantProductCurve struct{}

func swapConstantProduct(sourceAmount, swapSourceAmount, swapDestinationAmount uint128.Uint128) (SwapWithoutFeesResult, error) {
	invariant, err := u128.Mul(swapSourceAmount, swapDestinationAmount)
	if err != nil {
		return SwapWithoutFeesResult{}, calcErr(err)
	}
	newSwapSourceAmount, err := u128.Add(swapSourceAmount, sourceAmount)
	if err != nil {
		return SwapWithoutFeesResult{}, calcErr(err)
	}
	newSwapDestinationAmount, err := u128.Div(invariant, newSwapSourceAmount)
	if err != nil {
		return SwapWithoutFeesResult{}, calcErr(err)
	}
	destinationAmountSwapped, err := u128.Sub(swapDestinationAmount, newSwapDestinationAmount)
	if err != nil {
		return SwapWithoutFeesResult{}, calcErr(err)
	}
	return SwapWithoutFeesResult{
		SourceAmountSwapped:      sourceAmount,
		DestinationAmountSwapped: destinationAmountSwapped,
		NewSwapSourceAmount:      newSwapSourceAmount,
		NewSwapDestinationAmount: newSwapDestinationAmount,
	}, nil
}

// poolTokensToTradingTokens splits pool tokens proportionally over both reserves.
func poolTokensToTradingTokens(poolTokens, poolTokenSupply, swapTokenAAmount, swapTokenBAmount uint128.Uint128, round RoundDirection) (TradingTokenResult, error) {
	tokenAAmount, err := proportionalAmount(poolTokens, poolTokenSupply, swapTokenAAmount, round)
	if err != nil {
		return TradingTokenResult{}, err
	}
	tokenBAmount, err := proportionalAmount(poolTokens, poolTokenSupply, swapTokenBAmount, round)
	if err != nil {
		return TradingTokenResult{}, err
	}
	return TradingTokenResult{TokenAAmount: tokenAAmount, TokenBAmount: tokenBAmount}, nil
}

func proportionalAmount(poolTokens, poolTokenSupply, swapTokenAmount uint128.Uint128, round RoundDirection) (uint128.Uint128, error) {
	product, err := u128.Mul(poolTokens, swapTokenAmount)
	if err != nil {
		return u128.Zero, calcErr(err)
	}
	amount, err := u128.Div(product, poolTokenSupply)
	if err != nil {
		return u128.Zero, calcErr(err)
	}
	// zero amounts stay zero so tiny pool token amounts never round up into tokens
	if round == Floor || amount.IsZero() {
		return amount, nil
	}
	if amount, err = u128.CeilDiv(product, poolTokenSupply); err != nil {
		return u128.Zero, calcErr(err)
	}
	return amount, nil
}

// singleSidedPoolTokens returns supply * |sqrt(R*R') - R| / R for a reserve
// moving from R to R'.
func singleSidedPoolTokens(swapSourceAmount, newSwapSourceAmount, poolSupply uint128.Uint128, round RoundDirection) (uint128.Uint128, error) {
	reserve, err := u128.Mul256(u128.Widen(swapSourceAmount), precision)
	if err != nil {
		return u128.Zero, calcErr(err)
	}
	radicand, err := u128.Mul256(reserve, u128.Widen(newSwapSourceAmount))
	if err != nil {
		return u128.Zero, calcErr(err)
	}
	if radicand, err = u128.Mul256(radicand, precision); err != nil {
		return u128.Zero, calcErr(err)
	}
	root, err := u128.Sqrt256(radicand)
	if err != nil {
		return u128.Zero, calcErr(err)
	}
	var diff *uint256.Int
	if root.Lt(reserve) {
		diff, err = u128.Sub256(reserve, root)
	} else {
		diff, err = u128.Sub256(root, reserve)
	}
	if err != nil {
		return u128.Zero, calcErr(err)
	}
	numerator, err := u128.Mul256(u128.Widen(poolSupply), diff)
	if err != nil {
		return u128.Zero, calcErr(err)
	}
	var poolTokens *uint256.Int
	if round == Floor {
		poolTokens, err = u128.Div256(numerator, reserve)
	} else {
		poolTokens, err = u128.CeilDiv256(numerator, reserve)
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

func depositSingleTokenTypeConstantProduct(sourceAmount, swapTokenAAmount, swapTokenBAmount, poolSupply uint128.Uint128, direction TradeDirection, round RoundDirection) (uint128.Uint128, error) {
	if sourceAmount.IsZero() {
		return u128.Zero, nil
	}
	swapSourceAmount, _ := orient(swapTokenAAmount, swapTokenBAmount, direction)
	newSwapSourceAmount, err := u128.Add(swapSourceAmount, sourceAmount)
	if err != nil {
		return u128.Zero, calcErr(err)
	}
	return singleSidedPoolTokens(swapSourceAmount, newSwapSourceAmount, poolSupply, round)
}

func withdrawSingleTokenTypeConstantProduct(destinationAmount, swapTokenAAmount, swapTokenBAmount, poolSupply uint128.Uint128, direction TradeDirection, round RoundDirection) (uint128.Uint128, error) {
	if destinationAmount.IsZero() {
		return u128.Zero, nil
	}
	swapDestinationAmount, _ := orient(swapTokenAAmount, swapTokenBAmount, direction)
	newSwapDestinationAmount, err := u128.Sub(swapDestinationAmount, destinationAmount)
	if err != nil {
		return u128.Zero, calcErr(err)
	}
	return singleSidedPoolTokens(swapDestinationAmount, newSwapDestinationAmount, poolSupply, round)
}

func normalizedValueConstantProduct(swapTokenAAmount, swapTokenBAmount uint128.Uint128) (uint128.Uint128, error) {
	product, err := u128.Mul(swapTokenAAmount, swapTokenBAmount)
	if err != nil {
		return u128.Zero, calcErr(err)
	}
	value, err := u128.Sqrt(product)
	if err != nil {
		return u128.Zero, calcErr(err)
	}
	return value, nil
}

func (ConstantProductCurve) SwapWithoutFees(sourceAmount, swapSourceAmount, swapDestinationAmount uint128.Uint128, _ TradeDirection) (SwapWithoutFeesResult, error) {
	return swapConstantProduct(sourceAmount, swapSourceAmount, swapDestinationAmount)
}

func (ConstantProductCurve) DepositSingleTokenType(sourceAmount, swapTokenAAmount, swapTokenBAmount, poolSupply uint128.Uint128, direction TradeDirection) (uint128.Uint128, error) {
	return depositSingleTokenTypeConstantProduct(sourceAmount, swapTokenAAmount, swapTokenBAmount, poolSupply, direction, Floor)
}

func (ConstantProductCurve) WithdrawSingleTokenTypeExactOut(destinationAmount, swapTokenAAmount, swapTokenBAmount, poolSupply uint128.Uint128, direction TradeDirection) (uint128.Uint128, error) {
	return withdrawSingleTokenTypeConstantProduct(destinationAmount, swapTokenAAmount, swapTokenBAmount, poolSupply, direction, Ceiling)
}

func (ConstantProductCurve) PoolTokensToTradingTokens(poolTokens, poolTokenSupply, swapTokenAAmount, swapTokenBAmount uint128.Uint128, round RoundDirection) (TradingTokenResult, error) {
	return poolTokensToTradingTokens(poolTokens, poolTokenSupply, swapTokenAAmount, swapTokenBAmount, round)
}

func (ConstantProductCurve) NormalizedValue(swapTokenAAmount, swapTokenBAmount uint128.Uint128) (uint128.Uint128, error) {
	return normalizedValueConstantProduct(swapTokenAAmount, swapTokenBAmount)
}

func (ConstantProductCurve) NewPoolSupply() uint128.Uint128 {
	return newPoolSupply()
}

func (ConstantProductCurve) Validate() error {
	return nil
}

func (ConstantProductCurve) ValidateSupply(tokenAAmount, tokenBAmount uint64) error {
	return validateSupply(tokenAAmount, tokenBAmount)
}

func (ConstantProductCurve) AllowsDeposits() bool {
	return true
}
