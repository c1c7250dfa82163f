package tokenswap

import (
	"github.com/egaotan/solana-tokenswap/u128"
	"github.com/holiman/uint256"
	"lukechampine.com/uint128"
)

const (
	MinAmp = 1
	MaxAmp = 1_000_000

	nCoins        = 2
	nCoinsSquared = 4

	// computeD starts at a + b and needs more than 32 steps to come down on
	// pools skewed by many orders of magnitude; every u64 reserve pair that
	// converges does so within 64. When one reserve is only a few units the
	// +1 in (amount * n + 1) moves the fixed point off the Newton root and
	// the estimate cycles, so those pools report ErrCalculationFailure.
	invariantIterations = 128
	// the destination solve starts at the quadratic root and only corrects
	// rounding
	stableIterations = 32
)

// StableCurve is the StableSwap invariant with amplification coefficient Amp.
type StableCurve struct {
	Amp uint64
}

func (c StableCurve) leverage() (uint64, error) {
	if c.Amp == 0 {
		return 0, ErrInvalidCurve
	}
	if c.Amp > ^uint64(0)/nCoins {
		return 0, calcErr(u128.ErrOverflow)
	}
	return c.Amp * nCoins, nil
}

// converged reports whether two successive estimates differ by at most one.
func converged(current, previous *uint256.Int) bool {
	var diff uint256.Int
	if current.Lt(previous) {
		diff.Sub(previous, current)
	} else {
		diff.Sub(current, previous)
	}
	return !diff.GtUint64(1)
}

// calculateStep is one Newton iteration for D:
// d = (leverage * sum_x + d_p * n) * d / ((leverage - 1) * d + (n + 1) * d_p)
func calculateStep(d *uint256.Int, leverage uint64, sumX, dProduct *uint256.Int) (*uint256.Int, error) {
	leverageMul, err := u128.Mul256(uint256.NewInt(leverage), sumX)
	if err != nil {
		return nil, err
	}
	dPMul, err := u128.Mul256(dProduct, uint256.NewInt(nCoins))
	if err != nil {
		return nil, err
	}
	lVal, err := u128.Add256(leverageMul, dPMul)
	if err != nil {
		return nil, err
	}
	if lVal, err = u128.Mul256(lVal, d); err != nil {
		return nil, err
	}
	leverageSub, err := u128.Mul256(d, uint256.NewInt(leverage-1))
	if err != nil {
		return nil, err
	}
	nCoinsSum, err := u128.Mul256(dProduct, uint256.NewInt(nCoins+1))
	if err != nil {
		return nil, err
	}
	rVal, err := u128.Add256(leverageSub, nCoinsSum)
	if err != nil {
		return nil, err
	}
	return u128.Div256(lVal, rVal)
}

// computeD solves the StableSwap invariant for D by Newton's method.
func computeD(leverage uint64, amountA, amountB uint128.Uint128) (uint128.Uint128, error) {
	sumX, err := u128.Add(amountA, amountB)
	if err != nil {
		return u128.Zero, calcErr(err)
	}
	if sumX.IsZero() {
		return u128.Zero, nil
	}
	one := uint256.NewInt(1)
	two := uint256.NewInt(nCoins)
	amountATimesCoins := new(uint256.Int).Add(new(uint256.Int).Mul(u128.Widen(amountA), two), one)
	amountBTimesCoins := new(uint256.Int).Add(new(uint256.Int).Mul(u128.Widen(amountB), two), one)

	sum := u128.Widen(sumX)
	d := u128.Widen(sumX)
	for i := 0; i < invariantIterations; i++ {
		dProduct, err := u128.Mul256(d, d)
		if err != nil {
			return u128.Zero, calcErr(err)
		}
		if dProduct, err = u128.Div256(dProduct, amountATimesCoins); err != nil {
			return u128.Zero, calcErr(err)
		}
		if dProduct, err = u128.Mul256(dProduct, d); err != nil {
			return u128.Zero, calcErr(err)
		}
		if dProduct, err = u128.Div256(dProduct, amountBTimesCoins); err != nil {
			return u128.Zero, calcErr(err)
		}
		previous := d
		if d, err = calculateStep(d, leverage, sum, dProduct); err != nil {
			return u128.Zero, calcErr(err)
		}
		if converged(d, previous) {
			result, err := u128.Narrow(d)
			if err != nil {
				return u128.Zero, calcErr(err)
			}
			return result, nil
		}
	}
	return u128.Zero, ErrCalculationFailure
}

// computeNewDestinationAmount solves y^2 + (b - D) * y = c for the destination
// reserve y, with
//
//	c = D^3 / (n^2 * x * leverage)
//	b = x + D / leverage
//
// The Newton iteration starts from the root of the quadratic evaluated with
// the integer square root, so it only has to absorb rounding.
func computeNewDestinationAmount(leverage uint64, newSourceAmount, dVal uint128.Uint128) (uint128.Uint128, error) {
	lev := uint256.NewInt(leverage)
	x := u128.Widen(newSourceAmount)
	d := u128.Widen(dVal)

	dCubed, err := u128.Mul256(d, d)
	if err != nil {
		return u128.Zero, calcErr(err)
	}
	if dCubed, err = u128.Mul256(dCubed, d); err != nil {
		return u128.Zero, calcErr(err)
	}
	denominator, err := u128.Mul256(x, uint256.NewInt(nCoinsSquared))
	if err != nil {
		return u128.Zero, calcErr(err)
	}
	if denominator, err = u128.Mul256(denominator, lev); err != nil {
		return u128.Zero, calcErr(err)
	}
	c, err := u128.Div256(dCubed, denominator)
	if err != nil {
		return u128.Zero, calcErr(err)
	}
	dOverLeverage, err := u128.Div256(d, lev)
	if err != nil {
		return u128.Zero, calcErr(err)
	}
	b, err := u128.Add256(x, dOverLeverage)
	if err != nil {
		return u128.Zero, calcErr(err)
	}

	y, err := initialDestinationEstimate(b, c, d)
	if err != nil {
		return u128.Zero, calcErr(err)
	}
	for i := 0; i < stableIterations; i++ {
		numerator, err := u128.Mul256(y, y)
		if err != nil {
			return u128.Zero, calcErr(err)
		}
		if numerator, err = u128.Add256(numerator, c); err != nil {
			return u128.Zero, calcErr(err)
		}
		slope, err := u128.Mul256(y, uint256.NewInt(2))
		if err != nil {
			return u128.Zero, calcErr(err)
		}
		if slope, err = u128.Add256(slope, b); err != nil {
			return u128.Zero, calcErr(err)
		}
		if slope, err = u128.Sub256(slope, d); err != nil {
			return u128.Zero, calcErr(err)
		}
		previous := y
		if y, err = u128.Div256(numerator, slope); err != nil {
			return u128.Zero, calcErr(err)
		}
		if converged(y, previous) {
			result, err := u128.Narrow(y)
			if err != nil {
				return u128.Zero, calcErr(err)
			}
			return result, nil
		}
	}
	return u128.Zero, ErrCalculationFailure
}

// initialDestinationEstimate returns a value at or just above the positive
// root of y^2 + (b - D) * y - c.
func initialDestinationEstimate(b, c, d *uint256.Int) (*uint256.Int, error) {
	negative := b.Lt(d)
	var k *uint256.Int
	var err error
	if negative {
		k, err = u128.Sub256(d, b)
	} else {
		k, err = u128.Sub256(b, d)
	}
	if err != nil {
		return nil, err
	}
	discriminant, err := u128.Mul256(k, k)
	if err != nil {
		return nil, err
	}
	fourC, err := u128.Mul256(c, uint256.NewInt(4))
	if err != nil {
		return nil, err
	}
	if discriminant, err = u128.Add256(discriminant, fourC); err != nil {
		return nil, err
	}
	root, err := u128.Sqrt256(discriminant)
	if err != nil {
		return nil, err
	}
	// floor(sqrt) can be one short of the real root
	if root, err = u128.Add256(root, uint256.NewInt(1)); err != nil {
		return nil, err
	}
	var twiceY *uint256.Int
	if negative {
		twiceY, err = u128.Add256(k, root)
	} else {
		twiceY, err = u128.Sub256(root, k)
	}
	if err != nil {
		return nil, err
	}
	return u128.CeilDiv256(twiceY, uint256.NewInt(2))
}

func (c StableCurve) SwapWithoutFees(sourceAmount, swapSourceAmount, swapDestinationAmount uint128.Uint128, _ TradeDirection) (SwapWithoutFeesResult, error) {
	if sourceAmount.IsZero() {
		return SwapWithoutFeesResult{
			NewSwapSourceAmount:      swapSourceAmount,
			NewSwapDestinationAmount: swapDestinationAmount,
		}, nil
	}
	leverage, err := c.leverage()
	if err != nil {
		return SwapWithoutFeesResult{}, err
	}
	d, err := computeD(leverage, swapSourceAmount, swapDestinationAmount)
	if err != nil {
		return SwapWithoutFeesResult{}, err
	}
	newSwapSourceAmount, err := u128.Add(swapSourceAmount, sourceAmount)
	if err != nil {
		return SwapWithoutFeesResult{}, calcErr(err)
	}
	newSwapDestinationAmount, err := computeNewDestinationAmount(leverage, newSwapSourceAmount, d)
	if err != nil {
		return SwapWithoutFeesResult{}, err
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

// invariantShare returns supply * |d1 - d0| / d0 where d1 is D after the
// source-side reserve moves to updatedAmount.
func (c StableCurve) invariantShare(swapTokenAAmount, swapTokenBAmount, updatedAmount, poolSupply uint128.Uint128, direction TradeDirection, round RoundDirection) (uint128.Uint128, error) {
	leverage, err := c.leverage()
	if err != nil {
		return u128.Zero, err
	}
	d0, err := computeD(leverage, swapTokenAAmount, swapTokenBAmount)
	if err != nil {
		return u128.Zero, err
	}
	_, otherAmount := orient(swapTokenAAmount, swapTokenBAmount, direction)
	d1, err := computeD(leverage, updatedAmount, otherAmount)
	if err != nil {
		return u128.Zero, err
	}
	var diff uint128.Uint128
	if d1.Cmp(d0) >= 0 {
		diff = d1.Sub(d0)
	} else {
		diff = d0.Sub(d1)
	}
	numerator, err := u128.Mul256(u128.Widen(diff), u128.Widen(poolSupply))
	if err != nil {
		return u128.Zero, calcErr(err)
	}
	var share *uint256.Int
	if round == Floor {
		share, err = u128.Div256(numerator, u128.Widen(d0))
	} else {
		share, err = u128.CeilDiv256(numerator, u128.Widen(d0))
	}
	if err != nil {
		return u128.Zero, calcErr(err)
	}
	amount, err := u128.Narrow(share)
	if err != nil {
		return u128.Zero, calcErr(err)
	}
	return amount, nil
}

func (c StableCurve) DepositSingleTokenType(sourceAmount, swapTokenAAmount, swapTokenBAmount, poolSupply uint128.Uint128, direction TradeDirection) (uint128.Uint128, error) {
	if sourceAmount.IsZero() {
		return u128.Zero, nil
	}
	depositTokenAmount, _ := orient(swapTokenAAmount, swapTokenBAmount, direction)
	updated, err := u128.Add(depositTokenAmount, sourceAmount)
	if err != nil {
		return u128.Zero, calcErr(err)
	}
	return c.invariantShare(swapTokenAAmount, swapTokenBAmount, updated, poolSupply, direction, Floor)
}

func (c StableCurve) WithdrawSingleTokenTypeExactOut(destinationAmount, swapTokenAAmount, swapTokenBAmount, poolSupply uint128.Uint128, direction TradeDirection) (uint128.Uint128, error) {
	if destinationAmount.IsZero() {
		return u128.Zero, nil
	}
	withdrawTokenAmount, _ := orient(swapTokenAAmount, swapTokenBAmount, direction)
	updated, err := u128.Sub(withdrawTokenAmount, destinationAmount)
	if err != nil {
		return u128.Zero, calcErr(err)
	}
	return c.invariantShare(swapTokenAAmount, swapTokenBAmount, updated, poolSupply, direction, Ceiling)
}

func (StableCurve) PoolTokensToTradingTokens(poolTokens, poolTokenSupply, swapTokenAAmount, swapTokenBAmount uint128.Uint128, round RoundDirection) (TradingTokenResult, error) {
	return poolTokensToTradingTokens(poolTokens, poolTokenSupply, swapTokenAAmount, swapTokenBAmount, round)
}

// NormalizedValue is the invariant D.
func (c StableCurve) NormalizedValue(swapTokenAAmount, swapTokenBAmount uint128.Uint128) (uint128.Uint128, error) {
	leverage, err := c.leverage()
	if err != nil {
		return u128.Zero, err
	}
	return computeD(leverage, swapTokenAAmount, swapTokenBAmount)
}

func (StableCurve) NewPoolSupply() uint128.Uint128 {
	return newPoolSupply()
}

func (c StableCurve) Validate() error {
	if c.Amp < MinAmp || c.Amp > MaxAmp {
		return ErrInvalidCurve
	}
	return nil
}

func (StableCurve) ValidateSupply(tokenAAmount, tokenBAmount uint64) error {
	return validateSupply(tokenAAmount, tokenBAmount)
}

func (StableCurve) AllowsDeposits() bool {
	return true
}
