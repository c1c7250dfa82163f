package tokenswap

import (
	"fmt"

	"github.com/egaotan/solana-tokenswap/u128"
	bin "github.com/gagliardetto/binary"
	"lukechampine.com/uint128"
)

// SwapCurve is a closed union over the curve variants. CurveType selects the
// live parameter set, the other parameter fields stay zero.
type SwapCurve struct {
	CurveType     CurveType
	ConstantPrice ConstantPriceCurve
	Stable        StableCurve
	Offset        OffsetCurve
}

func NewConstantProductCurve() SwapCurve {
	return SwapCurve{CurveType: ConstantProduct}
}

func NewConstantPriceCurve(tokenBPrice uint64) SwapCurve {
	return SwapCurve{CurveType: ConstantPrice, ConstantPrice: ConstantPriceCurve{TokenBPrice: tokenBPrice}}
}

func NewStableCurve(amp uint64) SwapCurve {
	return SwapCurve{CurveType: Stable, Stable: StableCurve{Amp: amp}}
}

func NewOffsetCurve(tokenBOffset uint64) SwapCurve {
	return SwapCurve{CurveType: Offset, Offset: OffsetCurve{TokenBOffset: tokenBOffset}}
}

// NewSwapCurve builds the curve for curveType with its single parameter
// (price, amp or offset). The parameter is ignored for ConstantProduct.
func NewSwapCurve(curveType CurveType, parameter uint64) (SwapCurve, error) {
	switch curveType {
	case ConstantProduct:
		return NewConstantProductCurve(), nil
	case ConstantPrice:
		return NewConstantPriceCurve(parameter), nil
	case Stable:
		return NewStableCurve(parameter), nil
	case Offset:
		return NewOffsetCurve(parameter), nil
	}
	return SwapCurve{}, fmt.Errorf("%w: %d", ErrUnsupportedCurveType, curveType)
}

// Parameter returns the live variant's parameter, zero for ConstantProduct.
func (c SwapCurve) Parameter() uint64 {
	switch c.CurveType {
	case ConstantPrice:
		return c.ConstantPrice.TokenBPrice
	case Stable:
		return c.Stable.Amp
	case Offset:
		return c.Offset.TokenBOffset
	}
	return 0
}

// Equal compares the tag and the live parameter set.
func (c SwapCurve) Equal(other SwapCurve) bool {
	return c.CurveType == other.CurveType && c.Parameter() == other.Parameter()
}

func (c SwapCurve) unsupported() error {
	return fmt.Errorf("%w: %d", ErrUnsupportedCurveType, c.CurveType)
}

func (c SwapCurve) SwapWithoutFees(sourceAmount, swapSourceAmount, swapDestinationAmount uint128.Uint128, direction TradeDirection) (SwapWithoutFeesResult, error) {
	switch c.CurveType {
	case ConstantProduct:
		return ConstantProductCurve{}.SwapWithoutFees(sourceAmount, swapSourceAmount, swapDestinationAmount, direction)
	case ConstantPrice:
		return c.ConstantPrice.SwapWithoutFees(sourceAmount, swapSourceAmount, swapDestinationAmount, direction)
	case Stable:
		return c.Stable.SwapWithoutFees(sourceAmount, swapSourceAmount, swapDestinationAmount, direction)
	case Offset:
		return c.Offset.SwapWithoutFees(sourceAmount, swapSourceAmount, swapDestinationAmount, direction)
	}
	return SwapWithoutFeesResult{}, c.unsupported()
}

func (c SwapCurve) depositSingleTokenType(sourceAmount, swapTokenAAmount, swapTokenBAmount, poolSupply uint128.Uint128, direction TradeDirection) (uint128.Uint128, error) {
	switch c.CurveType {
	case ConstantProduct:
		return ConstantProductCurve{}.DepositSingleTokenType(sourceAmount, swapTokenAAmount, swapTokenBAmount, poolSupply, direction)
	case ConstantPrice:
		return c.ConstantPrice.DepositSingleTokenType(sourceAmount, swapTokenAAmount, swapTokenBAmount, poolSupply, direction)
	case Stable:
		return c.Stable.DepositSingleTokenType(sourceAmount, swapTokenAAmount, swapTokenBAmount, poolSupply, direction)
	case Offset:
		return c.Offset.DepositSingleTokenType(sourceAmount, swapTokenAAmount, swapTokenBAmount, poolSupply, direction)
	}
	return u128.Zero, c.unsupported()
}

func (c SwapCurve) withdrawSingleTokenTypeExactOut(destinationAmount, swapTokenAAmount, swapTokenBAmount, poolSupply uint128.Uint128, direction TradeDirection) (uint128.Uint128, error) {
	switch c.CurveType {
	case ConstantProduct:
		return ConstantProductCurve{}.WithdrawSingleTokenTypeExactOut(destinationAmount, swapTokenAAmount, swapTokenBAmount, poolSupply, direction)
	case ConstantPrice:
		return c.ConstantPrice.WithdrawSingleTokenTypeExactOut(destinationAmount, swapTokenAAmount, swapTokenBAmount, poolSupply, direction)
	case Stable:
		return c.Stable.WithdrawSingleTokenTypeExactOut(destinationAmount, swapTokenAAmount, swapTokenBAmount, poolSupply, direction)
	case Offset:
		return c.Offset.WithdrawSingleTokenTypeExactOut(destinationAmount, swapTokenAAmount, swapTokenBAmount, poolSupply, direction)
	}
	return u128.Zero, c.unsupported()
}

func (c SwapCurve) PoolTokensToTradingTokens(poolTokens, poolTokenSupply, swapTokenAAmount, swapTokenBAmount uint128.Uint128, round RoundDirection) (TradingTokenResult, error) {
	switch c.CurveType {
	case ConstantProduct:
		return ConstantProductCurve{}.PoolTokensToTradingTokens(poolTokens, poolTokenSupply, swapTokenAAmount, swapTokenBAmount, round)
	case ConstantPrice:
		return c.ConstantPrice.PoolTokensToTradingTokens(poolTokens, poolTokenSupply, swapTokenAAmount, swapTokenBAmount, round)
	case Stable:
		return c.Stable.PoolTokensToTradingTokens(poolTokens, poolTokenSupply, swapTokenAAmount, swapTokenBAmount, round)
	case Offset:
		return c.Offset.PoolTokensToTradingTokens(poolTokens, poolTokenSupply, swapTokenAAmount, swapTokenBAmount, round)
	}
	return TradingTokenResult{}, c.unsupported()
}

func (c SwapCurve) NormalizedValue(swapTokenAAmount, swapTokenBAmount uint128.Uint128) (uint128.Uint128, error) {
	switch c.CurveType {
	case ConstantProduct:
		return ConstantProductCurve{}.NormalizedValue(swapTokenAAmount, swapTokenBAmount)
	case ConstantPrice:
		return c.ConstantPrice.NormalizedValue(swapTokenAAmount, swapTokenBAmount)
	case Stable:
		return c.Stable.NormalizedValue(swapTokenAAmount, swapTokenBAmount)
	case Offset:
		return c.Offset.NormalizedValue(swapTokenAAmount, swapTokenBAmount)
	}
	return u128.Zero, c.unsupported()
}

// NewPoolSupply is the amount minted on the first deposit.
func (c SwapCurve) NewPoolSupply() uint128.Uint128 {
	return newPoolSupply()
}

func (c SwapCurve) Validate() error {
	switch c.CurveType {
	case ConstantProduct:
		return ConstantProductCurve{}.Validate()
	case ConstantPrice:
		return c.ConstantPrice.Validate()
	case Stable:
		return c.Stable.Validate()
	case Offset:
		return c.Offset.Validate()
	}
	return c.unsupported()
}

func (c SwapCurve) ValidateSupply(tokenAAmount, tokenBAmount uint64) error {
	switch c.CurveType {
	case ConstantProduct:
		return ConstantProductCurve{}.ValidateSupply(tokenAAmount, tokenBAmount)
	case ConstantPrice:
		return c.ConstantPrice.ValidateSupply(tokenAAmount, tokenBAmount)
	case Stable:
		return c.Stable.ValidateSupply(tokenAAmount, tokenBAmount)
	case Offset:
		return c.Offset.ValidateSupply(tokenAAmount, tokenBAmount)
	}
	return c.unsupported()
}

func (c SwapCurve) AllowsDeposits() bool {
	switch c.CurveType {
	case ConstantProduct:
		return ConstantProductCurve{}.AllowsDeposits()
	case ConstantPrice:
		return c.ConstantPrice.AllowsDeposits()
	case Stable:
		return c.Stable.AllowsDeposits()
	case Offset:
		return c.Offset.AllowsDeposits()
	}
	return false
}

// SwapResult is the outcome of a swap with fees.
type SwapResult struct {
	// NewSwapAmount is the input left after the trade fee.
	NewSwapAmount         uint128.Uint128
	SwapSourceAmount      uint128.Uint128
	DestinationAmount     uint128.Uint128
	SwapDestinationAmount uint128.Uint128
	TradeFee              uint128.Uint128
	// SourceAmountSwapped is the part of NewSwapAmount the curve consumed.
	SourceAmountSwapped uint128.Uint128
	// NewSwapSourceAmount keeps the trade fee in the source reserve.
	NewSwapSourceAmount      uint128.Uint128
	NewSwapDestinationAmount uint128.Uint128
}

// Swap charges the trade fee on the full input and swaps the rest.
func (c SwapCurve) Swap(sourceAmount, swapSourceAmount, swapDestinationAmount uint128.Uint128, direction TradeDirection, fees FeeSchedule) (*SwapResult, error) {
	tradeFee, err := fees.TradingFee(sourceAmount)
	if err != nil {
		return nil, err
	}
	newSourceAmount, err := u128.Sub(sourceAmount, tradeFee)
	if err != nil {
		return nil, calcErr(err)
	}
	result, err := c.SwapWithoutFees(newSourceAmount, swapSourceAmount, swapDestinationAmount, direction)
	if err != nil {
		return nil, err
	}
	newSwapSourceAmount, err := u128.Add(result.NewSwapSourceAmount, tradeFee)
	if err != nil {
		return nil, calcErr(err)
	}
	return &SwapResult{
		NewSwapAmount:            newSourceAmount,
		SwapSourceAmount:         swapSourceAmount,
		DestinationAmount:        result.DestinationAmountSwapped,
		SwapDestinationAmount:    swapDestinationAmount,
		TradeFee:                 tradeFee,
		SourceAmountSwapped:      result.SourceAmountSwapped,
		NewSwapSourceAmount:      newSwapSourceAmount,
		NewSwapDestinationAmount: result.NewSwapDestinationAmount,
	}, nil
}

// halfAmountFee is the fee on swapping half of amount to the other side,
// the half being at least one token.
func halfAmountFee(amount uint128.Uint128, fees FeeSchedule) (uint128.Uint128, error) {
	half := amount.Rsh(1)
	if half.IsZero() {
		half = u128.One
	}
	return fees.TradingFee(half)
}

// DepositSingleTokenType returns the pool tokens minted for a one-sided
// deposit of sourceAmount, net of the half-amount trade fee.
func (c SwapCurve) DepositSingleTokenType(sourceAmount, swapTokenAAmount, swapTokenBAmount, poolSupply uint128.Uint128, direction TradeDirection, fees FeeSchedule) (uint128.Uint128, error) {
	if sourceAmount.IsZero() {
		return u128.Zero, nil
	}
	tradeFee, err := halfAmountFee(sourceAmount, fees)
	if err != nil {
		return u128.Zero, err
	}
	netAmount, err := u128.Sub(sourceAmount, tradeFee)
	if err != nil {
		return u128.Zero, calcErr(err)
	}
	return c.depositSingleTokenType(netAmount, swapTokenAAmount, swapTokenBAmount, poolSupply, direction)
}

// WithdrawSingleTokenTypeExactOut returns the pool tokens burned for a
// one-sided withdrawal of destinationAmount, net of the half-amount trade fee.
func (c SwapCurve) WithdrawSingleTokenTypeExactOut(destinationAmount, swapTokenAAmount, swapTokenBAmount, poolSupply uint128.Uint128, direction TradeDirection, fees FeeSchedule) (uint128.Uint128, error) {
	if destinationAmount.IsZero() {
		return u128.Zero, nil
	}
	tradeFee, err := halfAmountFee(destinationAmount, fees)
	if err != nil {
		return u128.Zero, err
	}
	netAmount, err := u128.Sub(destinationAmount, tradeFee)
	if err != nil {
		return u128.Zero, calcErr(err)
	}
	return c.withdrawSingleTokenTypeExactOut(netAmount, swapTokenAAmount, swapTokenBAmount, poolSupply, direction)
}

func (c SwapCurve) MarshalWithEncoder(encoder *bin.Encoder) error {
	var slot [CalculatorLen]byte
	switch c.CurveType {
	case ConstantProduct:
	case ConstantPrice, Stable, Offset:
		bin.LE.PutUint64(slot[:8], c.Parameter())
	default:
		return c.unsupported()
	}
	if err := encoder.WriteUint8(uint8(c.CurveType)); err != nil {
		return err
	}
	return encoder.WriteBytes(slot[:], false)
}

func (c *SwapCurve) UnmarshalWithDecoder(decoder *bin.Decoder) error {
	curveType, err := decoder.ReadUint8()
	if err != nil {
		return err
	}
	slot, err := decoder.ReadNBytes(CalculatorLen)
	if err != nil {
		return err
	}
	curve, err := NewSwapCurve(CurveType(curveType), bin.LE.Uint64(slot[:8]))
	if err != nil {
		return decodeErr("swap curve: %v", err)
	}
	*c = curve
	return nil
}
