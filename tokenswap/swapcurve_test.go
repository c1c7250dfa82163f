package tokenswap

import (
	"bytes"
	"testing"

	"github.com/egaotan/solana-tokenswap/u128"
	bin "github.com/gagliardetto/binary"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeCurve(t *testing.T, curve SwapCurve) []byte {
	t.Helper()
	buf := new(bytes.Buffer)
	require.NoError(t, curve.MarshalWithEncoder(bin.NewBinEncoder(buf)))
	return buf.Bytes()
}

func TestSwapCurveWire(t *testing.T) {
	curves := []SwapCurve{
		NewConstantProductCurve(),
		NewConstantPriceCurve(10),
		NewStableCurve(100),
		NewOffsetCurve(1 << 40),
	}
	for _, curve := range curves {
		data := encodeCurve(t, curve)
		require.Len(t, data, SwapCurveLen)
		assert.Equal(t, uint8(curve.CurveType), data[0])
		assert.Equal(t, curve.Parameter(), bin.LE.Uint64(data[1:9]))
		assert.Equal(t, make([]byte, CalculatorLen-8), data[9:])

		var decoded SwapCurve
		require.NoError(t, decoded.UnmarshalWithDecoder(bin.NewBinDecoder(data)))
		assert.True(t, curve.Equal(decoded), curve.CurveType.String())
		assert.Equal(t, curve, decoded)
	}
}

func TestSwapCurveUnknownType(t *testing.T) {
	data := make([]byte, SwapCurveLen)
	data[0] = 4
	var decoded SwapCurve
	err := decoded.UnmarshalWithDecoder(bin.NewBinDecoder(data))
	assert.ErrorIs(t, err, ErrInvalidAccountData)

	err = SwapCurve{CurveType: 7}.MarshalWithEncoder(bin.NewBinEncoder(new(bytes.Buffer)))
	assert.ErrorIs(t, err, ErrUnsupportedCurveType)

	_, err = SwapCurve{CurveType: 7}.SwapWithoutFees(u(1), u(1), u(1), AtoB)
	assert.ErrorIs(t, err, ErrUnsupportedCurveType)
	assert.ErrorIs(t, SwapCurve{CurveType: 7}.Validate(), ErrUnsupportedCurveType)
	assert.False(t, SwapCurve{CurveType: 7}.AllowsDeposits())
}

func TestSwapCurveEqual(t *testing.T) {
	assert.True(t, NewStableCurve(100).Equal(NewStableCurve(100)))
	assert.False(t, NewStableCurve(100).Equal(NewStableCurve(101)))
	assert.False(t, NewConstantPriceCurve(100).Equal(NewOffsetCurve(100)))
	assert.True(t, NewConstantProductCurve().Equal(SwapCurve{}))
}

func TestSwapChargesFeeOnInput(t *testing.T) {
	fees := Fees{TradeFeeNumerator: 25, TradeFeeDenominator: 10000}
	result, err := NewConstantProductCurve().Swap(u(10000), u(1000000), u(1000000), AtoB, fees)
	require.NoError(t, err)
	assert.Equal(t, u(25), result.TradeFee)
	assert.Equal(t, u(9975), result.NewSwapAmount)
	assert.Equal(t, u(9975), result.SourceAmountSwapped)
	assert.Equal(t, u(9877), result.DestinationAmount)
	assert.Equal(t, u(1000000), result.SwapSourceAmount)
	assert.Equal(t, u(1000000), result.SwapDestinationAmount)
	assert.Equal(t, u(1010000), result.NewSwapSourceAmount)
	assert.Equal(t, u(990123), result.NewSwapDestinationAmount)

	result, err = NewConstantProductCurve().Swap(u(100), u(1000), u(1000), AtoB, Fees{})
	require.NoError(t, err)
	assert.Equal(t, u(91), result.DestinationAmount)
	assert.True(t, result.TradeFee.IsZero())
}

func TestSwapDispatchesToVariant(t *testing.T) {
	fees := Fees{}
	stable, err := NewStableCurve(100).Swap(u(100000), u(1000000), u(1000000), AtoB, fees)
	require.NoError(t, err)
	assert.Equal(t, u(99901), stable.DestinationAmount)

	price, err := NewConstantPriceCurve(10).Swap(u(105), u(1000), u(100), AtoB, fees)
	require.NoError(t, err)
	assert.Equal(t, u(10), price.DestinationAmount)
	assert.Equal(t, u(100), price.SourceAmountSwapped)
	assert.Equal(t, u(1100), price.NewSwapSourceAmount)

	offset, err := NewOffsetCurve(1000000).Swap(u(1000), u(0), u(1000000), BtoA, fees)
	require.NoError(t, err)
	assert.Equal(t, u(1000), offset.DestinationAmount)
}

func TestSwapFeeErrors(t *testing.T) {
	_, err := NewConstantProductCurve().Swap(u128.Max, u(1000), u(1000), AtoB, Fees{TradeFeeNumerator: 2, TradeFeeDenominator: 3})
	assert.ErrorIs(t, err, ErrCalculationFailure)

	_, err = NewConstantProductCurve().Swap(u(10), u(1000), u(1000), AtoB, Fees{TradeFeeNumerator: 1})
	assert.ErrorIs(t, err, ErrCalculationFailure)
}

func TestSingleSidedHalfAmountFee(t *testing.T) {
	curve := NewConstantProductCurve()
	fees := Fees{TradeFeeNumerator: 25, TradeFeeDenominator: 10000}

	minted, err := curve.DepositSingleTokenType(u(1000000), u(1000000), u(1000000), u(1000000000), AtoB, fees)
	require.NoError(t, err)
	assert.Equal(t, u(413771551), minted)

	burned, err := curve.WithdrawSingleTokenTypeExactOut(u(500000), u(1000000), u(1000000), u(1000000000), AtoB, fees)
	require.NoError(t, err)
	assert.Equal(t, u(292451416), burned)

	minted, err = curve.DepositSingleTokenType(u128.Zero, u(1000000), u(1000000), u(1000000000), AtoB, fees)
	require.NoError(t, err)
	assert.True(t, minted.IsZero())

	burned, err = curve.WithdrawSingleTokenTypeExactOut(u128.Zero, u(1000000), u(1000000), u(1000000000), AtoB, fees)
	require.NoError(t, err)
	assert.True(t, burned.IsZero())

	// a one token deposit pays the one token minimum fee on a half of one
	minted, err = curve.DepositSingleTokenType(u(1), u(1000000), u(1000000), u(1000000000), AtoB, fees)
	require.NoError(t, err)
	assert.True(t, minted.IsZero())

	noFee, err := curve.DepositSingleTokenType(u(1000000), u(1000000), u(1000000), u(1000000000), AtoB, Fees{})
	require.NoError(t, err)
	assert.Equal(t, u(414213562), noFee)
}

func TestSwapCurveNewPoolSupply(t *testing.T) {
	for _, curve := range []SwapCurve{NewConstantProductCurve(), NewConstantPriceCurve(1), NewStableCurve(1), NewOffsetCurve(1)} {
		assert.Equal(t, u(InitialSwapPoolAmount), curve.NewPoolSupply())
		assert.NoError(t, curve.Validate())
	}
	assert.False(t, NewOffsetCurve(1).AllowsDeposits())
	assert.True(t, NewStableCurve(1).AllowsDeposits())
}
