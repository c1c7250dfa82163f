package tokenswap

import (
	"bytes"
	"testing"

	"github.com/egaotan/solana-tokenswap/u128"
	bin "github.com/gagliardetto/binary"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateFee(t *testing.T) {
	tests := []struct {
		name                   string
		amount, num, den, want uint64
	}{
		{"proportional", 1000, 3, 1000, 3},
		{"minimum fee", 1, 3, 1000, 1},
		{"zero amount", 0, 3, 1000, 0},
		{"zero numerator", 1000, 0, 1000, 0},
		{"zero numerator and denominator", 1000, 0, 0, 0},
		{"floors", 1999, 1, 1000, 1},
		{"large", 1 << 62, 1, 4, 1 << 60},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fee, err := CalculateFee(u128.From64(tt.amount), u128.From64(tt.num), u128.From64(tt.den))
			require.NoError(t, err)
			assert.Equal(t, u128.From64(tt.want), fee)
		})
	}
}

func TestCalculateFeeErrors(t *testing.T) {
	_, err := CalculateFee(u128.From64(10), u128.From64(1), u128.Zero)
	assert.ErrorIs(t, err, ErrCalculationFailure)
	assert.ErrorIs(t, err, u128.ErrDivisionByZero)

	_, err = CalculateFee(u128.Max, u128.From64(2), u128.From64(3))
	assert.ErrorIs(t, err, ErrCalculationFailure)
	assert.ErrorIs(t, err, u128.ErrOverflow)
}

func TestFeesValidate(t *testing.T) {
	assert.NoError(t, Fees{}.Validate())
	assert.NoError(t, Fees{TradeFeeNumerator: 25, TradeFeeDenominator: 10000}.Validate())
	assert.NoError(t, Fees{TradeFeeNumerator: 0, TradeFeeDenominator: 10000}.Validate())
	assert.ErrorIs(t, Fees{TradeFeeNumerator: 1, TradeFeeDenominator: 0}.Validate(), ErrInvalidFee)
	assert.ErrorIs(t, Fees{TradeFeeNumerator: 10, TradeFeeDenominator: 10}.Validate(), ErrInvalidFee)
	assert.ErrorIs(t, Fees{TradeFeeNumerator: 11, TradeFeeDenominator: 10}.Validate(), ErrInvalidFee)
}

func TestFeesTradingFee(t *testing.T) {
	fees := Fees{TradeFeeNumerator: 25, TradeFeeDenominator: 10000}
	fee, err := fees.TradingFee(u128.From64(10000))
	require.NoError(t, err)
	assert.Equal(t, u128.From64(25), fee)

	fee, err = fees.TradingFee(u128.From64(10))
	require.NoError(t, err)
	assert.Equal(t, u128.One, fee)
}

func TestFeesWire(t *testing.T) {
	fees := Fees{TradeFeeNumerator: 25, TradeFeeDenominator: 10000}
	buf := new(bytes.Buffer)
	require.NoError(t, fees.MarshalWithEncoder(bin.NewBinEncoder(buf)))
	data := buf.Bytes()
	require.Len(t, data, FeesLen)
	assert.Equal(t, []byte{25, 0, 0, 0, 0, 0, 0, 0}, data[:8])
	assert.Equal(t, []byte{0x10, 0x27, 0, 0, 0, 0, 0, 0}, data[8:16])
	assert.Equal(t, make([]byte, FeesLen-16), data[16:])

	var decoded Fees
	require.NoError(t, decoded.UnmarshalWithDecoder(bin.NewBinDecoder(data)))
	assert.Equal(t, fees, decoded)

	assert.Error(t, new(Fees).UnmarshalWithDecoder(bin.NewBinDecoder(data[:20])))
}
