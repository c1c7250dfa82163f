package tokenswap

import (
	"github.com/egaotan/solana-tokenswap/u128"
	bin "github.com/gagliardetto/binary"
	"lukechampine.com/uint128"
)

// FeesLen is the size of the fee slot in the pool record. Only the first
// 16 bytes carry data, the rest is zero padding.
const FeesLen = 64

const feesUsedLen = 16

// FeeSchedule is charged on the input side of a trade.
type FeeSchedule interface {
	TradingFee(tradingTokens uint128.Uint128) (uint128.Uint128, error)
	Validate() error
}

// Fees is the trade-fee schema: one fraction of every trade stays in the pool.
type Fees struct {
	TradeFeeNumerator   uint64
	TradeFeeDenominator uint64
}

// CalculateFee returns floor(amount * numerator / denominator), with a minimum
// fee of one token whenever both amount and numerator are nonzero.
func CalculateFee(tokenAmount, feeNumerator, feeDenominator uint128.Uint128) (uint128.Uint128, error) {
	if feeNumerator.IsZero() || tokenAmount.IsZero() {
		return u128.Zero, nil
	}
	product, err := u128.Mul(tokenAmount, feeNumerator)
	if err != nil {
		return u128.Zero, calcErr(err)
	}
	fee, err := u128.Div(product, feeDenominator)
	if err != nil {
		return u128.Zero, calcErr(err)
	}
	if fee.IsZero() {
		return u128.One, nil
	}
	return fee, nil
}

// ValidateFraction accepts 0/0 and any proper fraction.
func ValidateFraction(numerator, denominator uint64) error {
	if denominator == 0 && numerator == 0 {
		return nil
	}
	if numerator >= denominator {
		return ErrInvalidFee
	}
	return nil
}

func (f Fees) TradingFee(tradingTokens uint128.Uint128) (uint128.Uint128, error) {
	return CalculateFee(tradingTokens, u128.From64(f.TradeFeeNumerator), u128.From64(f.TradeFeeDenominator))
}

func (f Fees) Validate() error {
	return ValidateFraction(f.TradeFeeNumerator, f.TradeFeeDenominator)
}

func (f Fees) MarshalWithEncoder(encoder *bin.Encoder) error {
	if err := encoder.WriteUint64(f.TradeFeeNumerator, bin.LE); err != nil {
		return err
	}
	if err := encoder.WriteUint64(f.TradeFeeDenominator, bin.LE); err != nil {
		return err
	}
	return encoder.WriteBytes(make([]byte, FeesLen-feesUsedLen), false)
}

func (f *Fees) UnmarshalWithDecoder(decoder *bin.Decoder) (err error) {
	if f.TradeFeeNumerator, err = decoder.ReadUint64(bin.LE); err != nil {
		return err
	}
	if f.TradeFeeDenominator, err = decoder.ReadUint64(bin.LE); err != nil {
		return err
	}
	_, err = decoder.ReadNBytes(FeesLen - feesUsedLen)
	return err
}
