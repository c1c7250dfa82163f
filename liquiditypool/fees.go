package liquiditypool

import (
	"fmt"

	"github.com/egaotan/solana-tokenswap/tokenswap"
	"github.com/egaotan/solana-tokenswap/u128"
	bin "github.com/gagliardetto/binary"
	"lukechampine.com/uint128"
)

const FeesLen = 24

// Fees splits every trading fee in two: the return fee stays in the pool,
// the fixed fee goes to the pool's fixed fee accounts.
type Fees struct {
	ReturnFeeNumerator uint64
	FixedFeeNumerator  uint64
	FeeDenominator     uint64
}

var (
	_ tokenswap.FeeSchedule      = Fees{}
	_ tokenswap.OwnerFeeSchedule = Fees{}
)

func (f Fees) ReturnFee(tradingTokens uint128.Uint128) (uint128.Uint128, error) {
	return tokenswap.CalculateFee(tradingTokens, u128.From64(f.ReturnFeeNumerator), u128.From64(f.FeeDenominator))
}

func (f Fees) FixedFee(tradingTokens uint128.Uint128) (uint128.Uint128, error) {
	return tokenswap.CalculateFee(tradingTokens, u128.From64(f.FixedFeeNumerator), u128.From64(f.FeeDenominator))
}

// TradingFee is the return fee plus the fixed fee, each with its own
// one token minimum.
func (f Fees) TradingFee(tradingTokens uint128.Uint128) (uint128.Uint128, error) {
	returnFee, err := f.ReturnFee(tradingTokens)
	if err != nil {
		return u128.Zero, err
	}
	fixedFee, err := f.FixedFee(tradingTokens)
	if err != nil {
		return u128.Zero, err
	}
	fee, err := u128.Add(returnFee, fixedFee)
	if err != nil {
		return u128.Zero, fmt.Errorf("%w: %w", tokenswap.ErrCalculationFailure, err)
	}
	return fee, nil
}

// OwnerFee is the part of the trading fee that leaves the pool.
func (f Fees) OwnerFee(tradingTokens uint128.Uint128) (uint128.Uint128, error) {
	return f.FixedFee(tradingTokens)
}

func (f Fees) Validate() error {
	if f.FeeDenominator == 0 && f.FixedFeeNumerator == 0 && f.ReturnFeeNumerator == 0 {
		return nil
	}
	total, err := u128.Add(u128.From64(f.FixedFeeNumerator), u128.From64(f.ReturnFeeNumerator))
	if err != nil || total.Cmp64(f.FeeDenominator) >= 0 {
		return fmt.Errorf("%w: %d + %d over %d", tokenswap.ErrInvalidFee, f.ReturnFeeNumerator, f.FixedFeeNumerator, f.FeeDenominator)
	}
	return nil
}

func (f Fees) MarshalWithEncoder(encoder *bin.Encoder) error {
	for _, v := range []uint64{f.ReturnFeeNumerator, f.FixedFeeNumerator, f.FeeDenominator} {
		if err := encoder.WriteUint64(v, bin.LE); err != nil {
			return err
		}
	}
	return nil
}

func (f *Fees) UnmarshalWithDecoder(decoder *bin.Decoder) (err error) {
	for _, v := range []*uint64{&f.ReturnFeeNumerator, &f.FixedFeeNumerator, &f.FeeDenominator} {
		if *v, err = decoder.ReadUint64(bin.LE); err != nil {
			return err
		}
	}
	return nil
}
