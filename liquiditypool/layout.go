package liquiditypool

import (
	"fmt"

	"github.com/egaotan/solana-tokenswap/codec"
	"github.com/egaotan/solana-tokenswap/tokenswap"
	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

const (
	AmmVersion1 uint8 = 1
	// AmmV1Len excludes the leading version byte.
	AmmV1Len = 2 + 11*32 + FeesLen + tokenswap.SwapCurveLen
	// AmmLayoutSize is the full account size of a version 1 amm.
	AmmLayoutSize = 1 + AmmV1Len
)

// AmmV1 is a pool paired with a Serum market. Fixed fees are paid out to
// one account per token.
type AmmV1 struct {
	IsInitialized    bool
	Nonce            uint8
	AmmId            solana.PublicKey
	DexProgramId     solana.PublicKey
	MarketId         solana.PublicKey
	TokenProgramId   solana.PublicKey
	TokenA           solana.PublicKey
	TokenB           solana.PublicKey
	PoolMint         solana.PublicKey
	TokenAMint       solana.PublicKey
	TokenBMint       solana.PublicKey
	FixedFeeAccountA solana.PublicKey
	FixedFeeAccountB solana.PublicKey
	Fees             Fees
	SwapCurve        tokenswap.SwapCurve
}

type AmmVersion struct {
	Version uint8
	V1      *AmmV1
}

func NewAmmVersion(amm AmmV1) *AmmVersion {
	return &AmmVersion{Version: AmmVersion1, V1: &amm}
}

func (a *AmmV1) keys() []*solana.PublicKey {
	return []*solana.PublicKey{
		&a.AmmId, &a.DexProgramId, &a.MarketId, &a.TokenProgramId, &a.TokenA, &a.TokenB,
		&a.PoolMint, &a.TokenAMint, &a.TokenBMint, &a.FixedFeeAccountA, &a.FixedFeeAccountB,
	}
}

func (a AmmV1) MarshalWithEncoder(encoder *bin.Encoder) error {
	if err := codec.WriteBool(encoder, a.IsInitialized); err != nil {
		return err
	}
	if err := encoder.WriteUint8(a.Nonce); err != nil {
		return err
	}
	for _, key := range a.keys() {
		if err := codec.WriteKeys(encoder, *key); err != nil {
			return err
		}
	}
	if err := a.Fees.MarshalWithEncoder(encoder); err != nil {
		return err
	}
	return a.SwapCurve.MarshalWithEncoder(encoder)
}

func (a *AmmV1) UnmarshalWithDecoder(decoder *bin.Decoder) (err error) {
	if a.IsInitialized, err = codec.ReadBool(decoder); err != nil {
		return err
	}
	if a.Nonce, err = decoder.ReadUint8(); err != nil {
		return err
	}
	if err = codec.ReadKeys(decoder, a.keys()...); err != nil {
		return err
	}
	if err = a.Fees.UnmarshalWithDecoder(decoder); err != nil {
		return err
	}
	return a.SwapCurve.UnmarshalWithDecoder(decoder)
}

func (v AmmVersion) MarshalWithEncoder(encoder *bin.Encoder) error {
	if v.Version != AmmVersion1 {
		return fmt.Errorf("%w: amm version %d", tokenswap.ErrUninitializedAccount, v.Version)
	}
	if v.V1 == nil {
		return fmt.Errorf("%w: amm v1 without record", tokenswap.ErrInvalidAccountData)
	}
	if err := encoder.WriteUint8(v.Version); err != nil {
		return err
	}
	return v.V1.MarshalWithEncoder(encoder)
}

// UnpackAmm decodes an amm account. The buffer must be exactly the size
// declared by its version.
func UnpackAmm(data []byte) (*AmmVersion, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty amm account", tokenswap.ErrInvalidAccountData)
	}
	switch data[0] {
	case AmmVersion1:
		if len(data) != AmmLayoutSize {
			return nil, fmt.Errorf("%w: amm v1 size, expected: %d, actual: %d", tokenswap.ErrInvalidAccountData, AmmLayoutSize, len(data))
		}
		amm := &AmmV1{}
		if err := codec.Unmarshal(data[1:], amm); err != nil {
			return nil, fmt.Errorf("%w: amm v1: %v", tokenswap.ErrInvalidAccountData, err)
		}
		return &AmmVersion{Version: AmmVersion1, V1: amm}, nil
	}
	return nil, fmt.Errorf("%w: amm version %d", tokenswap.ErrUninitializedAccount, data[0])
}

func PackAmm(v *AmmVersion) ([]byte, error) {
	if v == nil {
		return nil, fmt.Errorf("%w: nil amm", tokenswap.ErrInvalidAccountData)
	}
	return codec.Marshal(v, AmmLayoutSize)
}

func PackAmmInto(v *AmmVersion, dst []byte) error {
	data, err := PackAmm(v)
	if err != nil {
		return err
	}
	if len(dst) != len(data) {
		return fmt.Errorf("%w: amm destination size, expected: %d, actual: %d", tokenswap.ErrInvalidAccountData, len(data), len(dst))
	}
	copy(dst, data)
	return nil
}

func IsAmmInitialized(data []byte) bool {
	amm, err := UnpackAmm(data)
	if err != nil {
		return false
	}
	return amm.V1.IsInitialized
}

// Pool pairs the amm's curve and fees with live balances. Swaps on the
// returned pool route the fixed fee out of the source reserve.
func (a *AmmV1) Pool(reserveA, reserveB, poolSupply uint64) *tokenswap.Pool {
	return &tokenswap.Pool{Curve: a.SwapCurve, Fees: a.Fees, ReserveA: reserveA, ReserveB: reserveB, PoolSupply: poolSupply}
}
