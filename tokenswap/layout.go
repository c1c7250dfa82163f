package tokenswap

import (
	"fmt"

	"github.com/egaotan/solana-tokenswap/codec"
	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

const (
	SwapVersion1 uint8 = 1
	// SwapV1Len excludes the leading version byte.
	SwapV1Len = 2 + 7*32 + FeesLen + SwapCurveLen
	// SwapLayoutSize is the full account size of a version 1 pool.
	SwapLayoutSize = 1 + SwapV1Len
)

// SwapV1 is the version 1 pool record.
type SwapV1 struct {
	IsInitialized  bool
	Nonce          uint8
	TokenProgramId solana.PublicKey
	TokenA         solana.PublicKey
	TokenB         solana.PublicKey
	PoolMint       solana.PublicKey
	TokenAMint     solana.PublicKey
	TokenBMint     solana.PublicKey
	PoolFeeAccount solana.PublicKey
	Fees           Fees
	SwapCurve      SwapCurve
}

// SwapVersion is the decoded account: a version tag and the record it selects.
type SwapVersion struct {
	Version uint8
	V1      *SwapV1
}

func NewSwapVersion(swap SwapV1) *SwapVersion {
	return &SwapVersion{Version: SwapVersion1, V1: &swap}
}

func (s SwapV1) MarshalWithEncoder(encoder *bin.Encoder) error {
	if err := codec.WriteBool(encoder, s.IsInitialized); err != nil {
		return err
	}
	if err := encoder.WriteUint8(s.Nonce); err != nil {
		return err
	}
	if err := codec.WriteKeys(encoder, s.TokenProgramId, s.TokenA, s.TokenB, s.PoolMint, s.TokenAMint, s.TokenBMint, s.PoolFeeAccount); err != nil {
		return err
	}
	if err := s.Fees.MarshalWithEncoder(encoder); err != nil {
		return err
	}
	return s.SwapCurve.MarshalWithEncoder(encoder)
}

func (s *SwapV1) UnmarshalWithDecoder(decoder *bin.Decoder) (err error) {
	if s.IsInitialized, err = codec.ReadBool(decoder); err != nil {
		return err
	}
	if s.Nonce, err = decoder.ReadUint8(); err != nil {
		return err
	}
	if err = codec.ReadKeys(decoder, &s.TokenProgramId, &s.TokenA, &s.TokenB, &s.PoolMint, &s.TokenAMint, &s.TokenBMint, &s.PoolFeeAccount); err != nil {
		return err
	}
	if err = s.Fees.UnmarshalWithDecoder(decoder); err != nil {
		return err
	}
	return s.SwapCurve.UnmarshalWithDecoder(decoder)
}

func (v SwapVersion) MarshalWithEncoder(encoder *bin.Encoder) error {
	if v.Version != SwapVersion1 {
		return fmt.Errorf("%w: swap version %d", ErrUninitializedAccount, v.Version)
	}
	if v.V1 == nil {
		return decodeErr("swap v1 without record")
	}
	if err := encoder.WriteUint8(v.Version); err != nil {
		return err
	}
	return v.V1.MarshalWithEncoder(encoder)
}

// UnpackSwap decodes a pool account. The buffer must be exactly the size
// declared by its version.
func UnpackSwap(data []byte) (*SwapVersion, error) {
	if len(data) == 0 {
		return nil, decodeErr("empty swap account")
	}
	switch data[0] {
	case SwapVersion1:
		if len(data) != SwapLayoutSize {
			return nil, decodeErr("swap v1 size, expected: %d, actual: %d", SwapLayoutSize, len(data))
		}
		swap := &SwapV1{}
		if err := codec.Unmarshal(data[1:], swap); err != nil {
			return nil, decodeErr("swap v1: %v", err)
		}
		return &SwapVersion{Version: SwapVersion1, V1: swap}, nil
	}
	return nil, fmt.Errorf("%w: swap version %d", ErrUninitializedAccount, data[0])
}

// PackSwap encodes the full record, version byte included.
func PackSwap(v *SwapVersion) ([]byte, error) {
	if v == nil {
		return nil, decodeErr("nil swap")
	}
	return codec.Marshal(v, SwapLayoutSize)
}

// PackSwapInto encodes v over dst, which must have the exact record size.
func PackSwapInto(v *SwapVersion, dst []byte) error {
	data, err := PackSwap(v)
	if err != nil {
		return err
	}
	if len(dst) != len(data) {
		return decodeErr("swap destination size, expected: %d, actual: %d", len(data), len(dst))
	}
	copy(dst, data)
	return nil
}

// IsSwapInitialized reports whether data decodes to an initialized pool.
func IsSwapInitialized(data []byte) bool {
	swap, err := UnpackSwap(data)
	if err != nil {
		return false
	}
	return swap.V1.IsInitialized
}

// Pool pairs the record's curve and fees with live balances.
func (s *SwapV1) Pool(reserveA, reserveB, poolSupply uint64) *Pool {
	return &Pool{Curve: s.SwapCurve, Fees: s.Fees, ReserveA: reserveA, ReserveB: reserveB, PoolSupply: poolSupply}
}
