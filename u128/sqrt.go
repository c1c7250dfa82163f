package u128

import (
	"errors"
	"math/bits"

	"github.com/holiman/uint256"
	"lukechampine.com/uint128"
)

var ErrNegativeRadicand = errors.New("u128: square root of negative number")

// Integer is the set of native integer types accepted by SqrtInt.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Sqrt returns floor(sqrt(radicand)) using the base-4 digit-by-digit method.
func Sqrt(radicand uint128.Uint128) (uint128.Uint128, error) {
	if radicand.IsZero() {
		return Zero, nil
	}
	shift := uint(127-radicand.LeadingZeros()) &^ 1
	bit := One.Lsh(shift)

	n := radicand
	result := Zero
	for !bit.IsZero() {
		resultWithBit, err := Add(result, bit)
		if err != nil {
			return Zero, err
		}
		if n.Cmp(resultWithBit) >= 0 {
			if n, err = Sub(n, resultWithBit); err != nil {
				return Zero, err
			}
			if result, err = Add(result.Rsh(1), bit); err != nil {
				return Zero, err
			}
		} else {
			result = result.Rsh(1)
		}
		bit = bit.Rsh(2)
	}
	return result, nil
}

// SqrtInt is Sqrt for native integers. Negative input is rejected.
func SqrtInt[T Integer](radicand T) (T, error) {
	if radicand < 0 {
		return 0, ErrNegativeRadicand
	}
	n := uint64(radicand)
	if n == 0 {
		return 0, nil
	}
	shift := uint(63-bits.LeadingZeros64(n)) &^ 1
	bit := uint64(1) << shift

	var result uint64
	for bit != 0 {
		resultWithBit, carry := bits.Add64(result, bit, 0)
		if carry != 0 {
			return 0, ErrOverflow
		}
		if n >= resultWithBit {
			n -= resultWithBit
			result = result>>1 + bit
		} else {
			result >>= 1
		}
		bit >>= 2
	}
	return T(result), nil
}

// Sqrt256 is Sqrt for 256-bit intermediates.
func Sqrt256(radicand *uint256.Int) (*uint256.Int, error) {
	if radicand.IsZero() {
		return new(uint256.Int), nil
	}
	shift := uint(radicand.BitLen()-1) &^ 1
	bit := new(uint256.Int).Lsh(uint256.NewInt(1), shift)

	n := new(uint256.Int).Set(radicand)
	result := new(uint256.Int)
	for !bit.IsZero() {
		resultWithBit, err := Add256(result, bit)
		if err != nil {
			return nil, err
		}
		if !n.Lt(resultWithBit) {
			if n, err = Sub256(n, resultWithBit); err != nil {
				return nil, err
			}
			result.Rsh(result, 1)
			if result, err = Add256(result, bit); err != nil {
				return nil, err
			}
		} else {
			result.Rsh(result, 1)
		}
		bit.Rsh(bit, 2)
	}
	return result, nil
}
