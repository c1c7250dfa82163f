package u128

import (
	"errors"

	"lukechampine.com/uint128"
)

var (
	ErrOverflow       = errors.New("u128: overflow")
	ErrUnderflow      = errors.New("u128: underflow")
	ErrDivisionByZero = errors.New("u128: division by zero")
	ErrConversion     = errors.New("u128: value out of range")
)

var (
	Zero = uint128.Zero
	One  = uint128.From64(1)
	Two  = uint128.From64(2)
	Max  = uint128.Max
)

func From64(v uint64) uint128.Uint128 {
	return uint128.From64(v)
}

func Add(a, b uint128.Uint128) (uint128.Uint128, error) {
	sum := a.AddWrap(b)
	if sum.Cmp(a) < 0 {
		return Zero, ErrOverflow
	}
	return sum, nil
}

func Sub(a, b uint128.Uint128) (uint128.Uint128, error) {
	if a.Cmp(b) < 0 {
		return Zero, ErrUnderflow
	}
	return a.SubWrap(b), nil
}

func Mul(a, b uint128.Uint128) (uint128.Uint128, error) {
	if a.IsZero() || b.IsZero() {
		return Zero, nil
	}
	if b.Cmp(Max.Div(a)) > 0 {
		return Zero, ErrOverflow
	}
	return a.MulWrap(b), nil
}

func Div(a, b uint128.Uint128) (uint128.Uint128, error) {
	if b.IsZero() {
		return Zero, ErrDivisionByZero
	}
	return a.Div(b), nil
}

func Rem(a, b uint128.Uint128) (uint128.Uint128, error) {
	if b.IsZero() {
		return Zero, ErrDivisionByZero
	}
	return a.Mod(b), nil
}

// CeilDiv returns ceil(a / b).
func CeilDiv(a, b uint128.Uint128) (uint128.Uint128, error) {
	if b.IsZero() {
		return Zero, ErrDivisionByZero
	}
	q, r := a.QuoRem(b)
	if r.IsZero() {
		return q, nil
	}
	return Add(q, One)
}

func Min(a, b uint128.Uint128) uint128.Uint128 {
	if a.Cmp(b) < 0 {
		return a
	}
	return b
}

func ToU64(v uint128.Uint128) (uint64, error) {
	if v.Hi != 0 {
		return 0, ErrConversion
	}
	return v.Lo, nil
}
