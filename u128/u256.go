package u128

import (
	"github.com/holiman/uint256"
	"lukechampine.com/uint128"
)

// Widen lifts a 128-bit value into a fresh 256-bit value.
func Widen(v uint128.Uint128) *uint256.Int {
	return &uint256.Int{v.Lo, v.Hi, 0, 0}
}

// Narrow returns x as a 128-bit value, failing when the upper limbs are set.
func Narrow(x *uint256.Int) (uint128.Uint128, error) {
	if x[2] != 0 || x[3] != 0 {
		return Zero, ErrConversion
	}
	return uint128.New(x[0], x[1]), nil
}

func Add256(x, y *uint256.Int) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).AddOverflow(x, y)
	if overflow {
		return nil, ErrOverflow
	}
	return z, nil
}

func Sub256(x, y *uint256.Int) (*uint256.Int, error) {
	z, underflow := new(uint256.Int).SubOverflow(x, y)
	if underflow {
		return nil, ErrUnderflow
	}
	return z, nil
}

func Mul256(x, y *uint256.Int) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).MulOverflow(x, y)
	if overflow {
		return nil, ErrOverflow
	}
	return z, nil
}

func Div256(x, y *uint256.Int) (*uint256.Int, error) {
	if y.IsZero() {
		return nil, ErrDivisionByZero
	}
	return new(uint256.Int).Div(x, y), nil
}

// CeilDiv256 returns ceil(x / y).
func CeilDiv256(x, y *uint256.Int) (*uint256.Int, error) {
	if y.IsZero() {
		return nil, ErrDivisionByZero
	}
	q, r := new(uint256.Int).DivMod(x, y, new(uint256.Int))
	if r.IsZero() {
		return q, nil
	}
	return Add256(q, uint256.NewInt(1))
}
