package tokenswap

import (
	"errors"
	"fmt"
)

var (
	ErrCalculationFailure        = errors.New("tokenswap: calculation failure")
	ErrConversionFailure         = errors.New("tokenswap: conversion to or from u64 failed")
	ErrInvalidFee                = errors.New("tokenswap: invalid fee")
	ErrUnsupportedCurveType      = errors.New("tokenswap: unsupported curve type")
	ErrInvalidCurve              = errors.New("tokenswap: invalid curve parameters")
	ErrUnsupportedCurveOperation = errors.New("tokenswap: operation not supported by curve")
	ErrEmptySupply               = errors.New("tokenswap: input token account empty")
	ErrZeroTradingTokens         = errors.New("tokenswap: zero trading tokens")
	ErrExceededSlippage          = errors.New("tokenswap: exceeded slippage")
	ErrInvalidAccountData        = errors.New("tokenswap: invalid account data")
	ErrUninitializedAccount      = errors.New("tokenswap: uninitialized account")
)

// calcErr tags an arithmetic error from the u128 package as a calculation failure.
func calcErr(err error) error {
	return fmt.Errorf("%w: %w", ErrCalculationFailure, err)
}

func decodeErr(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidAccountData, fmt.Sprintf(format, args...))
}
