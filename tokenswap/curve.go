package tokenswap

import (
	"fmt"
	"strings"

	"lukechampine.com/uint128"
)

type CurveType uint8

const (
	ConstantProduct CurveType = iota
	ConstantPrice
	Stable
	Offset
)

var curveTypeNames = map[CurveType]string{
	ConstantProduct: "constant_product",
	ConstantPrice:   "constant_price",
	Stable:          "stable",
	Offset:          "offset",
}

func (c CurveType) String() string {
	if name, ok := curveTypeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("curve_type(%d)", uint8(c))
}

// ParseCurveType accepts the snake_case names produced by String.
func ParseCurveType(s string) (CurveType, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for curveType, n := range curveTypeNames {
		if n == name {
			return curveType, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedCurveType, s)
}

type TradeDirection uint8

const (
	AtoB TradeDirection = iota
	BtoA
)

func (d TradeDirection) Opposite() TradeDirection {
	if d == AtoB {
		return BtoA
	}
	return AtoB
}

func (d TradeDirection) String() string {
	if d == AtoB {
		return "a_to_b"
	}
	return "b_to_a"
}

type RoundDirection uint8

const (
	Floor RoundDirection = iota
	Ceiling
)

const (
	// InitialSwapPoolAmount is minted to the first depositor of every curve.
	InitialSwapPoolAmount = 1_000_000_000
	// CalculatorLen is the parameter slot every curve variant packs into.
	CalculatorLen = 32
	SwapCurveLen  = 1 + CalculatorLen
)

// SwapWithoutFeesResult carries the amounts moved by a curve and the reserves
// left behind.
type SwapWithoutFeesResult struct {
	SourceAmountSwapped      uint128.Uint128
	DestinationAmountSwapped uint128.Uint128
	NewSwapSourceAmount      uint128.Uint128
	NewSwapDestinationAmount uint128.Uint128
}

type TradingTokenResult struct {
	TokenAAmount uint128.Uint128
	TokenBAmount uint128.Uint128
}

// Calculator is the capability set shared by every curve variant.
type Calculator interface {
	SwapWithoutFees(sourceAmount, swapSourceAmount, swapDestinationAmount uint128.Uint128, direction TradeDirection) (SwapWithoutFeesResult, error)
	DepositSingleTokenType(sourceAmount, swapTokenAAmount, swapTokenBAmount, poolSupply uint128.Uint128, direction TradeDirection) (uint128.Uint128, error)
	WithdrawSingleTokenTypeExactOut(destinationAmount, swapTokenAAmount, swapTokenBAmount, poolSupply uint128.Uint128, direction TradeDirection) (uint128.Uint128, error)
	PoolTokensToTradingTokens(poolTokens, poolTokenSupply, swapTokenAAmount, swapTokenBAmount uint128.Uint128, round RoundDirection) (TradingTokenResult, error)
	NormalizedValue(swapTokenAAmount, swapTokenBAmount uint128.Uint128) (uint128.Uint128, error)
	NewPoolSupply() uint128.Uint128
	Validate() error
	ValidateSupply(tokenAAmount, tokenBAmount uint64) error
	AllowsDeposits() bool
}

var (
	_ Calculator = ConstantProductCurve{}
	_ Calculator = ConstantPriceCurve{}
	_ Calculator = StableCurve{}
	_ Calculator = OffsetCurve{}
)

func validateSupply(tokenAAmount, tokenBAmount uint64) error {
	if tokenAAmount == 0 || tokenBAmount == 0 {
		return ErrEmptySupply
	}
	return nil
}

func newPoolSupply() uint128.Uint128 {
	return uint128.From64(InitialSwapPoolAmount)
}

// orient returns (source, other) reserves for the given direction.
func orient(swapTokenAAmount, swapTokenBAmount uint128.Uint128, direction TradeDirection) (uint128.Uint128, uint128.Uint128) {
	if direction == AtoB {
		return swapTokenAAmount, swapTokenBAmount
	}
	return swapTokenBAmount, swapTokenAAmount
}
