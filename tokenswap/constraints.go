package tokenswap

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// SwapConstraints restricts which pools an operator accepts. A nil
// *SwapConstraints accepts everything.
type SwapConstraints struct {
	OwnerKey        solana.PublicKey
	ValidCurveTypes []CurveType
	// Fees holds the minimum numerators, the denominator must match exactly.
	Fees Fees
}

func (c *SwapConstraints) ValidateCurve(curve SwapCurve) error {
	if c == nil {
		return nil
	}
	for _, curveType := range c.ValidCurveTypes {
		if curveType == curve.CurveType {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedCurveType, curve.CurveType)
}

func (c *SwapConstraints) ValidateFees(fees Fees) error {
	if c == nil {
		return nil
	}
	if fees.TradeFeeNumerator < c.Fees.TradeFeeNumerator || fees.TradeFeeDenominator != c.Fees.TradeFeeDenominator {
		return fmt.Errorf("%w: trade fee %d/%d below %d/%d", ErrInvalidFee,
			fees.TradeFeeNumerator, fees.TradeFeeDenominator, c.Fees.TradeFeeNumerator, c.Fees.TradeFeeDenominator)
	}
	return nil
}

func (c *SwapConstraints) ValidateSwap(swap *SwapV1) error {
	if err := c.ValidateCurve(swap.SwapCurve); err != nil {
		return err
	}
	return c.ValidateFees(swap.Fees)
}
