package liquiditypool

import (
	"fmt"

	"github.com/egaotan/solana-tokenswap/tokenswap"
	"github.com/gagliardetto/solana-go"
)

// AmmConstraints restricts which amms an operator accepts. A nil
// *AmmConstraints accepts everything.
type AmmConstraints struct {
	OwnerKey        solana.PublicKey
	ValidCurveTypes []tokenswap.CurveType
	// Fees holds the minimum numerators, the denominator must match exactly.
	Fees Fees
}

func (c *AmmConstraints) ValidateCurve(curve tokenswap.SwapCurve) error {
	if c == nil {
		return nil
	}
	for _, curveType := range c.ValidCurveTypes {
		if curveType == curve.CurveType {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", tokenswap.ErrUnsupportedCurveType, curve.CurveType)
}

func (c *AmmConstraints) ValidateFees(fees Fees) error {
	if c == nil {
		return nil
	}
	if fees.ReturnFeeNumerator >= c.Fees.ReturnFeeNumerator &&
		fees.FixedFeeNumerator >= c.Fees.FixedFeeNumerator &&
		fees.FeeDenominator == c.Fees.FeeDenominator {
		return nil
	}
	return fmt.Errorf("%w: %d + %d over %d", tokenswap.ErrInvalidFee, fees.ReturnFeeNumerator, fees.FixedFeeNumerator, fees.FeeDenominator)
}

func (c *AmmConstraints) ValidateAmm(amm *AmmV1) error {
	if err := c.ValidateCurve(amm.SwapCurve); err != nil {
		return err
	}
	return c.ValidateFees(amm.Fees)
}
