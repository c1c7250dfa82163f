package liquiditypool

import (
	"testing"

	"github.com/egaotan/solana-tokenswap/tokenswap"
	"github.com/stretchr/testify/assert"
)

func TestAmmConstraints(t *testing.T) {
	valid := Fees{ReturnFeeNumerator: 2, FixedFeeNumerator: 1, FeeDenominator: 100}
	constraints := &AmmConstraints{
		ValidCurveTypes: []tokenswap.CurveType{tokenswap.Stable},
		Fees:            valid,
	}
	assert.NoError(t, constraints.ValidateCurve(tokenswap.NewStableCurve(1)))
	assert.ErrorIs(t, constraints.ValidateCurve(tokenswap.NewConstantProductCurve()), tokenswap.ErrUnsupportedCurveType)

	assert.NoError(t, constraints.ValidateFees(valid))
	assert.NoError(t, constraints.ValidateFees(Fees{ReturnFeeNumerator: 3, FixedFeeNumerator: 2, FeeDenominator: 100}))

	fees := valid
	fees.ReturnFeeNumerator = 1
	assert.ErrorIs(t, constraints.ValidateFees(fees), tokenswap.ErrInvalidFee)
	fees = valid
	fees.FixedFeeNumerator = 0
	assert.ErrorIs(t, constraints.ValidateFees(fees), tokenswap.ErrInvalidFee)
	fees = valid
	fees.FeeDenominator = 1000
	assert.ErrorIs(t, constraints.ValidateFees(fees), tokenswap.ErrInvalidFee)

	amm := testAmm()
	assert.NoError(t, constraints.ValidateAmm(&amm))

	var none *AmmConstraints
	assert.NoError(t, none.ValidateAmm(&amm))
}
