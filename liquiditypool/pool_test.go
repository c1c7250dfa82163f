package liquiditypool

import (
	"testing"

	"github.com/egaotan/solana-tokenswap/tokenswap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmmPoolRoutesFixedFee(t *testing.T) {
	amm := testAmm()
	amm.SwapCurve = tokenswap.NewConstantProductCurve()
	amm.Fees = Fees{ReturnFeeNumerator: 25, FixedFeeNumerator: 5, FeeDenominator: 10000}

	quote, err := amm.Pool(1000000, 1000000, 1000000000).Swap(10000, 0, tokenswap.AtoB)
	require.NoError(t, err)
	assert.Equal(t, &tokenswap.SwapQuote{
		Direction:   tokenswap.AtoB,
		AmountIn:    10000,
		AmountOut:   9872,
		TradeFee:    30,
		OwnerFee:    5,
		NewReserveA: 1009995,
		NewReserveB: 990128,
	}, quote)
}

func TestAmmPoolSingleSidedUsesBothFees(t *testing.T) {
	amm := testAmm()
	amm.SwapCurve = tokenswap.NewConstantProductCurve()
	amm.Fees = Fees{ReturnFeeNumerator: 20, FixedFeeNumerator: 5, FeeDenominator: 10000}

	// 25/10000 in total, as a single trade fee would charge
	deposit, err := amm.Pool(1000000, 1000000, 1000000000).DepositSingleTokenTypeExactAmountIn(1000000, 0, tokenswap.AtoB)
	require.NoError(t, err)
	assert.Equal(t, uint64(413771551), deposit.PoolTokenAmount)
}
