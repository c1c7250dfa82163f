package server

import (
	"fmt"

	"github.com/egaotan/solana-tokenswap/backend"
	"github.com/egaotan/solana-tokenswap/tokenswap"
	"github.com/egaotan/solana-tokenswap/utils"
	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	RequestId string `json:"request_id,omitempty"`
	Error     string `json:"error"`
}

type PoolView struct {
	Address    string          `json:"address"`
	Kind       string          `json:"kind"`
	CurveType  string          `json:"curve_type"`
	Parameter  uint64          `json:"parameter"`
	Slot       uint64          `json:"slot"`
	TokenAMint string          `json:"token_a_mint"`
	TokenBMint string          `json:"token_b_mint"`
	PoolMint   string          `json:"pool_mint"`
	ReserveA   uint64          `json:"reserve_a"`
	ReserveB   uint64          `json:"reserve_b"`
	PoolSupply uint64          `json:"pool_supply"`
	Price      decimal.Decimal `json:"price"`
}

func newPoolView(state *backend.PoolState) *PoolView {
	return &PoolView{
		Address:    state.Address.String(),
		Kind:       state.Kind,
		CurveType:  state.CurveType().String(),
		Parameter:  state.Pool.Curve.Parameter(),
		Slot:       state.Height,
		TokenAMint: state.TokenAMint.String(),
		TokenBMint: state.TokenBMint.String(),
		PoolMint:   state.PoolMint.String(),
		ReserveA:   state.Pool.ReserveA,
		ReserveB:   state.Pool.ReserveB,
		PoolSupply: state.Pool.PoolSupply,
		Price:      state.Price(),
	}
}

func parseDirection(s string) (tokenswap.TradeDirection, error) {
	switch s {
	case "", tokenswap.AtoB.String():
		return tokenswap.AtoB, nil
	case tokenswap.BtoA.String():
		return tokenswap.BtoA, nil
	}
	return 0, fmt.Errorf("invalid direction %q", s)
}

type SwapRequest struct {
	Pool             string `json:"pool" binding:"required"`
	AmountIn         uint64 `json:"amount_in" binding:"required"`
	MinimumAmountOut uint64 `json:"minimum_amount_out"`
	Direction        string `json:"direction"`
}

type SwapResponse struct {
	RequestId   string          `json:"request_id"`
	Pool        string          `json:"pool"`
	Slot        uint64          `json:"slot"`
	Direction   string          `json:"direction"`
	AmountIn    uint64          `json:"amount_in"`
	AmountOut   uint64          `json:"amount_out"`
	UiAmountIn  decimal.Decimal `json:"ui_amount_in"`
	UiAmountOut decimal.Decimal `json:"ui_amount_out"`
	TradeFee    uint64          `json:"trade_fee"`
	OwnerFee    uint64          `json:"owner_fee"`
	NewReserveA uint64          `json:"new_reserve_a"`
	NewReserveB uint64          `json:"new_reserve_b"`
	PriceImpact decimal.Decimal `json:"price_impact"`
}

const (
	ModeAll    = "all"
	ModeSingle = "single"
)

// LiquidityRequest covers both deposits and withdrawals. Mode "all" reads
// PoolTokenAmount with the two token limits; mode "single" reads
// TokenAmount with PoolTokenLimit on the side named by Direction.
type LiquidityRequest struct {
	Pool            string `json:"pool" binding:"required"`
	Mode            string `json:"mode"`
	PoolTokenAmount uint64 `json:"pool_token_amount"`
	TokenALimit     uint64 `json:"token_a_limit"`
	TokenBLimit     uint64 `json:"token_b_limit"`
	TokenAmount     uint64 `json:"token_amount"`
	PoolTokenLimit  uint64 `json:"pool_token_limit"`
	Direction       string `json:"direction"`
}

type LiquidityResponse struct {
	RequestId       string `json:"request_id"`
	Pool            string `json:"pool"`
	Slot            uint64 `json:"slot"`
	Mode            string `json:"mode"`
	PoolTokenAmount uint64 `json:"pool_token_amount"`
	TokenAAmount    uint64 `json:"token_a_amount"`
	TokenBAmount    uint64 `json:"token_b_amount"`
	NewReserveA     uint64 `json:"new_reserve_a"`
	NewReserveB     uint64 `json:"new_reserve_b"`
	NewPoolSupply   uint64 `json:"new_pool_supply"`
}

// priceImpact compares the executed price with the pool's spot price, both
// quoted as output per input.
func priceImpact(state *backend.PoolState, quote *tokenswap.SwapQuote) decimal.Decimal {
	inDecimals, outDecimals := state.DecimalsA, state.DecimalsB
	spot := state.Price()
	if quote.Direction == tokenswap.BtoA {
		inDecimals, outDecimals = outDecimals, inDecimals
		if !spot.IsZero() {
			spot = decimal.NewFromInt(1).DivRound(spot, 12)
		}
	}
	if spot.IsZero() {
		return decimal.Zero
	}
	executed := utils.Price(quote.AmountIn, inDecimals, quote.AmountOut, outDecimals)
	return decimal.NewFromInt(1).Sub(executed.DivRound(spot, 12))
}
