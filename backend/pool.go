package backend

import (
	"context"
	"errors"
	"fmt"

	"github.com/egaotan/solana-tokenswap/config"
	"github.com/egaotan/solana-tokenswap/liquiditypool"
	"github.com/egaotan/solana-tokenswap/spltoken"
	"github.com/egaotan/solana-tokenswap/tokenswap"
	"github.com/egaotan/solana-tokenswap/utils"
	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrUnknownPoolKind = errors.New("unknown pool kind")
)

// PoolState is one pool account together with the balances its quotes
// are computed from.
type PoolState struct {
	Address    solana.PublicKey
	Kind       string
	Height     uint64
	TokenA     solana.PublicKey
	TokenB     solana.PublicKey
	TokenAMint solana.PublicKey
	TokenBMint solana.PublicKey
	PoolMint   solana.PublicKey
	DecimalsA  uint8
	DecimalsB  uint8
	Swap       *tokenswap.SwapVersion
	Amm        *liquiditypool.AmmVersion
	Pool       *tokenswap.Pool
}

// Price is token B per token A in ui units.
func (s *PoolState) Price() decimal.Decimal {
	return utils.Price(s.Pool.ReserveA, s.DecimalsA, s.Pool.ReserveB, s.DecimalsB)
}

func (s *PoolState) CurveType() tokenswap.CurveType {
	if s.Swap != nil {
		return s.Swap.V1.SwapCurve.CurveType
	}
	return s.Amm.V1.SwapCurve.CurveType
}

// decodePool fills the state fields carried by the pool account itself.
func (backend *Backend) decodePool(address solana.PublicKey, kind string, data []byte) (*PoolState, error) {
	state := &PoolState{Address: address, Kind: kind}
	switch kind {
	case config.KindTokenSwap:
		version, err := tokenswap.UnpackSwap(data)
		if err != nil {
			return nil, err
		}
		swap := version.V1
		if !swap.IsInitialized {
			return nil, tokenswap.ErrUninitializedAccount
		}
		if err := backend.swapConstraints.ValidateSwap(swap); err != nil {
			return nil, err
		}
		state.Swap = version
		state.TokenA, state.TokenB = swap.TokenA, swap.TokenB
		state.TokenAMint, state.TokenBMint = swap.TokenAMint, swap.TokenBMint
		state.PoolMint = swap.PoolMint
	case config.KindLiquidityPool:
		version, err := liquiditypool.UnpackAmm(data)
		if err != nil {
			return nil, err
		}
		amm := version.V1
		if !amm.IsInitialized {
			return nil, tokenswap.ErrUninitializedAccount
		}
		if err := backend.ammConstraints.ValidateAmm(amm); err != nil {
			return nil, err
		}
		state.Amm = version
		state.TokenA, state.TokenB = amm.TokenA, amm.TokenB
		state.TokenAMint, state.TokenBMint = amm.TokenAMint, amm.TokenBMint
		state.PoolMint = amm.PoolMint
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPoolKind, kind)
	}
	return state, nil
}

// LoadPool reads the pool account, its two vaults and the three mints, and
// builds the quoting model from them.
func (backend *Backend) LoadPool(ctx context.Context, address solana.PublicKey, kind string) (*PoolState, error) {
	account, err := backend.Account(ctx, address)
	if err != nil {
		return nil, err
	}
	state, err := backend.decodePool(address, kind, account.Data())
	if err != nil {
		return nil, fmt.Errorf("pool(%s) %w", address, err)
	}
	state.Height = account.Height

	accounts, err := backend.Accounts(ctx, []solana.PublicKey{state.TokenA, state.TokenB, state.PoolMint, state.TokenAMint, state.TokenBMint})
	if err != nil {
		return nil, err
	}
	vaults := make([]*spltoken.KeyedUser, 2)
	for i, vault := range accounts[:2] {
		user, err := spltoken.ParseUser(vault.PubKey, vault.Account.Owner, vault.Data())
		if err != nil {
			return nil, err
		}
		vaults[i] = backend.tokens.UpsertUser(vault.PubKey, vault.Height, user)
	}
	mints := make([]*spltoken.KeyedToken, 3)
	for i, mint := range accounts[2:] {
		token, err := spltoken.ParseToken(mint.PubKey, mint.Account.Owner, mint.Data())
		if err != nil {
			return nil, err
		}
		mints[i] = backend.tokens.UpsertToken(mint.PubKey, mint.Height, token)
	}
	if vaults[0].Mint != state.TokenAMint || vaults[1].Mint != state.TokenBMint {
		return nil, fmt.Errorf("pool(%s) vault mint mismatch", address)
	}
	state.DecimalsA, state.DecimalsB = mints[1].Decimals, mints[2].Decimals

	reserveA, reserveB, supply := vaults[0].Amount, vaults[1].Amount, mints[0].Supply
	if state.Swap != nil {
		state.Pool = state.Swap.V1.Pool(reserveA, reserveB, supply)
	} else {
		state.Pool = state.Amm.V1.Pool(reserveA, reserveB, supply)
	}
	backend.logger.Info("load pool",
		zap.Stringer("pool", address),
		zap.String("kind", kind),
		zap.Stringer("curve", state.CurveType()),
		zap.Uint64("reserve_a", reserveA),
		zap.Uint64("reserve_b", reserveB),
		zap.Uint64("supply", supply),
		zap.Uint64("slot", state.Height))
	return state, nil
}

// ScanPools lists every pool account of the given kind owned by program.
// Accounts that fail to decode or validate are skipped. The returned states
// carry no reserves; LoadPool fills those.
func (backend *Backend) ScanPools(ctx context.Context, program solana.PublicKey, kind string) ([]*PoolState, error) {
	var size uint64
	switch kind {
	case config.KindTokenSwap:
		size = tokenswap.SwapLayoutSize
	case config.KindLiquidityPool:
		size = liquiditypool.AmmLayoutSize
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPoolKind, kind)
	}
	accounts, err := backend.ProgramAccounts(ctx, program, []uint64{size})
	if err != nil {
		return nil, err
	}
	states := make([]*PoolState, 0, len(accounts))
	for _, account := range accounts {
		state, err := backend.decodePool(account.PubKey, kind, account.Data())
		if err != nil {
			backend.logger.Warn("skip pool account", zap.Stringer("account", account.PubKey), zap.Error(err))
			continue
		}
		states = append(states, state)
	}
	return states, nil
}
