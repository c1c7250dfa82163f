package backend

import (
	"context"
	"testing"

	"github.com/egaotan/solana-tokenswap/codec"
	"github.com/egaotan/solana-tokenswap/config"
	"github.com/egaotan/solana-tokenswap/liquiditypool"
	"github.com/egaotan/solana-tokenswap/spltoken"
	"github.com/egaotan/solana-tokenswap/tokenswap"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeClient struct {
	slot          uint64
	accounts      map[solana.PublicKey]*rpc.Account
	multipleCalls int
}

func newFakeClient() *fakeClient {
	return &fakeClient{slot: 42, accounts: make(map[solana.PublicKey]*rpc.Account)}
}

func (f *fakeClient) put(key, owner solana.PublicKey, data []byte) {
	f.accounts[key] = &rpc.Account{Owner: owner, Data: rpc.DataBytesOrJSONFromBytes(data)}
}

func (f *fakeClient) GetAccountInfo(_ context.Context, account solana.PublicKey) (*rpc.GetAccountInfoResult, error) {
	value, ok := f.accounts[account]
	if !ok {
		return nil, rpc.ErrNotFound
	}
	return &rpc.GetAccountInfoResult{RPCContext: rpc.RPCContext{Context: rpc.Context{Slot: f.slot}}, Value: value}, nil
}

func (f *fakeClient) GetMultipleAccountsWithOpts(_ context.Context, accounts []solana.PublicKey, _ *rpc.GetMultipleAccountsOpts) (*rpc.GetMultipleAccountsResult, error) {
	f.multipleCalls++
	values := make([]*rpc.Account, 0, len(accounts))
	for _, key := range accounts {
		values = append(values, f.accounts[key])
	}
	return &rpc.GetMultipleAccountsResult{RPCContext: rpc.RPCContext{Context: rpc.Context{Slot: f.slot}}, Value: values}, nil
}

func (f *fakeClient) GetProgramAccountsWithOpts(_ context.Context, program solana.PublicKey, opts *rpc.GetProgramAccountsOpts) (rpc.GetProgramAccountsResult, error) {
	result := rpc.GetProgramAccountsResult{}
	for key, account := range f.accounts {
		if account.Owner != program {
			continue
		}
		if len(opts.Filters) > 0 && uint64(len(account.Data.GetBinary())) != opts.Filters[0].DataSize {
			continue
		}
		result = append(result, &rpc.KeyedAccount{Pubkey: key, Account: account})
	}
	return result, nil
}

func testKey(seed byte) solana.PublicKey {
	var key solana.PublicKey
	for i := range key {
		key[i] = seed + byte(i)
	}
	return key
}

var (
	swapProgram = testKey(100)
	swapAddress = testKey(10)
	ammAddress  = testKey(20)
)

func putVault(t *testing.T, client *fakeClient, key, mint solana.PublicKey, amount uint64) {
	t.Helper()
	data, err := codec.Marshal(spltoken.UserLayout{Mint: mint, Owner: testKey(50), Amount: amount, State: spltoken.AccountInitialized}, spltoken.TokenLayoutSize)
	require.NoError(t, err)
	client.put(key, solana.TokenProgramID, data)
}

func putMint(t *testing.T, client *fakeClient, key solana.PublicKey, supply uint64, decimals uint8) {
	t.Helper()
	data, err := codec.Marshal(spltoken.TokenLayout{Supply: supply, Decimals: decimals, IsInitialized: true}, spltoken.MintLayoutSize)
	require.NoError(t, err)
	client.put(key, solana.TokenProgramID, data)
}

func testSwap() tokenswap.SwapV1 {
	return tokenswap.SwapV1{
		IsInitialized:  true,
		Nonce:          255,
		TokenProgramId: solana.TokenProgramID,
		TokenA:         testKey(1),
		TokenB:         testKey(2),
		PoolMint:       testKey(3),
		TokenAMint:     testKey(4),
		TokenBMint:     testKey(5),
		PoolFeeAccount: testKey(6),
		Fees:           tokenswap.Fees{TradeFeeNumerator: 25, TradeFeeDenominator: 10000},
		SwapCurve:      tokenswap.NewConstantProductCurve(),
	}
}

func testAmm() liquiditypool.AmmV1 {
	return liquiditypool.AmmV1{
		IsInitialized:    true,
		Nonce:            254,
		TokenProgramId:   solana.TokenProgramID,
		TokenA:           testKey(1),
		TokenB:           testKey(2),
		PoolMint:         testKey(3),
		TokenAMint:       testKey(4),
		TokenBMint:       testKey(5),
		FixedFeeAccountA: testKey(7),
		FixedFeeAccountB: testKey(8),
		Fees:             liquiditypool.Fees{ReturnFeeNumerator: 25, FixedFeeNumerator: 5, FeeDenominator: 10000},
		SwapCurve:        tokenswap.NewConstantProductCurve(),
	}
}

func newFixture(t *testing.T) (*fakeClient, *Backend) {
	t.Helper()
	client := newFakeClient()
	swapData, err := tokenswap.PackSwap(tokenswap.NewSwapVersion(testSwap()))
	require.NoError(t, err)
	client.put(swapAddress, swapProgram, swapData)
	ammData, err := liquiditypool.PackAmm(liquiditypool.NewAmmVersion(testAmm()))
	require.NoError(t, err)
	client.put(ammAddress, swapProgram, ammData)

	putVault(t, client, testKey(1), testKey(4), 1000000)
	putVault(t, client, testKey(2), testKey(5), 1000000)
	putMint(t, client, testKey(3), 1000000000, 9)
	putMint(t, client, testKey(4), 21000000000000, 6)
	putMint(t, client, testKey(5), 5000000000000, 6)
	return client, NewBackend(client, zap.NewNop())
}

func TestLoadSwapPool(t *testing.T) {
	_, backend := newFixture(t)
	state, err := backend.LoadPool(context.Background(), swapAddress, config.KindTokenSwap)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), state.Height)
	assert.Equal(t, tokenswap.ConstantProduct, state.CurveType())
	assert.Equal(t, uint8(6), state.DecimalsA)
	assert.True(t, state.Price().Equal(decimal.NewFromInt(1)))
	assert.Nil(t, state.Amm)

	quote, err := state.Pool.Swap(10000, 0, tokenswap.AtoB)
	require.NoError(t, err)
	assert.Equal(t, uint64(9877), quote.AmountOut)
	assert.Equal(t, uint64(1000000000), state.Pool.PoolSupply)

	cached := backend.Tokens().GetUser(testKey(1))
	require.NotNil(t, cached)
	assert.Equal(t, uint64(1000000), cached.Amount)
}

func TestLoadAmmPool(t *testing.T) {
	_, backend := newFixture(t)
	state, err := backend.LoadPool(context.Background(), ammAddress, config.KindLiquidityPool)
	require.NoError(t, err)
	require.NotNil(t, state.Amm)

	quote, err := state.Pool.Swap(10000, 0, tokenswap.AtoB)
	require.NoError(t, err)
	assert.Equal(t, uint64(9872), quote.AmountOut)
	assert.Equal(t, uint64(5), quote.OwnerFee)
}

func TestLoadPoolErrors(t *testing.T) {
	client, backend := newFixture(t)
	ctx := context.Background()

	_, err := backend.LoadPool(ctx, testKey(99), config.KindTokenSwap)
	assert.ErrorIs(t, err, ErrAccountNotFound)

	_, err = backend.LoadPool(ctx, swapAddress, config.KindLiquidityPool)
	assert.ErrorIs(t, err, tokenswap.ErrInvalidAccountData)

	_, err = backend.LoadPool(ctx, swapAddress, "orca")
	assert.ErrorIs(t, err, ErrUnknownPoolKind)

	backend.SetConstraints(&tokenswap.SwapConstraints{ValidCurveTypes: []tokenswap.CurveType{tokenswap.Stable}}, nil)
	_, err = backend.LoadPool(ctx, swapAddress, config.KindTokenSwap)
	assert.ErrorIs(t, err, tokenswap.ErrUnsupportedCurveType)
	backend.SetConstraints(nil, nil)

	putVault(t, client, testKey(2), testKey(4), 1000000)
	_, err = backend.LoadPool(ctx, swapAddress, config.KindTokenSwap)
	assert.Error(t, err)

	delete(client.accounts, testKey(2))
	_, err = backend.LoadPool(ctx, swapAddress, config.KindTokenSwap)
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestAccountsChunks(t *testing.T) {
	client, backend := newFixture(t)
	keys := make([]solana.PublicKey, 0, 250)
	for i := 0; i < 250; i++ {
		keys = append(keys, testKey(1))
	}
	accounts, err := backend.Accounts(context.Background(), keys)
	require.NoError(t, err)
	assert.Len(t, accounts, 250)
	assert.Equal(t, 3, client.multipleCalls)
}

func TestScanPools(t *testing.T) {
	client, backend := newFixture(t)
	broken := make([]byte, tokenswap.SwapLayoutSize)
	broken[0] = tokenswap.SwapVersion1
	broken[1] = 7
	client.put(testKey(30), swapProgram, broken)

	states, err := backend.ScanPools(context.Background(), swapProgram, config.KindTokenSwap)
	require.NoError(t, err)
	require.Len(t, states, 1)
	assert.Equal(t, swapAddress, states[0].Address)

	states, err = backend.ScanPools(context.Background(), swapProgram, config.KindLiquidityPool)
	require.NoError(t, err)
	require.Len(t, states, 1)
	assert.Equal(t, ammAddress, states[0].Address)
}
