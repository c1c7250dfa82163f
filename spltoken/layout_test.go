package spltoken

import (
	"testing"

	"github.com/egaotan/solana-tokenswap/codec"
	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey(seed byte) solana.PublicKey {
	var key solana.PublicKey
	for i := range key {
		key[i] = seed + byte(i)
	}
	return key
}

func TestUserLayoutWire(t *testing.T) {
	delegate := testKey(3)
	user := UserLayout{
		Mint:            testKey(1),
		Owner:           testKey(2),
		Amount:          1000000,
		Delegate:        &delegate,
		State:           AccountInitialized,
		DelegatedAmount: 7,
	}
	data, err := codec.Marshal(user, TokenLayoutSize)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000000), bin.LE.Uint64(data[64:72]))
	assert.Equal(t, uint32(1), bin.LE.Uint32(data[72:76]))
	assert.Equal(t, byte(AccountInitialized), data[108])
	assert.Equal(t, uint32(0), bin.LE.Uint32(data[109:113]))

	decoded, err := ParseUser(testKey(9), solana.TokenProgramID, data)
	require.NoError(t, err)
	assert.Equal(t, user, decoded)

	_, err = ParseUser(testKey(9), testKey(8), data)
	assert.Error(t, err)
	_, err = ParseUser(testKey(9), solana.TokenProgramID, data[:100])
	assert.Error(t, err)

	data[108] = 5
	_, err = ParseUser(testKey(9), solana.TokenProgramID, data)
	assert.Error(t, err)
	data[108] = byte(AccountUninitialized)
	_, err = ParseUser(testKey(9), solana.TokenProgramID, data)
	assert.Error(t, err)
}

func TestTokenLayoutWire(t *testing.T) {
	authority := testKey(4)
	mint := TokenLayout{
		MintAuthority: &authority,
		Supply:        21000000,
		Decimals:      6,
		IsInitialized: true,
	}
	data, err := codec.Marshal(mint, MintLayoutSize)
	require.NoError(t, err)
	assert.Equal(t, uint64(21000000), bin.LE.Uint64(data[36:44]))
	assert.Equal(t, byte(6), data[44])
	assert.Equal(t, byte(1), data[45])

	decoded, err := ParseToken(testKey(9), solana.TokenProgramID, data)
	require.NoError(t, err)
	assert.Equal(t, mint, decoded)

	data[46] = 2
	_, err = ParseToken(testKey(9), solana.TokenProgramID, data)
	assert.Error(t, err)
	data[46] = 0
	data[45] = 0
	_, err = ParseToken(testKey(9), solana.TokenProgramID, data)
	assert.Error(t, err)
}

func TestCacheKeepsNewestHeight(t *testing.T) {
	cache := NewCache()
	assert.Nil(t, cache.GetToken(testKey(1)))

	cache.UpsertToken(testKey(1), 10, TokenLayout{Supply: 100})
	cache.UpsertToken(testKey(1), 9, TokenLayout{Supply: 50})
	assert.Equal(t, uint64(100), cache.GetToken(testKey(1)).Supply)
	cache.UpsertToken(testKey(1), 11, TokenLayout{Supply: 200})
	assert.Equal(t, uint64(200), cache.GetToken(testKey(1)).Supply)

	cache.UpsertUser(testKey(2), 5, UserLayout{Amount: 1})
	got := cache.GetUser(testKey(2))
	got.Amount = 99
	assert.Equal(t, uint64(1), cache.GetUser(testKey(2)).Amount)
}
