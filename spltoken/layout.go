package spltoken

import (
	"fmt"

	"github.com/egaotan/solana-tokenswap/codec"
	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

const (
	TokenLayoutSize = 165
	MintLayoutSize  = 82
)

type AccountState uint8

const (
	AccountUninitialized AccountState = iota
	AccountInitialized
	AccountFrozen
)

// UserLayout is an spl token account.
type UserLayout struct {
	Mint            solana.PublicKey
	Owner           solana.PublicKey
	Amount          uint64
	Delegate        *solana.PublicKey
	State           AccountState
	IsNative        *uint64
	DelegatedAmount uint64
	CloseAuthority  *solana.PublicKey
}

// TokenLayout is an spl token mint.
type TokenLayout struct {
	MintAuthority   *solana.PublicKey
	Supply          uint64
	Decimals        uint8
	IsInitialized   bool
	FreezeAuthority *solana.PublicKey
}

type KeyedUser struct {
	Key    solana.PublicKey
	Height uint64
	UserLayout
}

type KeyedToken struct {
	Key    solana.PublicKey
	Height uint64
	TokenLayout
}

func readOptionTag(decoder *bin.Decoder) (bool, error) {
	tag, err := decoder.ReadUint32(bin.LE)
	if err != nil {
		return false, err
	}
	switch tag {
	case 0:
		return false, nil
	case 1:
		return true, nil
	}
	return false, fmt.Errorf("invalid option tag %d", tag)
}

func writeOptionTag(encoder *bin.Encoder, some bool) error {
	var tag uint32
	if some {
		tag = 1
	}
	return encoder.WriteUint32(tag, bin.LE)
}

// an absent key still occupies its 32 bytes
func readOptionKey(decoder *bin.Decoder) (*solana.PublicKey, error) {
	some, err := readOptionTag(decoder)
	if err != nil {
		return nil, err
	}
	var key solana.PublicKey
	if err := codec.ReadKeys(decoder, &key); err != nil {
		return nil, err
	}
	if !some {
		return nil, nil
	}
	return &key, nil
}

func writeOptionKey(encoder *bin.Encoder, key *solana.PublicKey) error {
	if err := writeOptionTag(encoder, key != nil); err != nil {
		return err
	}
	var value solana.PublicKey
	if key != nil {
		value = *key
	}
	return codec.WriteKeys(encoder, value)
}

func (u *UserLayout) UnmarshalWithDecoder(decoder *bin.Decoder) (err error) {
	if err = codec.ReadKeys(decoder, &u.Mint, &u.Owner); err != nil {
		return err
	}
	if u.Amount, err = decoder.ReadUint64(bin.LE); err != nil {
		return err
	}
	if u.Delegate, err = readOptionKey(decoder); err != nil {
		return err
	}
	state, err := decoder.ReadUint8()
	if err != nil {
		return err
	}
	if state > uint8(AccountFrozen) {
		return fmt.Errorf("invalid account state %d", state)
	}
	u.State = AccountState(state)
	native, err := readOptionTag(decoder)
	if err != nil {
		return err
	}
	reserve, err := decoder.ReadUint64(bin.LE)
	if err != nil {
		return err
	}
	u.IsNative = nil
	if native {
		u.IsNative = &reserve
	}
	if u.DelegatedAmount, err = decoder.ReadUint64(bin.LE); err != nil {
		return err
	}
	u.CloseAuthority, err = readOptionKey(decoder)
	return err
}

func (u UserLayout) MarshalWithEncoder(encoder *bin.Encoder) error {
	if err := codec.WriteKeys(encoder, u.Mint, u.Owner); err != nil {
		return err
	}
	if err := encoder.WriteUint64(u.Amount, bin.LE); err != nil {
		return err
	}
	if err := writeOptionKey(encoder, u.Delegate); err != nil {
		return err
	}
	if err := encoder.WriteUint8(uint8(u.State)); err != nil {
		return err
	}
	if err := writeOptionTag(encoder, u.IsNative != nil); err != nil {
		return err
	}
	var reserve uint64
	if u.IsNative != nil {
		reserve = *u.IsNative
	}
	if err := encoder.WriteUint64(reserve, bin.LE); err != nil {
		return err
	}
	if err := encoder.WriteUint64(u.DelegatedAmount, bin.LE); err != nil {
		return err
	}
	return writeOptionKey(encoder, u.CloseAuthority)
}

func (t *TokenLayout) UnmarshalWithDecoder(decoder *bin.Decoder) (err error) {
	if t.MintAuthority, err = readOptionKey(decoder); err != nil {
		return err
	}
	if t.Supply, err = decoder.ReadUint64(bin.LE); err != nil {
		return err
	}
	if t.Decimals, err = decoder.ReadUint8(); err != nil {
		return err
	}
	if t.IsInitialized, err = codec.ReadBool(decoder); err != nil {
		return err
	}
	t.FreezeAuthority, err = readOptionKey(decoder)
	return err
}

func (t TokenLayout) MarshalWithEncoder(encoder *bin.Encoder) error {
	if err := writeOptionKey(encoder, t.MintAuthority); err != nil {
		return err
	}
	if err := encoder.WriteUint64(t.Supply, bin.LE); err != nil {
		return err
	}
	if err := encoder.WriteUint8(t.Decimals); err != nil {
		return err
	}
	if err := codec.WriteBool(encoder, t.IsInitialized); err != nil {
		return err
	}
	return writeOptionKey(encoder, t.FreezeAuthority)
}
