package backend

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"
)

const (
	MultipleAccountSliceSize = 100
)

type Account struct {
	PubKey  solana.PublicKey
	Account *rpc.Account
	Height  uint64
}

func (a *Account) Data() []byte {
	if a.Account == nil || a.Account.Data == nil {
		return nil
	}
	return a.Account.Data.GetBinary()
}

func (backend *Backend) ProgramAccounts(ctx context.Context, program solana.PublicKey, dataSizes []uint64) ([]*Account, error) {
	accounts := make([]*Account, 0)
	for _, dataSize := range dataSizes {
		result, err := backend.rpcClient.GetProgramAccountsWithOpts(ctx, program,
			&rpc.GetProgramAccountsOpts{
				Encoding: solana.EncodingBase64,
				Filters:  []rpc.RPCFilter{{DataSize: dataSize}},
			})
		if err != nil {
			return nil, err
		}
		for _, account := range result {
			accounts = append(accounts, &Account{
				PubKey:  account.Pubkey,
				Account: account.Account,
				Height:  0,
			})
		}
	}
	backend.logger.Debug("program accounts", zap.Stringer("program", program), zap.Int("count", len(accounts)))
	return accounts, nil
}

func (backend *Backend) Accounts(ctx context.Context, pubkeys []solana.PublicKey) ([]*Account, error) {
	accounts := make([]*Account, 0, len(pubkeys))
	index, end := 0, 0
	for index < len(pubkeys) {
		if end = index + MultipleAccountSliceSize; end > len(pubkeys) {
			end = len(pubkeys)
		}
		getMultipleAccountsRsp, err := backend.rpcClient.GetMultipleAccountsWithOpts(ctx, pubkeys[index:end],
			&rpc.GetMultipleAccountsOpts{Encoding: solana.EncodingBase64})
		if err != nil {
			return nil, err
		}
		if len(getMultipleAccountsRsp.Value) != end-index {
			return nil, fmt.Errorf("get accounts err, some account is missing")
		}
		for i, account := range getMultipleAccountsRsp.Value {
			if account == nil {
				return nil, fmt.Errorf("account(%s) %w", pubkeys[index+i], ErrAccountNotFound)
			}
			accounts = append(accounts, &Account{
				PubKey:  pubkeys[index+i],
				Height:  getMultipleAccountsRsp.Context.Slot,
				Account: account,
			})
		}
		index = end
	}
	return accounts, nil
}

func (backend *Backend) Account(ctx context.Context, pubkey solana.PublicKey) (*Account, error) {
	response, err := backend.rpcClient.GetAccountInfo(ctx, pubkey)
	if err == rpc.ErrNotFound || (err == nil && response.Value == nil) {
		return nil, fmt.Errorf("account(%s) %w", pubkey, ErrAccountNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &Account{
		PubKey:  pubkey,
		Account: response.Value,
		Height:  response.Context.Slot,
	}, nil
}
