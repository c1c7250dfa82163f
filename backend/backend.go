package backend

import (
	"context"
	"errors"

	"github.com/egaotan/solana-tokenswap/config"
	"github.com/egaotan/solana-tokenswap/liquiditypool"
	"github.com/egaotan/solana-tokenswap/spltoken"
	"github.com/egaotan/solana-tokenswap/tokenswap"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"
)

// RPCClient is the subset of *rpc.Client the backend reads through.
type RPCClient interface {
	GetAccountInfo(ctx context.Context, account solana.PublicKey) (*rpc.GetAccountInfoResult, error)
	GetMultipleAccountsWithOpts(ctx context.Context, accounts []solana.PublicKey, opts *rpc.GetMultipleAccountsOpts) (*rpc.GetMultipleAccountsResult, error)
	GetProgramAccountsWithOpts(ctx context.Context, publicKey solana.PublicKey, opts *rpc.GetProgramAccountsOpts) (rpc.GetProgramAccountsResult, error)
}

var _ RPCClient = (*rpc.Client)(nil)

type Backend struct {
	logger          *zap.Logger
	rpcClient       RPCClient
	tokens          *spltoken.Cache
	swapConstraints *tokenswap.SwapConstraints
	ammConstraints  *liquiditypool.AmmConstraints
}

func NewBackend(client RPCClient, logger *zap.Logger) *Backend {
	return &Backend{
		logger:    logger,
		rpcClient: client,
		tokens:    spltoken.NewCache(),
	}
}

// Dial connects to the first configured node.
func Dial(nodes []*config.Node, logger *zap.Logger) (*Backend, error) {
	if len(nodes) == 0 {
		return nil, errors.New("no rpc node configured")
	}
	return NewBackend(rpc.New(nodes[0].Rpc), logger), nil
}

// SetConstraints installs the checks applied to every loaded pool. Nil
// leaves that pool kind unconstrained.
func (backend *Backend) SetConstraints(swap *tokenswap.SwapConstraints, amm *liquiditypool.AmmConstraints) {
	backend.swapConstraints = swap
	backend.ammConstraints = amm
}

func (backend *Backend) Tokens() *spltoken.Cache {
	return backend.tokens
}
