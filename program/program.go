// Package program lists the on-chain programs whose pools the quoter decodes.
package program

import (
	"fmt"
	"sort"

	"github.com/egaotan/solana-tokenswap/config"
	"github.com/gagliardetto/solana-go"
)

var (
	OrcaV1    = solana.MustPublicKeyFromBase58("DjVE6JNiYqPL2QXyCUUh8rNjHrbz9hXHNYt99MQ59qw1")
	OrcaV2    = solana.MustPublicKeyFromBase58("9W959DqEETiGZocYWCQPaJ6sBmUzgfxXfqGeTEdp3aQP")
	TokenSwap = solana.MustPublicKeyFromBase58("SwaPpA9LAaLfeLi3a68M4DjnLqgtticKg6CnyNwgAC8")
)

type Program struct {
	Name string
	Id   solana.PublicKey
	// Kind is the account layout the program's pools use.
	Kind string
}

var known = map[string]*Program{
	"orca_v1":    {Name: "orca_v1", Id: OrcaV1, Kind: config.KindTokenSwap},
	"orca_v2":    {Name: "orca_v2", Id: OrcaV2, Kind: config.KindTokenSwap},
	"token_swap": {Name: "token_swap", Id: TokenSwap, Kind: config.KindTokenSwap},
}

// Lookup accepts a known program name or a base58 program id. An id that
// is not known needs an explicit kind.
func Lookup(nameOrId, kind string) (*Program, error) {
	if p, ok := known[nameOrId]; ok {
		if kind != "" && kind != p.Kind {
			return nil, fmt.Errorf("program %s holds %s pools, not %s", p.Name, p.Kind, kind)
		}
		return p, nil
	}
	id, err := solana.PublicKeyFromBase58(nameOrId)
	if err != nil {
		return nil, fmt.Errorf("unknown program %q", nameOrId)
	}
	for _, p := range known {
		if p.Id == id {
			return Lookup(p.Name, kind)
		}
	}
	if kind != config.KindTokenSwap && kind != config.KindLiquidityPool {
		return nil, fmt.Errorf("program %s needs a pool kind", id)
	}
	return &Program{Name: id.String(), Id: id, Kind: kind}, nil
}

func Names() []string {
	names := make([]string, 0, len(known))
	for name := range known {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
