package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/egaotan/solana-tokenswap/backend"
	"github.com/egaotan/solana-tokenswap/config"
	"github.com/egaotan/solana-tokenswap/program"
	"github.com/egaotan/solana-tokenswap/utils"
	"go.uber.org/zap"
)

type poolLine struct {
	Address   string `json:"address"`
	Kind      string `json:"kind"`
	CurveType string `json:"curve_type"`
	Parameter uint64 `json:"parameter"`
	TokenA    string `json:"token_a_mint"`
	TokenB    string `json:"token_b_mint"`
}

func writePools(w io.Writer, states []*backend.PoolState) error {
	encoder := json.NewEncoder(w)
	for _, state := range states {
		var parameter uint64
		if state.Swap != nil {
			parameter = state.Swap.V1.SwapCurve.Parameter()
		} else {
			parameter = state.Amm.V1.SwapCurve.Parameter()
		}
		err := encoder.Encode(&poolLine{
			Address:   state.Address.String(),
			Kind:      state.Kind,
			CurveType: state.CurveType().String(),
			Parameter: parameter,
			TokenA:    state.TokenAMint.String(),
			TokenB:    state.TokenBMint.String(),
		})
		if err != nil {
			return fmt.Errorf("encode pool %s: %w", state.Address, err)
		}
	}
	return nil
}

// scanpools prints every pool a program owns as json lines, e.g.
//
//	scanpools -config config.yaml -program orca_v2
func main() {
	configFile := flag.String("config", "config.yaml", "config file")
	name := flag.String("program", "", "program name ("+strings.Join(program.Names(), ", ")+") or id")
	kind := flag.String("kind", "", "pool kind for an unknown program id")
	timeout := flag.Duration("timeout", time.Minute, "rpc timeout")
	flag.Parse()

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	p, err := program.Lookup(*name, *kind)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	cfg.Log.Console = false
	logger, err := utils.NewLog(cfg.Log, "scanpools")
	if err != nil {
		fmt.Fprintf(os.Stderr, "new log: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	be, err := backend.Dial(cfg.Nodes, logger)
	if err != nil {
		logger.Fatal("dial", zap.Error(err))
	}
	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()
	states, err := be.ScanPools(ctx, p.Id, p.Kind)
	if err != nil {
		logger.Fatal("scan pools", zap.Stringer("program", p.Id), zap.Error(err))
	}
	if err := writePools(os.Stdout, states); err != nil {
		logger.Fatal("write pools", zap.Error(err))
	}
	logger.Info("scan pools", zap.String("program", p.Name), zap.Int("count", len(states)))
}
