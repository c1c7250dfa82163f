package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/egaotan/solana-tokenswap/backend"
	"github.com/egaotan/solana-tokenswap/config"
	"github.com/egaotan/solana-tokenswap/server"
	"github.com/egaotan/solana-tokenswap/store"
	"github.com/egaotan/solana-tokenswap/utils"
	"go.uber.org/zap"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGABRT)
	go shutdown(cancel, quit)

	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: quoted <config file>")
		os.Exit(2)
	}
	cfg, err := config.LoadConfig(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLog(cfg.Log, config.QuotedLog)
	if err != nil {
		fmt.Fprintf(os.Stderr, "new log: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("quoted", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	be, err := backend.Dial(cfg.Nodes, logger.Named(config.BackendLog))
	if err != nil {
		return err
	}
	swapConstraints, err := cfg.SwapConstraints()
	if err != nil {
		return err
	}
	ammConstraints, err := cfg.AmmConstraints()
	if err != nil {
		return err
	}
	be.SetConstraints(swapConstraints, ammConstraints)

	var st *store.Store
	var sink backend.SnapshotSink
	var quotes server.QuoteSink
	if cfg.MySQL.Enabled {
		dao, err := store.NewDao(cfg.MySQL.DSN())
		if err != nil {
			return err
		}
		st = store.NewStore(dao, logger.Named(config.StoreLog))
		st.Start(ctx)
		sink, quotes = st, st
	}

	registry := backend.NewRegistry(be, cfg.Pools, sink)
	registry.Start(ctx, time.Duration(cfg.RefreshSeconds)*time.Second)

	srv := server.NewServer(registry, quotes, cfg.Listen, logger.Named(config.ServerLog))
	srv.StartRPC()

	<-ctx.Done()
	stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer stopCancel()
	if err := srv.StopRPC(stopCtx); err != nil {
		logger.Error("stop rpc server", zap.Error(err))
	}
	registry.Wait()
	if st != nil {
		st.Stop()
	}
	return nil
}

func shutdown(cancel context.CancelFunc, quit <-chan os.Signal) {
	osCall := <-quit
	fmt.Printf("System call: %v, quoted is shutting down......\n", osCall)
	cancel()
}
