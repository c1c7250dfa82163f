package backend

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/egaotan/solana-tokenswap/config"
	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
)

// SnapshotSink receives every freshly loaded pool.
type SnapshotSink interface {
	StoreSnapshot(state *PoolState)
}

// Registry holds the latest state of the configured pools.
type Registry struct {
	backend *Backend
	pools   []*config.PoolConfig
	sink    SnapshotSink
	lock    sync.RWMutex
	states  map[solana.PublicKey]*PoolState
	wg      sync.WaitGroup
}

func NewRegistry(backend *Backend, pools []*config.PoolConfig, sink SnapshotSink) *Registry {
	return &Registry{
		backend: backend,
		pools:   pools,
		sink:    sink,
		states:  make(map[solana.PublicKey]*PoolState),
	}
}

// Refresh reloads every configured pool. A pool that fails keeps its
// previous state; the number of failures is returned.
func (r *Registry) Refresh(ctx context.Context) int {
	failed := 0
	for _, pool := range r.pools {
		state, err := r.backend.LoadPool(ctx, pool.PublicKey(), pool.Kind)
		if err != nil {
			r.backend.logger.Warn("refresh pool", zap.String("pool", pool.Address), zap.Error(err))
			failed++
			continue
		}
		r.Put(state)
		if r.sink != nil {
			r.sink.StoreSnapshot(state)
		}
	}
	return failed
}

// Start refreshes once, then again every interval until ctx is done.
func (r *Registry) Start(ctx context.Context, interval time.Duration) {
	r.Refresh(ctx)
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				r.Refresh(ctx)
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (r *Registry) Wait() {
	r.wg.Wait()
}

func (r *Registry) Put(state *PoolState) {
	r.lock.Lock()
	defer r.lock.Unlock()
	if old, ok := r.states[state.Address]; ok && old.Height > state.Height {
		return
	}
	r.states[state.Address] = state
}

func (r *Registry) Get(address solana.PublicKey) (*PoolState, bool) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	state, ok := r.states[address]
	return state, ok
}

// List returns the pools ordered by address.
func (r *Registry) List() []*PoolState {
	r.lock.RLock()
	defer r.lock.RUnlock()
	states := make([]*PoolState, 0, len(r.states))
	for _, state := range r.states {
		states = append(states, state)
	}
	sort.Slice(states, func(i, j int) bool {
		return states[i].Address.String() < states[j].Address.String()
	})
	return states
}
