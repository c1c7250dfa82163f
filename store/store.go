package store

import (
	"context"
	"sync"

	"github.com/egaotan/solana-tokenswap/backend"
	"go.uber.org/zap"
)

const queueSize = 256

// Store persists snapshots and quotes off the request path. Records that
// arrive while the queue is full are dropped.
type Store struct {
	logger       *zap.Logger
	snapshotChan chan *PoolSnapshot
	quoteChan    chan *Quote
	repository   Repository
	wg           sync.WaitGroup
}

var _ backend.SnapshotSink = (*Store)(nil)

func NewStore(repository Repository, logger *zap.Logger) *Store {
	return &Store{
		logger:       logger,
		snapshotChan: make(chan *PoolSnapshot, queueSize),
		quoteChan:    make(chan *Quote, queueSize),
		repository:   repository,
	}
}

func (s *Store) Start(ctx context.Context) {
	s.wg.Add(1)
	go s.store(ctx)
}

// Stop waits for the writer to exit; cancel the Start context first.
func (s *Store) Stop() {
	s.wg.Wait()
}

func (s *Store) store(ctx context.Context) {
	defer s.wg.Done()
	for {
		select {
		case snapshot := <-s.snapshotChan:
			s.saveSnapshot(snapshot)
		case quote := <-s.quoteChan:
			s.saveQuote(quote)
		case <-ctx.Done():
			s.drain()
			return
		}
	}
}

func (s *Store) drain() {
	for {
		select {
		case snapshot := <-s.snapshotChan:
			s.saveSnapshot(snapshot)
		case quote := <-s.quoteChan:
			s.saveQuote(quote)
		default:
			return
		}
	}
}

func (s *Store) saveSnapshot(snapshot *PoolSnapshot) {
	if err := s.repository.SavePoolSnapshot(snapshot); err != nil {
		s.logger.Error("save pool snapshot", zap.String("pool", snapshot.Pool), zap.Error(err))
	}
}

func (s *Store) saveQuote(quote *Quote) {
	if err := s.repository.SaveQuote(quote); err != nil {
		s.logger.Error("save quote", zap.String("request_id", quote.RequestId), zap.Error(err))
	}
}

func (s *Store) StoreSnapshot(state *backend.PoolState) {
	snapshot := &PoolSnapshot{
		Pool:       state.Address.String(),
		Kind:       state.Kind,
		CurveType:  state.CurveType().String(),
		Parameter:  state.Pool.Curve.Parameter(),
		Slot:       state.Height,
		ReserveA:   state.Pool.ReserveA,
		ReserveB:   state.Pool.ReserveB,
		PoolSupply: state.Pool.PoolSupply,
		Price:      state.Price(),
	}
	select {
	case s.snapshotChan <- snapshot:
	default:
		s.logger.Warn("drop pool snapshot", zap.String("pool", snapshot.Pool))
	}
}

func (s *Store) StoreQuote(quote *Quote) {
	select {
	case s.quoteChan <- quote:
	default:
		s.logger.Warn("drop quote", zap.String("request_id", quote.RequestId))
	}
}

func (s *Store) GetPoolSnapshots(pool string, limit int) ([]*PoolSnapshot, error) {
	return s.repository.SelectPoolSnapshots(pool, limit)
}

func (s *Store) GetQuote(requestId string) (*Quote, error) {
	return s.repository.SelectQuote(requestId)
}
