package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/egaotan/solana-tokenswap/backend"
	"github.com/egaotan/solana-tokenswap/store"
	"github.com/gagliardetto/solana-go"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const RequestIdHeader = "X-Request-Id"

type PoolSource interface {
	Get(address solana.PublicKey) (*backend.PoolState, bool)
	List() []*backend.PoolState
}

type QuoteSink interface {
	StoreQuote(quote *store.Quote)
}

type Server struct {
	logger     *zap.Logger
	pools      PoolSource
	sink       QuoteSink
	listen     string
	httpServer *http.Server
}

// NewServer serves quotes from pools. sink may be nil.
func NewServer(pools PoolSource, sink QuoteSink, listen string, logger *zap.Logger) *Server {
	return &Server{
		logger: logger,
		pools:  pools,
		sink:   sink,
		listen: listen,
	}
}

func (server *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), server.requestId)
	g := router.Group("/api")
	g.GET("/pools", server.listPools)
	g.GET("/pools/:address", server.getPool)
	g.POST("/quote/swap", server.quoteSwap)
	g.POST("/quote/deposit", server.quoteDeposit)
	g.POST("/quote/withdraw", server.quoteWithdraw)
	return router
}

func (server *Server) StartRPC() {
	server.httpServer = &http.Server{
		Addr:    server.listen,
		Handler: server.Router(),
	}
	server.logger.Info("start rpc server", zap.String("listen", server.listen))
	go func() {
		if err := server.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			server.logger.Error("ListenAndServe", zap.Error(err))
		}
	}()
}

func (server *Server) StopRPC(ctx context.Context) error {
	if server.httpServer == nil {
		return nil
	}
	if err := server.httpServer.Shutdown(ctx); err != nil {
		return err
	}
	server.logger.Info("rpc server has stopped")
	return nil
}

// requestId keys the stored quote, so it is always minted here and never
// taken from the client.
func (server *Server) requestId(c *gin.Context) {
	id := uuid.NewString()
	c.Set(RequestIdHeader, id)
	c.Header(RequestIdHeader, id)
	c.Next()
}

func (server *Server) pool(c *gin.Context, address string) (*backend.PoolState, bool) {
	key, err := solana.PublicKeyFromBase58(address)
	if err != nil {
		c.JSON(http.StatusBadRequest, &ErrorResponse{Error: "invalid pool address"})
		return nil, false
	}
	state, ok := server.pools.Get(key)
	if !ok || state.Pool == nil {
		c.JSON(http.StatusNotFound, &ErrorResponse{Error: "pool not found"})
		return nil, false
	}
	return state, true
}

func (server *Server) listPools(c *gin.Context) {
	states := server.pools.List()
	views := make([]*PoolView, 0, len(states))
	for _, state := range states {
		views = append(views, newPoolView(state))
	}
	c.JSON(http.StatusOK, views)
}

func (server *Server) getPool(c *gin.Context) {
	state, ok := server.pool(c, c.Param("address"))
	if !ok {
		return
	}
	c.JSON(http.StatusOK, newPoolView(state))
}
