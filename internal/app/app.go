package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"gst_billing/internal/worker"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// App manages the HTTP server and background workers.
type App struct {
	httpServer *http.Server
	workers    []worker.Worker
	port       int
	logger     *zap.Logger
}

// NewApp creates and configures a new application server.
func NewApp(port int, logger *zap.Logger, engine *gin.Engine, workers []worker.Worker) (*App, error) {
	if engine == nil {
		return nil, errors.New("http engine is nil")
	}

	app := &App{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
		workers: workers,
		port:    port,
		logger:  logger.Named("App"),
	}

	return app, nil
}

// Run serves HTTP and starts every worker, then blocks until ctx is cancelled
// or one of them fails. The server is drained before Run returns.
func (a *App) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", a.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on port %d: %w", a.port, err)
	}

	g, gctx := errgroup.WithContext(ctx)

	for _, w := range a.workers {
		w := w
		g.Go(func() error {
			w.Start(gctx)
			return nil
		})
	}

	g.Go(func() error {
		a.logger.Info("server started", zap.Int("port", a.port))
		if err := a.httpServer.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("HTTP server shutdown failed", zap.Error(err))
			return err
		}
		return nil
	})

	return g.Wait()
}

// Handler exposes the HTTP handler for in-process tests.
func (a *App) Handler() http.Handler {
	return a.httpServer.Handler
}
