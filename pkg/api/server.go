// Package api exposes one engine's read-only query surface over HTTP.
//
// Endpoints:
//
//	GET /health              liveness probe
//	GET /v1/node             identity of the accounted node
//	GET /v1/usage            node-wide aggregate usage and remaining capacity
//	GET /v1/datasets         per-dataset aggregates
//	GET /v1/datasets/{id}    one dataset's aggregate and block list
//	GET /v1/blocks/{name}    one opaque block's footprint
//
// The API never mutates the engine. All handlers take the shared engine
// lock for the duration of their read.
package api

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/mosvani/blocktally/internal/logger"
)

// Server is the status API HTTP server.
type Server struct {
	server       *http.Server
	config       Config
	shutdownOnce sync.Once
}

// NewServer creates the API server over the guarded engine.
// The server is created in a stopped state; call Start to serve.
func NewServer(config Config, guard Guard) *Server {
	config.applyDefaults()

	return &Server{
		server: &http.Server{
			Addr:         fmt.Sprintf(":%d", config.Port),
			Handler:      NewRouter(guard),
			ReadTimeout:  config.ReadTimeout,
			WriteTimeout: config.WriteTimeout,
			IdleTimeout:  config.IdleTimeout,
		},
		config: config,
	}
}

// Start serves requests until ctx is cancelled or the listener fails.
// Cancellation triggers graceful shutdown.
func (s *Server) Start(ctx context.Context) error {
	errChan := make(chan error, 1)
	go func() {
		logger.Info("status API listening", "port", s.config.Port)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			select {
			case errChan <- err:
			default:
			}
		}
	}()

	select {
	case <-ctx.Done():
		// A fresh context: the cancelled one would abort the drain.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.Stop(shutdownCtx)
	case err := <-errChan:
		return fmt.Errorf("status API failed: %w", err)
	}
}

// Stop initiates graceful shutdown. Safe to call multiple times.
func (s *Server) Stop(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if err := s.server.Shutdown(ctx); err != nil {
			shutdownErr = fmt.Errorf("status API shutdown error: %w", err)
		} else {
			logger.Info("status API stopped")
		}
	})
	return shutdownErr
}

// Port returns the TCP port the server listens on.
func (s *Server) Port() int {
	return s.config.Port
}
