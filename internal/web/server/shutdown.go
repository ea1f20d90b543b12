package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// ShutdownHook is a function called during graceful shutdown
type ShutdownHook func(ctx context.Context) error

// ShutdownConfig holds graceful shutdown configuration
type ShutdownConfig struct {
	// Timeout is the maximum time to wait for shutdown
	Timeout time.Duration

	// Signals to listen for (default: SIGINT, SIGTERM)
	Signals []os.Signal

	Logger *zap.Logger
}

// DefaultShutdownConfig returns default shutdown configuration
func DefaultShutdownConfig() *ShutdownConfig {
	return &ShutdownConfig{
		Timeout: 30 * time.Second,
		Signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM},
		Logger:  zap.NewNop(),
	}
}

// GracefulShutdown runs a server until a signal arrives, then drains it and
// runs cleanup hooks in registration order
type GracefulShutdown struct {
	server        *Server
	shutdownHooks []ShutdownHook
	timeout       time.Duration
	signals       []os.Signal
	logger        *zap.Logger
	mu            sync.Mutex
	shutdownOnce  sync.Once
	shutdownChan  chan struct{}
	shutdownError error
}

// NewGracefulShutdown creates a new graceful shutdown handler
func NewGracefulShutdown(server *Server, config *ShutdownConfig) *GracefulShutdown {
	if config == nil {
		config = DefaultShutdownConfig()
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	signals := config.Signals
	if len(signals) == 0 {
		signals = []os.Signal{syscall.SIGINT, syscall.SIGTERM}
	}

	return &GracefulShutdown{
		server:       server,
		timeout:      config.Timeout,
		signals:      signals,
		logger:       logger,
		shutdownChan: make(chan struct{}),
	}
}

// RegisterHook registers a shutdown hook to be called during shutdown
func (gs *GracefulShutdown) RegisterHook(hook ShutdownHook) {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	gs.shutdownHooks = append(gs.shutdownHooks, hook)
}

// Start serves and blocks until a shutdown signal or a serve failure
func (gs *GracefulShutdown) Start() error {
	if err := gs.server.Listen(); err != nil {
		return err
	}

	errChan := make(chan error, 1)
	go func() {
		gs.logger.Info("server listening", zap.String("addr", gs.server.Addr()))
		if err := gs.server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("server failed: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, gs.signals...)
	defer signal.Stop(quit)

	select {
	case sig := <-quit:
		gs.logger.Info("shutdown signal received", zap.String("signal", sig.String()))
		return gs.Shutdown()
	case err := <-errChan:
		return err
	case <-gs.shutdownChan:
		return gs.shutdownError
	}
}

// Shutdown runs hooks then drains the server; later calls wait for the first
func (gs *GracefulShutdown) Shutdown() error {
	gs.shutdownOnce.Do(func() {
		gs.logger.Info("initiating graceful shutdown", zap.Duration("timeout", gs.timeout))

		ctx, cancel := context.WithTimeout(context.Background(), gs.timeout)
		defer cancel()

		gs.mu.Lock()
		hooks := make([]ShutdownHook, len(gs.shutdownHooks))
		copy(hooks, gs.shutdownHooks)
		gs.mu.Unlock()

		for i, hook := range hooks {
			if err := hook(ctx); err != nil {
				// keep going; remaining hooks still need to release resources
				gs.logger.Warn("shutdown hook failed", zap.Int("hook", i), zap.Error(err))
			}
		}

		if err := gs.server.Shutdown(ctx); err != nil {
			gs.shutdownError = fmt.Errorf("server shutdown error: %w", err)
			gs.logger.Error("server shutdown failed", zap.Error(err))
		} else {
			gs.logger.Info("server shutdown completed")
		}

		close(gs.shutdownChan)
	})

	<-gs.shutdownChan
	return gs.shutdownError
}

// Wait blocks until shutdown is complete
func (gs *GracefulShutdown) Wait() error {
	<-gs.shutdownChan
	return gs.shutdownError
}
