// Package server runs the document HTTP surface with production timeouts and a
// tuned database pool.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/http"
	"time"
)

// Server wraps http.Server with its listener and configuration
type Server struct {
	httpServer *http.Server
	config     *Config
	listener   net.Listener
}

// Config holds server configuration
type Config struct {
	// Address is the server listen address (e.g., "localhost:3000")
	Address string

	// Handler is the HTTP handler for the server
	Handler http.Handler

	// Timeouts
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ReadHeaderTimeout time.Duration

	MaxHeaderBytes int

	// Database configuration for connection pooling
	Database *DatabaseConfig
}

// DatabaseConfig holds database connection pool configuration
type DatabaseConfig struct {
	DB *sql.DB

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// DefaultConfig returns a production-ready server configuration
func DefaultConfig(handler http.Handler) *Config {
	return &Config{
		Address:           "localhost:3000",
		Handler:           handler,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1 MB
	}
}

// DefaultDatabaseConfig returns pool settings suited to a read-mostly workload
func DefaultDatabaseConfig(db *sql.DB) *DatabaseConfig {
	return &DatabaseConfig{
		DB:              db,
		MaxOpenConns:    50,
		MaxIdleConns:    10,
		ConnMaxLifetime: time.Hour,
		ConnMaxIdleTime: 10 * time.Minute,
	}
}

// New creates a server, configuring and pinging the database pool when given
func New(config *Config) (*Server, error) {
	if config == nil {
		return nil, fmt.Errorf("server config cannot be nil")
	}
	if config.Handler == nil {
		return nil, fmt.Errorf("handler cannot be nil")
	}

	if config.Database != nil {
		if err := configureDatabasePool(config.Database); err != nil {
			return nil, fmt.Errorf("failed to configure database pool: %w", err)
		}
	}

	httpServer := &http.Server{
		Addr:              config.Address,
		Handler:           config.Handler,
		ReadTimeout:       config.ReadTimeout,
		WriteTimeout:      config.WriteTimeout,
		IdleTimeout:       config.IdleTimeout,
		ReadHeaderTimeout: config.ReadHeaderTimeout,
		MaxHeaderBytes:    config.MaxHeaderBytes,
	}

	return &Server{
		httpServer: httpServer,
		config:     config,
	}, nil
}

// Listen binds the listen address without serving yet
func (s *Server) Listen() error {
	if s.listener != nil {
		return nil
	}
	listener, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return fmt.Errorf("failed to create listener: %w", err)
	}
	s.listener = listener
	return nil
}

// Start binds (if needed) and serves until Shutdown or Close
func (s *Server) Start() error {
	if err := s.Listen(); err != nil {
		return err
	}
	return s.httpServer.Serve(s.listener)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Close immediately closes the server
func (s *Server) Close() error {
	return s.httpServer.Close()
}

// Addr returns the bound address, or the configured one before Listen
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.config.Address
}

func configureDatabasePool(config *DatabaseConfig) error {
	if config.DB == nil {
		return fmt.Errorf("database connection cannot be nil")
	}

	config.DB.SetMaxOpenConns(config.MaxOpenConns)
	config.DB.SetMaxIdleConns(config.MaxIdleConns)
	config.DB.SetConnMaxLifetime(config.ConnMaxLifetime)
	config.DB.SetConnMaxIdleTime(config.ConnMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := config.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	return nil
}
