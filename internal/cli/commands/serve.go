package commands

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	// Drivers selectable through database.driver
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/conduit-lang/jsonapify/internal/cli/config"
	"github.com/conduit-lang/jsonapify/internal/logging"
	"github.com/conduit-lang/jsonapify/internal/orm/schema"
	"github.com/conduit-lang/jsonapify/internal/web/cache"
	"github.com/conduit-lang/jsonapify/internal/web/handlers"
	"github.com/conduit-lang/jsonapify/internal/web/middleware"
	"github.com/conduit-lang/jsonapify/internal/web/router"
	"github.com/conduit-lang/jsonapify/internal/web/server"
)

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve JSON:API documents for every resource in the schema file",
		Long: `Serve JSON:API documents over HTTP.

Every resource in the schema file gets two routes:
  GET {api_prefix}/{path}       find, windowed by $skip and $limit
  GET {api_prefix}/{path}/{id}  get
Both accept include=a,b to embed associations.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return err
	}
	defer logger.Sync()

	a, err := newApp(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}

	serverConfig := server.DefaultConfig(a.handler)
	serverConfig.Address = cfg.Server.Address()
	serverConfig.Database = server.DefaultDatabaseConfig(a.db)

	srv, err := server.New(serverConfig)
	if err != nil {
		a.Close()
		return err
	}

	shutdownConfig := server.DefaultShutdownConfig()
	shutdownConfig.Logger = logger
	gs := server.NewGracefulShutdown(srv, shutdownConfig)
	gs.RegisterHook(func(ctx context.Context) error {
		return a.Close()
	})

	color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "Serving %d resources on http://%s%s\n",
		len(a.registry.List()), cfg.Server.Address(), cfg.Server.APIPrefix)

	return gs.Start()
}

// app holds the wired HTTP handler and the resources it owns
type app struct {
	handler  http.Handler
	registry *schema.Registry
	db       *sql.DB
	cache    cache.Cache
}

// newApp loads the schema, opens the database and cache, and builds the
// router with its middleware
func newApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*app, error) {
	registry, err := schema.LoadFile(cfg.Schema.Path)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(cfg.Database.Driver, cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	a := &app{registry: registry, db: db}

	a.cache, err = newCache(ctx, cfg.Cache)
	if err != nil {
		db.Close()
		return nil, err
	}

	rt := router.NewRouter(cfg.Server.APIPrefix)
	rt.Use(
		middleware.RequestID(),
		middleware.Logging(logger),
		middleware.Recovery(logger),
	)
	if a.cache != nil {
		rt.Use(cache.Middleware(a.cache, cfg.Cache.TTL, logger))
	}

	err = handlers.Register(rt, registry, db, handlers.Config{
		APIPrefix:     cfg.Server.APIPrefix,
		ServiceName:   cfg.Service.Name,
		IdentifierKey: cfg.Service.IdentifierKey,
		TypeKey:       cfg.Service.TypeKey,
		DefaultLimit:  cfg.Pagination.DefaultLimit,
		MaxLimit:      cfg.Pagination.MaxLimit,
	}, logger)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.handler = rt
	return a, nil
}

func newCache(ctx context.Context, cfg config.CacheConfig) (cache.Cache, error) {
	cacheConfig := cache.DefaultConfig()
	cacheConfig.DefaultTTL = cfg.TTL

	switch cfg.Backend {
	case "memory":
		return cache.NewMemoryCache(cacheConfig, cfg.TTL), nil
	case "redis":
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Cache:    cacheConfig,
		})
		if err != nil {
			return nil, err
		}
		return rc, nil
	default:
		return nil, nil
	}
}

// Close releases the cache and database
func (a *app) Close() error {
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.db.Close()
			return err
		}
	}
	return a.db.Close()
}
