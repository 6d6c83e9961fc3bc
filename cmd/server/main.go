package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dispatch-app/backend/internal/api"
	"dispatch-app/backend/internal/common"
	"dispatch-app/backend/internal/config"
	"dispatch-app/backend/internal/constants"
	"dispatch-app/backend/internal/db"
	"dispatch-app/backend/internal/logging"
	"dispatch-app/backend/internal/metrics"
	"dispatch-app/backend/internal/routes"

	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"
)

const shutdownTimeout = 15 * time.Second

func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}

	if err := logging.Init(cfg.AppEnv, cfg.LogLevel); err != nil {
		log.Fatalf("❌ Failed to initialize logger: %v", err)
	}
	defer logging.Close()

	logging.Info("Dispatch backend starting up",
		"environment", cfg.AppEnv,
		"db_driver", cfg.Database.Driver,
		"cache_backend", cfg.Cache.Backend,
		"timestamp", time.Now().Format(time.RFC3339),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gdb, sdb, err := openDatabase(ctx, &cfg.Database)
	if err != nil {
		logging.Fatal("Failed to open database", "error", err.Error())
	}
	defer sdb.Close()

	if err := db.AutoMigrate(gdb); err != nil {
		logging.Fatal("Failed to migrate schema", "error", err.Error())
	}

	cache, err := openCache(ctx, &cfg.Cache)
	if err != nil {
		logging.Fatal("Failed to connect to cache", "error", err.Error())
	}
	defer cache.Close()

	metricsReg := metrics.NewMetricsRegistry()
	deps, err := api.InitDependencies(cfg, gdb, sdb, cache, metricsReg, common.SystemClock{}, common.UUIDGenerator{})
	if err != nil {
		logging.Fatal("Failed to initialize dependencies", "error", err.Error())
	}

	upSince := time.Now()
	srv := &http.Server{
		Addr:              cfg.Address(),
		Handler:           routes.RegisterRoutes(deps, cfg, upSince),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logging.Info("Server starting", "addr", srv.Addr, "environment", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("Server stopped", "error", err.Error())
		}
	}()

	<-ctx.Done()
	logging.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error("Graceful shutdown failed", "error", err.Error())
	}
}

// openDatabase returns a GORM handle plus a sqlx handle onto the same
// database. Postgres gets its own sqlx pool; sqlite shares GORM's.
func openDatabase(ctx context.Context, opts *config.DatabaseOptions) (*gorm.DB, *sqlx.DB, error) {
	if opts.Driver == "sqlite" {
		gdb, err := db.InitSQLiteORM(opts.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		sdb, err := db.WrapGORM(gdb, "sqlite3")
		if err != nil {
			return nil, nil, err
		}
		return gdb, sdb, nil
	}

	dsn := opts.ConnectionString()
	sdb, err := db.InitPostgres(ctx, dsn)
	if err != nil {
		return nil, nil, err
	}
	logging.Info("Connected to Postgres (sqlx)")

	gdb, err := db.InitPostgresORM(dsn)
	if err != nil {
		_ = sdb.Close()
		return nil, nil, err
	}
	return gdb, sdb, nil
}

func openCache(ctx context.Context, opts *config.CacheOptions) (common.CacheInterface, error) {
	if opts.Backend != "redis" {
		logging.Info("Using in-memory cache")
		return common.NewCacheService(30*time.Minute, 10*time.Minute), nil
	}

	client := common.NewRedisClient(common.RedisOptions{
		Host:     opts.RedisHost,
		Port:     opts.RedisPort,
		Password: opts.RedisPassword,
	})
	cache := common.NewRedisCacheService(client, string(constants.CachePrefixRedisKeys))
	if err := cache.Ping(ctx); err != nil {
		_ = cache.Close()
		return nil, err
	}
	logging.Info("Connected to Redis", "host", opts.RedisHost, "port", opts.RedisPort)
	return cache, nil
}
