package main

import (
	"fmt"
	"time"

	"github.com/fekuna/cardmap-service/config"
	"github.com/fekuna/cardmap-service/internal/card"
	cardRepoPkg "github.com/fekuna/cardmap-service/internal/card/repository"
	"github.com/fekuna/cardmap-service/internal/category"
	catRepoPkg "github.com/fekuna/cardmap-service/internal/category/repository"
	"github.com/fekuna/cardmap-service/internal/merchant"
	merchantRepoPkg "github.com/fekuna/cardmap-service/internal/merchant/repository"
	"github.com/fekuna/cardmap-service/internal/refcache"
	"github.com/fekuna/cardmap-service/internal/store/memory"
	"github.com/fekuna/cardmap-service/pkg/cache"
	"github.com/fekuna/cardmap-service/pkg/database/postgres"
	"github.com/fekuna/cardmap-service/pkg/logger"
	"go.uber.org/zap"
)

// app holds the process-wide dependencies shared by every command.
type app struct {
	cfg *config.Config
	log logger.ZapLogger

	merchantRepo merchant.Repository
	cardRepo     card.Repository
	categoryRepo category.Repository
	cache        *refcache.Cache

	closers []func() error
}

func newLogger(cfg *config.Config) logger.ZapLogger {
	return logger.NewZapLogger(&logger.ZapLoggerConfig{
		IsDevelopment:     cfg.IsDevelopment(),
		Encoding:          cfg.Logger.Encoding,
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
		ServiceName:       serviceName,
	})
}

func newApp(withStore, withCache bool) (*app, error) {
	cfg := config.LoadEnv()
	a := &app{cfg: cfg, log: newLogger(cfg)}

	if withStore {
		if err := a.openStore(); err != nil {
			a.Close()
			return nil, err
		}
	}
	if withCache {
		if err := a.openCache(); err != nil {
			a.Close()
			return nil, err
		}
	}
	return a, nil
}

func (a *app) openStore() error {
	switch a.cfg.Store.Backend {
	case "memory":
		store := memory.NewStore()
		a.merchantRepo, a.cardRepo, a.categoryRepo = store.Merchants(), store.Cards(), store.Categories()
		a.log.Info("Using in-memory store")
		return nil
	case "postgres":
		pg := a.cfg.Postgres
		db, err := postgres.NewPostgres(postgres.Config{
			Host:            pg.Host,
			Port:            pg.Port,
			User:            pg.User,
			Password:        pg.Password,
			DBName:          pg.DBName,
			SSLMode:         pg.SSLMode,
			MaxOpenConns:    pg.MaxOpenConns,
			MaxIdleConns:    pg.MaxIdleConns,
			ConnMaxLifetime: time.Duration(pg.ConnMaxLifetime) * time.Second,
			ConnMaxIdleTime: time.Duration(pg.ConnMaxIdleTime) * time.Second,
		})
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		a.closers = append(a.closers, db.Close)
		a.merchantRepo = merchantRepoPkg.NewPGRepository(db)
		a.cardRepo = cardRepoPkg.NewPGRepository(db)
		a.categoryRepo = catRepoPkg.NewPGRepository(db)
		a.log.Info("Connected to PostgreSQL database", zap.String("db_name", pg.DBName))
		return nil
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", a.cfg.Store.Backend)
	}
}

func (a *app) openCache() error {
	var backend refcache.Backend
	switch a.cfg.Cache.Backend {
	case "memory":
		backend = refcache.NewMemoryBackend()
	case "redis":
		client, err := cache.NewRedisClient(cache.RedisConfig{
			Addr:     a.cfg.Redis.Addr,
			Password: a.cfg.Redis.Password,
			DB:       a.cfg.Redis.DB,
		})
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		backend = refcache.NewRedisBackend(client, a.cfg.Cache.TTL)
		a.log.Info("Connected to Redis", zap.String("addr", a.cfg.Redis.Addr))
	default:
		return fmt.Errorf("unknown CACHE_BACKEND %q", a.cfg.Cache.Backend)
	}
	a.cache = refcache.New(backend, a.log)
	a.closers = append(a.closers, a.cache.Close)
	return nil
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.log.Warn("close failed", zap.Error(err))
		}
	}
	a.closers = nil
	_ = a.log.Sync()
}
