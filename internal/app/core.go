package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrSnakeDoc/linkvault/internal/config"
	"github.com/MrSnakeDoc/linkvault/internal/enrich"
	"github.com/MrSnakeDoc/linkvault/internal/gate"
	"github.com/MrSnakeDoc/linkvault/internal/links"
	"github.com/MrSnakeDoc/linkvault/internal/logger"
	"github.com/MrSnakeDoc/linkvault/internal/metrics"
	"github.com/MrSnakeDoc/linkvault/internal/redis"
	"github.com/MrSnakeDoc/linkvault/internal/storage"
	"github.com/MrSnakeDoc/linkvault/internal/storage/file"
	"github.com/MrSnakeDoc/linkvault/internal/storage/postgres"
	redisstore "github.com/MrSnakeDoc/linkvault/internal/storage/redis"
	"github.com/MrSnakeDoc/linkvault/internal/storage/sqlite"
	"github.com/MrSnakeDoc/linkvault/internal/vault"
)

// Core holds the components shared by the HTTP server and the CLI.
type Core struct {
	Storage storage.Storage
	Vault   *vault.Store
	Links   *links.Service
	Gate    *gate.Gate
	Metrics *metrics.Metrics
}

// OpenCore opens the configured storage backend and builds everything on
// top of it.
func OpenCore(ctx context.Context, cfg *config.Config, log logger.Logger) (*Core, error) {
	st, err := OpenStorage(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	return NewCore(ctx, st, cfg, log), nil
}

// NewCore builds the components on an already opened backend. A Gemini
// client that cannot be created disables enrichment.
func NewCore(ctx context.Context, st storage.Storage, cfg *config.Config, log logger.Logger) *Core {
	v := vault.New(st, log.With(logger.String("component", "vault")))
	m := metrics.New(v.LoadAll)

	enricher, err := enrich.NewGemini(ctx, enrich.GeminiOptions{
		APIKey:  cfg.GeminiAPIKey,
		Model:   cfg.GeminiModel,
		Timeout: cfg.EnrichTimeout,
	}, log.With(logger.String("component", "enrich")), m)
	if err != nil {
		// Enrichment is optional, saving links is not.
		log.Warn("AI enrichment unavailable", logger.Error(err))
		enricher = enrich.Noop{Observer: m}
	}

	svc := links.New(v, enricher, log.With(logger.String("component", "links")),
		links.WithClearKeys(gate.Keys()...))

	g := gate.New(ctx, st, gate.NewPassphrase(st, 0), log.With(logger.String("component", "gate"))).
		WithObserver(m)

	return &Core{Storage: st, Vault: v, Links: svc, Gate: g, Metrics: m}
}

// Close waits for background enrichments, then closes the backend.
func (c *Core) Close() error {
	c.Links.Wait()
	if err := c.Storage.Close(); err != nil {
		return fmt.Errorf("close storage: %w", err)
	}
	return nil
}

// OpenStorage returns the backend selected by cfg.Storage.
func OpenStorage(ctx context.Context, cfg *config.Config, log logger.Logger) (storage.Storage, error) {
	log = log.With(logger.String("storage", cfg.Storage))

	switch cfg.Storage {
	case config.StorageMemory:
		log.Warn("memory storage selected, links are lost on exit")
		return storage.NewMemory(), nil

	case config.StorageFile:
		st, err := file.New(cfg.DataDir)
		if err != nil {
			return nil, err
		}
		log.Info("file storage ready", logger.String("dir", st.Dir()))
		return st, nil

	case config.StorageSQLite:
		st, err := sqlite.Open(ctx, cfg.SQLiteDSN)
		if err != nil {
			return nil, err
		}
		log.Info("sqlite storage ready", logger.String("driver", st.Driver()))
		return st, nil

	case config.StoragePostgres:
		st, err := postgres.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		log.Info("postgres storage ready")
		return st, nil

	case config.StorageRedis:
		client, err := redis.Connect(ctx, redis.ConnectOptions{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			DB:             cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
			WarnThreshold:  cfg.RedisWarnThreshold,
		}, log)
		if err != nil {
			return nil, err
		}
		return redisstore.NewStore(client), nil
	}

	return nil, errors.New("unknown storage backend " + cfg.Storage)
}
