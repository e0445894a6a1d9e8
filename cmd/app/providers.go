package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/question-bank/internal/domain/auth"
	"github.com/yanqian/question-bank/internal/domain/questionbank"
	"github.com/yanqian/question-bank/internal/infra/bankcache"
	"github.com/yanqian/question-bank/internal/infra/bankloader"
	"github.com/yanqian/question-bank/internal/infra/banksource"
	"github.com/yanqian/question-bank/internal/infra/config"
)

func provideQuestionBankConfig(cfg *config.Config) questionbank.Config {
	return questionbank.Config{
		LogNearMiss: cfg.Match.LogNearMiss,
	}
}

func provideAuthConfig(cfg *config.Config) auth.Config {
	return auth.Config{
		Enabled:      cfg.Auth.Enabled,
		Secret:       cfg.Auth.Secret,
		APIKeyHashes: cfg.Auth.APIKeyHashes,
	}
}

func provideBankSource(cfg *config.Config, logger *slog.Logger) (questionbank.Source, func(), error) {
	noop := func() {}
	switch cfg.Bank.Source {
	case config.SourcePostgres:
		pool, err := newPostgresPool(cfg.Bank.Postgres, logger)
		if err != nil {
			return nil, noop, err
		}
		logger.Info("question bank postgres source enabled", "table", cfg.Bank.Postgres.Table)
		return banksource.NewPostgresSource(pool, cfg.Bank.Postgres.Table), pool.Close, nil
	case config.SourceObject:
		src, err := banksource.NewObjectSource(banksource.ObjectOptions{
			Endpoint:  cfg.Bank.Object.Endpoint,
			AccessKey: cfg.Bank.Object.AccessKey,
			SecretKey: cfg.Bank.Object.SecretKey,
			Bucket:    cfg.Bank.Object.Bucket,
			Region:    cfg.Bank.Object.Region,
			Key:       cfg.Bank.Object.Key,
		}, logger)
		if err != nil {
			return nil, noop, err
		}
		logger.Info("question bank object source enabled", "bucket", cfg.Bank.Object.Bucket, "key", cfg.Bank.Object.Key)
		return src, noop, nil
	default:
		logger.Info("question bank file source enabled", "path", cfg.Bank.Path)
		return banksource.NewFileSource(cfg.Bank.Path), noop, nil
	}
}

// newPostgresPool fails only on an unusable DSN. An unreachable database is
// logged and surfaces later as a load failure.
func newPostgresPool(cfg config.PostgresConfig, logger *slog.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(strings.TrimSpace(cfg.DSN))
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolConfig.MinConns = cfg.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		return nil, fmt.Errorf("init postgres pool: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Warn("postgres ping failed", "error", err)
	}
	return pool, nil
}

func provideBankCache(cfg *config.Config, logger *slog.Logger) (questionbank.BankCache, func()) {
	noop := func() {}
	if !cfg.Bank.Valkey.Enabled {
		return bankcache.NewMemoryCache(), noop
	}
	opt, err := buildValkeyOptions(cfg.Bank.Valkey.Addr)
	if err != nil {
		logger.Error("invalid valkey configuration, falling back to memory cache", "error", err)
		return bankcache.NewMemoryCache(), noop
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		logger.Error("failed to create valkey client, falling back to memory cache", "error", err)
		return bankcache.NewMemoryCache(), noop
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		logger.Error("valkey ping failed, falling back to memory cache", "error", err)
		client.Close()
		return bankcache.NewMemoryCache(), noop
	}
	logger.Info("question bank valkey cache enabled", "addr", cfg.Bank.Valkey.Addr)
	return bankcache.NewValkeyCache(client, cfg.Bank.Valkey.Prefix, logger), client.Close
}

func buildValkeyOptions(addr string) (valkey.ClientOption, error) {
	if strings.Contains(addr, "://") {
		return valkey.ParseURL(addr)
	}
	return valkey.ClientOption{InitAddress: []string{addr}}, nil
}

func provideBankLoader(cfg *config.Config, source questionbank.Source, cache questionbank.BankCache, logger *slog.Logger) questionbank.Loader {
	if cfg.Bank.Strategy == config.StrategyFresh {
		return bankloader.NewFresh(source, logger)
	}
	return bankloader.NewCached(source, cache, cfg.Bank.CacheTTL, logger)
}
