package main

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/question-bank/internal/infra/bankcache"
	"github.com/yanqian/question-bank/internal/infra/bankloader"
	"github.com/yanqian/question-bank/internal/infra/banksource"
	"github.com/yanqian/question-bank/internal/infra/config"
)

func TestProvideBankSourceFile(t *testing.T) {
	cfg := &config.Config{Bank: config.BankConfig{Source: config.SourceFile, Path: "bank.json"}}

	src, cleanup, err := provideBankSource(cfg, newTestLogger())
	require.NoError(t, err)
	defer cleanup()
	require.IsType(t, &banksource.FileSource{}, src)
	require.Equal(t, "file", src.Name())
}

func TestProvideBankSourceObject(t *testing.T) {
	cfg := &config.Config{Bank: config.BankConfig{
		Source: config.SourceObject,
		Object: config.ObjectConfig{Endpoint: "http://127.0.0.1:9000", Bucket: "banks", Key: "question_bank.json"},
	}}

	src, cleanup, err := provideBankSource(cfg, newTestLogger())
	require.NoError(t, err)
	defer cleanup()
	require.Equal(t, "object", src.Name())
}

func TestProvideBankSourceBadPostgresDSN(t *testing.T) {
	cfg := &config.Config{Bank: config.BankConfig{
		Source:   config.SourcePostgres,
		Postgres: config.PostgresConfig{DSN: "postgres://%zz", Table: "question_bank"},
	}}

	_, cleanup, err := provideBankSource(cfg, newTestLogger())
	require.Error(t, err)
	cleanup()
}

func TestProvideBankCacheDefaultsToMemory(t *testing.T) {
	cache, cleanup := provideBankCache(&config.Config{}, newTestLogger())
	defer cleanup()
	require.IsType(t, &bankcache.MemoryCache{}, cache)
}

func TestProvideBankLoaderStrategy(t *testing.T) {
	src := banksource.NewFileSource("bank.json")
	cache := bankcache.NewMemoryCache()

	fresh := provideBankLoader(&config.Config{Bank: config.BankConfig{Strategy: config.StrategyFresh}}, src, cache, newTestLogger())
	require.IsType(t, &bankloader.Fresh{}, fresh)

	cached := provideBankLoader(&config.Config{Bank: config.BankConfig{Strategy: config.StrategyCached, CacheTTL: time.Minute}}, src, cache, newTestLogger())
	require.IsType(t, &bankloader.Cached{}, cached)
}

func TestBuildValkeyOptions(t *testing.T) {
	opt, err := buildValkeyOptions("localhost:6379")
	require.NoError(t, err)
	require.Equal(t, []string{"localhost:6379"}, opt.InitAddress)

	opt, err = buildValkeyOptions("redis://cache.internal:6380/0")
	require.NoError(t, err)
	require.Equal(t, []string{"cache.internal:6380"}, opt.InitAddress)
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
