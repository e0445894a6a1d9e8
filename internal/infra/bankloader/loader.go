package bankloader

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/yanqian/question-bank/internal/domain/questionbank"
	"github.com/yanqian/question-bank/pkg/metrics"
)

// Fresh reads the bank from its source on every call.
type Fresh struct {
	source questionbank.Source
	logger *slog.Logger
}

// NewFresh constructs a loader without caching.
func NewFresh(source questionbank.Source, logger *slog.Logger) *Fresh {
	return &Fresh{source: source, logger: logger.With("component", "bankloader.fresh")}
}

// Load implements questionbank.Loader.
func (l *Fresh) Load(ctx context.Context) (questionbank.Bank, error) {
	return loadTimed(ctx, l.source, l.logger)
}

// Cached reads through a BankCache. Successful loads are stored for ttl
// (ttl <= 0 means until the process exits); failures are never cached.
type Cached struct {
	source questionbank.Source
	cache  questionbank.BankCache
	ttl    time.Duration
	logger *slog.Logger

	fill sync.Mutex
}

// NewCached constructs a read-through loader.
func NewCached(source questionbank.Source, cache questionbank.BankCache, ttl time.Duration, logger *slog.Logger) *Cached {
	return &Cached{
		source: source,
		cache:  cache,
		ttl:    ttl,
		logger: logger.With("component", "bankloader.cached"),
	}
}

// Load implements questionbank.Loader.
func (l *Cached) Load(ctx context.Context) (questionbank.Bank, error) {
	if bank, ok := l.lookup(ctx); ok {
		return bank, nil
	}

	l.fill.Lock()
	defer l.fill.Unlock()

	// another request may have filled the cache while we waited
	if bank, ok := l.lookup(ctx); ok {
		return bank, nil
	}

	bank, err := loadTimed(ctx, l.source, l.logger)
	if err != nil {
		return nil, err
	}
	if err := l.cache.Put(ctx, bank, l.ttl); err != nil {
		l.logger.Warn("bank cache save failed", "error", err)
	}
	return bank, nil
}

func (l *Cached) lookup(ctx context.Context) (questionbank.Bank, bool) {
	bank, ok, err := l.cache.Get(ctx)
	if err != nil {
		l.logger.Warn("bank cache lookup failed", "error", err)
		return nil, false
	}
	return bank, ok
}

// Preload loads the bank once so configuration mistakes surface at startup
// instead of on the first request.
func Preload(ctx context.Context, loader questionbank.Loader) (int, error) {
	bank, err := loader.Load(ctx)
	if err != nil {
		return 0, err
	}
	return len(bank), nil
}

func loadTimed(ctx context.Context, source questionbank.Source, logger *slog.Logger) (questionbank.Bank, error) {
	start := time.Now()
	bank, err := source.Load(ctx)
	elapsed := time.Since(start)
	metrics.ObserveBankLoad(source.Name(), elapsed, err)
	if err != nil {
		logger.Error("question bank load failed", "source", source.Name(), "error", err)
		return nil, err
	}
	logger.Debug("question bank loaded", "source", source.Name(), "records", len(bank), "latency_ms", elapsed.Milliseconds())
	return bank, nil
}

var (
	_ questionbank.Loader = (*Fresh)(nil)
	_ questionbank.Loader = (*Cached)(nil)
)
