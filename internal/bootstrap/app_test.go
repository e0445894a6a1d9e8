package bootstrap

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/question-bank/internal/domain/questionbank"
	"github.com/yanqian/question-bank/internal/infra/config"
)

func TestRunFailsWhenPreloadFails(t *testing.T) {
	cfg := &config.Config{
		HTTP: config.HTTPConfig{Address: "127.0.0.1:0"},
		Bank: config.BankConfig{Preload: true},
	}
	loader := loaderFunc(func(context.Context) (questionbank.Bank, error) {
		return nil, errors.New("bucket not found")
	})
	app := NewApp(cfg, newTestLogger(), &http.Server{Addr: cfg.HTTP.Address}, loader)

	err := app.Run(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "preload question bank")
	require.Contains(t, err.Error(), "bucket not found")
}

func TestRunStopsOnContextCancel(t *testing.T) {
	cfg := &config.Config{
		HTTP: config.HTTPConfig{Address: "127.0.0.1:0"},
		Bank: config.BankConfig{Preload: true},
	}
	loaded := false
	loader := loaderFunc(func(context.Context) (questionbank.Bank, error) {
		loaded = true
		return questionbank.Bank{{Question: "q"}}, nil
	})
	app := NewApp(cfg, newTestLogger(), &http.Server{Addr: cfg.HTTP.Address, Handler: http.NotFoundHandler()}, loader)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, app.Run(ctx))
	require.True(t, loaded)
}

type loaderFunc func(ctx context.Context) (questionbank.Bank, error)

func (f loaderFunc) Load(ctx context.Context) (questionbank.Bank, error) {
	return f(ctx)
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
