package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/yanqian/question-bank/internal/domain/questionbank"
	"github.com/yanqian/question-bank/internal/infra/bankloader"
	"github.com/yanqian/question-bank/internal/infra/config"
)

const (
	preloadTimeout  = 30 * time.Second
	shutdownTimeout = 10 * time.Second
)

// App encapsulates the HTTP server lifecycle.
type App struct {
	cfg    *config.Config
	logger *slog.Logger
	server *http.Server
	loader questionbank.Loader
}

// NewApp is used by Wire to build the runnable app.
func NewApp(cfg *config.Config, logger *slog.Logger, server *http.Server, loader questionbank.Loader) *App {
	return &App{cfg: cfg, logger: logger.With("component", "bootstrap"), server: server, loader: loader}
}

// Run optionally warms the bank, then serves HTTP until ctx is done.
func (a *App) Run(ctx context.Context) error {
	if a.cfg.Bank.Preload {
		if err := a.preload(ctx); err != nil {
			return err
		}
	}

	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("http server starting", "address", a.cfg.HTTP.Address)
		if err := a.server.ListenAndServe(); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutdown signal received")
		return a.server.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (a *App) preload(ctx context.Context) error {
	preloadCtx, cancel := context.WithTimeout(ctx, preloadTimeout)
	defer cancel()
	count, err := bankloader.Preload(preloadCtx, a.loader)
	if err != nil {
		return fmt.Errorf("preload question bank: %w", err)
	}
	a.logger.Info("question bank preloaded", "records", count)
	return nil
}
