package questionbank

import (
	"context"
	"log/slog"

	apperrors "github.com/yanqian/question-bank/pkg/errors"
	"github.com/yanqian/question-bank/pkg/metrics"
)

// Service answers question lookups against the bank.
type Service interface {
	Query(ctx context.Context, req Request) (Result, error)
}

type service struct {
	cfg    Config
	loader Loader
	logger *slog.Logger
}

// NewService wires up the query domain.
func NewService(cfg Config, loader Loader, logger *slog.Logger) Service {
	return &service{
		cfg:    cfg,
		loader: loader,
		logger: logger.With("component", "questionbank.service"),
	}
}

func (s *service) Query(ctx context.Context, req Request) (Result, error) {
	// Only the empty string counts as missing; a blank title still runs the
	// search and simply fails to match.
	if req.Title == "" {
		metrics.RecordQuery(metrics.OutcomeMissingTitle)
		return Result{Code: CodeMissingTitle}, nil
	}

	bank, err := s.loader.Load(ctx)
	if err != nil {
		metrics.RecordQuery(metrics.OutcomeError)
		return Result{}, apperrors.Wrap("bank_load_failed", "load question bank", err)
	}

	match, ok := FindBest(req.Title, bank)
	if !ok {
		metrics.RecordQuery(metrics.OutcomeMiss)
		s.logMiss(req.Title, bank)
		return Result{Code: CodeNoMatch}, nil
	}

	metrics.RecordQuery(metrics.OutcomeMatch)
	s.logger.Debug("question matched", "index", match.Index, "score", match.Score)
	return Result{
		Code:   CodeMatch,
		Answer: newAnswer(match.Record),
		Score:  match.Score,
		Index:  match.Index,
	}, nil
}

func (s *service) logMiss(title string, bank Bank) {
	if !s.cfg.LogNearMiss {
		s.logger.Info("no question matched", "bank_size", len(bank))
		return
	}
	near, ok := NearestMiss(title, bank)
	if !ok {
		s.logger.Info("no question matched", "bank_size", len(bank))
		return
	}
	s.logger.Info("no question matched",
		"bank_size", len(bank),
		"nearest_index", near.Index,
		"nearest_question", near.Question,
		"nearest_jaro", near.Jaro,
	)
}
