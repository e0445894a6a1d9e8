//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/question-bank/internal/bootstrap"
	"github.com/yanqian/question-bank/internal/domain/auth"
	"github.com/yanqian/question-bank/internal/domain/questionbank"
	"github.com/yanqian/question-bank/internal/infra/config"
	httpiface "github.com/yanqian/question-bank/internal/interface/http"
	"github.com/yanqian/question-bank/pkg/logger"
)

func initializeApp() (*bootstrap.App, func(), error) {
	wire.Build(
		config.Load,
		logger.New,
		provideQuestionBankConfig,
		provideAuthConfig,
		provideBankSource,
		provideBankCache,
		provideBankLoader,
		questionbank.NewService,
		auth.NewService,
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil, nil
}
