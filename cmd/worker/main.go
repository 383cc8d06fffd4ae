package main

import (
	"os"

	"github.com/braz-finance/backend/internal/config"
	"github.com/braz-finance/backend/internal/queue/asynqserver"
	"github.com/braz-finance/backend/internal/worker"
	"github.com/braz-finance/backend/pkg/email/smtp"
	"github.com/braz-finance/backend/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	cfg := config.MustLoad()

	appLogger := logger.SetupLogger(cfg.Env)
	defer appLogger.Sync() //nolint:errcheck

	appLogger.Info("starting background worker", zap.String("env", cfg.Env))

	emailSender, err := smtp.NewSMTPSender(cfg.SMTP.From, cfg.SMTP.Pass, cfg.SMTP.Host, cfg.SMTP.Port)
	if err != nil {
		appLogger.Error("smtp sender creation failed", zap.Error(err))
		os.Exit(1)
	}

	workers := worker.NewWorkers(worker.Deps{
		EmailProvider: emailSender,
		Config:        cfg,
	})

	srv, mux := asynqserver.New(cfg.Cache, workers)
	if err := srv.Run(mux); err != nil {
		appLogger.Error("asynq server stopped", zap.Error(err))
		os.Exit(1)
	}
}
