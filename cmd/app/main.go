package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	apiHttp "github.com/braz-finance/backend/internal/api/http"
	"github.com/braz-finance/backend/internal/cache"
	"github.com/braz-finance/backend/internal/config"
	"github.com/braz-finance/backend/internal/db"
	"github.com/braz-finance/backend/internal/queue/asynqserver"
	queueClient "github.com/braz-finance/backend/internal/queue/client"
	"github.com/braz-finance/backend/internal/repository"
	"github.com/braz-finance/backend/internal/server"
	"github.com/braz-finance/backend/internal/service"
	"github.com/braz-finance/backend/internal/service/gemini"
	"github.com/braz-finance/backend/internal/verification"
	"github.com/braz-finance/backend/pkg/auth"
	"github.com/braz-finance/backend/pkg/email/smtp"
	"github.com/braz-finance/backend/pkg/hash"
	"github.com/braz-finance/backend/pkg/logger"
	"github.com/braz-finance/backend/pkg/otp"
	"github.com/braz-finance/backend/pkg/pdf"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func main() {
	// Init cfg from environment variables
	cfg := config.MustLoad()

	appLogger := logger.SetupLogger(cfg.Env)
	defer appLogger.Sync() //nolint:errcheck

	appLogger.Info("starting backend api", zap.String("env", cfg.Env))
	appLogger.Debug("debug messages are enabled")

	// Init database
	dbMySQL, err := db.New(cfg.Database)
	if err != nil {
		appLogger.Error("mysql connect problem", zap.Error(err))
		os.Exit(1)
	}
	defer func() {
		if err := dbMySQL.Close(); err != nil {
			appLogger.Error("error when closing mysql", zap.Error(err))
		}
	}()
	appLogger.Info("mysql connection done")

	redisClient, err := cache.NewRedis(cfg.Cache)
	if err != nil {
		appLogger.Error("redis connect problem", zap.Error(err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			appLogger.Error("error when closing redis", zap.Error(err))
		}
	}()
	appLogger.Info("redis connection done")

	hasher := hash.NewBcryptHasher(0)

	emailSender, err := smtp.NewSMTPSender(cfg.SMTP.From, cfg.SMTP.Pass, cfg.SMTP.Host, cfg.SMTP.Port)
	if err != nil {
		appLogger.Error("smtp sender creation failed", zap.Error(err))
		return
	}

	tokenManager, err := auth.NewManager(cfg.Auth.JWT)
	if err != nil {
		appLogger.Error("auth manager creation err", zap.Error(err))
		return
	}

	otpGenerator := otp.NewNumericGenerator()
	limiter := verification.NewLimiter(verification.NewRedisAttemptStore(redisClient))
	geminiClient := gemini.NewClient(cfg.Gemini)

	asynqClient := asynq.NewClient(asynqserver.RedisOptions(cfg.Cache))
	defer asynqClient.Close()
	queueClient.SetClient(asynqClient)

	// Services, Repos & API Handlers
	repos := repository.NewRepositories(dbMySQL)
	services := service.NewServices(service.Deps{
		Config:        cfg,
		Hasher:        hasher,
		TokenManager:  tokenManager,
		OtpGenerator:  otpGenerator,
		EmailSender:   emailSender,
		Limiter:       limiter,
		TextGenerator: geminiClient,
		Statements:    pdf.NewDocumentGenerator(),
		Repos:         repos,
	})
	handlers := apiHttp.NewHandlers(services, tokenManager, cfg)

	// HTTP Server
	srv := server.NewServer(cfg, handlers.Init(cfg))
	go func() {
		if err := srv.Run(); !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("error occurred while running http server", zap.Error(err))
		}
	}()
	appLogger.Info("server started", zap.String("port", cfg.HttpServer.Port))

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	<-quit

	const timeout = 5 * time.Second

	ctx, shutdown := context.WithTimeout(context.Background(), timeout)
	defer shutdown()

	if err := srv.Stop(ctx); err != nil {
		appLogger.Error("failed to stop server", zap.Error(err))
	}

	appLogger.Info("app stopped")
}
