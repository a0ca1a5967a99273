package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/mileapp-task-api/internal/auth"
	"github.com/BuzzLyutic/mileapp-task-api/internal/config"
	"github.com/BuzzLyutic/mileapp-task-api/internal/handler"
	"github.com/BuzzLyutic/mileapp-task-api/internal/middleware"
	"github.com/BuzzLyutic/mileapp-task-api/internal/repo"
	"github.com/BuzzLyutic/mileapp-task-api/internal/service"
	"github.com/BuzzLyutic/mileapp-task-api/schema"
)

func main() {
	// Подключаем логгер
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Загрузка конфигурации
	cfg, err := config.Load(os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	tokens, err := auth.NewTokenService(cfg.JWTSecret, cfg.JWTExpire)
	if err != nil {
		logger.Fatal("Failed to create token service", zap.Error(err))
	}

	var (
		taskRepo repo.TaskRepository
		userRepo repo.UserRepository
	)
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("Failed to connect to Database", zap.Error(err))
		}
		defer pool.Close()

		if err := pool.Ping(context.Background()); err != nil {
			logger.Fatal("Failed to ping the Database", zap.Error(err))
		}
		if err := schema.Ensure(context.Background(), pool); err != nil {
			logger.Fatal("Failed to create schema", zap.Error(err))
		}
		logger.Info("Successfully connected to the Database!")

		taskRepo = repo.NewTaskRepo(pool)
		userRepo = repo.NewUserRepo(pool)
	} else {
		logger.Warn("DATABASE_URL is empty, using in-memory storage")
		taskRepo = repo.NewMemoryTaskRepo()
		userRepo = repo.NewMemoryUserRepo()
	}

	creds := service.NewCredentialStore(userRepo, auth.NewPasswordHasher(cfg.BcryptCost))
	taskService := service.NewTaskService(taskRepo)

	if cfg.SeedDemo {
		if err := service.SeedDemo(context.Background(), creds, taskService); err != nil {
			logger.Fatal("Failed to seed demo data", zap.Error(err))
		}
		logger.Info("Demo data seeded")
	}

	limiter := middleware.NewRateLimiter(cfg.AuthRateLimit, cfg.AuthRateBurst)
	stop := make(chan struct{})
	go limiter.Run(stop)

	r := handler.NewRouter(handler.RouterDeps{
		Auth:        service.NewAuthService(creds, tokens),
		Tasks:       taskService,
		Verifier:    tokens,
		Limiter:     limiter,
		CORSOrigins: cfg.CORSOrigins,
		Logger:      logger,
	})

	srv := http.Server{ // Создаем сервер
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() { // Запуск сервера и обработка ошибок
		logger.Info("Server started", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logger.Info("Shutting down server...")
	close(stop)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Shutdown error", zap.Error(err))
	}
	logger.Info("Server stopped successfully!")
}
