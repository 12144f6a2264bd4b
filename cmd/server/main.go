package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/todo-list-api/internal/auth"
	"github.com/yukikurage/todo-list-api/internal/config"
	"github.com/yukikurage/todo-list-api/internal/database"
	"github.com/yukikurage/todo-list-api/internal/handlers"
	"github.com/yukikurage/todo-list-api/internal/logger"
	"github.com/yukikurage/todo-list-api/internal/mailer"
	"github.com/yukikurage/todo-list-api/internal/middleware"
	"github.com/yukikurage/todo-list-api/internal/repository"
	"github.com/yukikurage/todo-list-api/internal/services"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	lg, err := logger.New(cfg.LogLevel, cfg.IsProduction())
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer lg.Sync()

	if err := run(cfg, lg); err != nil {
		lg.Fatal("Server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, lg *zap.Logger) error {
	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		return err
	}

	// Run migrations
	if err := database.Migrate(db); err != nil {
		return err
	}

	userRepo := repository.NewUserRepository(db)
	listRepo := repository.NewListRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.SessionTTL)
	smtp := mailer.NewSMTPMailer(mailer.SMTPConfig{
		Host:     cfg.MailHost,
		Port:     cfg.MailPort,
		Username: cfg.MailUsername,
		Password: cfg.MailPassword,
		From:     cfg.MailFrom,
	})

	// Initialize services
	accountService := services.NewAccountService(userRepo, tokens, smtp, lg, services.AccountOptions{
		ResetTokenTTL: cfg.ResetTokenTTL,
		ResetURL:      cfg.FrontendURL,
	})
	listService := services.NewListService(listRepo, taskRepo, lg)
	taskService := services.NewTaskService(taskRepo, listRepo, lg)

	router := handlers.NewRouter(handlers.RouterConfig{
		Log:         lg,
		Tokens:      tokens,
		CORSOrigins: cfg.CORSOrigins,
		RateLimit: middleware.RateLimiterConfig{
			RequestsPerSecond: cfg.RateLimitRPS,
			Burst:             cfg.RateLimitBurst,
		},
		Accounts: handlers.NewAccountHandler(accountService, lg),
		Lists:    handlers.NewListHandler(listService, lg),
		Tasks:    handlers.NewTaskHandler(taskService, lg),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		lg.Info("Server starting", zap.String("addr", srv.Addr), zap.String("db_driver", cfg.DBDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	lg.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	return nil
}
