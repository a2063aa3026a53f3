package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/classroom-api/internal/handler"
	"github.com/noah-isme/classroom-api/internal/repository"
	"github.com/noah-isme/classroom-api/internal/service"
	"github.com/noah-isme/classroom-api/pkg/cache"
	"github.com/noah-isme/classroom-api/pkg/config"
	"github.com/noah-isme/classroom-api/pkg/database"
	"github.com/noah-isme/classroom-api/pkg/logger"
	"github.com/noah-isme/classroom-api/pkg/storage"
	"github.com/noah-isme/classroom-api/pkg/validation"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer db.Close() //nolint:errcheck
	log.Info("database connected", zap.String("host", cfg.Database.Host), zap.String("name", cfg.Database.Name))

	metrics := service.NewMetricsService()

	var cacheSvc *service.CacheService
	if cfg.Cache.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			log.Warn("redis unavailable, list cache disabled", zap.Error(err))
		} else {
			defer redisClient.Close() //nolint:errcheck
			cacheSvc = service.NewCacheService(repository.NewCacheRepository(redisClient), metrics, cfg.Cache.TTL, log, true)
			log.Info("list cache enabled", zap.Duration("ttl", cfg.Cache.TTL))
		}
	}

	staging, err := storage.NewStaging(cfg.Upload.StagingDir)
	if err != nil {
		return fmt.Errorf("init upload staging: %w", err)
	}
	contentStore := storage.NewSupabaseStore(cfg.Storage)

	validate := validation.New()

	accountRepo := repository.NewAccountRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	memberRepo := repository.NewMemberRepository(db)
	fileRepo := repository.NewFileRepository(db)

	accountSvc := service.NewAccountService(accountRepo, validate, log)
	authSvc := service.NewAuthService(accountRepo, accountSvc, validate, log, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
	})
	courseSvc := service.NewCourseService(courseRepo, cacheSvc, validate, log)
	roomSvc := service.NewRoomService(roomRepo, cacheSvc, validate, log)
	memberSvc := service.NewMemberService(memberRepo, validate, log)
	fileSvc := service.NewFileService(fileRepo, contentStore, staging, log)

	router := handler.NewRouter(cfg, log, handler.Handlers{
		Auth:        handler.NewAuthHandler(authSvc, accountSvc),
		Accounts:    handler.NewAccountHandler(accountSvc),
		Courses:     handler.NewCourseHandler(courseSvc),
		Rooms:       handler.NewRoomHandler(roomSvc),
		Members:     handler.NewMemberHandler(memberSvc),
		Files:       handler.NewFileHandler(fileSvc, staging, cfg.Upload, log),
		AuthService: authSvc,
		Metrics:     metrics,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.Int("port", cfg.Port), zap.String("env", cfg.Env))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	return nil
}
