package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/employee-backend-go/internal/config"
	appHTTP "github.com/cmlabs-hris/employee-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/employee-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/employee-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/employee-backend-go/internal/pkg/jwt"
	appRedis "github.com/cmlabs-hris/employee-backend-go/internal/pkg/redis"
	"github.com/cmlabs-hris/employee-backend-go/internal/pkg/storage"
	"github.com/cmlabs-hris/employee-backend-go/internal/repository/postgresql"
	serviceAuth "github.com/cmlabs-hris/employee-backend-go/internal/service/auth"
	employeeService "github.com/cmlabs-hris/employee-backend-go/internal/service/employee"
	"github.com/cmlabs-hris/employee-backend-go/internal/service/file"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})).With(slog.String("app", cfg.App.Name)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(),
		database.WithMaxConns(int32(cfg.Database.MaxConns)),
		database.WithMinConns(int32(cfg.Database.MinConns)),
		database.WithMaxConnIdleTime(cfg.Database.MaxConnIdleTime),
	)
	if err != nil {
		slog.Error("Error connecting to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb, err = appRedis.NewClient(ctx, appRedis.Options{
			Addr:     cfg.RedisAddr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			slog.Error("Error connecting to redis", "error", err)
			os.Exit(1)
		}
		defer rdb.Close()
	}

	fileStorage, err := newFileStorage(ctx, cfg, rdb)
	if err != nil {
		slog.Error("Failed to initialize storage", "type", cfg.Storage.Type, "error", err)
		os.Exit(1)
	}

	revocations := jwt.NewMemoryRevocationStore()
	if rdb != nil {
		revocations = jwt.NewRedisRevocationStore(rdb, "revoked")
	}
	scheduler := cron.NewScheduler()
	cron.RegisterRevocationPrune(scheduler, revocations)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, revocations)

	employeeStore := postgresql.NewEmployeeStore(db)
	fileService := file.NewFileService(fileStorage, cfg.Storage.DownloadURLExpiry, cfg.Storage.UploadURLExpiry)
	authService := serviceAuth.NewAuthService(employeeStore, JWTService, cfg.Security.BcryptCost)
	employeeSvc := employeeService.NewEmployeeService(employeeStore, fileService, cfg.Security.BcryptCost)

	router := appHTTP.NewRouter(
		cfg,
		JWTService,
		appHTTP.NewAuthHandler(authService),
		appHTTP.NewEmployeeHandler(employeeSvc),
		appHTTP.NewProfileHandler(employeeSvc),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server running", "address", server.Addr, "env", cfg.App.Env, "storage", cfg.Storage.Type)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
	}

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
}

// newFileStorage builds the configured backend and, when Redis is available,
// wraps it with the presigned URL cache.
func newFileStorage(ctx context.Context, cfg *config.Config, rdb *redis.Client) (storage.FileStorage, error) {
	var fileStorage storage.FileStorage

	switch cfg.Storage.Type {
	case "local":
		local, err := storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
		if err != nil {
			return nil, err
		}
		fileStorage = local
	case "s3":
		s3, err := storage.NewS3Storage(storage.S3Options{
			Endpoint:  cfg.Storage.Endpoint,
			Region:    cfg.Storage.Region,
			Bucket:    cfg.Storage.Bucket,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			UseSSL:    cfg.Storage.UseSSL,
		})
		if err != nil {
			return nil, err
		}
		if err := s3.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		fileStorage = s3
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Storage.Type)
	}

	if rdb != nil {
		fileStorage = storage.NewCachedURLStorage(fileStorage, rdb, cfg.Redis.URLCacheMargin, cfg.Storage.Type)
	}
	return fileStorage, nil
}
