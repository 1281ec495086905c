package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"go.uber.org/zap"

	"github.com/gatewatch/auth-service/internal/config"
	"github.com/gatewatch/auth-service/internal/domain/interfaces"
	"github.com/gatewatch/auth-service/internal/domain/repository"
	memoryRepo "github.com/gatewatch/auth-service/internal/domain/repository/memory"
	postgresRepo "github.com/gatewatch/auth-service/internal/domain/repository/postgres"
	redisRepo "github.com/gatewatch/auth-service/internal/domain/repository/redis"
	handlerHTTP "github.com/gatewatch/auth-service/internal/handler/http"
	postgresDB "github.com/gatewatch/auth-service/internal/infrastructure/database/postgres"
	redisDB "github.com/gatewatch/auth-service/internal/infrastructure/database/redis"
	"github.com/gatewatch/auth-service/internal/infrastructure/notification"
	"github.com/gatewatch/auth-service/internal/infrastructure/security"
	"github.com/gatewatch/auth-service/internal/service"
	"github.com/gatewatch/auth-service/internal/utils/logger"
	"github.com/gatewatch/auth-service/internal/utils/shutdown"
	"github.com/gatewatch/auth-service/migrations"
)

const migrationsPath = "migrations/sql"

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zapLogger, err := logger.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer zapLogger.Sync()

	if err := run(cfg, zapLogger); err != nil {
		zapLogger.Fatal("service failed", zap.Error(err))
	}
}

func run(cfg *config.Config, zapLogger *zap.Logger) error {
	hashParams := security.Argon2idParams{
		Memory:      cfg.Security.PasswordHash.Memory,
		Iterations:  cfg.Security.PasswordHash.Iterations,
		Parallelism: cfg.Security.PasswordHash.Parallelism,
		SaltLength:  cfg.Security.PasswordHash.SaltLength,
		KeyLength:   cfg.Security.PasswordHash.KeyLength,
	}
	if hashParams == (security.Argon2idParams{}) {
		hashParams = security.DefaultArgon2idParams()
	}
	hasher, err := security.NewArgon2idPasswordService(hashParams)
	if err != nil {
		return fmt.Errorf("failed to create password service: %w", err)
	}
	passwords := security.NewBoundedPasswordService(hasher, cfg.Security.HashWorkers)

	tokens, err := security.NewJWTService(cfg.JWT.Secret, cfg.JWT.TokenTTL)
	if err != nil {
		return fmt.Errorf("failed to create token service: %w", err)
	}

	users, bannedTokens, challenges, err := buildStores(cfg, passwords, zapLogger)
	if err != nil {
		return err
	}

	var email interfaces.EmailClient
	if cfg.Email.ServerToken != "" {
		email = notification.NewClient(cfg.Email.ServerToken, cfg.Email.FromEmail, cfg.Email.BaseURL)
	} else {
		email = notification.NewLogClient(zapLogger)
	}

	authService := service.NewAuthService(users, bannedTokens, challenges, email, passwords, tokens, zapLogger)
	router := handlerHTTP.SetupRouter(authService, cfg.JWT.TokenTTL, zapLogger)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		zapLogger.Info("HTTP server listening", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	shutdown.Wait(srv, cfg.Server.ShutdownTimeout, zapLogger)
	return nil
}

// buildStores selects the storage backend once at startup. Backends are
// never mixed: "memory" keeps every store in process, "persistent" pairs
// PostgreSQL accounts with Redis-backed revocation and challenge stores.
func buildStores(cfg *config.Config, passwords interfaces.PasswordService, zapLogger *zap.Logger) (
	repository.UserStore, repository.BannedTokenStore, repository.TwoFACodeStore, error,
) {
	switch cfg.Storage.Backend {
	case "memory":
		zapLogger.Warn("using in-memory stores; state will not survive a restart")
		return memoryRepo.NewUserStore(passwords),
			memoryRepo.NewBannedTokenStore(),
			memoryRepo.NewTwoFACodeStore(cfg.TwoFA.CodeTTL),
			nil

	case "persistent":
		ctx := context.Background()

		if cfg.Database.AutoMigrate {
			if err := migrations.Up(migrationsPath, cfg.Database, zapLogger); err != nil {
				return nil, nil, nil, fmt.Errorf("failed to apply migrations: %w", err)
			}
		}

		pool, err := postgresDB.NewDBPool(ctx, cfg.Database)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}

		redisClient, err := redisDB.NewClient(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}

		return postgresRepo.NewUserRepository(pool, passwords),
			redisRepo.NewBannedTokenCache(redisClient, zapLogger),
			redisRepo.NewTwoFACodeCache(redisClient, zapLogger, cfg.TwoFA.CodeTTL),
			nil

	default:
		return nil, nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
