// Command seed creates the site owner's account from INITIAL_USER_EMAIL and
// INITIAL_USER_PASSWORD. Running it again is a no-op.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"portfolio-api/internal/auth/credentials"
	"portfolio-api/internal/config"
	"portfolio-api/internal/db"
	"portfolio-api/internal/logger"
	"portfolio-api/internal/repository"
)

func main() {
	cfg, err := config.Load()
	logger.Init(cfg.LogLevel, cfg.IsProduction())
	if err != nil {
		logger.Fatal("invalid configuration", map[string]any{"error": err.Error()})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logger.Fatal("seed failed", map[string]any{"error": err.Error()})
	}
}

func run(ctx context.Context, cfg config.Config) error {
	if cfg.InitialUserEmail == "" || cfg.InitialUserPassword == "" {
		return errors.New("INITIAL_USER_EMAIL and INITIAL_USER_PASSWORD are required")
	}

	sqlDB, err := db.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if err := db.Migrate(ctx, sqlDB); err != nil {
		return err
	}

	gormDB, err := db.NewGorm(sqlDB)
	if err != nil {
		return err
	}

	creds := credentials.NewService(
		repository.NewUserRepository(gormDB),
		credentials.NewHasher(cfg.BcryptCost),
	)
	return seedUser(ctx, creds, cfg.InitialUserEmail, cfg.InitialUserPassword)
}

type registrar interface {
	Register(ctx context.Context, email, password string) (string, error)
}

func seedUser(ctx context.Context, r registrar, email, password string) error {
	logger.Info("creating initial user", map[string]any{"email": email})

	id, err := r.Register(ctx, email, password)
	if errors.Is(err, credentials.ErrAlreadyRegistered) {
		logger.Info("initial user already exists, skipping", map[string]any{"email": email})
		return nil
	}
	if err != nil {
		return err
	}

	logger.Info("initial user created", map[string]any{"user_id": id})
	return nil
}
