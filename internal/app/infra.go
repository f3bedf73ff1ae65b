package app

import (
	"context"
	"database/sql"
	"errors"

	"portfolio-api/internal/config"
	"portfolio-api/internal/db"
	"portfolio-api/internal/logger"
	"portfolio-api/internal/redis"

	"gorm.io/gorm"
)

type Infra struct {
	SQL  *sql.DB
	Gorm *gorm.DB
	// Redis is nil unless SESSION_STORE=redis.
	Redis *redis.Client
}

func setupInfra(ctx context.Context, cfg config.Config) (*Infra, error) {
	sqlDB, err := db.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}

	infra := &Infra{SQL: sqlDB}

	if err := db.Migrate(ctx, sqlDB); err != nil {
		_ = infra.Close()
		return nil, err
	}

	infra.Gorm, err = db.NewGorm(sqlDB)
	if err != nil {
		_ = infra.Close()
		return nil, err
	}

	logger.Info("database ready", nil)

	if cfg.SessionStore == config.SessionStoreRedis {
		infra.Redis, err = redis.New(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			_ = infra.Close()
			return nil, err
		}
		logger.Info("redis ready", map[string]any{"addr": cfg.RedisAddr})
	}

	return infra, nil
}

func (i *Infra) Close() error {
	var errs []error
	if i.Redis != nil {
		errs = append(errs, i.Redis.Close())
	}
	if i.SQL != nil {
		errs = append(errs, i.SQL.Close())
	}
	return errors.Join(errs...)
}
