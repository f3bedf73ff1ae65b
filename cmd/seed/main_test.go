package main

import (
	"context"
	"io"
	"testing"

	"portfolio-api/internal/auth/credentials"
	"portfolio-api/internal/logger"
	"portfolio-api/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestSeedUser_Idempotent(t *testing.T) {
	logger.SetOutput(io.Discard)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(repository.Schema()...))

	users := repository.NewUserRepository(db)
	creds := credentials.NewService(users, credentials.NewHasher(bcrypt.MinCost))
	ctx := context.Background()

	require.NoError(t, seedUser(ctx, creds, "owner@example.com", "pw"))
	require.NoError(t, seedUser(ctx, creds, "owner@example.com", "other"))

	_, err = creds.Authenticate(ctx, "owner@example.com", "pw")
	assert.NoError(t, err, "second run must not overwrite the password")
}
