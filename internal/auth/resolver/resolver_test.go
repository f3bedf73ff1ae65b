package resolver

import (
	"context"
	"testing"

	"portfolio-api/internal/auth"
	"portfolio-api/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newResolver(t *testing.T) (*LinkingResolver, string) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(repository.Schema()...))

	users := repository.NewUserRepository(db)
	id, err := users.Create(context.Background(), "owner@example.com", "hash")
	require.NoError(t, err)

	return NewLinkingResolver(repository.NewIdentityRepository(db), users), id
}

func TestResolve_LinksVerifiedEmail(t *testing.T) {
	r, ownerID := newResolver(t)
	ctx := context.Background()

	ident := &auth.Identity{Provider: "google", ProviderUserID: "sub-1", Email: "owner@example.com", EmailVerified: true}
	got, err := r.Resolve(ctx, ident)
	require.NoError(t, err)
	assert.Equal(t, ownerID, got)

	// Once linked the subject resolves even if the email changes upstream.
	got, err = r.Resolve(ctx, &auth.Identity{Provider: "google", ProviderUserID: "sub-1", Email: "new@example.com"})
	require.NoError(t, err)
	assert.Equal(t, ownerID, got)
}

func TestResolve_UnverifiedEmailDoesNotLink(t *testing.T) {
	r, _ := newResolver(t)

	_, err := r.Resolve(context.Background(), &auth.Identity{
		Provider: "oidc", ProviderUserID: "sub-2", Email: "owner@example.com", EmailVerified: false,
	})
	assert.ErrorIs(t, err, ErrUnknownUser)
}

func TestResolve_UnknownUser(t *testing.T) {
	r, _ := newResolver(t)

	_, err := r.Resolve(context.Background(), &auth.Identity{
		Provider: "google", ProviderUserID: "sub-3", Email: "stranger@example.com", EmailVerified: true,
	})
	assert.ErrorIs(t, err, ErrUnknownUser)

	_, err = r.Resolve(context.Background(), nil)
	assert.Error(t, err)
}
