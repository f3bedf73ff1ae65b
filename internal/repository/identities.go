package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type IdentityRepository struct {
	db *gorm.DB
}

func NewIdentityRepository(db *gorm.DB) *IdentityRepository {
	return &IdentityRepository{db: db}
}

// UserIDFor returns the user linked to (provider, subject), or "" when the
// pair is unknown.
func (r *IdentityRepository) UserIDFor(ctx context.Context, provider, providerUserID string) (string, error) {
	var row identityRow
	err := r.db.WithContext(ctx).
		Where("provider = ? AND provider_user_id = ?", provider, providerUserID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get identity: %w", err)
	}
	return row.UserID, nil
}

// Link attaches the identity to a user. Re-linking the same pair is a no-op.
func (r *IdentityRepository) Link(ctx context.Context, id Identity) error {
	row := identityRow{
		ID:             uuid.NewString(),
		UserID:         id.UserID,
		Provider:       id.Provider,
		ProviderUserID: id.ProviderUserID,
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "provider"}, {Name: "provider_user_id"}},
		DoNothing: true,
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("link identity: %w", err)
	}
	return nil
}
