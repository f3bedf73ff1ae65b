package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a user and returns its id. An existing email yields
// ErrDuplicate.
func (r *UserRepository) Create(ctx context.Context, email, passwordHash string) (string, error) {
	existing, err := r.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return "", ErrDuplicate
	}

	row := userRow{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return "", fmt.Errorf("create user: %w", err)
	}
	return row.ID, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*User, error) {
	return r.first(ctx, "id = ?", id)
}

// GetByEmail matches the email exactly.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *UserRepository) first(ctx context.Context, query string, arg any) (*User, error) {
	var row userRow
	if err := r.db.WithContext(ctx).Where(query, arg).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return mapUser(row), nil
}

func mapUser(row userRow) *User {
	return &User{
		ID:           row.ID,
		Email:        row.Email,
		PasswordHash: row.PasswordHash,
		CreatedAt:    row.CreatedAt.UTC(),
		UpdatedAt:    row.UpdatedAt.UTC(),
	}
}
