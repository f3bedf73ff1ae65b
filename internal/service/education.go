// Package service holds one service per resource. Services return a
// result.Result for every expected outcome; the error return is reserved for
// store failures.
package service

import (
	"context"
	"errors"
	"fmt"

	"portfolio-api/internal/repository"
	"portfolio-api/internal/result"
)

const (
	msgEducationList     = "Education history fetched successfully"
	msgEducationGet      = "Education history fetched successfully"
	msgEducationCreated  = "Education history created successfully"
	msgEducationUpdated  = "Education history updated successfully"
	msgEducationDeleted  = "Education history deleted successfully"
	msgEducationNotFound = "Education history not found"
)

type EducationStore interface {
	Create(ctx context.Context, f repository.EducationFields) (string, error)
	List(ctx context.Context) ([]repository.Education, error)
	GetByID(ctx context.Context, id string) (*repository.Education, error)
	Update(ctx context.Context, id string, p repository.EducationPatch) (*repository.Education, error)
	Delete(ctx context.Context, id string) error
}

type EducationService struct {
	repo EducationStore
}

func NewEducationService(repo EducationStore) *EducationService {
	return &EducationService{repo: repo}
}

func (s *EducationService) List(ctx context.Context) (result.Result, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return result.Result{}, fmt.Errorf("list education: %w", err)
	}
	if items == nil {
		items = []repository.Education{}
	}
	return result.Ok(items, msgEducationList), nil
}

func (s *EducationService) Get(ctx context.Context, id string) (result.Result, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return result.Result{}, fmt.Errorf("get education: %w", err)
	}
	if item == nil {
		return result.NotFound(msgEducationNotFound), nil
	}
	return result.Ok(item, msgEducationGet), nil
}

func (s *EducationService) Create(ctx context.Context, f repository.EducationFields) (result.Result, error) {
	id, err := s.repo.Create(ctx, f)
	if err != nil {
		return result.Result{}, fmt.Errorf("create education: %w", err)
	}
	return result.Created(id, msgEducationCreated), nil
}

func (s *EducationService) Update(ctx context.Context, id string, p repository.EducationPatch) (result.Result, error) {
	item, err := s.repo.Update(ctx, id, p)
	if err != nil {
		return result.Result{}, fmt.Errorf("update education: %w", err)
	}
	if item == nil {
		return result.NotFound(msgEducationNotFound), nil
	}
	return result.Ok(item, msgEducationUpdated), nil
}

func (s *EducationService) Delete(ctx context.Context, id string) (result.Result, error) {
	return deleteByID(ctx, id, s.repo.GetByID, s.repo.Delete, msgEducationDeleted, msgEducationNotFound)
}

// deleteByID looks the record up first so a missing id never reaches the
// store's delete.
func deleteByID[T any](
	ctx context.Context,
	id string,
	get func(context.Context, string) (*T, error),
	del func(context.Context, string) error,
	deleted, notFound string,
) (result.Result, error) {
	item, err := get(ctx, id)
	if err != nil {
		return result.Result{}, fmt.Errorf("delete: %w", err)
	}
	if item == nil {
		return result.NotFound(notFound), nil
	}

	if err := del(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return result.NotFound(notFound), nil
		}
		return result.Result{}, fmt.Errorf("delete: %w", err)
	}
	return result.Ok(nil, deleted), nil
}
