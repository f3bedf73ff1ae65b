package service

import (
	"context"
	"fmt"

	"portfolio-api/internal/repository"
	"portfolio-api/internal/result"
)

const (
	msgExperienceList     = "Experiences fetched successfully"
	msgExperienceGet      = "Experience fetched successfully"
	msgExperienceCreated  = "Experience created successfully"
	msgExperienceUpdated  = "Experience updated successfully"
	msgExperienceDeleted  = "Experience deleted successfully"
	msgExperienceNotFound = "Experience not found"
)

type ExperienceStore interface {
	Create(ctx context.Context, f repository.ExperienceFields) (string, error)
	List(ctx context.Context) ([]repository.Experience, error)
	GetByID(ctx context.Context, id string) (*repository.Experience, error)
	Update(ctx context.Context, id string, p repository.ExperiencePatch) (*repository.Experience, error)
	Delete(ctx context.Context, id string) error
}

type ExperienceService struct {
	repo ExperienceStore
}

func NewExperienceService(repo ExperienceStore) *ExperienceService {
	return &ExperienceService{repo: repo}
}

func (s *ExperienceService) List(ctx context.Context) (result.Result, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return result.Result{}, fmt.Errorf("list experiences: %w", err)
	}
	if items == nil {
		items = []repository.Experience{}
	}
	return result.Ok(items, msgExperienceList), nil
}

func (s *ExperienceService) Get(ctx context.Context, id string) (result.Result, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return result.Result{}, fmt.Errorf("get experience: %w", err)
	}
	if item == nil {
		return result.NotFound(msgExperienceNotFound), nil
	}
	return result.Ok(item, msgExperienceGet), nil
}

func (s *ExperienceService) Create(ctx context.Context, f repository.ExperienceFields) (result.Result, error) {
	id, err := s.repo.Create(ctx, f)
	if err != nil {
		return result.Result{}, fmt.Errorf("create experience: %w", err)
	}
	return result.Created(id, msgExperienceCreated), nil
}

func (s *ExperienceService) Update(ctx context.Context, id string, p repository.ExperiencePatch) (result.Result, error) {
	item, err := s.repo.Update(ctx, id, p)
	if err != nil {
		return result.Result{}, fmt.Errorf("update experience: %w", err)
	}
	if item == nil {
		return result.NotFound(msgExperienceNotFound), nil
	}
	return result.Ok(item, msgExperienceUpdated), nil
}

func (s *ExperienceService) Delete(ctx context.Context, id string) (result.Result, error) {
	return deleteByID(ctx, id, s.repo.GetByID, s.repo.Delete, msgExperienceDeleted, msgExperienceNotFound)
}
