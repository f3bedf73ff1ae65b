package service

import (
	"context"
	"fmt"

	"portfolio-api/internal/repository"
	"portfolio-api/internal/result"
)

const (
	msgProjectList     = "Projects fetched successfully"
	msgProjectGet      = "Project fetched successfully"
	msgProjectCreated  = "Project created successfully"
	msgProjectUpdated  = "Project updated successfully"
	msgProjectDeleted  = "Project deleted successfully"
	msgProjectNotFound = "Project not found"
)

type ProjectStore interface {
	Create(ctx context.Context, f repository.ProjectFields) (string, error)
	List(ctx context.Context) ([]repository.Project, error)
	GetByID(ctx context.Context, id string) (*repository.Project, error)
	Update(ctx context.Context, id string, p repository.ProjectPatch) (*repository.Project, error)
	Delete(ctx context.Context, id string) error
}

type ProjectService struct {
	repo ProjectStore
}

func NewProjectService(repo ProjectStore) *ProjectService {
	return &ProjectService{repo: repo}
}

func (s *ProjectService) List(ctx context.Context) (result.Result, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return result.Result{}, fmt.Errorf("list projects: %w", err)
	}
	if items == nil {
		items = []repository.Project{}
	}
	return result.Ok(items, msgProjectList), nil
}

func (s *ProjectService) Get(ctx context.Context, id string) (result.Result, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return result.Result{}, fmt.Errorf("get project: %w", err)
	}
	if item == nil {
		return result.NotFound(msgProjectNotFound), nil
	}
	return result.Ok(item, msgProjectGet), nil
}

func (s *ProjectService) Create(ctx context.Context, f repository.ProjectFields) (result.Result, error) {
	id, err := s.repo.Create(ctx, f)
	if err != nil {
		return result.Result{}, fmt.Errorf("create project: %w", err)
	}
	return result.Created(id, msgProjectCreated), nil
}

func (s *ProjectService) Update(ctx context.Context, id string, p repository.ProjectPatch) (result.Result, error) {
	item, err := s.repo.Update(ctx, id, p)
	if err != nil {
		return result.Result{}, fmt.Errorf("update project: %w", err)
	}
	if item == nil {
		return result.NotFound(msgProjectNotFound), nil
	}
	return result.Ok(item, msgProjectUpdated), nil
}

func (s *ProjectService) Delete(ctx context.Context, id string) (result.Result, error) {
	return deleteByID(ctx, id, s.repo.GetByID, s.repo.Delete, msgProjectDeleted, msgProjectNotFound)
}
