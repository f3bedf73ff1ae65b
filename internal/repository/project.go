package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) Create(ctx context.Context, f ProjectFields) (string, error) {
	row := projectRow{
		ID:          uuid.NewString(),
		Name:        f.Name,
		Description: f.Description,
		GithubURL:   f.GithubURL,
		WebsiteURL:  f.WebsiteURL,
		ImageURL:    f.ImageURL,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("create project: %w", err)
		}
		return projectSkills.add(tx, row.ID, f.Skills)
	})
	if err != nil {
		return "", err
	}
	return row.ID, nil
}

func (r *ProjectRepository) List(ctx context.Context) ([]Project, error) {
	db := r.db.WithContext(ctx)

	var rows []projectRow
	if err := db.Order("created_at").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return r.hydrate(db, rows)
}

// GetByID returns nil when the record does not exist.
func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*Project, error) {
	return r.get(r.db.WithContext(ctx), id)
}

// Update applies the set fields of p in one transaction. Returns nil when the
// record does not exist.
func (r *ProjectRepository) Update(ctx context.Context, id string, p ProjectPatch) (*Project, error) {
	var updated *Project

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := r.find(tx, id)
		if err != nil || existing == nil {
			return err
		}

		changes := map[string]any{}
		if v, ok := p.Name.Get(); ok {
			changes["name"] = v
		}
		if v, ok := p.Description.Get(); ok {
			changes["description"] = v
		}
		if v, ok := p.GithubURL.Get(); ok {
			changes["github_url"] = v
		}
		if v, ok := p.WebsiteURL.Get(); ok {
			changes["website_url"] = v
		}
		if v, ok := p.ImageURL.Get(); ok {
			changes["image_url"] = v
		}

		skills, replaceSkills := p.Skills.Get()

		if len(changes) > 0 || replaceSkills {
			changes["updated_at"] = time.Now().UTC()
			if err := tx.Model(&projectRow{}).Where("id = ?", id).Updates(changes).Error; err != nil {
				return fmt.Errorf("update project: %w", err)
			}
		}

		if replaceSkills {
			if err := projectSkills.replace(tx, id, skills); err != nil {
				return err
			}
		}

		updated, err = r.get(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes the record and its skill links; a missing id yields
// ErrNotFound.
func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := projectSkills.clear(tx, id); err != nil {
			return err
		}

		res := tx.Where("id = ?", id).Delete(&projectRow{})
		if res.Error != nil {
			return fmt.Errorf("delete project: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *ProjectRepository) find(db *gorm.DB, id string) (*projectRow, error) {
	var row projectRow
	if err := db.Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get project: %w", err)
	}
	return &row, nil
}

func (r *ProjectRepository) get(db *gorm.DB, id string) (*Project, error) {
	row, err := r.find(db, id)
	if err != nil || row == nil {
		return nil, err
	}

	out, err := r.hydrate(db, []projectRow{*row})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

func (r *ProjectRepository) hydrate(db *gorm.DB, rows []projectRow) ([]Project, error) {
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}

	skills, err := projectSkills.load(db, ids)
	if err != nil {
		return nil, err
	}

	out := make([]Project, 0, len(rows))
	for _, row := range rows {
		out = append(out, Project{
			ID:          row.ID,
			Name:        row.Name,
			Description: row.Description,
			GithubURL:   row.GithubURL,
			WebsiteURL:  row.WebsiteURL,
			ImageURL:    row.ImageURL,
			Skills:      nonNil(skills[row.ID]),
		})
	}
	return out, nil
}
