package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EducationRepository struct {
	db *gorm.DB
}

func NewEducationRepository(db *gorm.DB) *EducationRepository {
	return &EducationRepository{db: db}
}

func (r *EducationRepository) Create(ctx context.Context, f EducationFields) (string, error) {
	row := educationRow{
		ID:           uuid.NewString(),
		School:       f.School,
		Degree:       f.Degree,
		FieldOfStudy: f.FieldOfStudy,
		Description:  f.Description,
		StartDate:    f.StartDate.UTC(),
		EndDate:      f.EndDate.UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return "", fmt.Errorf("create education: %w", err)
	}
	return row.ID, nil
}

func (r *EducationRepository) List(ctx context.Context) ([]Education, error) {
	var rows []educationRow
	if err := r.db.WithContext(ctx).Order("start_date DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list education: %w", err)
	}

	out := make([]Education, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapEducation(row))
	}
	return out, nil
}

// GetByID returns nil when the record does not exist.
func (r *EducationRepository) GetByID(ctx context.Context, id string) (*Education, error) {
	row, err := r.find(r.db.WithContext(ctx), id)
	if err != nil || row == nil {
		return nil, err
	}
	e := mapEducation(*row)
	return &e, nil
}

// Update applies the set fields of p and returns the updated record, or nil
// when the record does not exist.
func (r *EducationRepository) Update(ctx context.Context, id string, p EducationPatch) (*Education, error) {
	var updated *Education

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := r.find(tx, id)
		if err != nil || row == nil {
			return err
		}

		changes := map[string]any{}
		if v, ok := p.School.Get(); ok {
			changes["school"] = v
		}
		if v, ok := p.Degree.Get(); ok {
			changes["degree"] = v
		}
		if v, ok := p.FieldOfStudy.Get(); ok {
			changes["field_of_study"] = v
		}
		if v, ok := p.Description.Get(); ok {
			changes["description"] = v
		}
		if v, ok := p.StartDate.Get(); ok {
			changes["start_date"] = v.UTC()
		}
		if v, ok := p.EndDate.Get(); ok {
			changes["end_date"] = v.UTC()
		}

		if len(changes) > 0 {
			changes["updated_at"] = time.Now().UTC()
			if err := tx.Model(&educationRow{}).Where("id = ?", id).Updates(changes).Error; err != nil {
				return fmt.Errorf("update education: %w", err)
			}
		}

		row, err = r.find(tx, id)
		if err != nil || row == nil {
			return err
		}
		e := mapEducation(*row)
		updated = &e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes the record; a missing id yields ErrNotFound.
func (r *EducationRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&educationRow{})
	if res.Error != nil {
		return fmt.Errorf("delete education: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *EducationRepository) find(db *gorm.DB, id string) (*educationRow, error) {
	var row educationRow
	if err := db.Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get education: %w", err)
	}
	return &row, nil
}

func mapEducation(row educationRow) Education {
	return Education{
		ID:           row.ID,
		School:       row.School,
		Degree:       row.Degree,
		FieldOfStudy: row.FieldOfStudy,
		Description:  row.Description,
		StartDate:    row.StartDate.UTC(),
		EndDate:      row.EndDate.UTC(),
	}
}
