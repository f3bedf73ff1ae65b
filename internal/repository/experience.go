package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ExperienceRepository struct {
	db *gorm.DB
}

func NewExperienceRepository(db *gorm.DB) *ExperienceRepository {
	return &ExperienceRepository{db: db}
}

func (r *ExperienceRepository) Create(ctx context.Context, f ExperienceFields) (string, error) {
	row := experienceRow{
		ID:        uuid.NewString(),
		Company:   f.Company,
		Position:  f.Position,
		StartDate: f.StartDate.UTC(),
		EndDate:   utcPtr(f.EndDate),
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("create experience: %w", err)
		}
		if err := addBulletPoints(tx, row.ID, f.BulletPoints); err != nil {
			return err
		}
		return experienceSkills.add(tx, row.ID, f.Skills)
	})
	if err != nil {
		return "", err
	}
	return row.ID, nil
}

func (r *ExperienceRepository) List(ctx context.Context) ([]Experience, error) {
	db := r.db.WithContext(ctx)

	var rows []experienceRow
	if err := db.Order("start_date DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list experiences: %w", err)
	}
	return r.hydrate(db, rows)
}

// GetByID returns nil when the record does not exist.
func (r *ExperienceRepository) GetByID(ctx context.Context, id string) (*Experience, error) {
	return r.get(r.db.WithContext(ctx), id)
}

// Update applies the set fields of p in one transaction. Set relation fields
// replace the relation wholesale. Returns nil when the record does not exist.
func (r *ExperienceRepository) Update(ctx context.Context, id string, p ExperiencePatch) (*Experience, error) {
	var updated *Experience

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := r.find(tx, id)
		if err != nil || existing == nil {
			return err
		}

		changes := map[string]any{}
		if v, ok := p.Company.Get(); ok {
			changes["company"] = v
		}
		if v, ok := p.Position.Get(); ok {
			changes["position"] = v
		}
		if v, ok := p.StartDate.Get(); ok {
			changes["start_date"] = v.UTC()
		}
		if v, ok := p.EndDate.Get(); ok {
			changes["end_date"] = utcPtr(v)
		}

		_, replaceBullets := p.BulletPoints.Get()
		_, replaceSkills := p.Skills.Get()

		if len(changes) > 0 || replaceBullets || replaceSkills {
			changes["updated_at"] = time.Now().UTC()
			if err := tx.Model(&experienceRow{}).Where("id = ?", id).Updates(changes).Error; err != nil {
				return fmt.Errorf("update experience: %w", err)
			}
		}

		if bullets, ok := p.BulletPoints.Get(); ok {
			if err := tx.Where("experience_id = ?", id).Delete(&bulletPointRow{}).Error; err != nil {
				return fmt.Errorf("clear bullet points: %w", err)
			}
			if err := addBulletPoints(tx, id, bullets); err != nil {
				return err
			}
		}

		if skills, ok := p.Skills.Get(); ok {
			if err := experienceSkills.replace(tx, id, skills); err != nil {
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

// Delete removes the record with its bullet points and skill links; a
// missing id yields ErrNotFound.
func (r *ExperienceRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("experience_id = ?", id).Delete(&bulletPointRow{}).Error; err != nil {
			return fmt.Errorf("delete bullet points: %w", err)
		}
		if err := experienceSkills.clear(tx, id); err != nil {
			return err
		}

		res := tx.Where("id = ?", id).Delete(&experienceRow{})
		if res.Error != nil {
			return fmt.Errorf("delete experience: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *ExperienceRepository) find(db *gorm.DB, id string) (*experienceRow, error) {
	var row experienceRow
	if err := db.Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get experience: %w", err)
	}
	return &row, nil
}

func (r *ExperienceRepository) get(db *gorm.DB, id string) (*Experience, error) {
	row, err := r.find(db, id)
	if err != nil || row == nil {
		return nil, err
	}

	out, err := r.hydrate(db, []experienceRow{*row})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

// hydrate loads bullet points and skills for rows with one query each.
func (r *ExperienceRepository) hydrate(db *gorm.DB, rows []experienceRow) ([]Experience, error) {
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}

	bullets := make(map[string][]string, len(rows))
	if len(ids) > 0 {
		var points []bulletPointRow
		if err := db.Where("experience_id IN ?", ids).Order("position").Find(&points).Error; err != nil {
			return nil, fmt.Errorf("load bullet points: %w", err)
		}
		for _, p := range points {
			bullets[p.ExperienceID] = append(bullets[p.ExperienceID], p.Text)
		}
	}

	skills, err := experienceSkills.load(db, ids)
	if err != nil {
		return nil, err
	}

	out := make([]Experience, 0, len(rows))
	for _, row := range rows {
		out = append(out, Experience{
			ID:           row.ID,
			Company:      row.Company,
			Position:     row.Position,
			BulletPoints: nonNil(bullets[row.ID]),
			Skills:       nonNil(skills[row.ID]),
			StartDate:    row.StartDate.UTC(),
			EndDate:      utcPtr(row.EndDate),
		})
	}
	return out, nil
}

func addBulletPoints(tx *gorm.DB, experienceID string, texts []string) error {
	if len(texts) == 0 {
		return nil
	}

	rows := make([]bulletPointRow, 0, len(texts))
	for i, text := range texts {
		rows = append(rows, bulletPointRow{
			ID:           uuid.NewString(),
			ExperienceID: experienceID,
			Position:     i,
			Text:         text,
		})
	}
	if err := tx.Create(&rows).Error; err != nil {
		return fmt.Errorf("create bullet points: %w", err)
	}
	return nil
}
