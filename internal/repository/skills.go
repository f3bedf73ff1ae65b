package repository

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// skillLinks is a join table between an owner (experience, project) and
// skills.
type skillLinks struct {
	table       string
	ownerColumn string
	newRow      func(ownerID, skillID string) any
}

var experienceSkills = skillLinks{
	table:       "experience_skills",
	ownerColumn: "experience_id",
	newRow: func(ownerID, skillID string) any {
		return &experienceSkillRow{ExperienceID: ownerID, SkillID: skillID}
	},
}

var projectSkills = skillLinks{
	table:       "project_skills",
	ownerColumn: "project_id",
	newRow: func(ownerID, skillID string) any {
		return &projectSkillRow{ProjectID: ownerID, SkillID: skillID}
	},
}

// attachOrCreateSkills returns one row per distinct name, reusing rows that
// already exist. Must run inside the caller's transaction.
func attachOrCreateSkills(tx *gorm.DB, names []string) ([]skillRow, error) {
	seen := make(map[string]struct{}, len(names))
	out := make([]skillRow, 0, len(names))

	for _, name := range names {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}

		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoNothing: true,
		}).Create(&skillRow{ID: uuid.NewString(), Name: name}).Error
		if err != nil {
			return nil, fmt.Errorf("create skill %q: %w", name, err)
		}

		var s skillRow
		if err := tx.Where("name = ?", name).First(&s).Error; err != nil {
			return nil, fmt.Errorf("load skill %q: %w", name, err)
		}
		out = append(out, s)
	}
	return out, nil
}

// replace drops every link of ownerID and links the given names instead.
func (l skillLinks) replace(tx *gorm.DB, ownerID string, names []string) error {
	if err := l.clear(tx, ownerID); err != nil {
		return err
	}
	return l.add(tx, ownerID, names)
}

func (l skillLinks) add(tx *gorm.DB, ownerID string, names []string) error {
	skills, err := attachOrCreateSkills(tx, names)
	if err != nil {
		return err
	}
	for _, s := range skills {
		if err := tx.Create(l.newRow(ownerID, s.ID)).Error; err != nil {
			return fmt.Errorf("link %s: %w", l.table, err)
		}
	}
	return nil
}

func (l skillLinks) clear(tx *gorm.DB, ownerID string) error {
	if err := tx.Where(l.ownerColumn+" = ?", ownerID).Delete(l.newRow("", "")).Error; err != nil {
		return fmt.Errorf("clear %s: %w", l.table, err)
	}
	return nil
}

// load returns skill names per owner id, sorted by name.
func (l skillLinks) load(tx *gorm.DB, ownerIDs []string) (map[string][]string, error) {
	out := make(map[string][]string, len(ownerIDs))
	if len(ownerIDs) == 0 {
		return out, nil
	}

	var links []struct {
		OwnerID string
		Name    string
	}
	err := tx.Table(l.table+" AS l").
		Select("l."+l.ownerColumn+" AS owner_id, skills.name AS name").
		Joins("JOIN skills ON skills.id = l.skill_id").
		Where("l."+l.ownerColumn+" IN ?", ownerIDs).
		Order("skills.name").
		Scan(&links).Error
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", l.table, err)
	}

	for _, link := range links {
		out[link.OwnerID] = append(out[link.OwnerID], link.Name)
	}
	return out, nil
}
