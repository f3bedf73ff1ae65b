package repository

import "time"

// Row types mirror the tables created by the goose migrations.

type userRow struct {
	ID           string `gorm:"primaryKey;type:uuid"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (userRow) TableName() string { return "users" }

type identityRow struct {
	ID             string `gorm:"primaryKey;type:uuid"`
	UserID         string `gorm:"type:uuid;index;not null"`
	Provider       string `gorm:"uniqueIndex:identities_provider_unique;not null"`
	ProviderUserID string `gorm:"uniqueIndex:identities_provider_unique;not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (identityRow) TableName() string { return "identities" }

type skillRow struct {
	ID   string `gorm:"primaryKey;type:uuid"`
	Name string `gorm:"uniqueIndex;not null"`
}

func (skillRow) TableName() string { return "skills" }

type educationRow struct {
	ID           string `gorm:"primaryKey;type:uuid"`
	School       string `gorm:"not null"`
	Degree       string `gorm:"not null"`
	FieldOfStudy string `gorm:"not null"`
	Description  string `gorm:"not null"`
	StartDate    time.Time
	EndDate      time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (educationRow) TableName() string { return "education_history" }

type experienceRow struct {
	ID        string `gorm:"primaryKey;type:uuid"`
	Company   string `gorm:"not null"`
	Position  string `gorm:"not null"`
	StartDate time.Time
	EndDate   *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (experienceRow) TableName() string { return "experiences" }

type bulletPointRow struct {
	ID           string `gorm:"primaryKey;type:uuid"`
	ExperienceID string `gorm:"type:uuid;index;not null"`
	Position     int    `gorm:"not null"`
	Text         string `gorm:"not null"`
}

func (bulletPointRow) TableName() string { return "bullet_points" }

type experienceSkillRow struct {
	ExperienceID string `gorm:"primaryKey;type:uuid"`
	SkillID      string `gorm:"primaryKey;type:uuid"`
}

func (experienceSkillRow) TableName() string { return "experience_skills" }

type projectRow struct {
	ID          string `gorm:"primaryKey;type:uuid"`
	Name        string `gorm:"not null"`
	Description string `gorm:"not null"`
	GithubURL   *string
	WebsiteURL  *string
	ImageURL    *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (projectRow) TableName() string { return "projects" }

type projectSkillRow struct {
	ProjectID string `gorm:"primaryKey;type:uuid"`
	SkillID   string `gorm:"primaryKey;type:uuid"`
}

func (projectSkillRow) TableName() string { return "project_skills" }

// Schema lists every row type, in dependency order. Production schemas come
// from the SQL migrations; this is for gorm AutoMigrate against SQLite.
func Schema() []any {
	return []any{
		&userRow{},
		&identityRow{},
		&skillRow{},
		&educationRow{},
		&experienceRow{},
		&bulletPointRow{},
		&experienceSkillRow{},
		&projectRow{},
		&projectSkillRow{},
	}
}
