package repository

import (
	"time"

	"portfolio-api/internal/optional"
)

type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Education struct {
	ID           string    `json:"id"`
	School       string    `json:"school"`
	Degree       string    `json:"degree"`
	FieldOfStudy string    `json:"fieldOfStudy"`
	Description  string    `json:"description"`
	StartDate    time.Time `json:"startDate"`
	EndDate      time.Time `json:"endDate"`
}

type EducationFields struct {
	School       string
	Degree       string
	FieldOfStudy string
	Description  string
	StartDate    time.Time
	EndDate      time.Time
}

type EducationPatch struct {
	School       optional.Value[string]
	Degree       optional.Value[string]
	FieldOfStudy optional.Value[string]
	Description  optional.Value[string]
	StartDate    optional.Value[time.Time]
	EndDate      optional.Value[time.Time]
}

type Experience struct {
	ID           string     `json:"id"`
	Company      string     `json:"company"`
	Position     string     `json:"position"`
	BulletPoints []string   `json:"bulletPoints"`
	Skills       []string   `json:"skills"`
	StartDate    time.Time  `json:"startDate"`
	EndDate      *time.Time `json:"endDate"`
}

type ExperienceFields struct {
	Company      string
	Position     string
	BulletPoints []string
	Skills       []string
	StartDate    time.Time
	EndDate      *time.Time
}

// ExperiencePatch replaces BulletPoints and Skills wholesale when set, even
// with an empty slice.
type ExperiencePatch struct {
	Company      optional.Value[string]
	Position     optional.Value[string]
	BulletPoints optional.Value[[]string]
	Skills       optional.Value[[]string]
	StartDate    optional.Value[time.Time]
	EndDate      optional.Value[*time.Time]
}

type Project struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	GithubURL   *string  `json:"githubUrl"`
	WebsiteURL  *string  `json:"websiteUrl"`
	ImageURL    *string  `json:"imageUrl"`
	Skills      []string `json:"skills"`
}

type ProjectFields struct {
	Name        string
	Description string
	GithubURL   *string
	WebsiteURL  *string
	ImageURL    *string
	Skills      []string
}

type ProjectPatch struct {
	Name        optional.Value[string]
	Description optional.Value[string]
	GithubURL   optional.Value[*string]
	WebsiteURL  optional.Value[*string]
	ImageURL    optional.Value[*string]
	Skills      optional.Value[[]string]
}

// Identity links an external OAuth subject to a local user.
type Identity struct {
	UserID         string
	Provider       string
	ProviderUserID string
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
