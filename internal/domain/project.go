package domain

import "time"

// ProjectStatus represents visibility states for a portfolio project.
type ProjectStatus string

const (
	ProjectStatusDraft     ProjectStatus = "DRAFT"
	ProjectStatusPublished ProjectStatus = "PUBLISHED"
	ProjectStatusArchived  ProjectStatus = "ARCHIVED"
)

// Project is a portfolio entry owned by an identity.
type Project struct {
	ID          string
	OwnerID     string
	Title       string
	Description string
	Tags        []string
	RepoURL     string
	DemoURL     string
	ImageURL    string
	Status      ProjectStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
