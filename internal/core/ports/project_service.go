package ports

import (
	"context"

	"github.com/sprintdesk/tracker-api/internal/core/domain"
)

// CreateProjectInput carries all data needed to create a project.
type CreateProjectInput struct {
	Name        string
	Description string
	OwnerID     string
	Status      string // defaults to Active when empty
}

// UpdateProjectInput is a partial update; pointer fields apply when non-nil.
// The owner reference is required on the entity and therefore cannot be
// cleared, only re-pointed.
type UpdateProjectInput struct {
	Name        *string
	Description *string
	Status      *string
	OwnerID     *string
}

// ProjectService defines use-case operations for projects.
type ProjectService interface {
	Create(ctx context.Context, input CreateProjectInput) (*domain.Project, error)
	Get(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context, filter ListProjectsFilter) ([]*domain.Project, int64, error)
	Update(ctx context.Context, id string, patch UpdateProjectInput) (*domain.Project, error)
	// Delete removes the project and cascades deletion to its tasks.
	Delete(ctx context.Context, id string) error
	ListTasks(ctx context.Context, projectID string, filter ListTasksFilter) ([]*domain.Task, int64, error)
}
