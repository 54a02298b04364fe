package ports

import (
	"context"

	"github.com/sprintdesk/tracker-api/internal/core/domain"
)

// ListProjectsFilter carries query parameters for listing projects.
type ListProjectsFilter struct {
	OwnerID string // optional: filter by owner
	Status  string // optional: filter by project status
	Page    int    // 1-based
	Limit   int    // max rows per page (capped at 100 by service)
}

// ProjectRepository defines persistence operations for projects.
type ProjectRepository interface {
	Create(ctx context.Context, p *domain.Project) (*domain.Project, error)
	FindByID(ctx context.Context, id string) (*domain.Project, error)
	FindByName(ctx context.Context, name string) (*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id string) error
	// FindByOwner returns every project owned by the given user.
	FindByOwner(ctx context.Context, ownerID string) ([]*domain.Project, error)
	List(ctx context.Context, filter ListProjectsFilter) ([]*domain.Project, int64, error)
}
