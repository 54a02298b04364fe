package ports

import (
	"context"

	"github.com/sprintdesk/tracker-api/internal/core/domain"
)

// ListTasksFilter carries query parameters for listing tasks.
type ListTasksFilter struct {
	ProjectID  string // optional: scope to a project
	AssigneeID string // optional: filter by assignee
	Status     string // optional: filter by task status
	Page       int    // 1-based
	Limit      int    // max rows per page (capped at 100 by service)
}

// TaskRepository defines persistence operations for tasks.
type TaskRepository interface {
	Create(ctx context.Context, t *domain.Task) (*domain.Task, error)
	FindByID(ctx context.Context, id string) (*domain.Task, error)
	// Update persists t guarded by its Version field: the write only applies
	// when the stored version still equals t.Version, and bumps it by one.
	// A stale version returns domain.ErrVersionConflict.
	Update(ctx context.Context, t *domain.Task) error
	Delete(ctx context.Context, id string) error
	// DeleteByProject removes every task belonging to the project and returns
	// the number of tasks deleted.
	DeleteByProject(ctx context.Context, projectID string) (int64, error)
	// FindAssigned returns the tasks assigned to userID whose status requires
	// an assignee (everything except Backlog).
	FindAssigned(ctx context.Context, userID string) ([]*domain.Task, error)
	List(ctx context.Context, filter ListTasksFilter) ([]*domain.Task, int64, error)
}

// EventRepository persists the task status audit trail.
type EventRepository interface {
	InsertEvent(ctx context.Context, ev *domain.TaskEvent) error
	ListByTask(ctx context.Context, taskID string) ([]*domain.TaskEvent, error)
}
