package ports

import (
	"context"

	"github.com/sprintdesk/tracker-api/internal/core/domain"
)

// OptionalRef is a tri-state reference field for partial updates:
// Set == false leaves the stored value unchanged, Set with a nil Value clears
// the reference, Set with a non-nil Value re-points it.
type OptionalRef struct {
	Set   bool
	Value *string
}

// Ref builds an OptionalRef pointing at id.
func Ref(id string) OptionalRef {
	return OptionalRef{Set: true, Value: &id}
}

// ClearRef builds an OptionalRef that clears the reference.
func ClearRef() OptionalRef {
	return OptionalRef{Set: true}
}

// CreateTaskInput carries all data needed to create a task.
type CreateTaskInput struct {
	Title       string
	Description string
	Status      string // defaults to Backlog when empty
	ProjectID   string
	AssigneeID  *string
	SprintID    *string
	ActorID     string
}

// UpdateTaskInput is a partial update. Pointer fields apply when non-nil;
// Assignee and Sprint distinguish "omitted" from "explicitly cleared".
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *string
	Assignee    OptionalRef
	Sprint      OptionalRef
	ActorID     string
}

// TaskService is the workflow façade the transport layer calls. Every
// operation validates against freshly loaded state and persists atomically,
// or returns a domain error without mutating storage.
type TaskService interface {
	Create(ctx context.Context, input CreateTaskInput) (*domain.Task, error)
	Get(ctx context.Context, id string) (*domain.Task, error)
	List(ctx context.Context, filter ListTasksFilter) ([]*domain.Task, int64, error)
	Update(ctx context.Context, id string, patch UpdateTaskInput) (*domain.Task, error)
	// ChangeStatus moves the task to newStatus, enforcing the assignee
	// side-condition of the target status. Same-status calls are no-ops.
	ChangeStatus(ctx context.Context, id string, newStatus string, actorID string) (*domain.Task, error)
	// Assign sets or clears the assignee. Clearing is only allowed while the
	// task sits in Backlog.
	Assign(ctx context.Context, id string, userID *string, actorID string) (*domain.Task, error)
	Delete(ctx context.Context, id string) error
	History(ctx context.Context, id string) ([]*domain.TaskEvent, error)
}
