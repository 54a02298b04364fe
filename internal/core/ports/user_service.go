package ports

import (
	"context"

	"github.com/sprintdesk/tracker-api/internal/core/domain"
)

// CreateUserInput carries all data needed to register a user.
type CreateUserInput struct {
	Email    string
	FullName string
	Password string
	Role     string
}

// UpdateUserInput is a partial update; pointer fields apply when non-nil.
// Clearing the Active flag routes through the deactivation policy.
type UpdateUserInput struct {
	Email    *string
	FullName *string
	Role     *string
	Active   *bool
}

// AffectedEntities lists what would violate the assignment invariant if the
// user were deactivated: projects they own and non-Backlog tasks assigned to
// them.
type AffectedEntities struct {
	Projects []*domain.Project
	Tasks    []*domain.Task
}

// Empty reports whether deactivation would leave no dangling references.
func (a AffectedEntities) Empty() bool {
	return len(a.Projects) == 0 && len(a.Tasks) == 0
}

// UserService defines use-case operations for users.
type UserService interface {
	Create(ctx context.Context, input CreateUserInput) (*domain.User, error)
	Get(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context, filter ListUsersFilter) ([]*domain.User, int64, error)
	Update(ctx context.Context, id string, patch UpdateUserInput) (*domain.User, error)
	// AffectedByDeactivation reports every entity that would become
	// invariant-violating if the user were deactivated. It is a query only.
	AffectedByDeactivation(ctx context.Context, id string) (AffectedEntities, error)
	// Deactivate clears the user's active flag. Without force the call fails
	// with domain.ErrUserHasAssignments while affected entities exist. With
	// force, assigned tasks are reverted to Backlog and unassigned; owned
	// projects always block.
	Deactivate(ctx context.Context, id string, force bool) (*domain.User, error)
}
