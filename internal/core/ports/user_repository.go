package ports

import (
	"context"

	"github.com/sprintdesk/tracker-api/internal/core/domain"
)

// ListUsersFilter carries query parameters for listing users.
type ListUsersFilter struct {
	Role   string // optional: filter by role
	Active *bool  // optional: filter by active flag
	Page   int    // 1-based
	Limit  int    // max rows per page (capped at 100 by service)
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// Update replaces the mutable fields of the stored user.
	Update(ctx context.Context, u *domain.User) error
	// List returns a page of users matching filter and the total count.
	List(ctx context.Context, filter ListUsersFilter) ([]*domain.User, int64, error)
}
