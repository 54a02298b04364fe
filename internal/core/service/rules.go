package service

import (
	"context"
	"errors"

	"github.com/sprintdesk/tracker-api/internal/core/domain"
	"github.com/sprintdesk/tracker-api/internal/core/ports"
)

// Rules are the stateless predicates the workflow engine evaluates. They only
// read from the entity store; the returned error is non-nil solely when the
// store itself fails, never to signal a rule outcome.
type Rules struct {
	users    ports.UserRepository
	projects ports.ProjectRepository
}

func NewRules(users ports.UserRepository, projects ports.ProjectRepository) *Rules {
	return &Rules{users: users, projects: projects}
}

// IsActiveUser reports whether id refers to an existing user whose active
// flag is set.
func (r *Rules) IsActiveUser(ctx context.Context, id string) (bool, error) {
	u, err := r.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return false, nil
		}
		return false, err
	}
	return u.Active, nil
}

// UserExists reports whether id refers to an existing user, active or not.
func (r *Rules) UserExists(ctx context.Context, id string) (bool, error) {
	_, err := r.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ProjectExists reports whether id refers to an existing project.
func (r *Rules) ProjectExists(ctx context.Context, id string) (bool, error) {
	_, err := r.projects.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrProjectNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// EmailIsUnique reports whether no user other than excludingID already uses
// email. Pass an empty excludingID when creating a new user.
func (r *Rules) EmailIsUnique(ctx context.Context, email, excludingID string) (bool, error) {
	u, err := r.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return true, nil
		}
		return false, err
	}
	return u.ID == excludingID, nil
}
