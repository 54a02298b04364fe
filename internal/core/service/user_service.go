package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/sprintdesk/tracker-api/internal/core/domain"
	"github.com/sprintdesk/tracker-api/internal/core/ports"
)

// UserService implements user management, including the deactivation policy:
// deactivation is blocked while the user owns projects or holds non-Backlog
// task assignments, unless forced, in which case assigned tasks are reverted
// to Backlog and unassigned. Owned projects block regardless of force; the
// owner reference must be re-pointed first.
type UserService struct {
	users    ports.UserRepository
	projects ports.ProjectRepository
	tasks    ports.TaskRepository
	rules    *Rules
	log      zerolog.Logger
}

func NewUserService(
	users ports.UserRepository,
	projects ports.ProjectRepository,
	tasks ports.TaskRepository,
	rules *Rules,
	log zerolog.Logger,
) *UserService {
	return &UserService{users: users, projects: projects, tasks: tasks, rules: rules, log: log}
}

func (s *UserService) Create(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
	if input.Email == "" || input.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if !domain.ValidRole(input.Role) {
		return nil, domain.ErrInvalidRole
	}

	unique, err := s.rules.EmailIsUnique(ctx, input.Email, "")
	if err != nil {
		return nil, err
	}
	if !unique {
		return nil, domain.ErrEmailConflict
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Email:        input.Email,
		FullName:     input.FullName,
		PasswordHash: string(hash),
		Role:         input.Role,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		s.log.Error().Err(err).Str("email", input.Email).Msg("failed to create user")
		return nil, err
	}

	s.log.Info().Str("user_id", created.ID).Str("role", created.Role).Msg("user created")
	return created, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.users.FindByID(ctx, id)
}

func (s *UserService) List(ctx context.Context, filter ports.ListUsersFilter) ([]*domain.User, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 100
	}
	return s.users.List(ctx, filter)
}

// Update applies a partial update. Setting Active to false routes through
// the non-forced deactivation policy, evaluated before anything is written;
// a blocked patch leaves every field untouched.
func (s *UserService) Update(ctx context.Context, id string, patch ports.UpdateUserInput) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	restore := *user

	if patch.Email != nil && *patch.Email != user.Email {
		unique, err := s.rules.EmailIsUnique(ctx, *patch.Email, user.ID)
		if err != nil {
			return nil, err
		}
		if !unique {
			return nil, domain.ErrEmailConflict
		}
		user.Email = *patch.Email
	}
	if patch.FullName != nil {
		user.FullName = *patch.FullName
	}
	if patch.Role != nil {
		if !domain.ValidRole(*patch.Role) {
			return nil, domain.ErrInvalidRole
		}
		user.Role = *patch.Role
	}
	deactivating := patch.Active != nil && !*patch.Active && user.Active
	if patch.Active != nil {
		user.Active = *patch.Active
	}

	if deactivating {
		affected, err := s.AffectedByDeactivation(ctx, id)
		if err != nil {
			return nil, err
		}
		if !affected.Empty() {
			return nil, domain.ErrUserHasAssignments
		}
	}

	user.UpdatedAt = time.Now().UTC()
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	if deactivating {
		if err := s.settleDeactivation(ctx, id, restore, false); err != nil {
			return nil, err
		}
	}
	return user, nil
}

// AffectedByDeactivation reports every entity that would violate the
// assignment invariant if the user were deactivated. Query only; nothing is
// mutated.
func (s *UserService) AffectedByDeactivation(ctx context.Context, id string) (ports.AffectedEntities, error) {
	var affected ports.AffectedEntities

	if _, err := s.users.FindByID(ctx, id); err != nil {
		return affected, err
	}

	projects, err := s.projects.FindByOwner(ctx, id)
	if err != nil {
		return affected, err
	}
	tasks, err := s.tasks.FindAssigned(ctx, id)
	if err != nil {
		return affected, err
	}

	affected.Projects = projects
	affected.Tasks = tasks
	return affected, nil
}

// Deactivate clears the user's active flag. The flag flip is followed by a
// re-query of affected entities so the race between deactivation and a
// status advance resolves to exactly one winner.
func (s *UserService) Deactivate(ctx context.Context, id string, force bool) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !user.Active {
		return user, nil
	}
	restore := *user

	affected, err := s.AffectedByDeactivation(ctx, id)
	if err != nil {
		return nil, err
	}

	if len(affected.Projects) > 0 {
		// Project ownership cannot be auto-fixed; re-point the owner first.
		return nil, domain.ErrUserHasAssignments
	}
	if !affected.Empty() && !force {
		return nil, domain.ErrUserHasAssignments
	}

	if force {
		if err := s.releaseAssignments(ctx, affected.Tasks, id); err != nil {
			return nil, err
		}
	}

	user.Active = false
	user.UpdatedAt = time.Now().UTC()
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	if err := s.settleDeactivation(ctx, id, restore, force); err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", id).Bool("force", force).Msg("user deactivated")
	return user, nil
}

const maxReleaseRetries = 3

// settleDeactivation re-queries affected entities after the active flag was
// cleared. An assignment committed while the flag was flipping would leave a
// non-Backlog task pointing at an inactive user; in force mode such tasks are
// released again, otherwise the pre-image is written back and the call fails.
func (s *UserService) settleDeactivation(ctx context.Context, id string, restore domain.User, force bool) error {
	for attempt := 0; ; attempt++ {
		recheck, err := s.AffectedByDeactivation(ctx, id)
		if err != nil || recheck.Empty() {
			return nil
		}
		if force && len(recheck.Projects) == 0 && attempt < maxReleaseRetries {
			if err := s.releaseAssignments(ctx, recheck.Tasks, id); err != nil {
				if errors.Is(err, domain.ErrVersionConflict) {
					continue
				}
				s.restoreUser(ctx, restore)
				return err
			}
			continue
		}
		s.restoreUser(ctx, restore)
		return domain.ErrUserHasAssignments
	}
}

func (s *UserService) restoreUser(ctx context.Context, restore domain.User) {
	restore.UpdatedAt = time.Now().UTC()
	if err := s.users.Update(ctx, &restore); err != nil {
		s.log.Error().Err(err).Str("user_id", restore.ID).Msg("failed to roll back deactivation")
	}
}

// releaseAssignments reverts each task to Backlog and unassigns it, the
// forced-deactivation cascade. Each task write is version-guarded.
func (s *UserService) releaseAssignments(ctx context.Context, tasks []*domain.Task, userID string) error {
	for _, t := range tasks {
		t.Status = domain.StatusBacklog
		t.AssigneeID = nil
		t.StatusHistory = append(t.StatusHistory, domain.StatusHistoryEntry{
			Status:    domain.StatusBacklog,
			Timestamp: time.Now().UTC(),
			ActorID:   userID,
		})
		t.UpdatedAt = time.Now().UTC()
		if err := s.tasks.Update(ctx, t); err != nil {
			return err
		}
		s.log.Info().Str("task_id", t.ID).Msg("task reverted to backlog on forced deactivation")
	}
	return nil
}
