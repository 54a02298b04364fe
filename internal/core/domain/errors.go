package domain

import "errors"

var (
	ErrTaskNotFound    = errors.New("task not found")
	ErrProjectNotFound = errors.New("project not found")
	ErrUserNotFound    = errors.New("user not found")

	ErrTitleRequired    = errors.New("title must not be empty")
	ErrInvalidStatus    = errors.New("invalid status value")
	ErrInvalidRole      = errors.New("invalid role value")
	ErrAssigneeRequired = errors.New("status requires an assignee")
	ErrAssigneeInactive = errors.New("assignee is not an active user")
	ErrOwnerNotFound    = errors.New("owner user not found")
	ErrOwnerInactive    = errors.New("owner is not an active user")

	ErrEmailConflict       = errors.New("email already registered")
	ErrProjectNameConflict = errors.New("project name already in use")

	// ErrUserHasAssignments blocks deactivation while the user owns projects
	// or holds non-Backlog task assignments.
	ErrUserHasAssignments = errors.New("user still owns projects or active task assignments")

	// ErrVersionConflict signals a lost optimistic-concurrency race: the entity
	// changed between the read that validated the request and the write.
	ErrVersionConflict = errors.New("entity modified concurrently")

	// ErrStoreUnavailable wraps store-level timeouts and connection failures.
	// It is the only error callers may treat as transient.
	ErrStoreUnavailable = errors.New("entity store unavailable")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("access forbidden")
	ErrTokenRevoked       = errors.New("token has been revoked")
)
