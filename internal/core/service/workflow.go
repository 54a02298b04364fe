package service

import (
	"context"

	"github.com/sprintdesk/tracker-api/internal/core/domain"
)

// Workflow evaluates status transitions and the reference-consistency rules
// attached to them. It never persists anything: callers receive the proposed
// next state and decide when and how to commit it.
type Workflow struct {
	rules *Rules
}

func NewWorkflow(rules *Rules) *Workflow {
	return &Workflow{rules: rules}
}

// ProposeStatusChange validates moving task to newStatus and returns a copy
// with the status applied. The assignee rule is evaluated against the target
// status only, so forward moves, reverts, and direct jumps all validate
// identically. A same-status request succeeds as a no-op.
func (w *Workflow) ProposeStatusChange(ctx context.Context, task *domain.Task, newStatus domain.TaskStatus) (*domain.Task, error) {
	if !newStatus.Valid() {
		return nil, domain.ErrInvalidStatus
	}
	if newStatus == task.Status {
		clone := *task
		return &clone, nil
	}
	if err := w.ValidateAssignee(ctx, newStatus, task.AssigneeID); err != nil {
		return nil, err
	}
	clone := *task
	clone.Status = newStatus
	return &clone, nil
}

// ValidateAssignee enforces the core invariant for the given target status:
// any non-Backlog status requires a present, active assignee. It applies at
// creation time exactly as it does on transitions.
func (w *Workflow) ValidateAssignee(ctx context.Context, status domain.TaskStatus, assigneeID *string) error {
	if !status.RequiresAssignee() {
		return nil
	}
	if assigneeID == nil || *assigneeID == "" {
		return domain.ErrAssigneeRequired
	}
	active, err := w.rules.IsActiveUser(ctx, *assigneeID)
	if err != nil {
		return err
	}
	if !active {
		return domain.ErrAssigneeInactive
	}
	return nil
}

// ValidateOwner enforces that a project owner references an existing, active
// user.
func (w *Workflow) ValidateOwner(ctx context.Context, ownerID string) error {
	if ownerID == "" {
		return domain.ErrOwnerNotFound
	}
	exists, err := w.rules.UserExists(ctx, ownerID)
	if err != nil {
		return err
	}
	if !exists {
		return domain.ErrOwnerNotFound
	}
	active, err := w.rules.IsActiveUser(ctx, ownerID)
	if err != nil {
		return err
	}
	if !active {
		return domain.ErrOwnerInactive
	}
	return nil
}

// ValidateAssigneeRef checks a proposed assignee reference independent of
// status: the referenced user must exist and be active. Used when assigning
// onto a Backlog task, where the status itself imposes no requirement.
func (w *Workflow) ValidateAssigneeRef(ctx context.Context, assigneeID string) error {
	exists, err := w.rules.UserExists(ctx, assigneeID)
	if err != nil {
		return err
	}
	if !exists {
		return domain.ErrUserNotFound
	}
	active, err := w.rules.IsActiveUser(ctx, assigneeID)
	if err != nil {
		return err
	}
	if !active {
		return domain.ErrAssigneeInactive
	}
	return nil
}
