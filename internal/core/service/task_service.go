package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/sprintdesk/tracker-api/internal/api/metrics"
	"github.com/sprintdesk/tracker-api/internal/core/domain"
	"github.com/sprintdesk/tracker-api/internal/core/ports"
)

// AuditSink receives applied status transitions for asynchronous recording.
type AuditSink interface {
	Enqueue(ev domain.TaskEvent)
}

// TaskService is the workflow façade over the entity store. Every mutation
// follows read-validate-write: the write is guarded by the task's version, and
// a lost race triggers one re-read with full re-validation before giving up.
type TaskService struct {
	tasks    ports.TaskRepository
	events   ports.EventRepository
	workflow *Workflow
	rules    *Rules
	audit    AuditSink
	log      zerolog.Logger
}

func NewTaskService(
	tasks ports.TaskRepository,
	events ports.EventRepository,
	workflow *Workflow,
	rules *Rules,
	audit AuditSink,
	log zerolog.Logger,
) *TaskService {
	return &TaskService{
		tasks:    tasks,
		events:   events,
		workflow: workflow,
		rules:    rules,
		audit:    audit,
		log:      log,
	}
}

// Create validates and persists a new task. Nothing is stored on failure.
func (s *TaskService) Create(ctx context.Context, input ports.CreateTaskInput) (*domain.Task, error) {
	if input.Title == "" {
		return nil, domain.ErrTitleRequired
	}

	status := domain.TaskStatus(input.Status)
	if input.Status == "" {
		status = domain.StatusBacklog
	}
	if !status.Valid() {
		return nil, domain.ErrInvalidStatus
	}

	exists, err := s.rules.ProjectExists(ctx, input.ProjectID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrProjectNotFound
	}

	// A reference to a missing or inactive user is rejected even for Backlog
	// tasks, where the status itself imposes no assignee requirement.
	if input.AssigneeID != nil && *input.AssigneeID != "" {
		if err := s.workflow.ValidateAssigneeRef(ctx, *input.AssigneeID); err != nil {
			observeRejection(err)
			return nil, err
		}
	}
	if err := s.workflow.ValidateAssignee(ctx, status, input.AssigneeID); err != nil {
		observeRejection(err)
		return nil, err
	}

	now := time.Now().UTC()
	task := &domain.Task{
		Title:       input.Title,
		Description: input.Description,
		Status:      status,
		ProjectID:   input.ProjectID,
		AssigneeID:  normalizeRef(input.AssigneeID),
		SprintID:    normalizeRef(input.SprintID),
		Version:     1,
		StatusHistory: []domain.StatusHistoryEntry{
			{Status: status, Timestamp: now, ActorID: input.ActorID},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.tasks.Create(ctx, task)
	if err != nil {
		s.log.Error().Err(err).Str("project_id", input.ProjectID).Msg("failed to create task")
		return nil, err
	}

	metrics.TasksCreatedTotal.WithLabelValues(string(created.Status)).Inc()
	s.log.Info().
		Str("task_id", created.ID).
		Str("project_id", created.ProjectID).
		Str("status", string(created.Status)).
		Msg("task created")

	return created, nil
}

func (s *TaskService) Get(ctx context.Context, id string) (*domain.Task, error) {
	return s.tasks.FindByID(ctx, id)
}

func (s *TaskService) List(ctx context.Context, filter ports.ListTasksFilter) ([]*domain.Task, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 100
	}
	return s.tasks.List(ctx, filter)
}

// Update applies a partial update. Status changes route through the workflow
// engine; assignee changes re-validate the reference against the final status.
// All changed fields commit in a single guarded write, or none do.
func (s *TaskService) Update(ctx context.Context, id string, patch ports.UpdateTaskInput) (*domain.Task, error) {
	var fromStatus, toStatus domain.TaskStatus
	changed := false

	updated, err := s.updateGuarded(ctx, id, func(task *domain.Task) (*domain.Task, error) {
		next := *task

		if patch.Title != nil {
			if *patch.Title == "" {
				return nil, domain.ErrTitleRequired
			}
			next.Title = *patch.Title
		}
		if patch.Description != nil {
			next.Description = *patch.Description
		}
		if patch.Sprint.Set {
			next.SprintID = normalizeRef(patch.Sprint.Value)
		}

		if patch.Status != nil {
			st := domain.TaskStatus(*patch.Status)
			if !st.Valid() {
				return nil, domain.ErrInvalidStatus
			}
			next.Status = st
		}

		if patch.Assignee.Set {
			if patch.Assignee.Value != nil && *patch.Assignee.Value != "" {
				if err := s.workflow.ValidateAssigneeRef(ctx, *patch.Assignee.Value); err != nil {
					return nil, err
				}
			}
			next.AssigneeID = normalizeRef(patch.Assignee.Value)
		}

		// The invariant is checked on the merged final state, so a patch that
		// clears the assignee while the status stays non-Backlog fails here.
		if err := s.workflow.ValidateAssignee(ctx, next.Status, next.AssigneeID); err != nil {
			return nil, err
		}

		changed = next.Status != task.Status
		if changed {
			fromStatus, toStatus = task.Status, next.Status
			next.StatusHistory = append(next.StatusHistory, domain.StatusHistoryEntry{
				Status:    next.Status,
				Timestamp: time.Now().UTC(),
				ActorID:   patch.ActorID,
			})
		}
		return &next, nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.recordTransition(updated.ID, fromStatus, toStatus, patch.ActorID)
	}
	return updated, nil
}

// ChangeStatus moves the task to newStatus, enforcing the assignee
// side-condition of the target status. Requesting the current status is a
// no-op that succeeds without persisting anything.
func (s *TaskService) ChangeStatus(ctx context.Context, id string, newStatus string, actorID string) (*domain.Task, error) {
	st := domain.TaskStatus(newStatus)
	var fromStatus domain.TaskStatus

	updated, err := s.updateGuarded(ctx, id, func(task *domain.Task) (*domain.Task, error) {
		// Reset per attempt: a conflict retry may find the concurrent winner
		// already applied the target status, turning this call into a no-op.
		fromStatus = ""

		proposed, err := s.workflow.ProposeStatusChange(ctx, task, st)
		if err != nil {
			return nil, err
		}
		if proposed.Status == task.Status {
			return nil, nil // no-op
		}
		fromStatus = task.Status
		proposed.StatusHistory = append(proposed.StatusHistory, domain.StatusHistoryEntry{
			Status:    proposed.Status,
			Timestamp: time.Now().UTC(),
			ActorID:   actorID,
		})
		return proposed, nil
	})
	if err != nil {
		return nil, err
	}
	if fromStatus == "" {
		return updated, nil // no-op path
	}

	// The assignee may have been deactivated between validation and the
	// version-guarded write. Re-check against fresh state and compensate by
	// restoring the pre-image when the invariant no longer holds.
	if st.RequiresAssignee() && updated.AssigneeID != nil {
		active, checkErr := s.rules.IsActiveUser(ctx, *updated.AssigneeID)
		if checkErr == nil && !active {
			s.revertStatus(ctx, updated, fromStatus)
			observeRejection(domain.ErrAssigneeInactive)
			return nil, domain.ErrAssigneeInactive
		}
	}

	s.recordTransition(updated.ID, fromStatus, st, actorID)
	return updated, nil
}

// Assign sets or clears the assignee. A task whose status requires an
// assignee cannot be unassigned without first moving it back to Backlog.
func (s *TaskService) Assign(ctx context.Context, id string, userID *string, actorID string) (*domain.Task, error) {
	return s.updateGuarded(ctx, id, func(task *domain.Task) (*domain.Task, error) {
		if userID == nil || *userID == "" {
			if task.Status.RequiresAssignee() {
				return nil, domain.ErrAssigneeRequired
			}
			next := *task
			next.AssigneeID = nil
			return &next, nil
		}
		if err := s.workflow.ValidateAssigneeRef(ctx, *userID); err != nil {
			return nil, err
		}
		next := *task
		assignee := *userID
		next.AssigneeID = &assignee
		return &next, nil
	})
}

func (s *TaskService) Delete(ctx context.Context, id string) error {
	if _, err := s.tasks.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.tasks.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("task_id", id).Msg("task deleted")
	return nil
}

// History returns the audit trail of applied status transitions.
func (s *TaskService) History(ctx context.Context, id string) ([]*domain.TaskEvent, error) {
	if _, err := s.tasks.FindByID(ctx, id); err != nil {
		return nil, err
	}
	return s.events.ListByTask(ctx, id)
}

// updateGuarded runs apply against the freshly loaded task and persists the
// result under the version guard. On a lost race it re-reads once and re-runs
// apply, so validation always reflects the state that is actually committed
// against. apply returning (nil, nil) marks a validated no-op.
func (s *TaskService) updateGuarded(ctx context.Context, id string, apply func(*domain.Task) (*domain.Task, error)) (*domain.Task, error) {
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	for attempt := 0; ; attempt++ {
		proposed, err := apply(task)
		if err != nil {
			observeRejection(err)
			return nil, err
		}
		if proposed == nil {
			return task, nil
		}
		proposed.UpdatedAt = time.Now().UTC()

		err = s.tasks.Update(ctx, proposed)
		if err == nil {
			return proposed, nil
		}
		if !errors.Is(err, domain.ErrVersionConflict) || attempt > 0 {
			return nil, err
		}
		metrics.VersionConflictsTotal.Inc()

		s.log.Debug().Str("task_id", id).Msg("version conflict, revalidating against fresh state")
		task, err = s.tasks.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
	}
}

// revertStatus restores a task to its pre-transition status after a post-write
// invariant check failed. Best effort: a second racer may already have fixed
// the task, in which case the version guard rejects the revert.
func (s *TaskService) revertStatus(ctx context.Context, task *domain.Task, previous domain.TaskStatus) {
	reverted := *task
	reverted.Status = previous
	if n := len(reverted.StatusHistory); n > 0 {
		reverted.StatusHistory = reverted.StatusHistory[:n-1]
	}
	reverted.UpdatedAt = time.Now().UTC()
	if err := s.tasks.Update(ctx, &reverted); err != nil {
		s.log.Warn().Err(err).Str("task_id", task.ID).Msg("failed to revert status after invariant violation")
	}
}

func (s *TaskService) recordTransition(taskID string, from, to domain.TaskStatus, actorID string) {
	ev := domain.TaskEvent{
		TaskID:     taskID,
		FromStatus: from,
		ToStatus:   to,
		ActorID:    actorID,
		Timestamp:  time.Now().UTC(),
	}
	if s.audit != nil {
		s.audit.Enqueue(ev)
	}
	metrics.StatusTransitionsTotal.WithLabelValues(string(from), string(to)).Inc()
	s.log.Info().
		Str("task_id", taskID).
		Str("from", string(from)).
		Str("to", string(to)).
		Msg("status transition applied")
}

// observeRejection counts workflow validation failures by reason. Unknown
// errors are not counted; the error handler logs those.
func observeRejection(err error) {
	switch {
	case errors.Is(err, domain.ErrAssigneeRequired):
		metrics.WorkflowRejectionsTotal.WithLabelValues("assignee_required").Inc()
	case errors.Is(err, domain.ErrAssigneeInactive):
		metrics.WorkflowRejectionsTotal.WithLabelValues("assignee_inactive").Inc()
	case errors.Is(err, domain.ErrInvalidStatus):
		metrics.WorkflowRejectionsTotal.WithLabelValues("invalid_status").Inc()
	case errors.Is(err, domain.ErrTitleRequired):
		metrics.WorkflowRejectionsTotal.WithLabelValues("title_required").Inc()
	case errors.Is(err, domain.ErrUserNotFound):
		metrics.WorkflowRejectionsTotal.WithLabelValues("assignee_unknown").Inc()
	}
}

// normalizeRef maps empty-string references to nil so storage never carries
// an empty foreign key.
func normalizeRef(id *string) *string {
	if id == nil || *id == "" {
		return nil
	}
	v := *id
	return &v
}
