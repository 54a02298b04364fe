package domain

import "time"

// TaskStatus represents a task's position in the workflow.
type TaskStatus string

const (
	StatusBacklog    TaskStatus = "Backlog"
	StatusInProgress TaskStatus = "In Progress"
	StatusReview     TaskStatus = "Review"
	StatusDone       TaskStatus = "Done"
)

// statusOrder is the linear sequence the advance/revert UI affordance walks.
// The workflow engine itself allows direct jumps; only the assignee
// side-condition on the target status is enforced.
var statusOrder = []TaskStatus{StatusBacklog, StatusInProgress, StatusReview, StatusDone}

// Valid reports whether s is one of the four recognised statuses.
func (s TaskStatus) Valid() bool {
	for _, st := range statusOrder {
		if s == st {
			return true
		}
	}
	return false
}

// RequiresAssignee reports whether a task in status s must carry an active
// assignee. Every status except Backlog does.
func (s TaskStatus) RequiresAssignee() bool {
	return s.Valid() && s != StatusBacklog
}

// Next returns the following status in the workflow sequence.
// ok is false when s is Done or unrecognised.
func (s TaskStatus) Next() (next TaskStatus, ok bool) {
	for i, st := range statusOrder[:len(statusOrder)-1] {
		if s == st {
			return statusOrder[i+1], true
		}
	}
	return s, false
}

// Previous returns the preceding status in the workflow sequence.
// ok is false when s is Backlog or unrecognised.
func (s TaskStatus) Previous() (prev TaskStatus, ok bool) {
	for i, st := range statusOrder[1:] {
		if s == st {
			return statusOrder[i], true
		}
	}
	return s, false
}

// StatusHistoryEntry records a single applied status transition on a task.
type StatusHistoryEntry struct {
	Status    TaskStatus `json:"status" bson:"status"`
	Timestamp time.Time  `json:"timestamp" bson:"timestamp"`
	ActorID   string     `json:"actor_id,omitempty" bson:"actor_id,omitempty"`
}

// Task is the workflow aggregate. Version is the optimistic-concurrency
// counter: every persisted update must match the version it read and bump it.
type Task struct {
	ID            string               `json:"id" bson:"_id,omitempty"`
	Title         string               `json:"title" bson:"title"`
	Description   string               `json:"description,omitempty" bson:"description,omitempty"`
	Status        TaskStatus           `json:"status" bson:"status"`
	ProjectID     string               `json:"project_id" bson:"project_id"`
	AssigneeID    *string              `json:"assignee_id" bson:"assignee_id,omitempty"`
	SprintID      *string              `json:"sprint_id,omitempty" bson:"sprint_id,omitempty"`
	Version       int64                `json:"-" bson:"version"`
	StatusHistory []StatusHistoryEntry `json:"status_history,omitempty" bson:"status_history,omitempty"`
	CreatedAt     time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at" bson:"updated_at"`
}

// TaskEvent is a single audit-trail record of an applied status transition.
type TaskEvent struct {
	ID         string     `json:"id" bson:"_id,omitempty"`
	TaskID     string     `json:"task_id" bson:"task_id"`
	FromStatus TaskStatus `json:"from_status" bson:"from_status"`
	ToStatus   TaskStatus `json:"to_status" bson:"to_status"`
	ActorID    string     `json:"actor_id,omitempty" bson:"actor_id,omitempty"`
	Timestamp  time.Time  `json:"timestamp" bson:"timestamp"`
}
