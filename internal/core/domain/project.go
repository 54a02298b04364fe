package domain

import "time"

// ProjectStatus represents the lifecycle state of a project. Any status is
// reachable from any other; Archived is terminal by convention only.
type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "Active"
	ProjectCompleted ProjectStatus = "Completed"
	ProjectArchived  ProjectStatus = "Archived"
)

// Valid reports whether s is a recognised project status.
func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectActive, ProjectCompleted, ProjectArchived:
		return true
	}
	return false
}

// Project groups tasks under an owning user. Deleting a project cascades to
// its tasks; deactivating the owner does not delete the project but is blocked
// until the owner reference is re-pointed.
type Project struct {
	ID          string        `json:"id" bson:"_id,omitempty"`
	Name        string        `json:"name" bson:"name"`
	Description string        `json:"description,omitempty" bson:"description,omitempty"`
	OwnerID     string        `json:"owner_id" bson:"owner_id"`
	Status      ProjectStatus `json:"status" bson:"status"`
	CreatedAt   time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at" bson:"updated_at"`
}
