package handler

import (
	"encoding/json"

	"github.com/sprintdesk/tracker-api/internal/core/domain"
)

type createTaskRequest struct {
	Title       string  `json:"title"       validate:"required,min=1,max=200"`
	Description string  `json:"description"`
	Status      string  `json:"status"      validate:"omitempty,oneof='Backlog' 'In Progress' 'Review' 'Done'"`
	ProjectID   string  `json:"project_id"  validate:"required"`
	AssigneeID  *string `json:"assignee_id"`
	SprintID    *string `json:"sprint_id"`
}

// jsonOptional distinguishes an absent JSON field from an explicit null:
// Present is only true when the key appeared in the payload.
type jsonOptional struct {
	Present bool
	Value   *string
}

func (o *jsonOptional) UnmarshalJSON(data []byte) error {
	o.Present = true
	return json.Unmarshal(data, &o.Value)
}

type updateTaskRequest struct {
	Title       *string      `json:"title"       validate:"omitempty,min=1,max=200"`
	Description *string      `json:"description"`
	Status      *string      `json:"status"      validate:"omitempty,oneof='Backlog' 'In Progress' 'Review' 'Done'"`
	AssigneeID  jsonOptional `json:"assignee_id"`
	SprintID    jsonOptional `json:"sprint_id"`
}

type changeStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type assignTaskRequest struct {
	// AssigneeID null (or omitted) unassigns; unassignment is only valid in
	// Backlog.
	AssigneeID *string `json:"assignee_id"`
}

type listTasksResponse struct {
	Data       []*domain.Task     `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}

type taskHistoryResponse struct {
	Data []*domain.TaskEvent `json:"data"`
}
