package handler

import "github.com/sprintdesk/tracker-api/internal/core/domain"

type updateUserRequest struct {
	Email    *string `json:"email"     validate:"omitempty,email"`
	FullName *string `json:"full_name" validate:"omitempty,min=1"`
	Role     *string `json:"role"      validate:"omitempty,oneof=Admin ScrumMaster Developer"`
	Active   *bool   `json:"is_active"`
}

type listUsersResponse struct {
	Data       []*domain.User     `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}

// deactivationBlockedResponse explains a rejected deactivation: the entities
// that still reference the user and would break the assignment rule.
type deactivationBlockedResponse struct {
	Error    string            `json:"error"`
	Projects []*domain.Project `json:"projects,omitempty"`
	Tasks    []*domain.Task    `json:"tasks,omitempty"`
}
