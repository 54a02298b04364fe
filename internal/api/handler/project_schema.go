package handler

import "github.com/sprintdesk/tracker-api/internal/core/domain"

type createProjectRequest struct {
	Name        string `json:"name"        validate:"required,min=1,max=200"`
	Description string `json:"description"`
	OwnerID     string `json:"owner_id"    validate:"required"`
	Status      string `json:"status"      validate:"omitempty,oneof=Active Completed Archived"`
}

type updateProjectRequest struct {
	Name        *string `json:"name"        validate:"omitempty,min=1,max=200"`
	Description *string `json:"description"`
	Status      *string `json:"status"      validate:"omitempty,oneof=Active Completed Archived"`
	OwnerID     *string `json:"owner_id"    validate:"omitempty,min=1"`
}

type listProjectsResponse struct {
	Data       []*domain.Project  `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}
