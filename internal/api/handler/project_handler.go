package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sprintdesk/tracker-api/internal/core/ports"
)

// ProjectHandler handles project endpoints.
type ProjectHandler struct {
	service ports.ProjectService
}

func NewProjectHandler(service ports.ProjectService) *ProjectHandler {
	return &ProjectHandler{service: service}
}

// Create handles POST /v1/projects.
//
// @Summary      Create a project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createProjectRequest  true  "Project details"
// @Success      201   {object}  domain.Project
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/projects [post]
func (h *ProjectHandler) Create(c echo.Context) error {
	var req createProjectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	project, err := h.service.Create(c.Request().Context(), ports.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     req.OwnerID,
		Status:      req.Status,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, project)
}

// List handles GET /v1/projects.
//
// @Summary      List projects
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Param        owner_id  query     string  false  "Filter by owner"
// @Param        status    query     string  false  "Filter by status"
// @Param        page      query     int     false  "Page number (1-based)"
// @Param        limit     query     int     false  "Page size (max 100)"
// @Success      200       {object}  listProjectsResponse
// @Router       /v1/projects [get]
func (h *ProjectHandler) List(c echo.Context) error {
	page, limit := pageParams(c)
	projects, total, err := h.service.List(c.Request().Context(), ports.ListProjectsFilter{
		OwnerID: c.QueryParam("owner_id"),
		Status:  c.QueryParam("status"),
		Page:    page,
		Limit:   limit,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, listProjectsResponse{
		Data:       projects,
		Pagination: newPagination(total, page, limit),
	})
}

// Get handles GET /v1/projects/:id.
//
// @Summary      Get a project
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Project ID"
// @Success      200  {object}  domain.Project
// @Failure      404  {object}  errorResponse
// @Router       /v1/projects/{id} [get]
func (h *ProjectHandler) Get(c echo.Context) error {
	project, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, project)
}

// Update handles PUT /v1/projects/:id.
//
// @Summary      Update a project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Project ID"
// @Param        body  body      updateProjectRequest  true  "Fields to update"
// @Success      200   {object}  domain.Project
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/projects/{id} [put]
func (h *ProjectHandler) Update(c echo.Context) error {
	var req updateProjectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	project, err := h.service.Update(c.Request().Context(), c.Param("id"), ports.UpdateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
		OwnerID:     req.OwnerID,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, project)
}

// Delete handles DELETE /v1/projects/:id. Deletion cascades to the project's
// tasks.
//
// @Summary      Delete a project
// @Tags         projects
// @Security     BearerAuth
// @Param        id  path  string  true  "Project ID"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /v1/projects/{id} [delete]
func (h *ProjectHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListTasks handles GET /v1/projects/:id/tasks.
//
// @Summary      List a project's tasks
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Param        id           path      string  true   "Project ID"
// @Param        assignee_id  query     string  false  "Filter by assignee"
// @Param        status       query     string  false  "Filter by task status"
// @Param        page         query     int     false  "Page number (1-based)"
// @Param        limit        query     int     false  "Page size (max 100)"
// @Success      200          {object}  listTasksResponse
// @Failure      404          {object}  errorResponse
// @Router       /v1/projects/{id}/tasks [get]
func (h *ProjectHandler) ListTasks(c echo.Context) error {
	page, limit := pageParams(c)
	tasks, total, err := h.service.ListTasks(c.Request().Context(), c.Param("id"), ports.ListTasksFilter{
		AssigneeID: c.QueryParam("assignee_id"),
		Status:     c.QueryParam("status"),
		Page:       page,
		Limit:      limit,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, listTasksResponse{
		Data:       tasks,
		Pagination: newPagination(total, page, limit),
	})
}
