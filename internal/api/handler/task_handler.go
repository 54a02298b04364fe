package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sprintdesk/tracker-api/internal/core/ports"
)

// TaskHandler handles task endpoints, including the status workflow and
// assignment operations.
type TaskHandler struct {
	service ports.TaskService
}

func NewTaskHandler(service ports.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

// Create handles POST /v1/tasks.
//
// @Summary      Create a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createTaskRequest  true  "Task details"
// @Success      201   {object}  domain.Task
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/tasks [post]
func (h *TaskHandler) Create(c echo.Context) error {
	var req createTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	actorID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	task, err := h.service.Create(c.Request().Context(), ports.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		ProjectID:   req.ProjectID,
		AssigneeID:  req.AssigneeID,
		SprintID:    req.SprintID,
		ActorID:     actorID,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, task)
}

// List handles GET /v1/tasks.
//
// @Summary      List tasks
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        project_id   query     string  false  "Filter by project"
// @Param        assignee_id  query     string  false  "Filter by assignee"
// @Param        status       query     string  false  "Filter by status"
// @Param        page         query     int     false  "Page number (1-based)"
// @Param        limit        query     int     false  "Page size (max 100)"
// @Success      200          {object}  listTasksResponse
// @Router       /v1/tasks [get]
func (h *TaskHandler) List(c echo.Context) error {
	page, limit := pageParams(c)
	tasks, total, err := h.service.List(c.Request().Context(), ports.ListTasksFilter{
		ProjectID:  c.QueryParam("project_id"),
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

// Get handles GET /v1/tasks/:id.
//
// @Summary      Get a task
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Task ID"
// @Success      200  {object}  domain.Task
// @Failure      404  {object}  errorResponse
// @Router       /v1/tasks/{id} [get]
func (h *TaskHandler) Get(c echo.Context) error {
	task, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, task)
}

// Update handles PUT /v1/tasks/:id. Omitted fields are left unchanged; an
// explicit null assignee_id or sprint_id clears the reference.
//
// @Summary      Update a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Task ID"
// @Param        body  body      updateTaskRequest  true  "Fields to update"
// @Success      200   {object}  domain.Task
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/tasks/{id} [put]
func (h *TaskHandler) Update(c echo.Context) error {
	var req updateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	actorID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	patch := ports.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		ActorID:     actorID,
	}
	if req.AssigneeID.Present {
		patch.Assignee = ports.OptionalRef{Set: true, Value: req.AssigneeID.Value}
	}
	if req.SprintID.Present {
		patch.Sprint = ports.OptionalRef{Set: true, Value: req.SprintID.Value}
	}

	task, err := h.service.Update(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, task)
}

// ChangeStatus handles POST /v1/tasks/:id/status.
//
// @Summary      Change a task's status
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Task ID"
// @Param        body  body      changeStatusRequest  true  "Target status"
// @Success      200   {object}  domain.Task
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/tasks/{id}/status [post]
func (h *TaskHandler) ChangeStatus(c echo.Context) error {
	var req changeStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	actorID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	task, err := h.service.ChangeStatus(c.Request().Context(), c.Param("id"), req.Status, actorID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, task)
}

// Assign handles POST /v1/tasks/:id/assign.
//
// @Summary      Assign or unassign a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Task ID"
// @Param        body  body      assignTaskRequest  true  "Assignee (null to unassign)"
// @Success      200   {object}  domain.Task
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/tasks/{id}/assign [post]
func (h *TaskHandler) Assign(c echo.Context) error {
	var req assignTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	actorID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	task, err := h.service.Assign(c.Request().Context(), c.Param("id"), req.AssigneeID, actorID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, task)
}

// Delete handles DELETE /v1/tasks/:id.
//
// @Summary      Delete a task
// @Tags         tasks
// @Security     BearerAuth
// @Param        id  path  string  true  "Task ID"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /v1/tasks/{id} [delete]
func (h *TaskHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// History handles GET /v1/tasks/:id/history, the task's audit trail.
//
// @Summary      Get a task's status change history
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Task ID"
// @Success      200  {object}  taskHistoryResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/tasks/{id}/history [get]
func (h *TaskHandler) History(c echo.Context) error {
	events, err := h.service.History(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, taskHistoryResponse{Data: events})
}
