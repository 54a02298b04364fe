package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/sprintdesk/tracker-api/internal/core/domain"
	"github.com/sprintdesk/tracker-api/internal/core/ports"
)

// UserHandler handles user management endpoints.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// Create handles POST /v1/users.
//
// @Summary      Create a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      registerRequest  true  "User details"
// @Success      201   {object}  domain.User
// @Failure      409   {object}  errorResponse
// @Router       /v1/users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	user, err := h.service.Create(c.Request().Context(), ports.CreateUserInput{
		Email:    req.Email,
		FullName: req.FullName,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, user)
}

// List handles GET /v1/users.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        role       query     string  false  "Filter by role"
// @Param        is_active  query     bool    false  "Filter by active flag"
// @Param        page       query     int     false  "Page number (1-based)"
// @Param        limit      query     int     false  "Page size (max 100)"
// @Success      200        {object}  listUsersResponse
// @Router       /v1/users [get]
func (h *UserHandler) List(c echo.Context) error {
	page, limit := pageParams(c)
	filter := ports.ListUsersFilter{
		Role:  c.QueryParam("role"),
		Page:  page,
		Limit: limit,
	}
	if v := c.QueryParam("is_active"); v != "" {
		active, err := strconv.ParseBool(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "is_active must be a boolean")
		}
		filter.Active = &active
	}

	users, total, err := h.service.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, listUsersResponse{
		Data:       users,
		Pagination: newPagination(total, page, limit),
	})
}

// Get handles GET /v1/users/:id.
//
// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  domain.User
// @Failure      404  {object}  errorResponse
// @Router       /v1/users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	user, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Update handles PUT /v1/users/:id. Clearing is_active routes through the
// deactivation policy and fails with 409 while assignments exist.
//
// @Summary      Update a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "User ID"
// @Param        body  body      updateUserRequest  true  "Fields to update"
// @Success      200   {object}  domain.User
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	user, err := h.service.Update(c.Request().Context(), c.Param("id"), ports.UpdateUserInput{
		Email:    req.Email,
		FullName: req.FullName,
		Role:     req.Role,
		Active:   req.Active,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, user)
}

// Deactivate handles POST /v1/users/:id/deactivate. Without force the call is
// rejected while the user owns projects or holds in-flight tasks; the 409 body
// lists the blocking entities. With ?force=true assigned tasks are released
// back to Backlog first (owned projects still block).
//
// @Summary      Deactivate a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id     path      string  true   "User ID"
// @Param        force  query     bool    false  "Release held tasks instead of rejecting"
// @Success      200    {object}  domain.User
// @Failure      404    {object}  errorResponse
// @Failure      409    {object}  deactivationBlockedResponse
// @Router       /v1/users/{id}/deactivate [post]
func (h *UserHandler) Deactivate(c echo.Context) error {
	id := c.Param("id")
	force, _ := strconv.ParseBool(c.QueryParam("force"))

	user, err := h.service.Deactivate(c.Request().Context(), id, force)
	if err != nil {
		if errors.Is(err, domain.ErrUserHasAssignments) {
			affected, affErr := h.service.AffectedByDeactivation(c.Request().Context(), id)
			if affErr != nil {
				return err
			}
			return c.JSON(http.StatusConflict, deactivationBlockedResponse{
				Error:    err.Error(),
				Projects: affected.Projects,
				Tasks:    affected.Tasks,
			})
		}
		return err
	}

	return c.JSON(http.StatusOK, user)
}
