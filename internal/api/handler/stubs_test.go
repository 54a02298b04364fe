package handler

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/sprintdesk/tracker-api/internal/core/domain"
	"github.com/sprintdesk/tracker-api/internal/core/ports"
)

// Function-field stubs: each test fills in only the operations it exercises.

type stubTaskService struct {
	createFn       func(ctx context.Context, input ports.CreateTaskInput) (*domain.Task, error)
	getFn          func(ctx context.Context, id string) (*domain.Task, error)
	listFn         func(ctx context.Context, filter ports.ListTasksFilter) ([]*domain.Task, int64, error)
	updateFn       func(ctx context.Context, id string, patch ports.UpdateTaskInput) (*domain.Task, error)
	changeStatusFn func(ctx context.Context, id, newStatus, actorID string) (*domain.Task, error)
	assignFn       func(ctx context.Context, id string, userID *string, actorID string) (*domain.Task, error)
	deleteFn       func(ctx context.Context, id string) error
	historyFn      func(ctx context.Context, id string) ([]*domain.TaskEvent, error)
}

func (s *stubTaskService) Create(ctx context.Context, input ports.CreateTaskInput) (*domain.Task, error) {
	return s.createFn(ctx, input)
}

func (s *stubTaskService) Get(ctx context.Context, id string) (*domain.Task, error) {
	return s.getFn(ctx, id)
}

func (s *stubTaskService) List(ctx context.Context, filter ports.ListTasksFilter) ([]*domain.Task, int64, error) {
	return s.listFn(ctx, filter)
}

func (s *stubTaskService) Update(ctx context.Context, id string, patch ports.UpdateTaskInput) (*domain.Task, error) {
	return s.updateFn(ctx, id, patch)
}

func (s *stubTaskService) ChangeStatus(ctx context.Context, id, newStatus, actorID string) (*domain.Task, error) {
	return s.changeStatusFn(ctx, id, newStatus, actorID)
}

func (s *stubTaskService) Assign(ctx context.Context, id string, userID *string, actorID string) (*domain.Task, error) {
	return s.assignFn(ctx, id, userID, actorID)
}

func (s *stubTaskService) Delete(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

func (s *stubTaskService) History(ctx context.Context, id string) ([]*domain.TaskEvent, error) {
	return s.historyFn(ctx, id)
}

type stubUserService struct {
	createFn   func(ctx context.Context, input ports.CreateUserInput) (*domain.User, error)
	getFn      func(ctx context.Context, id string) (*domain.User, error)
	listFn     func(ctx context.Context, filter ports.ListUsersFilter) ([]*domain.User, int64, error)
	updateFn   func(ctx context.Context, id string, patch ports.UpdateUserInput) (*domain.User, error)
	affectedFn func(ctx context.Context, id string) (ports.AffectedEntities, error)
	deactFn    func(ctx context.Context, id string, force bool) (*domain.User, error)
}

func (s *stubUserService) Create(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
	return s.createFn(ctx, input)
}

func (s *stubUserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.getFn(ctx, id)
}

func (s *stubUserService) List(ctx context.Context, filter ports.ListUsersFilter) ([]*domain.User, int64, error) {
	return s.listFn(ctx, filter)
}

func (s *stubUserService) Update(ctx context.Context, id string, patch ports.UpdateUserInput) (*domain.User, error) {
	return s.updateFn(ctx, id, patch)
}

func (s *stubUserService) AffectedByDeactivation(ctx context.Context, id string) (ports.AffectedEntities, error) {
	return s.affectedFn(ctx, id)
}

func (s *stubUserService) Deactivate(ctx context.Context, id string, force bool) (*domain.User, error) {
	return s.deactFn(ctx, id, force)
}

type stubProjectService struct {
	createFn    func(ctx context.Context, input ports.CreateProjectInput) (*domain.Project, error)
	getFn       func(ctx context.Context, id string) (*domain.Project, error)
	listFn      func(ctx context.Context, filter ports.ListProjectsFilter) ([]*domain.Project, int64, error)
	updateFn    func(ctx context.Context, id string, patch ports.UpdateProjectInput) (*domain.Project, error)
	deleteFn    func(ctx context.Context, id string) error
	listTasksFn func(ctx context.Context, projectID string, filter ports.ListTasksFilter) ([]*domain.Task, int64, error)
}

func (s *stubProjectService) Create(ctx context.Context, input ports.CreateProjectInput) (*domain.Project, error) {
	return s.createFn(ctx, input)
}

func (s *stubProjectService) Get(ctx context.Context, id string) (*domain.Project, error) {
	return s.getFn(ctx, id)
}

func (s *stubProjectService) List(ctx context.Context, filter ports.ListProjectsFilter) ([]*domain.Project, int64, error) {
	return s.listFn(ctx, filter)
}

func (s *stubProjectService) Update(ctx context.Context, id string, patch ports.UpdateProjectInput) (*domain.Project, error) {
	return s.updateFn(ctx, id, patch)
}

func (s *stubProjectService) Delete(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

func (s *stubProjectService) ListTasks(ctx context.Context, projectID string, filter ports.ListTasksFilter) ([]*domain.Task, int64, error) {
	return s.listTasksFn(ctx, projectID, filter)
}

type stubAuthService struct {
	loginFn  func(ctx context.Context, email, password string) (string, *domain.User, error)
	logoutFn func(ctx context.Context, token string) error
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Logout(ctx context.Context, token string) error {
	return s.logoutFn(ctx, token)
}

// newJSONContext builds an echo context with the validator installed and an
// authenticated Admin identity, mirroring what the Auth middleware injects.
func newJSONContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()

	var req = httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", "actor-1")
	c.Set("role", domain.RoleAdmin)
	return c, rec
}

func strPtr(s string) *string { return &s }
