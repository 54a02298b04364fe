package service

import (
	"context"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/sprintdesk/tracker-api/internal/core/domain"
	"github.com/sprintdesk/tracker-api/internal/core/ports"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	mu   sync.Mutex
	byID map[string]*domain.User
	seq  int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[string]*domain.User)}
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	clone := *u
	clone.ID = "u" + strconv.Itoa(r.seq)
	r.byID[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) Update(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	clone := *u
	r.byID[u.ID] = &clone
	return nil
}

func (r *stubUserRepo) List(_ context.Context, f ports.ListUsersFilter) ([]*domain.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*domain.User
	for _, u := range r.byID {
		if f.Role != "" && u.Role != f.Role {
			continue
		}
		if f.Active != nil && u.Active != *f.Active {
			continue
		}
		clone := *u
		matched = append(matched, &clone)
	}
	return matched, int64(len(matched)), nil
}

type stubProjectRepo struct {
	mu   sync.Mutex
	byID map[string]*domain.Project
	seq  int
}

func newStubProjectRepo() *stubProjectRepo {
	return &stubProjectRepo{byID: make(map[string]*domain.Project)}
}

func (r *stubProjectRepo) Create(_ context.Context, p *domain.Project) (*domain.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	clone := *p
	clone.ID = "p" + strconv.Itoa(r.seq)
	r.byID[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubProjectRepo) FindByID(_ context.Context, id string) (*domain.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrProjectNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *stubProjectRepo) FindByName(_ context.Context, name string) (*domain.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.byID {
		if p.Name == name {
			clone := *p
			return &clone, nil
		}
	}
	return nil, domain.ErrProjectNotFound
}

func (r *stubProjectRepo) Update(_ context.Context, p *domain.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[p.ID]; !ok {
		return domain.ErrProjectNotFound
	}
	clone := *p
	r.byID[p.ID] = &clone
	return nil
}

func (r *stubProjectRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return domain.ErrProjectNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *stubProjectRepo) FindByOwner(_ context.Context, ownerID string) ([]*domain.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Project
	for _, p := range r.byID {
		if p.OwnerID == ownerID {
			clone := *p
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubProjectRepo) List(_ context.Context, f ports.ListProjectsFilter) ([]*domain.Project, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*domain.Project
	for _, p := range r.byID {
		if f.OwnerID != "" && p.OwnerID != f.OwnerID {
			continue
		}
		if f.Status != "" && string(p.Status) != f.Status {
			continue
		}
		clone := *p
		matched = append(matched, &clone)
	}
	return matched, int64(len(matched)), nil
}

// stubTaskRepo enforces the same version guard as the Mongo repository:
// an update whose Version no longer matches the stored one is rejected.
// onUpdate, when set, runs before the guard check; tests use it to inject
// deterministic interleavings.
type stubTaskRepo struct {
	mu       sync.Mutex
	byID     map[string]*domain.Task
	seq      int
	onUpdate func(t *domain.Task)
}

func newStubTaskRepo() *stubTaskRepo {
	return &stubTaskRepo{byID: make(map[string]*domain.Task)}
}

func (r *stubTaskRepo) Create(_ context.Context, t *domain.Task) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	clone := *t
	clone.ID = "t" + strconv.Itoa(r.seq)
	r.byID[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubTaskRepo) FindByID(_ context.Context, id string) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	clone := *t
	return &clone, nil
}

func (r *stubTaskRepo) Update(_ context.Context, t *domain.Task) error {
	if r.onUpdate != nil {
		r.onUpdate(t)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.byID[t.ID]
	if !ok {
		return domain.ErrTaskNotFound
	}
	if stored.Version != t.Version {
		return domain.ErrVersionConflict
	}
	t.Version++
	clone := *t
	r.byID[t.ID] = &clone
	return nil
}

func (r *stubTaskRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return domain.ErrTaskNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *stubTaskRepo) DeleteByProject(_ context.Context, projectID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, t := range r.byID {
		if t.ProjectID == projectID {
			delete(r.byID, id)
			n++
		}
	}
	return n, nil
}

func (r *stubTaskRepo) FindAssigned(_ context.Context, userID string) ([]*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Task
	for _, t := range r.byID {
		if t.AssigneeID != nil && *t.AssigneeID == userID && t.Status.RequiresAssignee() {
			clone := *t
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubTaskRepo) List(_ context.Context, f ports.ListTasksFilter) ([]*domain.Task, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*domain.Task
	for _, t := range r.byID {
		if f.ProjectID != "" && t.ProjectID != f.ProjectID {
			continue
		}
		if f.AssigneeID != "" && (t.AssigneeID == nil || *t.AssigneeID != f.AssigneeID) {
			continue
		}
		if f.Status != "" && string(t.Status) != f.Status {
			continue
		}
		clone := *t
		matched = append(matched, &clone)
	}
	return matched, int64(len(matched)), nil
}

type stubEventRepo struct {
	mu     sync.Mutex
	events []*domain.TaskEvent
}

func newStubEventRepo() *stubEventRepo {
	return &stubEventRepo{}
}

func (r *stubEventRepo) InsertEvent(_ context.Context, ev *domain.TaskEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *ev
	r.events = append(r.events, &clone)
	return nil
}

func (r *stubEventRepo) ListByTask(_ context.Context, taskID string) ([]*domain.TaskEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.TaskEvent
	for _, ev := range r.events {
		if ev.TaskID == taskID {
			clone := *ev
			out = append(out, &clone)
		}
	}
	return out, nil
}

type stubAudit struct {
	mu     sync.Mutex
	events []domain.TaskEvent
}

func (a *stubAudit) Enqueue(ev domain.TaskEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, ev)
}

// ---------------------------------------------------------------------------
// Wiring helpers
// ---------------------------------------------------------------------------

type testEnv struct {
	users    *stubUserRepo
	projects *stubProjectRepo
	tasks    *stubTaskRepo
	events   *stubEventRepo
	audit    *stubAudit

	rules    *Rules
	workflow *Workflow

	taskSvc    *TaskService
	projectSvc *ProjectService
	userSvc    *UserService
}

func newTestEnv() *testEnv {
	e := &testEnv{
		users:    newStubUserRepo(),
		projects: newStubProjectRepo(),
		tasks:    newStubTaskRepo(),
		events:   newStubEventRepo(),
		audit:    &stubAudit{},
	}
	e.rules = NewRules(e.users, e.projects)
	e.workflow = NewWorkflow(e.rules)
	e.taskSvc = NewTaskService(e.tasks, e.events, e.workflow, e.rules, e.audit, discardLogger)
	e.projectSvc = NewProjectService(e.projects, e.tasks, e.workflow, discardLogger)
	e.userSvc = NewUserService(e.users, e.projects, e.tasks, e.rules, discardLogger)
	return e
}

func (e *testEnv) seedUser(role string, active bool) *domain.User {
	u, _ := e.users.Create(context.Background(), &domain.User{
		Email:    "user" + strconv.Itoa(e.users.seq+1) + "@example.com",
		FullName: "Seed User",
		Role:     role,
		Active:   active,
	})
	return u
}

func (e *testEnv) seedProject(ownerID string) *domain.Project {
	p, _ := e.projects.Create(context.Background(), &domain.Project{
		Name:    "Project " + strconv.Itoa(e.projects.seq+1),
		OwnerID: ownerID,
		Status:  domain.ProjectActive,
	})
	return p
}

func (e *testEnv) seedTask(projectID string, status domain.TaskStatus, assigneeID *string) *domain.Task {
	t, _ := e.tasks.Create(context.Background(), &domain.Task{
		Title:      "Seed Task",
		Status:     status,
		ProjectID:  projectID,
		AssigneeID: assigneeID,
		Version:    1,
	})
	return t
}

func strPtr(s string) *string { return &s }
