package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/sprintdesk/tracker-api/internal/core/domain"
	"github.com/sprintdesk/tracker-api/internal/core/ports"
)

// ProjectService implements project use-cases. Owner changes route through
// the workflow's owner-consistency check.
type ProjectService struct {
	projects ports.ProjectRepository
	tasks    ports.TaskRepository
	workflow *Workflow
	log      zerolog.Logger
}

func NewProjectService(
	projects ports.ProjectRepository,
	tasks ports.TaskRepository,
	workflow *Workflow,
	log zerolog.Logger,
) *ProjectService {
	return &ProjectService{projects: projects, tasks: tasks, workflow: workflow, log: log}
}

func (s *ProjectService) Create(ctx context.Context, input ports.CreateProjectInput) (*domain.Project, error) {
	if input.Name == "" {
		return nil, domain.ErrTitleRequired
	}

	status := domain.ProjectStatus(input.Status)
	if input.Status == "" {
		status = domain.ProjectActive
	}
	if !status.Valid() {
		return nil, domain.ErrInvalidStatus
	}

	if err := s.ensureNameUnique(ctx, input.Name, ""); err != nil {
		return nil, err
	}
	if err := s.workflow.ValidateOwner(ctx, input.OwnerID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	project := &domain.Project{
		Name:        input.Name,
		Description: input.Description,
		OwnerID:     input.OwnerID,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.projects.Create(ctx, project)
	if err != nil {
		s.log.Error().Err(err).Str("name", input.Name).Msg("failed to create project")
		return nil, err
	}

	s.log.Info().Str("project_id", created.ID).Str("owner_id", created.OwnerID).Msg("project created")
	return created, nil
}

func (s *ProjectService) Get(ctx context.Context, id string) (*domain.Project, error) {
	return s.projects.FindByID(ctx, id)
}

func (s *ProjectService) List(ctx context.Context, filter ports.ListProjectsFilter) ([]*domain.Project, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 100
	}
	return s.projects.List(ctx, filter)
}

// Update applies a partial update. On any validation failure the stored
// project is left untouched.
func (s *ProjectService) Update(ctx context.Context, id string, patch ports.UpdateProjectInput) (*domain.Project, error) {
	project, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		if *patch.Name == "" {
			return nil, domain.ErrTitleRequired
		}
		if err := s.ensureNameUnique(ctx, *patch.Name, project.ID); err != nil {
			return nil, err
		}
		project.Name = *patch.Name
	}
	if patch.Description != nil {
		project.Description = *patch.Description
	}
	if patch.Status != nil {
		st := domain.ProjectStatus(*patch.Status)
		if !st.Valid() {
			return nil, domain.ErrInvalidStatus
		}
		project.Status = st
	}
	if patch.OwnerID != nil {
		if err := s.workflow.ValidateOwner(ctx, *patch.OwnerID); err != nil {
			return nil, err
		}
		project.OwnerID = *patch.OwnerID
	}

	project.UpdatedAt = time.Now().UTC()
	if err := s.projects.Update(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// Delete removes the project and cascades deletion to its tasks. Task
// lifecycle is tied to project existence.
func (s *ProjectService) Delete(ctx context.Context, id string) error {
	if _, err := s.projects.FindByID(ctx, id); err != nil {
		return err
	}

	removed, err := s.tasks.DeleteByProject(ctx, id)
	if err != nil {
		return err
	}
	if err := s.projects.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info().Str("project_id", id).Int64("tasks_removed", removed).Msg("project deleted")
	return nil
}

func (s *ProjectService) ListTasks(ctx context.Context, projectID string, filter ports.ListTasksFilter) ([]*domain.Task, int64, error) {
	if _, err := s.projects.FindByID(ctx, projectID); err != nil {
		return nil, 0, err
	}
	filter.ProjectID = projectID
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 100
	}
	return s.tasks.List(ctx, filter)
}

func (s *ProjectService) ensureNameUnique(ctx context.Context, name, excludingID string) error {
	existing, err := s.projects.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, domain.ErrProjectNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != excludingID {
		return domain.ErrProjectNameConflict
	}
	return nil
}
