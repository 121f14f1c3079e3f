package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/haiminh-dev/projecthub/internal/models"
	"github.com/haiminh-dev/projecthub/internal/repository"
)

var ErrProjectNotFound = errors.New("project not found")

// ProjectInput is the payload for creating a project.
type ProjectInput struct {
	Name        string
	Description string
	// OwnerID is honored only for admins; everyone else owns what they create.
	OwnerID string
}

type ProjectService struct {
	projects repository.ProjectRepository
	users    repository.UserRepository
}

func NewProjectService(projects repository.ProjectRepository, users repository.UserRepository) *ProjectService {
	return &ProjectService{projects: projects, users: users}
}

// Create stores a new project after checking the owner exists.
func (s *ProjectService) Create(ctx context.Context, actor *models.User, in ProjectInput) (*models.Project, error) {
	ownerID := actor.ID
	if in.OwnerID != "" && in.OwnerID != actor.ID.Hex() {
		if !actor.IsAdmin() {
			return nil, ErrForbidden
		}
		owner, err := s.users.FindByID(ctx, in.OwnerID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, fmt.Errorf("looking up owner: %w", err)
		}
		ownerID = owner.ID
	}

	project := &models.Project{
		Name:        in.Name,
		Description: in.Description,
		OwnerID:     ownerID,
	}
	if err := s.projects.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("creating project: %w", err)
	}
	return project, nil
}

// List returns the actor's projects; admins see everything.
func (s *ProjectService) List(ctx context.Context, actor *models.User) ([]models.Project, error) {
	if actor.IsAdmin() {
		return s.projects.List(ctx, "")
	}
	return s.projects.List(ctx, actor.ID.Hex())
}

func (s *ProjectService) Get(ctx context.Context, actor *models.User, id string) (*models.Project, error) {
	project, err := s.findVisible(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return project, nil
}

func (s *ProjectService) Update(ctx context.Context, actor *models.User, id string, upd repository.ProjectUpdate) (*models.Project, error) {
	if _, err := s.findVisible(ctx, actor, id); err != nil {
		return nil, err
	}
	project, err := s.projects.Update(ctx, id, upd)
	if errors.Is(err, repository.ErrProjectNotFound) {
		return nil, ErrProjectNotFound
	}
	return project, err
}

func (s *ProjectService) Delete(ctx context.Context, actor *models.User, id string) error {
	if _, err := s.findVisible(ctx, actor, id); err != nil {
		return err
	}
	err := s.projects.Delete(ctx, id)
	if errors.Is(err, repository.ErrProjectNotFound) {
		return ErrProjectNotFound
	}
	return err
}

// findVisible loads a project and enforces owner-or-admin access. Projects the
// actor may not see are reported as not found rather than forbidden.
func (s *ProjectService) findVisible(ctx context.Context, actor *models.User, id string) (*models.Project, error) {
	project, err := s.projects.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("loading project: %w", err)
	}
	if !actor.IsAdmin() && project.OwnerID != actor.ID {
		return nil, ErrProjectNotFound
	}
	return project, nil
}
