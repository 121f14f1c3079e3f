package repository

import (
	"context"
	"errors"

	"github.com/haiminh-dev/projecthub/internal/models"
)

var ErrProjectNotFound = errors.New("project not found")

// ProjectUpdate carries a partial project update; nil fields are left untouched.
type ProjectUpdate struct {
	Name        *string
	Description *string
	Status      *string
}

type ProjectRepository interface {
	Create(ctx context.Context, p *models.Project) error
	FindByID(ctx context.Context, id string) (*models.Project, error)
	List(ctx context.Context, ownerID string) ([]models.Project, error)
	Update(ctx context.Context, id string, upd ProjectUpdate) (*models.Project, error)
	Delete(ctx context.Context, id string) error
}
