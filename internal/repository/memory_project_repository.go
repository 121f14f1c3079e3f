package repository

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/haiminh-dev/projecthub/internal/models"
)

// MemoryProjectRepo is a map-backed ProjectRepository for tests and local
// development.
type MemoryProjectRepo struct {
	mu   sync.Mutex
	byID map[string]*models.Project
}

func NewMemoryProjectRepo() *MemoryProjectRepo {
	return &MemoryProjectRepo{byID: map[string]*models.Project{}}
}

func (m *MemoryProjectRepo) Create(_ context.Context, p *models.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	if p.Status == "" {
		p.Status = models.ProjectStatusActive
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	cp := *p
	m.byID[p.ID.Hex()] = &cp
	return nil
}

func (m *MemoryProjectRepo) FindByID(_ context.Context, id string) (*models.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byID[id]
	if !ok {
		return nil, ErrProjectNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MemoryProjectRepo) List(_ context.Context, ownerID string) ([]models.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Project
	for _, p := range m.byID {
		if ownerID == "" || p.OwnerID.Hex() == ownerID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *MemoryProjectRepo) Update(_ context.Context, id string, upd ProjectUpdate) (*models.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byID[id]
	if !ok {
		return nil, ErrProjectNotFound
	}
	if upd.Name != nil {
		p.Name = *upd.Name
	}
	if upd.Description != nil {
		p.Description = *upd.Description
	}
	if upd.Status != nil {
		p.Status = *upd.Status
	}
	p.UpdatedAt = time.Now().UTC()
	cp := *p
	return &cp, nil
}

func (m *MemoryProjectRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return ErrProjectNotFound
	}
	delete(m.byID, id)
	return nil
}
