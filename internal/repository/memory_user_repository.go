package repository

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/haiminh-dev/projecthub/internal/models"
)

// MemoryUserRepo is a map-backed UserRepository for tests and local
// development. It mirrors the mongo repository's projection behavior: default
// reads strip credential fields, the explicit reads include them.
type MemoryUserRepo struct {
	mu   sync.Mutex
	byID map[string]*models.User
}

func NewMemoryUserRepo() *MemoryUserRepo {
	return &MemoryUserRepo{byID: map[string]*models.User{}}
}

// Snapshot returns the full stored record, credentials included.
func (m *MemoryUserRepo) Snapshot(id string) *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil
	}
	cp := *u
	return &cp
}

func (m *MemoryUserRepo) Create(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.byID {
		if existing.Email == u.Email {
			return ErrDuplicateEmail
		}
	}
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	cp := *u
	m.byID[u.ID.Hex()] = &cp
	return nil
}

func (m *MemoryUserRepo) find(match func(*models.User) bool) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrUserNotFound
}

func public(u *models.User) *models.User {
	pub := u.Public()
	return &pub
}

func (m *MemoryUserRepo) FindByID(_ context.Context, id string) (*models.User, error) {
	u, err := m.find(func(u *models.User) bool { return u.ID.Hex() == id })
	if err != nil {
		return nil, err
	}
	return public(u), nil
}

func (m *MemoryUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	u, err := m.find(func(u *models.User) bool { return u.Email == email })
	if err != nil {
		return nil, err
	}
	return public(u), nil
}

func (m *MemoryUserRepo) FindByEmailWithPassword(_ context.Context, email string) (*models.User, error) {
	u, err := m.find(func(u *models.User) bool { return u.Email == email })
	if err != nil {
		return nil, err
	}
	u.RefreshToken = ""
	u.ResetTokenHash = ""
	u.ResetTokenExpires = nil
	return u, nil
}

func (m *MemoryUserRepo) FindByIDWithRefreshToken(_ context.Context, id string) (*models.User, error) {
	u, err := m.find(func(u *models.User) bool { return u.ID.Hex() == id })
	if err != nil {
		return nil, err
	}
	u.PasswordHash = ""
	u.ResetTokenHash = ""
	u.ResetTokenExpires = nil
	return u, nil
}

func (m *MemoryUserRepo) FindByResetTokenHash(_ context.Context, hash string, now time.Time) (*models.User, error) {
	return m.find(func(u *models.User) bool {
		return u.ResetTokenHash != "" && u.ResetTokenHash == hash &&
			u.ResetTokenExpires != nil && u.ResetTokenExpires.After(now)
	})
}

func (m *MemoryUserRepo) mutate(id string, fn func(*models.User)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return ErrUserNotFound
	}
	fn(u)
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *MemoryUserRepo) SetRefreshToken(_ context.Context, id, token string) error {
	return m.mutate(id, func(u *models.User) { u.RefreshToken = token })
}

func (m *MemoryUserRepo) ClearRefreshToken(_ context.Context, id string) error {
	return m.mutate(id, func(u *models.User) { u.RefreshToken = "" })
}

func (m *MemoryUserRepo) SetResetToken(_ context.Context, id, hash string, expires time.Time) error {
	return m.mutate(id, func(u *models.User) {
		u.ResetTokenHash = hash
		u.ResetTokenExpires = &expires
	})
}

func (m *MemoryUserRepo) ClearResetToken(_ context.Context, id string) error {
	return m.mutate(id, func(u *models.User) {
		u.ResetTokenHash = ""
		u.ResetTokenExpires = nil
	})
}

func (m *MemoryUserRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	return m.mutate(id, func(u *models.User) {
		u.PasswordHash = passwordHash
		u.ResetTokenHash = ""
		u.ResetTokenExpires = nil
	})
}

func (m *MemoryUserRepo) List(_ context.Context) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.User, 0, len(m.byID))
	for _, u := range m.byID {
		out = append(out, u.Public())
	}
	return out, nil
}

func (m *MemoryUserRepo) Update(ctx context.Context, id string, upd UserUpdate) (*models.User, error) {
	if upd.Email != nil {
		m.mu.Lock()
		for otherID, other := range m.byID {
			if otherID != id && other.Email == *upd.Email {
				m.mu.Unlock()
				return nil, ErrDuplicateEmail
			}
		}
		m.mu.Unlock()
	}
	err := m.mutate(id, func(u *models.User) {
		if upd.Name != nil {
			u.Name = *upd.Name
		}
		if upd.Email != nil {
			u.Email = *upd.Email
		}
		if upd.Age != nil {
			u.Age = *upd.Age
		}
		if upd.Role != nil {
			u.Role = *upd.Role
		}
	})
	if err != nil {
		return nil, err
	}
	return m.FindByID(ctx, id)
}

func (m *MemoryUserRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return ErrUserNotFound
	}
	delete(m.byID, id)
	return nil
}
