package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/haiminh-dev/projecthub/internal/models"
	"github.com/haiminh-dev/projecthub/internal/repository"
)

// UserService is the thin CRUD layer over the credential store used by the
// admin user endpoints. Authorization (admin vs self) is checked here so the
// handlers stay pass-throughs.
type UserService struct {
	users    repository.UserRepository
	hashCost int
}

func NewUserService(users repository.UserRepository, hashCost int) *UserService {
	return &UserService{users: users, hashCost: hashCost}
}

// Create adds a user on behalf of an admin. The plaintext password is hashed
// here; it is never handed to the repository.
func (s *UserService) Create(ctx context.Context, actor *models.User, in RegisterInput, role models.Role) (*models.User, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}
	user := &models.User{
		Name:         in.Name,
		Email:        in.Email,
		Age:          in.Age,
		Role:         role,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}
	pub := user.Public()
	return &pub, nil
}

func (s *UserService) List(ctx context.Context, actor *models.User) ([]models.User, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	return s.users.List(ctx)
}

// Get returns a user; non-admins may only read themselves.
func (s *UserService) Get(ctx context.Context, actor *models.User, id string) (*models.User, error) {
	if !actor.IsAdmin() && actor.ID.Hex() != id {
		return nil, ErrForbidden
	}
	user, err := s.users.FindByID(ctx, id)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}

// Update applies a partial profile update; only admins may change roles or
// other users.
func (s *UserService) Update(ctx context.Context, actor *models.User, id string, upd repository.UserUpdate) (*models.User, error) {
	if !actor.IsAdmin() {
		if actor.ID.Hex() != id {
			return nil, ErrForbidden
		}
		if upd.Role != nil {
			return nil, ErrForbidden
		}
	}
	user, err := s.users.Update(ctx, id, upd)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrUserNotFound):
			return nil, ErrUserNotFound
		case errors.Is(err, repository.ErrDuplicateEmail):
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("updating user: %w", err)
	}
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, actor *models.User, id string) error {
	if !actor.IsAdmin() {
		return ErrForbidden
	}
	err := s.users.Delete(ctx, id)
	if errors.Is(err, repository.ErrUserNotFound) {
		return ErrUserNotFound
	}
	return err
}
