package services

import (
	"context"
	"errors"

	"github.com/tablefind/tablefind/internal/api/validate"
	"github.com/tablefind/tablefind/internal/auth"
	"github.com/tablefind/tablefind/internal/models"
	repo "github.com/tablefind/tablefind/internal/repository"
)

var (
	ErrUserExists = errors.New("user already exists")
	// ErrInvalidCredentials covers both unknown email and wrong password,
	// so responses never reveal which accounts exist.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type UserService struct {
	users repo.Users
	tm    *auth.TokenManager
}

func NewUserService(users repo.Users, tm *auth.TokenManager) *UserService {
	return &UserService{users: users, tm: tm}
}

// Register creates the user and issues a session token in one step.
func (s *UserService) Register(ctx context.Context, username, email, password, role string) (models.User, string, error) {
	u := models.User{Username: username, Email: email, Role: role}
	u.Normalize()

	errs := u.Validate()
	if e := validate.MinLen("password", password, 6); e != nil {
		errs = append(errs, *e)
	}
	if len(errs) > 0 {
		return models.User{}, "", errs
	}

	exists, err := s.users.ExistsByUsernameOrEmail(ctx, u.Username, u.Email)
	if err != nil {
		return models.User{}, "", err
	}
	if exists {
		return models.User{}, "", ErrUserExists
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, "", err
	}
	u.PasswordHash = hash

	created, err := s.users.Create(ctx, u)
	if errors.Is(err, repo.ErrDuplicate) {
		return models.User{}, "", ErrUserExists
	}
	if err != nil {
		return models.User{}, "", err
	}

	token, _, err := s.tm.Generate(created.ID, created.Role, created.Email)
	if err != nil {
		return models.User{}, "", err
	}
	return created, token, nil
}

func (s *UserService) Login(ctx context.Context, email, password string) (models.User, string, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, repo.ErrNotFound) {
		return models.User{}, "", ErrInvalidCredentials
	}
	if err != nil {
		return models.User{}, "", err
	}
	if auth.VerifyPassword(password, u.PasswordHash) != nil {
		return models.User{}, "", ErrInvalidCredentials
	}

	token, _, err := s.tm.Generate(u.ID, u.Role, u.Email)
	if err != nil {
		return models.User{}, "", err
	}
	return u, token, nil
}

func (s *UserService) Profile(ctx context.Context, id string) (models.User, error) {
	return s.users.GetByID(ctx, id)
}
