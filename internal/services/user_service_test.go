package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tablefind/tablefind/internal/api/validate"
	"github.com/tablefind/tablefind/internal/auth"
	"github.com/tablefind/tablefind/internal/models"
	repo "github.com/tablefind/tablefind/internal/repository"
)

type stubUsers struct {
	byEmail map[string]models.User
	created []models.User
}

func newStubUsers() *stubUsers { return &stubUsers{byEmail: map[string]models.User{}} }

func (s *stubUsers) Create(_ context.Context, u models.User) (models.User, error) {
	u.ID = "u-" + u.Username
	s.created = append(s.created, u)
	s.byEmail[u.Email] = u
	return u, nil
}

func (s *stubUsers) GetByID(_ context.Context, id string) (models.User, error) {
	for _, u := range s.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return models.User{}, repo.ErrNotFound
}

func (s *stubUsers) GetByEmail(_ context.Context, email string) (models.User, error) {
	u, ok := s.byEmail[email]
	if !ok {
		return models.User{}, repo.ErrNotFound
	}
	return u, nil
}

func (s *stubUsers) ExistsByUsernameOrEmail(_ context.Context, username, email string) (bool, error) {
	for _, u := range s.byEmail {
		if u.Username == username || u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func TestRegisterIssuesToken(t *testing.T) {
	users := newStubUsers()
	tm := auth.NewTokenManager("test-secret", time.Hour)
	svc := NewUserService(users, tm)

	u, token, err := svc.Register(context.Background(), "alice", "  Alice@Example.com ", "s3cret1", "")
	require.NoError(t, err)

	assert.Equal(t, "alice@example.com", u.Email)
	assert.Equal(t, models.RoleUser, u.Role)

	require.Len(t, users.created, 1)
	assert.NotEmpty(t, users.created[0].PasswordHash)
	assert.NotEqual(t, "s3cret1", users.created[0].PasswordHash)

	claims, err := tm.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, models.RoleUser, claims.Role)
}

func TestRegisterValidation(t *testing.T) {
	users := newStubUsers()
	svc := NewUserService(users, auth.NewTokenManager("test-secret", time.Hour))

	_, _, err := svc.Register(context.Background(), "al", "not-an-email", "123", "")

	var errs validate.Errs
	require.ErrorAs(t, err, &errs)
	fields := make([]string, 0, len(errs))
	for _, e := range errs {
		fields = append(fields, e.Field)
	}
	assert.ElementsMatch(t, []string{"username", "email", "password"}, fields)
	assert.Empty(t, users.created)
}

func TestRegisterDuplicate(t *testing.T) {
	users := newStubUsers()
	svc := NewUserService(users, auth.NewTokenManager("test-secret", time.Hour))
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "alice", "alice@example.com", "s3cret1", "")
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, "alice", "other@example.com", "s3cret1", "")
	assert.ErrorIs(t, err, ErrUserExists)

	_, _, err = svc.Register(ctx, "bob", "alice@example.com", "s3cret1", "")
	assert.ErrorIs(t, err, ErrUserExists)
	assert.Len(t, users.created, 1)
}

func TestLogin(t *testing.T) {
	users := newStubUsers()
	tm := auth.NewTokenManager("test-secret", time.Hour)
	svc := NewUserService(users, tm)
	ctx := context.Background()

	registered, _, err := svc.Register(ctx, "alice", "alice@example.com", "s3cret1", "admin")
	require.NoError(t, err)

	u, token, err := svc.Login(ctx, "alice@example.com", "s3cret1")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, u.ID)

	claims, err := tm.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Role)

	_, _, err = svc.Login(ctx, "alice@example.com", "wrong-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Unknown email maps to the same error as a bad password.
	_, _, err = svc.Login(ctx, "nobody@example.com", "s3cret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
