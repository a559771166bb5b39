package service_test

import (
	"context"
	"errors"
	"testing"

	"tillpos/internal/config"
	"tillpos/internal/dto"
	"tillpos/internal/model"
	"tillpos/internal/repository"
	"tillpos/internal/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type stubUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (r *stubUserRepo) seed(t *testing.T, username, password, role string) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u := &model.User{
		ID:           uuid.New(),
		Username:     username,
		Name:         username,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
	}
	r.users[u.ID] = u
	return u
}

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return u, nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *stubUserRepo) List(_ context.Context, includeInactive bool) ([]model.User, error) {
	out := make([]model.User, 0, len(r.users))
	for _, u := range r.users {
		if !includeInactive && !u.IsActive {
			continue
		}
		out = append(out, *u)
	}
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, u *model.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if u, ok := r.users[id]; ok {
		u.IsActive = false
	}
	return nil
}

var _ repository.UserRepository = (*stubUserRepo)(nil)

func authConfig() *config.Config {
	return &config.Config{
		JWTSecret:          "test-secret",
		JWTExpirationHours: 8,
	}
}

func TestLoginIssuesSignedToken(t *testing.T) {
	users := newStubUserRepo()
	users.seed(t, "cashier1", "hunter2!", "cashier")
	svc := service.NewAuthService(users, authConfig())

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Username: "cashier1", Password: "hunter2!"})
	require.NoError(t, err)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, 8*3600, resp.ExpiresIn)
	assert.Equal(t, "cashier", resp.User.Role)

	// The token must verify against the configured secret and carry the role.
	token, err := jwt.Parse(resp.AccessToken, func(tok *jwt.Token) (any, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, "cashier", claims["role"])
	assert.Equal(t, "cashier1", claims["username"])
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	users := newStubUserRepo()
	users.seed(t, "cashier1", "hunter2!", "cashier")
	svc := service.NewAuthService(users, authConfig())

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "cashier1", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, "invalid credentials", err.Error())
}

func TestLoginRejectsUnknownUser(t *testing.T) {
	svc := service.NewAuthService(newStubUserRepo(), authConfig())

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "ghost", Password: "whatever"})
	require.Error(t, err)
	assert.Equal(t, "invalid credentials", err.Error())
}

func TestSessionRejectsDeactivatedUser(t *testing.T) {
	users := newStubUserRepo()
	u := users.seed(t, "former", "pw", "cashier")
	svc := service.NewAuthService(users, authConfig())

	_, err := svc.Session(context.Background(), u.ID)
	require.NoError(t, err)

	require.NoError(t, svc.DeactivateUser(context.Background(), u.ID))
	_, err = svc.Session(context.Background(), u.ID)
	require.Error(t, err)
}

func TestCreateUserHashesPassword(t *testing.T) {
	users := newStubUserRepo()
	svc := service.NewAuthService(users, authConfig())

	resp, err := svc.CreateUser(context.Background(), dto.CreateUserRequest{
		Username: "admin2",
		Name:     "Second Admin",
		Password: "s3cret-pass",
		Role:     "admin",
	})
	require.NoError(t, err)
	assert.True(t, resp.IsActive)

	id, err := uuid.Parse(resp.ID)
	require.NoError(t, err)
	stored := users.users[id]
	require.NotNil(t, stored)
	assert.NotContains(t, stored.PasswordHash, "s3cret-pass")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("s3cret-pass")))
}
