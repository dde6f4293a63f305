package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shop/backend/internal/domain/identity"
	"github.com/shop/backend/internal/domain/shared"
	"github.com/shop/backend/internal/infrastructure/auth"
	"github.com/shop/backend/internal/infrastructure/config"
)

// MockUserRepository is a mock implementation of identity.Repository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, u *identity.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-for-unit-tests-only",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "shop-backend-test",
		MaxRefreshCount:        5,
	})
}

func newAuthService(repo *MockUserRepository) *AuthService {
	return NewAuthService(repo, newTestJWTService(), zap.NewNop())
}

func TestAuthServiceRegister(t *testing.T) {
	t.Run("creates account and returns tokens", func(t *testing.T) {
		repo := new(MockUserRepository)
		service := newAuthService(repo)

		repo.On("ExistsByEmail", mock.Anything, "alice@example.com").Return(false, nil)
		repo.On("Save", mock.Anything, mock.AnythingOfType("*identity.User")).Return(nil)

		resp, err := service.Register(context.Background(), RegisterRequest{
			Name:     "Alice",
			Email:    "alice@example.com",
			Password: "secret123",
		})

		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", resp.User.Email)
		assert.Contains(t, resp.User.Roles, identity.RoleCustomer)
		assert.NotEmpty(t, resp.Tokens.AccessToken)
		repo.AssertExpectations(t)
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		repo := new(MockUserRepository)
		service := newAuthService(repo)

		repo.On("ExistsByEmail", mock.Anything, "alice@example.com").Return(true, nil)

		_, err := service.Register(context.Background(), RegisterRequest{
			Name:     "Alice",
			Email:    "alice@example.com",
			Password: "secret123",
		})

		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "EMAIL_TAKEN", domainErr.Code)
		repo.AssertNotCalled(t, "Save")
	})
}

func TestAuthServiceLogin(t *testing.T) {
	newUser := func(t *testing.T) *identity.User {
		u, err := identity.NewUser("Alice", "alice@example.com", "secret123")
		require.NoError(t, err)
		return u
	}

	t.Run("valid credentials return tokens", func(t *testing.T) {
		repo := new(MockUserRepository)
		service := newAuthService(repo)
		user := newUser(t)

		repo.On("FindByEmail", mock.Anything, "alice@example.com").Return(user, nil)
		repo.On("Save", mock.Anything, user).Return(nil)

		resp, err := service.Login(context.Background(), LoginRequest{
			Email:    "alice@example.com",
			Password: "secret123",
		})

		require.NoError(t, err)
		assert.Equal(t, user.ID, resp.User.ID)
		assert.NotEmpty(t, resp.Tokens.AccessToken)
		assert.NotNil(t, user.LastLoginAt)
	})

	t.Run("wrong password is rejected with the same error as unknown email", func(t *testing.T) {
		repo := new(MockUserRepository)
		service := newAuthService(repo)
		user := newUser(t)

		repo.On("FindByEmail", mock.Anything, "alice@example.com").Return(user, nil)

		_, errWrongPassword := service.Login(context.Background(), LoginRequest{
			Email:    "alice@example.com",
			Password: "wrong-password",
		})

		repo2 := new(MockUserRepository)
		service2 := newAuthService(repo2)
		repo2.On("FindByEmail", mock.Anything, "nobody@example.com").Return(nil, shared.ErrNotFound)

		_, errUnknownEmail := service2.Login(context.Background(), LoginRequest{
			Email:    "nobody@example.com",
			Password: "secret123",
		})

		var a, b *shared.DomainError
		require.True(t, errors.As(errWrongPassword, &a))
		require.True(t, errors.As(errUnknownEmail, &b))
		assert.Equal(t, a.Code, b.Code)
		assert.Equal(t, "INVALID_CREDENTIALS", a.Code)
	})
}

func TestAuthServiceRefresh(t *testing.T) {
	t.Run("valid refresh token returns new pair with current roles", func(t *testing.T) {
		repo := new(MockUserRepository)
		service := newAuthService(repo)

		user, err := identity.NewUser("Alice", "alice@example.com", "secret123")
		require.NoError(t, err)

		repo.On("ExistsByEmail", mock.Anything, "alice@example.com").Return(false, nil)
		repo.On("Save", mock.Anything, mock.Anything).Return(nil)
		registered, err := service.Register(context.Background(), RegisterRequest{
			Name:     "Alice",
			Email:    "alice@example.com",
			Password: "secret123",
		})
		require.NoError(t, err)

		user.ID = registered.User.ID
		repo.On("FindByID", mock.Anything, registered.User.ID).Return(user, nil)

		resp, err := service.Refresh(context.Background(), RefreshRequest{
			RefreshToken: registered.Tokens.RefreshToken,
		})

		require.NoError(t, err)
		assert.NotEmpty(t, resp.Tokens.AccessToken)
		assert.NotEqual(t, registered.Tokens.RefreshToken, resp.Tokens.RefreshToken)
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		repo := new(MockUserRepository)
		service := newAuthService(repo)

		_, err := service.Refresh(context.Background(), RefreshRequest{RefreshToken: "garbage"})

		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "INVALID_TOKEN", domainErr.Code)
	})
}

func TestUserServiceUpdatePreferences(t *testing.T) {
	repo := new(MockUserRepository)
	service := NewUserService(repo)

	user, err := identity.NewUser("Alice", "alice@example.com", "secret123")
	require.NoError(t, err)

	repo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	repo.On("Save", mock.Anything, user).Return(nil)

	resp, err := service.UpdatePreferences(context.Background(), user.ID, UpdatePreferencesRequest{
		Preferences: []string{"Electronics", "Audio"},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"Electronics", "Audio"}, resp.Preferences)
	repo.AssertExpectations(t)
}
