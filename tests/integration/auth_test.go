package integration

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shop/backend/internal/application/identity"
	"github.com/shop/backend/internal/domain/shared"
	"github.com/shop/backend/internal/infrastructure/auth"
	"github.com/shop/backend/internal/infrastructure/config"
	"github.com/shop/backend/internal/infrastructure/persistence"
)

func newAuthTestSetup(t *testing.T) (*TestDB, *identity.AuthService, *identity.UserService) {
	t.Helper()

	tdb := NewTestDB(t)
	userRepo := persistence.NewGormUserRepository(tdb.DB)

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "integration-test-secret",
		RefreshSecret:          "integration-test-refresh-secret",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "shop-test",
		MaxRefreshCount:        5,
	})

	authService := identity.NewAuthService(userRepo, jwtService, zap.NewNop())
	userService := identity.NewUserService(userRepo)
	return tdb, authService, userService
}

func TestAuth_RegisterLoginRefresh(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	_, authService, _ := newAuthTestSetup(t)
	ctx := context.Background()

	registered, err := authService.Register(ctx, identity.RegisterRequest{
		Name:     "Frank",
		Email:    "Frank@Example.com",
		Password: "s3cret-password",
	})
	require.NoError(t, err)

	// Email is normalized on the way in
	assert.Equal(t, "frank@example.com", registered.User.Email)
	assert.Contains(t, registered.User.Roles, "customer")
	require.NotNil(t, registered.Tokens)
	assert.NotEmpty(t, registered.Tokens.AccessToken)
	assert.NotEmpty(t, registered.Tokens.RefreshToken)

	loggedIn, err := authService.Login(ctx, identity.LoginRequest{
		Email:    "frank@example.com",
		Password: "s3cret-password",
	})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, loggedIn.User.ID)

	refreshed, err := authService.Refresh(ctx, identity.RefreshRequest{
		RefreshToken: loggedIn.Tokens.RefreshToken,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.Tokens.AccessToken)
}

func TestAuth_DuplicateEmailIsRejected(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	_, authService, _ := newAuthTestSetup(t)
	ctx := context.Background()

	req := identity.RegisterRequest{Name: "Grace", Email: "grace@example.com", Password: "s3cret-password"}
	_, err := authService.Register(ctx, req)
	require.NoError(t, err)

	_, err = authService.Register(ctx, req)
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "EMAIL_TAKEN", domainErr.Code)
}

func TestAuth_WrongPasswordIsRejected(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	_, authService, _ := newAuthTestSetup(t)
	ctx := context.Background()

	_, err := authService.Register(ctx, identity.RegisterRequest{
		Name: "Heidi", Email: "heidi@example.com", Password: "s3cret-password",
	})
	require.NoError(t, err)

	_, err = authService.Login(ctx, identity.LoginRequest{
		Email:    "heidi@example.com",
		Password: "wrong-password",
	})
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
}

func TestAuth_PreferencesRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	_, authService, userService := newAuthTestSetup(t)
	ctx := context.Background()

	registered, err := authService.Register(ctx, identity.RegisterRequest{
		Name: "Ivan", Email: "ivan@example.com", Password: "s3cret-password",
	})
	require.NoError(t, err)

	updated, err := userService.UpdatePreferences(ctx, registered.User.ID, identity.UpdatePreferencesRequest{
		Preferences: []string{"Electronics", "Books"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Electronics", "Books"}, updated.Preferences)

	profile, err := userService.GetProfile(ctx, registered.User.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Electronics", "Books"}, profile.Preferences)
}
