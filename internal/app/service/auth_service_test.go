package service

import (
	"context"
	"testing"
	"time"
	"user_hub/internal/common"
	"user_hub/internal/common/security"
	"user_hub/internal/domain/model"
	"user_hub/internal/domain/repository"
	"user_hub/internal/platform/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupServices(t *testing.T) (*AuthService, *UserService, repository.UserRepository) {
	t.Helper()
	config.AppConfig = &config.Config{
		JWTKey:     []byte("test-secret"),
		JWTExp:     time.Hour,
		RefreshExp: 24 * time.Hour,
	}
	security.InitJWT()

	userRepo := repository.NewMemoryUserRepository()
	sessionRepo := repository.NewMemorySessionRepository()
	return NewAuthService(userRepo, sessionRepo), NewUserService(userRepo, sessionRepo), userRepo
}

func validRegisterRequest(username, email string) RegisterRequest {
	return RegisterRequest{
		Username:    username,
		Email:       email,
		Password:    "secret1",
		FirstName:   "John",
		LastName:    "Doe",
		Phone:       "+1 555 0100",
		DateOfBirth: "1990-01-01",
		Address:     "1 Main St",
		Country:     "US",
	}
}

// createAdmin seeds an admin record directly in the store and logs it in.
func createAdmin(t *testing.T, authService *AuthService, userRepo repository.UserRepository) (Principal, *AuthResponse) {
	t.Helper()
	hash, err := security.HashPassword("adminpass")
	require.NoError(t, err)
	admin := &model.User{
		ID:             uuid.NewString(),
		Username:       "admin",
		Email:          "admin@example.com",
		HashedPassword: hash,
		Role:           model.RoleAdmin,
	}
	require.NoError(t, userRepo.Create(context.Background(), admin))

	resp, err := authService.Login(context.Background(), LoginRequest{Username: "admin", Password: "adminpass"})
	require.NoError(t, err)
	return authorizedPrincipal(t, authService, resp.AccessToken), resp
}

// authorizedPrincipal runs a raw access token through the authorize gate.
func authorizedPrincipal(t *testing.T, authService *AuthService, accessToken string) Principal {
	t.Helper()
	claims, err := security.ParseToken(accessToken)
	require.NoError(t, err)
	principal, err := authService.Authorize(context.Background(), claims, model.RoleUser)
	require.NoError(t, err)
	return *principal
}

func TestAuthService_Register(t *testing.T) {
	authService, _, _ := setupServices(t)
	ctx := context.Background()

	resp, err := authService.Register(ctx, validRegisterRequest("john", "john@example.com"))
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, model.RoleUser, resp.User.Role)
	assert.Empty(t, resp.User.HashedPassword)

	// Same username again.
	_, err = authService.Register(ctx, validRegisterRequest("john", "john2@example.com"))
	assert.ErrorIs(t, err, common.ErrDuplicateUsername)

	// Same email again.
	_, err = authService.Register(ctx, validRegisterRequest("john2", "john@example.com"))
	assert.ErrorIs(t, err, common.ErrDuplicateEmail)
}

func TestAuthService_RegisterValidation(t *testing.T) {
	authService, _, _ := setupServices(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*RegisterRequest)
	}{
		{"missing username", func(r *RegisterRequest) { r.Username = "" }},
		{"missing email", func(r *RegisterRequest) { r.Email = "" }},
		{"malformed email", func(r *RegisterRequest) { r.Email = "not-an-email" }},
		{"short password", func(r *RegisterRequest) { r.Password = "five5" }},
		{"missing first name", func(r *RegisterRequest) { r.FirstName = "" }},
		{"missing country", func(r *RegisterRequest) { r.Country = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRegisterRequest("john", "john@example.com")
			tt.mutate(&req)
			_, err := authService.Register(ctx, req)
			assert.ErrorIs(t, err, common.ErrValidation)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	authService, _, _ := setupServices(t)
	ctx := context.Background()

	first, err := authService.Register(ctx, validRegisterRequest("john", "john@example.com"))
	require.NoError(t, err)

	_, err = authService.Login(ctx, LoginRequest{Username: "john", Password: "wrong"})
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)

	_, err = authService.Login(ctx, LoginRequest{Username: "nobody", Password: "secret1"})
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)

	// Empty fields are login misses, not validation failures.
	_, err = authService.Login(ctx, LoginRequest{Username: "", Password: "secret1"})
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
	_, err = authService.Login(ctx, LoginRequest{Username: "john", Password: ""})
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)

	second, err := authService.Login(ctx, LoginRequest{Username: "john", Password: "secret1"})
	require.NoError(t, err)
	assert.NotEqual(t, first.AccessToken, second.AccessToken)

	// Both sessions are valid at once.
	authorizedPrincipal(t, authService, first.AccessToken)
	authorizedPrincipal(t, authService, second.AccessToken)
}

func TestAuthService_LogoutIsIdempotent(t *testing.T) {
	authService, _, _ := setupServices(t)
	ctx := context.Background()

	resp, err := authService.Register(ctx, validRegisterRequest("john", "john@example.com"))
	require.NoError(t, err)

	require.NoError(t, authService.Logout(ctx, resp.AccessToken))
	require.NoError(t, authService.Logout(ctx, resp.AccessToken))
	require.NoError(t, authService.Logout(ctx, "garbage-token"))

	claims, err := security.ParseToken(resp.AccessToken)
	require.NoError(t, err)
	_, err = authService.Authorize(ctx, claims, model.RoleUser)
	assert.ErrorIs(t, err, common.ErrUnauthenticated)
}

func TestAuthService_Refresh(t *testing.T) {
	authService, _, _ := setupServices(t)
	ctx := context.Background()

	resp, err := authService.Register(ctx, validRegisterRequest("john", "john@example.com"))
	require.NoError(t, err)

	refreshed, err := authService.Refresh(ctx, resp.RefreshToken)
	require.NoError(t, err)
	authorizedPrincipal(t, authService, refreshed.AccessToken)

	// An access token is not accepted as a refresh token.
	_, err = authService.Refresh(ctx, resp.AccessToken)
	assert.ErrorIs(t, err, common.ErrUnauthenticated)

	// After logout the session is gone and refresh fails.
	require.NoError(t, authService.Logout(ctx, resp.AccessToken))
	_, err = authService.Refresh(ctx, resp.RefreshToken)
	assert.ErrorIs(t, err, common.ErrUnauthenticated)
}

func TestAuthService_AuthorizeRejectsRefreshToken(t *testing.T) {
	authService, _, _ := setupServices(t)
	ctx := context.Background()

	resp, err := authService.Register(ctx, validRegisterRequest("john", "john@example.com"))
	require.NoError(t, err)

	claims, err := security.ParseToken(resp.RefreshToken)
	require.NoError(t, err)
	_, err = authService.Authorize(ctx, claims, model.RoleUser)
	assert.ErrorIs(t, err, common.ErrUnauthenticated)
}

func TestAuthService_AuthorizeUsesCurrentRecordRole(t *testing.T) {
	authService, userService, userRepo := setupServices(t)
	ctx := context.Background()

	johnResp, err := authService.Register(ctx, validRegisterRequest("john", "john@example.com"))
	require.NoError(t, err)
	johnID := johnResp.User.ID
	admin, _ := createAdmin(t, authService, userRepo)

	claims, err := security.ParseToken(johnResp.AccessToken)
	require.NoError(t, err)

	// Before promotion the admin gate rejects the token.
	_, err = authService.Authorize(ctx, claims, model.RoleAdmin)
	require.ErrorIs(t, err, common.ErrForbidden)

	// Promotion takes effect on the already-issued token.
	adminRole := model.RoleAdmin
	_, err = userService.UpdateUser(ctx, admin, johnID, model.UserUpdate{Role: &adminRole})
	require.NoError(t, err)
	promoted, err := authService.Authorize(ctx, claims, model.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, promoted.Role)

	// Demotion does too: the same token loses admin power immediately.
	userRole := model.RoleUser
	_, err = userService.UpdateUser(ctx, admin, johnID, model.UserUpdate{Role: &userRole})
	require.NoError(t, err)
	_, err = authService.Authorize(ctx, claims, model.RoleAdmin)
	assert.ErrorIs(t, err, common.ErrForbidden)

	demoted, err := authService.Authorize(ctx, claims, model.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, demoted.Role)
	_, err = userService.ListUsers(ctx, *demoted)
	assert.ErrorIs(t, err, common.ErrForbidden)
}

func TestAuthService_AuthorizeRoleGate(t *testing.T) {
	authService, _, _ := setupServices(t)
	ctx := context.Background()

	resp, err := authService.Register(ctx, validRegisterRequest("john", "john@example.com"))
	require.NoError(t, err)

	claims, err := security.ParseToken(resp.AccessToken)
	require.NoError(t, err)

	_, err = authService.Authorize(ctx, claims, model.RoleUser)
	assert.NoError(t, err)

	_, err = authService.Authorize(ctx, claims, model.RoleAdmin)
	assert.ErrorIs(t, err, common.ErrForbidden)
}
