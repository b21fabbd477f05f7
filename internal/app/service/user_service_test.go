package service

import (
	"context"
	"testing"
	"user_hub/internal/common"
	"user_hub/internal/common/security"
	"user_hub/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_ListUsersRequiresAdmin(t *testing.T) {
	authService, userService, userRepo := setupServices(t)
	ctx := context.Background()

	resp, err := authService.Register(ctx, validRegisterRequest("john", "john@example.com"))
	require.NoError(t, err)
	john := authorizedPrincipal(t, authService, resp.AccessToken)

	_, err = userService.ListUsers(ctx, john)
	assert.ErrorIs(t, err, common.ErrForbidden)

	admin, _ := createAdmin(t, authService, userRepo)
	users, err := userService.ListUsers(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, users, 2)
	for _, u := range users {
		assert.Empty(t, u.HashedPassword)
		assert.Empty(t, u.SecurityAnswerHash)
	}
}

func TestUserService_GetProfileSelfOrAdmin(t *testing.T) {
	authService, userService, userRepo := setupServices(t)
	ctx := context.Background()

	johnResp, err := authService.Register(ctx, validRegisterRequest("john", "john@example.com"))
	require.NoError(t, err)
	janeResp, err := authService.Register(ctx, validRegisterRequest("jane", "jane@example.com"))
	require.NoError(t, err)

	john := authorizedPrincipal(t, authService, johnResp.AccessToken)
	jane := authorizedPrincipal(t, authService, janeResp.AccessToken)
	admin, _ := createAdmin(t, authService, userRepo)

	// Self succeeds.
	profile, err := userService.GetProfile(ctx, john, john.UserID)
	require.NoError(t, err)
	assert.Equal(t, "john", profile.Username)
	assert.Empty(t, profile.HashedPassword)

	// Another user is forbidden.
	_, err = userService.GetProfile(ctx, jane, john.UserID)
	assert.ErrorIs(t, err, common.ErrForbidden)

	// Admin succeeds.
	_, err = userService.GetProfile(ctx, admin, john.UserID)
	assert.NoError(t, err)

	// Admin on a missing record.
	_, err = userService.GetProfile(ctx, admin, "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestUserService_UpdateUser(t *testing.T) {
	authService, userService, _ := setupServices(t)
	ctx := context.Background()

	johnResp, err := authService.Register(ctx, validRegisterRequest("john", "john@example.com"))
	require.NoError(t, err)
	janeResp, err := authService.Register(ctx, validRegisterRequest("jane", "jane@example.com"))
	require.NoError(t, err)

	john := authorizedPrincipal(t, authService, johnResp.AccessToken)
	jane := authorizedPrincipal(t, authService, janeResp.AccessToken)

	// Self-update of a profile field.
	phone := "+1 555 0199"
	updated, err := userService.UpdateUser(ctx, john, john.UserID, model.UserUpdate{Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, phone, updated.Phone)
	assert.Empty(t, updated.HashedPassword)

	// Updating someone else is forbidden.
	_, err = userService.UpdateUser(ctx, jane, john.UserID, model.UserUpdate{Phone: &phone})
	assert.ErrorIs(t, err, common.ErrForbidden)

	// Email collision with another record.
	taken := "jane@example.com"
	_, err = userService.UpdateUser(ctx, john, john.UserID, model.UserUpdate{Email: &taken})
	assert.ErrorIs(t, err, common.ErrDuplicateEmail)

	// The record is unchanged after the failed update.
	profile, err := userService.GetProfile(ctx, john, john.UserID)
	require.NoError(t, err)
	assert.Equal(t, "john@example.com", profile.Email)

	// Malformed email.
	bad := "not-an-email"
	_, err = userService.UpdateUser(ctx, john, john.UserID, model.UserUpdate{Email: &bad})
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestUserService_RoleChangeIsAdminOnly(t *testing.T) {
	authService, userService, userRepo := setupServices(t)
	ctx := context.Background()

	johnResp, err := authService.Register(ctx, validRegisterRequest("john", "john@example.com"))
	require.NoError(t, err)
	john := authorizedPrincipal(t, authService, johnResp.AccessToken)
	admin, _ := createAdmin(t, authService, userRepo)

	adminRole := model.RoleAdmin
	_, err = userService.UpdateUser(ctx, john, john.UserID, model.UserUpdate{Role: &adminRole})
	assert.ErrorIs(t, err, common.ErrForbidden)

	updated, err := userService.UpdateUser(ctx, admin, john.UserID, model.UserUpdate{Role: &adminRole})
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, updated.Role)

	bogus := "superuser"
	_, err = userService.UpdateUser(ctx, admin, john.UserID, model.UserUpdate{Role: &bogus})
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestUserService_DeleteUserRevokesSessions(t *testing.T) {
	authService, userService, userRepo := setupServices(t)
	ctx := context.Background()

	registered, err := authService.Register(ctx, validRegisterRequest("john", "john@example.com"))
	require.NoError(t, err)
	loggedIn, err := authService.Login(ctx, LoginRequest{Username: "john", Password: "secret1"})
	require.NoError(t, err)

	john := authorizedPrincipal(t, authService, registered.AccessToken)
	admin, _ := createAdmin(t, authService, userRepo)

	// Non-admin cannot delete, not even themselves.
	assert.ErrorIs(t, userService.DeleteUser(ctx, john, john.UserID), common.ErrForbidden)

	require.NoError(t, userService.DeleteUser(ctx, admin, john.UserID))

	// Every session issued for the deleted record is dead.
	for _, token := range []string{registered.AccessToken, loggedIn.AccessToken} {
		claims, err := security.ParseToken(token)
		require.NoError(t, err)
		_, err = authService.Authorize(ctx, claims, model.RoleUser)
		assert.ErrorIs(t, err, common.ErrUnauthenticated)
	}

	assert.ErrorIs(t, userService.DeleteUser(ctx, admin, john.UserID), common.ErrNotFound)
}

func TestUserService_CreateUser(t *testing.T) {
	authService, userService, userRepo := setupServices(t)
	ctx := context.Background()

	johnResp, err := authService.Register(ctx, validRegisterRequest("john", "john@example.com"))
	require.NoError(t, err)
	john := authorizedPrincipal(t, authService, johnResp.AccessToken)
	admin, _ := createAdmin(t, authService, userRepo)

	req := CreateUserRequest{
		Username:    "moderator",
		Email:       "mod@example.com",
		Password:    "secret1",
		Role:        model.RoleAdmin,
		FirstName:   "Mod",
		LastName:    "Erator",
		Phone:       "+1 555 0101",
		DateOfBirth: "1985-05-05",
		Address:     "2 Side St",
		Country:     "US",
	}

	_, err = userService.CreateUser(ctx, john, req)
	assert.ErrorIs(t, err, common.ErrForbidden)

	created, err := userService.CreateUser(ctx, admin, req)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, created.Role)
	assert.Empty(t, created.HashedPassword)

	// The provisioned user can log in.
	_, err = authService.Login(ctx, LoginRequest{Username: "moderator", Password: "secret1"})
	assert.NoError(t, err)

	// Duplicate username propagates.
	_, err = userService.CreateUser(ctx, admin, req)
	assert.ErrorIs(t, err, common.ErrDuplicateUsername)
}
