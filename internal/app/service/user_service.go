package service

import (
	"context"
	"errors"
	"fmt"
	"user_hub/internal/common"
	"user_hub/internal/common/security"
	"user_hub/internal/domain/model"
	"user_hub/internal/domain/repository"
)

// UserService is the administrative CRUD facade over the directory. Every
// operation takes the caller's principal and enforces the admin or
// self-or-admin rule before touching the store.
type UserService struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
}

func NewUserService(userRepo repository.UserRepository, sessionRepo repository.SessionRepository) *UserService {
	return &UserService{userRepo: userRepo, sessionRepo: sessionRepo}
}

type CreateUserRequest struct {
	Username          string `json:"username" validate:"required"`
	Email             string `json:"email" validate:"required,email"`
	Password          string `json:"password" validate:"required,min=6"`
	Role              string `json:"role" validate:"omitempty,oneof=user admin"`
	FirstName         string `json:"first_name" validate:"required"`
	LastName          string `json:"last_name" validate:"required"`
	Phone             string `json:"phone" validate:"required"`
	DateOfBirth       string `json:"date_of_birth" validate:"required"`
	Address           string `json:"address" validate:"required"`
	Country           string `json:"country" validate:"required"`
	PreferredLanguage string `json:"preferred_language"`
	SecurityQuestion  string `json:"security_question"`
	SecurityAnswer    string `json:"security_answer"`
}

// ListUsers returns a sanitized snapshot of the whole directory. Admin only.
func (s *UserService) ListUsers(ctx context.Context, caller Principal) ([]model.User, error) {
	if caller.Role != model.RoleAdmin {
		return nil, common.ErrForbidden
	}

	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	for i := range users {
		users[i] = *users[i].Sanitized()
	}
	return users, nil
}

// GetProfile returns one sanitized record. Self or admin.
func (s *UserService) GetProfile(ctx context.Context, caller Principal, userID string) (*model.User, error) {
	if caller.Role != model.RoleAdmin && caller.UserID != userID {
		return nil, common.ErrForbidden
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.Sanitized(), nil
}

// UpdateUser merges the supplied fields into a record. Self or admin; role
// changes are admin only.
func (s *UserService) UpdateUser(ctx context.Context, caller Principal, userID string, update model.UserUpdate) (*model.User, error) {
	if caller.Role != model.RoleAdmin && caller.UserID != userID {
		return nil, common.ErrForbidden
	}
	if update.Role != nil {
		if caller.Role != model.RoleAdmin {
			return nil, common.ErrForbidden
		}
		if *update.Role != model.RoleUser && *update.Role != model.RoleAdmin {
			return nil, fmt.Errorf("%w: role must be one of: user admin", common.ErrValidation)
		}
	}
	if update.Email != nil {
		if err := common.ValidateEmail(*update.Email); err != nil {
			return nil, err
		}
	}

	user, err := s.userRepo.Update(ctx, userID, update)
	if err != nil {
		return nil, err
	}
	return user.Sanitized(), nil
}

// DeleteUser removes a record and revokes every session issued for it before
// reporting success. Admin only.
func (s *UserService) DeleteUser(ctx context.Context, caller Principal, userID string) error {
	if caller.Role != model.RoleAdmin {
		return common.ErrForbidden
	}

	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return err
	}
	if err := s.sessionRepo.DeleteAllForUser(ctx, userID); err != nil {
		return fmt.Errorf("failed to revoke sessions: %w", err)
	}
	return nil
}

// CreateUser lets an admin provision a record with an explicit role. No
// session is issued for the new user.
func (s *UserService) CreateUser(ctx context.Context, caller Principal, req CreateUserRequest) (*model.User, error) {
	if caller.Role != model.RoleAdmin {
		return nil, common.ErrForbidden
	}
	if err := common.ValidateStruct(req); err != nil {
		return nil, err
	}

	hashedPassword, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := req.Role
	if role == "" {
		role = model.RoleUser
	}

	user := &model.User{
		Username:          req.Username,
		Email:             req.Email,
		HashedPassword:    hashedPassword,
		Role:              role,
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		Phone:             req.Phone,
		DateOfBirth:       req.DateOfBirth,
		Address:           req.Address,
		Country:           req.Country,
		PreferredLanguage: req.PreferredLanguage,
		SecurityQuestion:  req.SecurityQuestion,
	}
	if req.SecurityAnswer != "" {
		answerHash, err := security.HashPassword(req.SecurityAnswer)
		if err != nil {
			return nil, fmt.Errorf("failed to hash security answer: %w", err)
		}
		user.SecurityAnswerHash = answerHash
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, common.ErrDuplicateUsername) || errors.Is(err, common.ErrDuplicateEmail) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user.Sanitized(), nil
}
