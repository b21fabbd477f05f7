package service

import (
	"context"
	"errors"
	"fmt"
	"time"
	"user_hub/internal/common"
	"user_hub/internal/common/security"
	"user_hub/internal/domain/model"
	"user_hub/internal/domain/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type AuthService struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
}

func NewAuthService(userRepo repository.UserRepository, sessionRepo repository.SessionRepository) *AuthService {
	return &AuthService{userRepo: userRepo, sessionRepo: sessionRepo}
}

type RegisterRequest struct {
	Username          string `json:"username" validate:"required"`
	Email             string `json:"email" validate:"required,email"`
	Password          string `json:"password" validate:"required,min=6"`
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

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AuthResponse struct {
	User         *model.User `json:"user"`
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
}

type RefreshResponse struct {
	AccessToken string `json:"access_token"`
}

// Principal identifies an authenticated caller for the duration of one
// request: the record it maps to, the role it held at authorization time and
// the session its tokens are bound to.
type Principal struct {
	UserID    string
	Role      string
	SessionID string
}

func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	if err := common.ValidateStruct(req); err != nil {
		return nil, err
	}

	hashedPassword, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username:          req.Username,
		Email:             req.Email,
		HashedPassword:    hashedPassword,
		Role:              model.RoleUser, // Default role
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

	return s.issueTokens(ctx, user)
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	// An empty or unknown username falls through the lookup path, so every
	// login miss reports the same InvalidCredentials.
	user, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !security.CheckPasswordHash(req.Password, user.HashedPassword) {
		return nil, common.ErrInvalidCredentials
	}

	return s.issueTokens(ctx, user)
}

// Logout revokes the session behind the token. Unknown, expired or malformed
// tokens are treated as already logged out.
func (s *AuthService) Logout(ctx context.Context, tokenString string) error {
	claims, err := security.ParseToken(tokenString)
	if err != nil {
		return nil
	}
	sessionID, err := security.GetSessionIDFromClaims(claims)
	if err != nil {
		return nil
	}
	return s.sessionRepo.Delete(ctx, sessionID)
}

// Refresh exchanges a valid refresh token for a new access token bound to the
// same session.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*RefreshResponse, error) {
	claims, err := security.ParseToken(refreshToken)
	if err != nil {
		return nil, common.ErrUnauthenticated
	}
	tokenType, err := security.GetTokenTypeFromClaims(claims)
	if err != nil || tokenType != security.TokenTypeRefresh {
		return nil, common.ErrUnauthenticated
	}
	sessionID, err := security.GetSessionIDFromClaims(claims)
	if err != nil {
		return nil, common.ErrUnauthenticated
	}

	session, err := s.sessionRepo.Find(ctx, sessionID)
	if err != nil {
		return nil, common.ErrUnauthenticated
	}

	// Re-read the record so a role change (or deletion) since login is
	// reflected in the new token.
	user, err := s.userRepo.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, common.ErrUnauthenticated
	}

	accessToken, err := security.GenerateAccessToken(user.ID, user.Role, session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &RefreshResponse{AccessToken: accessToken}, nil
}

// Authorize resolves verified token claims to a live principal and checks the
// required role. It is the single gate in front of every directory operation.
func (s *AuthService) Authorize(ctx context.Context, claims jwt.MapClaims, requiredRole string) (*Principal, error) {
	tokenType, err := security.GetTokenTypeFromClaims(claims)
	if err != nil || tokenType != security.TokenTypeAccess {
		return nil, common.ErrUnauthenticated
	}
	sessionID, err := security.GetSessionIDFromClaims(claims)
	if err != nil {
		return nil, common.ErrUnauthenticated
	}

	// A signed token is not enough: the session must still exist. Logout and
	// record deletion both remove it.
	session, err := s.sessionRepo.Find(ctx, sessionID)
	if err != nil {
		return nil, common.ErrUnauthenticated
	}

	// The role check runs against the record, not the token, so a role
	// change takes effect on sessions issued before it.
	user, err := s.userRepo.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, common.ErrUnauthenticated
	}

	if requiredRole == model.RoleAdmin && user.Role != model.RoleAdmin {
		return nil, common.ErrForbidden
	}

	return &Principal{UserID: user.ID, Role: user.Role, SessionID: sessionID}, nil
}

func (s *AuthService) issueTokens(ctx context.Context, user *model.User) (*AuthResponse, error) {
	session := &model.Session{
		ID:       uuid.NewString(),
		UserID:   user.ID,
		IssuedAt: time.Now(),
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	accessToken, err := security.GenerateAccessToken(user.ID, user.Role, session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	refreshToken, err := security.GenerateRefreshToken(user.ID, user.Role, session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &AuthResponse{
		User:         user.Sanitized(),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
