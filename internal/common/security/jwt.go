package security

import (
	"context"
	"errors"
	"time"
	"user_hub/internal/platform/config"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var TokenAuth *jwtauth.JWTAuth

func InitJWT() {
	TokenAuth = jwtauth.New("HS256", config.AppConfig.JWTKey, nil)
}

// GenerateAccessToken issues a short-lived token bound to a session. The
// session id claim is what makes the token revocable: verification alone is
// never enough, the session must still exist.
func GenerateAccessToken(userID, role, sessionID string) (string, error) {
	return generateToken(userID, role, sessionID, TokenTypeAccess, config.AppConfig.JWTExp)
}

// GenerateRefreshToken issues the longer-lived companion token bound to the
// same session.
func GenerateRefreshToken(userID, role, sessionID string) (string, error) {
	return generateToken(userID, role, sessionID, TokenTypeRefresh, config.AppConfig.RefreshExp)
}

func generateToken(userID, role, sessionID, tokenType string, exp time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"sid":     sessionID,
		"typ":     tokenType,
		"exp":     time.Now().Add(exp).Unix(),
		"iat":     time.Now().Unix(),
	}
	_, tokenString, err := TokenAuth.Encode(claims)
	return tokenString, err
}

// ParseToken verifies and validates a raw token string outside the middleware
// path (logout and refresh receive the token in the request body).
func ParseToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwtauth.VerifyToken(TokenAuth, tokenString)
	if err != nil {
		return nil, err
	}
	raw, err := token.AsMap(context.Background())
	if err != nil {
		return nil, err
	}
	return jwt.MapClaims(raw), nil
}

// Helper functions to extract claims, used in middleware and services.
func GetUserIDFromClaims(claims jwt.MapClaims) (string, error) {
	id, ok := claims["user_id"].(string)
	if !ok {
		return "", errors.New("user_id claim is missing or not a string")
	}
	return id, nil
}

func GetUserRoleFromClaims(claims jwt.MapClaims) (string, error) {
	role, ok := claims["role"].(string)
	if !ok {
		return "", errors.New("role claim is missing or not a string")
	}
	return role, nil
}

func GetSessionIDFromClaims(claims jwt.MapClaims) (string, error) {
	sid, ok := claims["sid"].(string)
	if !ok {
		return "", errors.New("sid claim is missing or not a string")
	}
	return sid, nil
}

func GetTokenTypeFromClaims(claims jwt.MapClaims) (string, error) {
	typ, ok := claims["typ"].(string)
	if !ok {
		return "", errors.New("typ claim is missing or not a string")
	}
	return typ, nil
}
