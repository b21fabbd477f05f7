package middleware

import (
	"context"
	"net/http"
	"user_hub/internal/app/service"
	"user_hub/internal/common"
	"user_hub/internal/domain/model"

	"github.com/go-chi/jwtauth/v5"
)

type contextKey string

const principalCtxKey contextKey = "principal"

// Authenticator verifies the bearer token found by jwtauth.Verifier, checks
// that its session is still live and stores the resulting principal in the
// request context. Role enforcement beyond "authenticated" happens in
// AdminOnly or in the service layer (self-or-admin rules).
func Authenticator(authService *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			if err != nil || token == nil {
				common.RespondErr(w, common.ErrUnauthenticated)
				return
			}

			principal, err := authService.Authorize(r.Context(), claims, model.RoleUser)
			if err != nil {
				common.RespondErr(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), principalCtxKey, *principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminOnly rejects any caller whose principal does not hold the admin role.
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := GetPrincipalFromContext(r.Context())
		if !ok || principal.Role != model.RoleAdmin {
			common.RespondErr(w, common.ErrForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetPrincipalFromContext returns the authenticated caller, if any.
func GetPrincipalFromContext(ctx context.Context) (service.Principal, bool) {
	principal, ok := ctx.Value(principalCtxKey).(service.Principal)
	return principal, ok
}
