package api

import (
	"net/http"
	"time"
	"user_hub/internal/api/handler"
	"user_hub/internal/api/middleware"
	"user_hub/internal/app/service"
	"user_hub/internal/common/security"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	authService *service.AuthService,
	userService *service.UserService,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	// Finds a token in "Authorization: Bearer T" and puts the parsed claims
	// in the request context. Liveness and role checks happen later, in
	// middleware.Authenticator.
	r.Use(jwtauth.Verifier(security.TokenAuth))

	// Health checks (public)
	healthHandler := handler.NewHealthHandler()
	r.Route("/health", healthHandler.RegisterRoutes)

	// API v1 Routes
	r.Route("/api/v1", func(v1 chi.Router) {
		// Auth routes (public)
		authHandler := handler.NewAuthHandler(authService)
		v1.Route("/auth", authHandler.RegisterRoutes)

		// Directory routes (authenticated)
		userHandler := handler.NewUserHandler(userService)
		v1.Route("/users", func(users chi.Router) {
			users.Use(middleware.Authenticator(authService))
			userHandler.RegisterRoutes(users)
		})
	})

	return r
}
