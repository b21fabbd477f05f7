package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	"user_hub/internal/api"
	"user_hub/internal/app/service"
	"user_hub/internal/common/security"
	"user_hub/internal/domain/repository"
	"user_hub/internal/platform/cache"
	"user_hub/internal/platform/config"
	"user_hub/internal/platform/database"
	"user_hub/internal/platform/logger"
)

func main() {
	// 1. Load Configuration
	config.Load()
	slog.SetDefault(logger.New(config.AppConfig.AppEnv))
	slog.Info("configuration loaded", "env", config.AppConfig.AppEnv)

	// 2. Initialize JWT
	security.InitJWT()

	// 3. Directory store backend
	var userRepo repository.UserRepository
	switch config.AppConfig.UserStore {
	case "postgres":
		database.Connect()
		defer database.Close()
		userRepo = repository.NewPgUserRepository(database.DB)
	case "memory":
		userRepo = repository.NewMemoryUserRepository()
	default:
		log.Fatalf("Unknown USER_STORE %q", config.AppConfig.UserStore)
	}

	// 4. Session store backend
	var sessionRepo repository.SessionRepository
	switch config.AppConfig.SessionStore {
	case "redis":
		cache.ConnectRedis()
		defer cache.CloseRedis()
		sessionRepo = repository.NewRedisSessionRepository(cache.RDB, config.AppConfig.RefreshExp)
	case "memory":
		sessionRepo = repository.NewMemorySessionRepository()
	default:
		log.Fatalf("Unknown SESSION_STORE %q", config.AppConfig.SessionStore)
	}
	slog.Info("stores initialized",
		"user_store", config.AppConfig.UserStore,
		"session_store", config.AppConfig.SessionStore)

	// 5. Initialize Services
	authService := service.NewAuthService(userRepo, sessionRepo)
	userService := service.NewUserService(userRepo, sessionRepo)

	// 6. Initialize Router & HTTP Server
	router := api.NewRouter(authService, userService)

	server := &http.Server{
		Addr:         ":" + config.AppConfig.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 7. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", config.AppConfig.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", config.AppConfig.APIPort, err)
		}
	}()

	<-stop // Wait for interrupt signal

	slog.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	slog.Info("server stopped gracefully")
}
