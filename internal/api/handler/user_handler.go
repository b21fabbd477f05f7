package handler

import (
	"encoding/json"
	"net/http"
	"user_hub/internal/api/middleware"
	"user_hub/internal/app/service"
	"user_hub/internal/common"
	"user_hub/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) RegisterRoutes(r chi.Router) {
	// Self-or-admin routes; the service decides per record.
	r.Get("/{userID}", h.getProfile)
	r.Put("/{userID}", h.updateUser)

	r.Group(func(adminRouter chi.Router) {
		adminRouter.Use(middleware.AdminOnly)
		adminRouter.Get("/", h.listUsers)    // GET /api/v1/users
		adminRouter.Post("/", h.createUser)  // POST /api/v1/users
		adminRouter.Delete("/{userID}", h.deleteUser)
	})
}

func (h *UserHandler) listUsers(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetPrincipalFromContext(r.Context())
	if !ok {
		common.RespondErr(w, common.ErrUnauthenticated)
		return
	}

	users, err := h.userService.ListUsers(r.Context(), caller)
	if err != nil {
		common.RespondErr(w, err)
		return
	}
	common.RespondOK(w, http.StatusOK, users)
}

func (h *UserHandler) getProfile(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetPrincipalFromContext(r.Context())
	if !ok {
		common.RespondErr(w, common.ErrUnauthenticated)
		return
	}
	userID := chi.URLParam(r, "userID")

	user, err := h.userService.GetProfile(r.Context(), caller, userID)
	if err != nil {
		common.RespondErr(w, err)
		return
	}
	common.RespondOK(w, http.StatusOK, user)
}

func (h *UserHandler) updateUser(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetPrincipalFromContext(r.Context())
	if !ok {
		common.RespondErr(w, common.ErrUnauthenticated)
		return
	}
	userID := chi.URLParam(r, "userID")

	// Unknown fields are rejected here so a typo'd or forbidden key (id,
	// username, password) fails loudly instead of being silently dropped.
	var update model.UserUpdate
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&update); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "validation_error", "invalid request payload: "+err.Error())
		return
	}

	user, err := h.userService.UpdateUser(r.Context(), caller, userID, update)
	if err != nil {
		common.RespondErr(w, err)
		return
	}
	common.RespondOK(w, http.StatusOK, user)
}

func (h *UserHandler) deleteUser(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetPrincipalFromContext(r.Context())
	if !ok {
		common.RespondErr(w, common.ErrUnauthenticated)
		return
	}
	userID := chi.URLParam(r, "userID")

	if err := h.userService.DeleteUser(r.Context(), caller, userID); err != nil {
		common.RespondErr(w, err)
		return
	}
	common.RespondOK(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *UserHandler) createUser(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetPrincipalFromContext(r.Context())
	if !ok {
		common.RespondErr(w, common.ErrUnauthenticated)
		return
	}

	var req service.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "validation_error", "invalid request payload: "+err.Error())
		return
	}

	user, err := h.userService.CreateUser(r.Context(), caller, req)
	if err != nil {
		common.RespondErr(w, err)
		return
	}
	common.RespondOK(w, http.StatusCreated, user)
}
