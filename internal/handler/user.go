package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/petcommunity/petcommunity/internal/handler/dto"
	"github.com/petcommunity/petcommunity/internal/model"
	"github.com/petcommunity/petcommunity/internal/service"
)

// AuthService is the account behaviour UserHandler needs.
type AuthService interface {
	Register(ctx context.Context, input service.RegisterInput) (*model.UserSummary, error)
	Authenticate(ctx context.Context, username, password string) (string, error)
	GetUser(ctx context.Context, id int64) (*model.UserSummary, error)
}

// UserHandler handles registration, login and profile lookup.
type UserHandler struct {
	svc    AuthService
	logger *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc AuthService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		svc:    svc,
		logger: logger,
	}
}

// Create handles POST /users.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	user, err := h.svc.Register(r.Context(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("user_created", "user_id", user.ID)

	writeJSON(w, http.StatusCreated, dto.Success("User created successfully!", user))
}

// Login handles POST /login.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	token, err := h.svc.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.LoginResponse{AccessToken: token})
}

// Get handles GET /users/{id}. Non-integer ids are reported as not found.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		handleServiceError(w, r, h.logger, service.ErrUserNotFound)
		return
	}

	user, err := h.svc.GetUser(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.Success("User found", user))
}
