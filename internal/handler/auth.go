package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/forgo/ems/api/internal/model"
	"github.com/forgo/ems/api/internal/service"
)

// AuthService is the account surface the auth handler needs
type AuthService interface {
	Login(ctx context.Context, creds model.Credentials) (*service.LoginSession, error)
	Register(ctx context.Context, profile model.Profile, rawRole string) (*model.AccountConfirmation, error)
}

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService AuthService
	logger      *slog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService AuthService, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// LoginRequest represents the login endpoint request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest represents the register endpoint request body. Role is
// one of ROLE_ATTENDEE, ROLE_ORGANIZER or ROLE_ADMIN; anything else
// registers an attendee.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
	Role     string `json:"role,omitempty"`
}

// Login handles POST /v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, r, model.NewBadRequestError("invalid request body"))
		return
	}

	session, err := h.authService.Login(r.Context(), model.Credentials{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.logger.Warn("login failed",
			slog.String("email", req.Email),
			slog.String("error", err.Error()),
		)
		WriteError(w, r, MapServiceErrorWithContext(err, "login"))
		return
	}

	WriteData(w, http.StatusOK, session, map[string]string{
		"events": "/v1/events",
	})
}

// Register handles POST /v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, r, model.NewBadRequestError("invalid request body"))
		return
	}

	confirmation, err := h.authService.Register(r.Context(), model.Profile{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
	}, req.Role)
	if err != nil {
		WriteError(w, r, MapServiceErrorWithContext(err, "register"))
		return
	}

	WriteData(w, http.StatusCreated, confirmation, map[string]string{
		"login": "/v1/auth/login",
	})
}
