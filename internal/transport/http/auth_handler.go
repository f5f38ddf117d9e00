package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"holdcost/internal/auth"
	apierrors "holdcost/internal/errors"
)

// AuthHandler exposes the shared-credential login and logout endpoints.
type AuthHandler struct {
	gate         *auth.Gate
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewAuthHandler creates an auth handler.
func NewAuthHandler(gate *auth.Gate, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		gate:         gate,
		logger:       logger,
		errorHandler: apierrors.NewErrorHandler(logger),
	}
}

// RegisterRoutes registers the auth routes.
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/login", h.Login)
	r.Post("/logout", h.Logout)
}

// Login checks the shared credential and issues a session token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrInvalidRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("credentials", "username and password are required"))
		return
	}

	token, err := h.gate.Login(req.Username, req.Password)
	if err != nil {
		h.logger.WarnContext(ctx, "login rejected", slog.String("username", req.Username))
		h.errorHandler.HandleError(w, r, apierrors.ErrInvalidCredentials)
		return
	}

	h.logger.InfoContext(ctx, "login accepted")
	render.JSON(w, r, map[string]string{"token": token})
}

// Logout ends the current session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.gate.Logout(sessionTokenFromRequest(r))
	render.JSON(w, r, map[string]bool{"success": true})
}

func sessionTokenFromRequest(r *http.Request) string {
	const prefix = "Bearer "
	if h := r.Header.Get("Authorization"); len(h) > len(prefix) && h[:len(prefix)] == prefix {
		return h[len(prefix):]
	}
	return ""
}
