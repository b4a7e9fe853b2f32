package handlers

import (
	"log"
	"net/http"

	"tickethub/internal/middleware"
	"tickethub/internal/services"
)

// AuthHandler handles registration, login, logout and email verification
type AuthHandler struct {
	authService    *services.AuthService
	authMiddleware *middleware.AuthMiddleware
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, authMiddleware *middleware.AuthMiddleware) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		authMiddleware: authMiddleware,
	}
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req services.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.authService.Register(&req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	if err := h.authMiddleware.SaveSession(w, r, resp.SessionID); err != nil {
		log.Printf("Failed to save session cookie: %v", err)
	}

	respondJSON(w, http.StatusCreated, resp)
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req services.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.authService.Login(&req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	if err := h.authMiddleware.SaveSession(w, r, resp.SessionID); err != nil {
		log.Printf("Failed to save session cookie: %v", err)
	}

	respondJSON(w, http.StatusOK, resp)
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if sessionID := h.authMiddleware.SessionIDFromRequest(r); sessionID != "" {
		if err := h.authService.Logout(sessionID); err != nil {
			log.Printf("Failed to delete session: %v", err)
		}
	}
	if err := h.authMiddleware.ClearSession(w, r); err != nil {
		log.Printf("Failed to clear session cookie: %v", err)
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// VerifyEmail handles GET /api/auth/verify?token=...
func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		respondError(w, http.StatusBadRequest, "verification token is required")
		return
	}

	user, err := h.authService.VerifyEmail(token)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"message": "email verified",
		"user":    user,
	})
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"user": user})
}
