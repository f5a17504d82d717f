// Package handler contains the HTTP request handlers. Handlers parse
// requests, call the service layer, and write responses — no business
// rules and no SQL live here.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/devsnippet/internal/service"
)

// AuthHandler serves the register and login endpoints. Neither requires a
// bearer token — they're how you get one.
type AuthHandler struct {
	auth   *service.AuthService
	logger *slog.Logger
}

func NewAuthHandler(auth *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger}
}

// HandleRegister creates a new account.
//
// HTTP: POST /api/auth/register
// Body: {"email": "...", "password": "..."}
// 200:  {"message": "user created successfully", "userId": "..."}
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var creds service.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		h.logger.Warn("invalid register JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid JSON body",
		})
		return
	}

	userID, err := h.auth.Register(r.Context(), creds)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "user created successfully",
		"userId":  userID,
	})
}

// HandleLogin verifies credentials and returns a bearer token.
//
// HTTP: POST /api/auth/login
// Body: {"email": "...", "password": "..."}
// 200:  {"token": "..."}
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var creds service.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		h.logger.Warn("invalid login JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid JSON body",
		})
		return
	}

	token, err := h.auth.Login(r.Context(), creds)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}
