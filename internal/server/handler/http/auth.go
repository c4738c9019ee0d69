package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/avolkovs/hwledger/internal/auth"
	"github.com/avolkovs/hwledger/internal/middleware"
	"github.com/avolkovs/hwledger/internal/models"
)

// AuthService defines the interface for authentication operations
// required by the HTTP handlers.
type AuthService interface {
	// Register creates a new user with a hashed password.
	Register(ctx context.Context, username, password string) (*models.User, error)
	// Login verifies the username/password pair.
	Login(ctx context.Context, username, password string) (*models.User, error)
}

// AuthHandler handles HTTP requests for signup, login, and logout.
type AuthHandler struct {
	// AuthService performs the underlying authentication operations.
	AuthService AuthService
	// SessionSecret signs issued session tokens.
	SessionSecret []byte
	// SessionTTL is how long an issued session stays valid.
	SessionTTL time.Duration
}

// credentialsRequest represents the JSON payload for signup and login.
type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// userResponse is the JSON shape returned for an authenticated user.
type userResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Register handles POST /api/register.
// It expects a JSON body with non-empty "username" and "password",
// creates the user, and starts a session by setting the session cookie.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCredentials(w, r)
	if !ok {
		return
	}

	user, err := h.AuthService.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, models.ErrDuplicateUser) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.startSession(w, user)
}

// Login handles POST /api/login.
// On valid credentials it sets the session cookie and returns the user.
// Unknown usernames and wrong passwords both yield 401.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCredentials(w, r)
	if !ok {
		return
	}

	user, err := h.AuthService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, models.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.startSession(w, user)
}

// Logout handles POST /api/logout by expiring the session cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	middleware.ClearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *AuthHandler) startSession(w http.ResponseWriter, user *models.User) {
	token, err := auth.GenerateToken(user.ID, user.Username, h.SessionSecret, h.SessionTTL)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	middleware.SetSessionCookie(w, token, h.SessionTTL)
	writeJSON(w, http.StatusOK, userResponse{ID: user.ID, Username: user.Username})
}

// decodeCredentials parses and validates the signup/login body.
func decodeCredentials(w http.ResponseWriter, r *http.Request) (credentialsRequest, bool) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return req, false
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password required")
		return req, false
	}
	return req, true
}
