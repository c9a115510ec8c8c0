package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/nhasan/nutriai/internal/apperror"
	"github.com/nhasan/nutriai/internal/auth"
	"github.com/nhasan/nutriai/internal/model"
	"github.com/nhasan/nutriai/internal/service"
)

// AuthHandler exposes registration, login, logout, and the current-user
// lookup.
//
// DEPENDENCY CHAIN:
//   - authSvc *service.AuthService → the auth partition (users + session)
//   - tokens  *auth.TokenService   → issues JWT session tokens
type AuthHandler struct {
	authSvc *service.AuthService
	tokens  *auth.TokenService
	logger  *slog.Logger
}

// NewAuthHandler creates an AuthHandler. All dependencies are injected;
// the handler has no knowledge of how they're constructed.
func NewAuthHandler(authSvc *service.AuthService, tokens *auth.TokenService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authSvc: authSvc,
		tokens:  tokens,
		logger:  logger,
	}
}

// registerRequest is the POST /api/auth/register body. Goals, when
// present, overrides the default goal profile field-by-field, so a signup
// form can let the user pick a calorie target up front.
type registerRequest struct {
	Name     string           `json:"name"`
	Email    string           `json:"email"`
	Password string           `json:"password"`
	Goals    *model.GoalPatch `json:"goals,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginResponse carries the token in the body as well as in the cookie, so
// non-browser clients can use Authorization: Bearer.
type loginResponse struct {
	User  model.UserInfo `json:"user"`
	Token string         `json:"token"`
}

// HandleRegister creates a new account.
//
// HTTP: POST /api/auth/register
// BODY: {"name": "...", "email": "...", "password": "...", "goals": {"calories": 1800}}
//
// Registration does NOT log the user in — the client follows up with a
// login call.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	if req.Name == "" {
		writeError(w, apperror.ValidationFailed("name", "name is required"))
		return
	}
	if req.Email == "" {
		writeError(w, apperror.ValidationFailed("email", "email is required"))
		return
	}
	if req.Password == "" {
		writeError(w, apperror.ValidationFailed("password", "password is required"))
		return
	}

	user, err := h.authSvc.Register(r.Context(), req.Name, req.Email, req.Password, req.Goals)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, user.Info())
}

// HandleLogin verifies credentials, activates the session, and issues the
// JWT cookie.
//
// HTTP: POST /api/auth/login
// BODY: {"email": "...", "password": "..."}
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	user, err := h.authSvc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	token, err := h.tokens.Generate(user.ID)
	if err != nil {
		h.logger.Error("issuing token failed",
			slog.String("userID", user.ID),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.TokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(auth.DefaultTokenLifetime.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, loginResponse{User: user.Info(), Token: token})
}

// HandleLogout clears the session and the cookie. Idempotent.
//
// HTTP: POST /api/auth/logout
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.authSvc.Logout(r.Context()); err != nil {
		writeError(w, err)
		return
	}

	// MaxAge -1 tells the browser to delete the cookie immediately.
	http.SetCookie(w, &http.Cookie{
		Name:     auth.TokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	w.WriteHeader(http.StatusNoContent)
}

// HandleMe returns the currently authenticated user's profile.
//
// HTTP: GET /api/auth/me (behind RequireAuth)
//
// A valid token whose session has since been logged out gets a 401 — the
// store's session pointer, not the token, is the source of truth for "who
// is signed in".
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user := h.authSvc.CurrentUser()
	if user == nil {
		writeError(w, apperror.InvalidCredentials())
		return
	}
	writeJSON(w, http.StatusOK, user.Info())
}
