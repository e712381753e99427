package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/pcrishikesh/ai-chatbot-backend/internal/auth"
	"github.com/pcrishikesh/ai-chatbot-backend/internal/logger"
	"github.com/pcrishikesh/ai-chatbot-backend/internal/service/user"
	"github.com/pcrishikesh/ai-chatbot-backend/pkg/validation"
)

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Success bool     `json:"success"`
	User    userJSON `json:"user"`
	Token   string   `json:"token"`
}

type profileResponse struct {
	Success bool     `json:"success"`
	User    userJSON `json:"user"`
}

// AuthHandlers exposes the authentication surface.
type AuthHandlers struct {
	users     *user.Service
	issuer    *auth.Issuer
	validator *validation.AuthRequestValidator
}

// NewAuthHandlers creates a new AuthHandlers
func NewAuthHandlers(users *user.Service, issuer *auth.Issuer) *AuthHandlers {
	return &AuthHandlers{
		users:     users,
		issuer:    issuer,
		validator: validation.NewAuthRequestValidator(),
	}
}

// Signup registers a new identity and returns it with a fresh session token.
func (h *AuthHandlers) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendErrorStatus(w, http.StatusBadRequest, "invalid request body")
		return
	}

	newUser, err := h.users.Register(req.Name, req.Email, req.Password)
	if err != nil {
		sendError(w, err)
		return
	}

	token, err := h.issuer.Issue(newUser)
	if err != nil {
		logger.Log.WithError(err).Error("Error issuing token")
		sendErrorStatus(w, http.StatusInternalServerError, "error issuing token")
		return
	}

	logger.Log.WithField("user_id", newUser.ID).Info("User registered")

	writeJSON(w, http.StatusCreated, authResponse{
		Success: true,
		User:    toUserJSON(newUser),
		Token:   token,
	})
}

// Login verifies credentials and returns a session token. No-match and
// no-such-account are deliberately indistinguishable.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendErrorStatus(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validator.ValidateLogin(req.Email, req.Password); err != nil {
		sendError(w, err)
		return
	}

	account, err := h.users.VerifyCredentials(req.Email, req.Password)
	if err != nil {
		sendError(w, err)
		return
	}
	if account == nil {
		sendErrorStatus(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	token, err := h.issuer.Issue(account)
	if err != nil {
		logger.Log.WithError(err).Error("Error issuing token")
		sendErrorStatus(w, http.StatusInternalServerError, "error issuing token")
		return
	}

	logger.Log.WithField("user_id", account.ID).Info("User logged in")

	writeJSON(w, http.StatusOK, authResponse{
		Success: true,
		User:    toUserJSON(account),
		Token:   token,
	})
}

// Logout acknowledges the client discarding its token. Tokens are
// self-contained and there is no server-side revocation list, so this only
// confirms the client-side action.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "logged out",
	})
}

// Profile returns the authenticated identity.
func (h *AuthHandlers) Profile(w http.ResponseWriter, r *http.Request) {
	account, ok := auth.UserFromContext(r.Context())
	if !ok {
		sendErrorStatus(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	writeJSON(w, http.StatusOK, profileResponse{
		Success: true,
		User:    toUserJSON(account),
	})
}
