package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/pcrishikesh/ai-chatbot-backend/internal/apperrors"
	"github.com/pcrishikesh/ai-chatbot-backend/internal/logger"
	"github.com/pcrishikesh/ai-chatbot-backend/internal/repository/db"
)

type contextKey string

const userContextKey contextKey = "user"

// UserResolver confirms that the identity referenced by a token still
// exists. A token for a vanished account is as good as no token.
type UserResolver interface {
	FindByID(id string) (*db.User, error)
}

// UserFromContext returns the authenticated user stored by Middleware.
func UserFromContext(ctx context.Context) (*db.User, bool) {
	user, ok := ctx.Value(userContextKey).(*db.User)
	return user, ok
}

// ContextWithUser stores the authenticated user; exported for handler tests.
func ContextWithUser(ctx context.Context, user *db.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// Middleware authenticates the bearer token and resolves the identity
// before handing off to the next handler.
func Middleware(issuer *Issuer, users UserResolver) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				unauthorized(w, "missing authorization header")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				unauthorized(w, "invalid authorization header format")
				return
			}

			userID, err := issuer.Verify(parts[1])
			if err != nil {
				switch {
				case errors.Is(err, ErrTokenExpired):
					unauthorized(w, "token has expired")
				case errors.Is(err, ErrTokenMalformed):
					unauthorized(w, "token is malformed")
				default:
					unauthorized(w, "invalid token")
				}
				return
			}

			user, err := users.FindByID(userID)
			if err != nil {
				// Only a vanished subject is an auth failure; a storage
				// error must not read as a bad credential.
				if !apperrors.Is(err, apperrors.CodeNotFound) {
					logger.Log.WithError(err).Error("Error resolving token subject")
					serverError(w)
					return
				}
				logger.Log.WithField("user_id", userID).Warn("Token subject no longer exists")
				unauthorized(w, "invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), user)))
		}
	}
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"message": message,
	})
}

func serverError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"message": "internal error",
	})
}
