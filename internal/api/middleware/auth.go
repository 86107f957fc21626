package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/baykery/storefront-service/internal/models"
)

const SessionCookieName = "baykery_session"

type contextKey string

const userContextKey contextKey = "auth_user"

// UserResolver turns a session token into a user; unknown or expired
// sessions resolve to nil without error.
type UserResolver interface {
	UserForSession(ctx context.Context, sessionID uuid.UUID) (*models.User, error)
}

// LoadUser attaches the session's user to the request context when a valid
// session cookie is present. It never rejects; authorization is decided by
// RequireAdmin on the routes that need it.
func LoadUser(resolver UserResolver) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err == nil {
				if sessionID, err := uuid.Parse(cookie.Value); err == nil {
					if user, err := resolver.UserForSession(r.Context(), sessionID); err == nil && user != nil {
						r = r.WithContext(context.WithValue(r.Context(), userContextKey, user))
					}
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UserFromContext returns the authenticated user, or nil.
func UserFromContext(ctx context.Context) *models.User {
	user, _ := ctx.Value(userContextKey).(*models.User)
	return user
}

// RequireAdmin gates privileged routes: 401 without a session, 403 for a
// session whose role is not ADMIN.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r.Context())
		if user == nil {
			writeAuthError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		if user.Role != models.RoleAdmin {
			writeAuthError(w, http.StatusForbidden, "admin role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeAuthError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
