package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/clinicware/platform/internal/api/respond"
	"github.com/clinicware/platform/internal/auth"
)

type contextKey string

const userKey contextKey = "currentUser"

// RequireUser enforces a bearer access token and resolves it to a user
// row, which is stored on the request context.
func RequireUser(tokens *auth.TokenIssuer, repo auth.Repository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := resolveUser(r, tokens, repo)
			if !ok {
				respond.Error(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}
			next.ServeHTTP(w, r.WithContext(withUser(r.Context(), user)))
		})
	}
}

// RequireAdmin enforces a bearer token belonging to an administrator.
func RequireAdmin(tokens *auth.TokenIssuer, repo auth.Repository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := resolveUser(r, tokens, repo)
			if !ok {
				respond.Error(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}
			if !user.IsAdmin {
				respond.Error(w, http.StatusForbidden, "Admin privileges required")
				return
			}
			next.ServeHTTP(w, r.WithContext(withUser(r.Context(), user)))
		})
	}
}

// OptionalUser resolves a bearer token when one is present but lets
// anonymous requests through. Used by appointment submission, which
// accepts both.
func OptionalUser(tokens *auth.TokenIssuer, repo auth.Repository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if user, ok := resolveUser(r, tokens, repo); ok {
				r = r.WithContext(withUser(r.Context(), user))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UserFromRequest returns the user resolved by the auth middleware.
func UserFromRequest(r *http.Request) (*auth.User, bool) {
	user, ok := r.Context().Value(userKey).(*auth.User)
	return user, ok
}

func withUser(ctx context.Context, user *auth.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

func resolveUser(r *http.Request, tokens *auth.TokenIssuer, repo auth.Repository) (*auth.User, bool) {
	header := r.Header.Get("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return nil, false
	}
	claims, err := tokens.Verify(strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		return nil, false
	}
	user, err := repo.GetByID(r.Context(), claims.UserID)
	if err != nil {
		return nil, false
	}
	return user, true
}
