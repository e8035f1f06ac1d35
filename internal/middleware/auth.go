package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/skillswap/skillswap-go/internal/crypto"
	"github.com/skillswap/skillswap-go/internal/model"
	"github.com/skillswap/skillswap-go/internal/repository"
)

type contextKey string

const userKey contextKey = "authUser"

// UserFinder resolves a token subject to a user record.
type UserFinder interface {
	GetByUsername(ctx context.Context, username string) (*model.User, error)
}

// Auth returns middleware that authenticates requests. It extracts the
// bearer token from the Authorization header, verifies it, resolves the
// subject to a user and checks the account is active. The resolved user
// is stored in the request context; every protected handler obtains the
// caller identity this way and no other.
func Auth(tokens *crypto.TokenService, users UserFinder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeJSONError(w, http.StatusUnauthorized, "missing authorization header")
				return
			}

			token, found := strings.CutPrefix(authHeader, "Bearer ")
			if !found || token == "" {
				writeJSONError(w, http.StatusUnauthorized, "invalid authorization format")
				return
			}

			username, err := tokens.Verify(token)
			if err != nil {
				if errors.Is(err, crypto.ErrTokenExpired) {
					writeJSONError(w, http.StatusUnauthorized, "token expired")
					return
				}
				writeJSONError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			user, err := users.GetByUsername(r.Context(), username)
			if err != nil {
				if errors.Is(err, repository.ErrUserNotFound) {
					// Valid signature but the subject no longer maps to
					// an account.
					writeJSONError(w, http.StatusUnauthorized, "unknown user")
					return
				}
				writeJSONError(w, http.StatusInternalServerError, "internal server error")
				return
			}

			if !user.IsActive {
				writeJSONError(w, http.StatusUnauthorized, "account is not active")
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext extracts the authenticated user from the request context.
func UserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(userKey).(*model.User)
	return user, ok
}

// ContextWithUser returns ctx carrying user as the authenticated
// caller. Exposed for handler tests.
func ContextWithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
