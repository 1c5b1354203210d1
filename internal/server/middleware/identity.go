// Package middleware provides HTTP middleware that identifies the caller of a request.
package middleware

import (
	"context"
	"net/http"
	"strings"
	"unicode"
)

// UserHeader carries the caller's user id
const UserHeader = "X-User-ID"

// maxUserIDLength bounds the accepted user id
const maxUserIDLength = 128

// ContextKey is a typed key for context values to avoid collisions.
type ContextKey string

// userIDKey is the context key for storing the caller's user ID.
const userIDKey ContextKey = "userID"

// UserIdentity creates middleware that copies the user id from the named header into the
// request context. Requests without the header pass through anonymously; a malformed id is rejected.
func UserIdentity(header string) func(http.Handler) http.Handler {
	if header == "" {
		header = UserHeader
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, present := r.Header[http.CanonicalHeaderKey(header)]
			if !present {
				next.ServeHTTP(w, r)
				return
			}

			userID := strings.TrimSpace(strings.Join(raw, ","))
			if !validUserID(userID) {
				http.Error(w, "invalid "+header+" header", http.StatusBadRequest)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

func validUserID(id string) bool {
	if id == "" || len(id) > maxUserIDLength {
		return false
	}
	for _, r := range id {
		if unicode.IsSpace(r) || unicode.IsControl(r) || r == ',' {
			return false
		}
	}
	return true
}

// WithUserID returns a copy of ctx carrying userID.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserID extracts the caller's user ID from the context.
func UserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok && userID != ""
}
