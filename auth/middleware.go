package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/user/bookshelf-go/apperror"
)

// contextKey is a private type for context keys, preventing collisions with
// keys set by other packages.
type contextKey string

const userContextKey contextKey = "auth_user"

// NewContextWithUser returns a child context carrying the authenticated user.
func NewContextWithUser(ctx context.Context, user User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext extracts the authenticated user placed by BearerAuth.
func UserFromContext(ctx context.Context) (User, bool) {
	user, ok := ctx.Value(userContextKey).(User)
	return user, ok
}

// BearerAuth returns middleware that verifies the Authorization bearer token
// and resolves its subject against the credential store. Verification and
// identity lookup are combined: a valid signature whose subject is unknown
// or disabled is rejected exactly like a bad token.
func BearerAuth(issuer *TokenIssuer, store *CredentialStore) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				apperror.WriteError(w, r, apperror.NewAuthError("Not authenticated", nil))
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				apperror.WriteError(w, r, apperror.NewAuthError("Not authenticated", nil))
				return
			}

			subject, err := issuer.Verify(parts[1])
			if err != nil {
				apperror.WriteError(w, r, err)
				return
			}

			user, ok := store.Lookup(subject)
			if !ok || user.Disabled {
				apperror.WriteError(w, r, apperror.NewAuthError("Could not validate credentials", nil))
				return
			}

			ctx := NewContextWithUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
