package v1handler

import (
	"context"
	"driftblog/pkg/domain"
	"driftblog/pkg/logger"
	"driftblog/pkg/serrors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// userKey is the private context key the authenticated user is stored under.
type userKey struct{}

// UserFromContext returns the authenticated user attached to the request
// context, or nil for anonymous requests.
func UserFromContext(ctx context.Context) *domain.User {
	user, _ := ctx.Value(userKey{}).(*domain.User)

	return user
}

// bearerToken extracts the token from the Authorization header, returning the
// empty string when the header is absent or not a bearer scheme.
func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(auth) <= len(prefix) || !strings.EqualFold(auth[:len(prefix)], prefix) {
		return ""
	}

	return auth[len(prefix):]
}

// withUser resolves the bearer token to a user when one is presented. Requests
// without a token pass through anonymously; requests with an invalid token are
// rejected rather than silently downgraded.
func (h *Handler) withUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			next(w, r)

			return
		}

		user, err := h.deps.Accounts.Authenticate(r.Context(), token)
		if err != nil {
			h.writeError(w, r, err)

			return
		}

		ctx := context.WithValue(r.Context(), userKey{}, user)
		ctx = logger.WithFields(ctx, zap.String("userID", uuid.UUID(user.ID).String()))
		next(w, r.WithContext(ctx))
	}
}

// requireUser rejects anonymous requests before delegating to withUser.
func (h *Handler) requireUser(next http.HandlerFunc) http.HandlerFunc {
	return h.withUser(func(w http.ResponseWriter, r *http.Request) {
		if UserFromContext(r.Context()) == nil {
			h.writeError(w, r, serrors.With(serrors.ErrUnauthorized, "authentication required"))

			return
		}

		next(w, r)
	})
}
