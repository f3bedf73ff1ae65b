package middleware

import (
	"context"
	"net/http"

	"portfolio-api/internal/logger"
	"portfolio-api/internal/response"
	"portfolio-api/internal/session"
)

// unexported, collision-proof context key
type userIDContextKeyType struct{}

var userIDKey = userIDContextKeyType{}

// UserIDKey is the gin context key holding the authenticated user id.
const UserIDKey = "userID"

// UserIDFromContext extracts the authenticated user ID from context.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// WithUserID returns a copy of ctx carrying userID.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

type AuthMiddleware struct {
	Sessions *session.Manager
}

func NewAuthMiddleware(sessions *session.Manager) *AuthMiddleware {
	return &AuthMiddleware{Sessions: sessions}
}

func (a *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 1. Resolve cookie to a live session
		sess, err := a.Sessions.Load(r)
		if err != nil {
			logger.Error("session lookup failed", map[string]any{
				"error": err.Error(),
				"path":  r.URL.Path,
			})
			response.WriteHTTP(w, response.Error(nil))
			return
		}

		// 2. No session, or one without a user
		if !sess.Authenticated() {
			response.WriteHTTP(w, response.Unauthorized(nil))
			return
		}

		// 3. Sliding expiry
		if err := a.Sessions.Touch(r.Context(), w, sess); err != nil {
			logger.Warn("session touch failed", map[string]any{
				"error": err.Error(),
			})
		}

		// 4. Attach user_id to context
		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), sess.UserID)))
	})
}
