package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"service-desk/internal/model"
	"service-desk/internal/session"
)

type principalResolver interface {
	ResolvePrincipal(ctx context.Context, rawToken string) (model.User, error)
}

type contextKey string

const principalContextKey contextKey = "principal"

type AuthMiddleware struct {
	resolver principalResolver
}

func NewAuthMiddleware(resolver principalResolver) *AuthMiddleware {
	return &AuthMiddleware{resolver: resolver}
}

// RequireAuth is the authentication gate in front of every protected
// route: session cookie -> token verification -> principal load. Every
// failure answers with the same generic 401; the concrete reason
// (malformed, tampered, expired, unknown or inactive user) is only
// logged.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawToken, ok := session.Read(r)
		if !ok {
			writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
			return
		}

		principal, err := m.resolver.ResolvePrincipal(r.Context(), rawToken)
		if err != nil {
			slog.Debug("session rejected", "path", r.URL.Path, "reason", err)
			writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
			return
		}

		ctx := context.WithValue(r.Context(), principalContextKey, principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func PrincipalFromContext(ctx context.Context) (model.User, bool) {
	principal, ok := ctx.Value(principalContextKey).(model.User)
	return principal, ok
}

func writeUnauthorized(w http.ResponseWriter, code string, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)

	_ = jsonEncode(w, model.APIResponse{
		Success: false,
		Error: &model.APIError{
			Code:    code,
			Message: message,
		},
	})
}
