package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/mobileauth/go-otp-server/users"
)

type contextKey string

const userContextKey contextKey = "authenticated-user"

// RequireAuth validates the bearer token and loads the authenticated user
// into the request context. Every failure is the same opaque 401.
func (s *Server) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rawToken := bearerToken(r)
		if rawToken == "" {
			writeError(w, http.StatusUnauthorized, "login on your account")
			return
		}

		user, err := s.auth.UserFromToken(r.Context(), rawToken)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "login on your account")
			return
		}

		next(w, r.WithContext(context.WithValue(r.Context(), userContextKey, user)))
	}
}

// UserFromContext returns the authenticated user placed by RequireAuth.
func UserFromContext(ctx context.Context) (*users.User, bool) {
	user, ok := ctx.Value(userContextKey).(*users.User)
	return user, ok
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
