package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/markjakearzadon/nammakodai-gobackend/internal/auth"
)

// Authenticator guards routes with user or admin tokens. Each kind of token
// is signed with its own secret, so a user token never passes RequireAdmin.
type Authenticator struct {
	users  *auth.TokenManager
	admins *auth.TokenManager
}

func NewAuthenticator(users, admins *auth.TokenManager) *Authenticator {
	return &Authenticator{users: users, admins: admins}
}

// RequireUser accepts a Bearer header or a ?token= query parameter, the
// latter for EventSource clients that cannot set headers.
func (a *Authenticator) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := TokenFromRequest(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "Missing token")
			return
		}
		id, err := a.users.Parse(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Invalid token")
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), id)))
	})
}

func (a *Authenticator) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := TokenFromRequest(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "No token provided")
			return
		}
		id, err := a.admins.Parse(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.WithAdmin(r.Context(), id)))
	})
}

// TokenFromRequest prefers the Authorization header over the query string.
func TokenFromRequest(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		if tok := strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")); tok != "" {
			return tok
		}
	}
	return strings.TrimSpace(r.URL.Query().Get("token"))
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
