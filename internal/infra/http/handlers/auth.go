package handlers

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// RequireBearer rejects requests whose Authorization header does not carry
// the shared token.
func RequireBearer(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			given, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" || subtle.ConstantTimeCompare([]byte(given), []byte(token)) != 1 {
				w.Header().Set("WWW-Authenticate", `Bearer realm="solicitations"`)
				writeJSON(w, http.StatusUnauthorized, SolicitationResponse{Status: "UNAUTHORIZED", Message: "missing or invalid token"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
