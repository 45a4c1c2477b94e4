package server

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/zerodeaths/zerodeaths/internal/core/observability/log"
)

// TokenAuth only lets requests through that carry token, either as the
// "token" query parameter (browsers cannot set headers on websocket
// handshakes) or as a bearer Authorization header. An empty token disables
// the check.
func TokenAuth(token string, logger log.Log) func(http.Handler) http.Handler {
	if logger == nil {
		logger = log.NewNop()
	}
	return func(next http.Handler) http.Handler {
		if token == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !validToken(r, token) {
				logger.Warn("rejecting unauthenticated request",
					log.String("path", r.URL.Path),
					log.String("remote_addr", r.RemoteAddr),
				)
				http.Error(w, ErrUnauthorized.Error(), http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func validToken(r *http.Request, token string) bool {
	got := r.URL.Query().Get("token")
	if got == "" {
		got, _ = strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(token)) == 1
}
