package middleware

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const sessionTokenKey contextKey = "sessionToken"

// SessionCookieName is the cookie carrying the moderator session JWT.
const SessionCookieName = "mod_session"

// ExtractSession pulls the moderator session token (cookie or bearer header)
// into the request context. It performs no validation: authorization is the
// moderation gateway's job, so an invalid session fails there with 403.
func ExtractSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := ""
		if cookie, err := r.Cookie(SessionCookieName); err == nil {
			token = cookie.Value
		} else if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
			token = strings.TrimPrefix(auth, "Bearer ")
		}
		ctx := context.WithValue(r.Context(), sessionTokenKey, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetSessionToken returns the session token extracted by ExtractSession,
// empty when the request carried none.
func GetSessionToken(r *http.Request) string {
	token, _ := r.Context().Value(sessionTokenKey).(string)
	return token
}
