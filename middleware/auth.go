package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"

	"gitea.com/go-chi/session"

	"github.com/blogem/audit-console/userctx"
)

// Session keys written by the login callback
const (
	SessionUserID       = "user_id"
	SessionUserEmail    = "user_email"
	SessionUserNickname = "user_nickname"
	SessionRedirect     = "redirect_after_login"
)

// LoadUser copies the signed-in operator from the session into the request
// context. It must run after the session middleware.
func LoadUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := session.GetSession(r)
		get := func(key string) string {
			value, _ := sess.Get(key).(string)
			return value
		}

		ctx := r.Context()
		if id := get(SessionUserID); id != "" {
			ctx = userctx.SetUserID(ctx, id)
		}
		if email := get(SessionUserEmail); email != "" {
			ctx = userctx.SetUserEmail(ctx, email)
		}
		if nickname := get(SessionUserNickname); nickname != "" {
			ctx = userctx.SetUserNickname(ctx, nickname)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAuth ensures the user is authenticated
// If not authenticated, redirects to /login and stores the intended destination
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if userctx.GetUserID(r.Context()) != "" {
			next.ServeHTTP(w, r)
			return
		}

		// Store the intended destination for redirect after login
		if r.Method == http.MethodGet {
			session.GetSession(r).Set(SessionRedirect, r.URL.RequestURI())
		}
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	})
}

// RequireIngestToken guards the ingest API with a static bearer token.
// An empty token disables ingestion.
func RequireIngestToken(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token == "" {
				writeJSONError(w, http.StatusServiceUnavailable, "ingestion is disabled")
				return
			}

			given, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || subtle.ConstantTimeCompare([]byte(strings.TrimSpace(given)), []byte(token)) != 1 {
				w.Header().Set("WWW-Authenticate", `Bearer realm="audit-ingest"`)
				writeJSONError(w, http.StatusUnauthorized, "invalid or missing bearer token")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
