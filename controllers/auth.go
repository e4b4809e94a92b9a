package controllers

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"strings"

	"gitea.com/go-chi/session"
	log "github.com/sirupsen/logrus"

	"github.com/blogem/audit-console/authenticator"
	"github.com/blogem/audit-console/middleware"
)

type AuthController struct{}

func NewAuthController() *AuthController {
	return &AuthController{}
}

// Login initiates the authentication process
func (ac *AuthController) Login(auth authenticator.Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Generate random state
		state, err := generateRandomState()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		// Save the state in the session to validate in callback
		sess := session.GetSession(r)
		sess.Set("state", state)

		// Redirect to the identity provider's login page
		http.Redirect(w, r, auth.GetAuthURL(state), http.StatusTemporaryRedirect)
	}
}

// Callback handles the callback from the identity provider
func (ac *AuthController) Callback(auth authenticator.Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Get session
		sess := session.GetSession(r)

		// Verify state
		storedState, _ := sess.Get("state").(string)
		if storedState == "" {
			http.Error(w, "State not found in session", http.StatusBadRequest)
			return
		}

		if r.URL.Query().Get("state") != storedState {
			http.Error(w, "Invalid state parameter", http.StatusBadRequest)
			return
		}

		// Exchange the code for a token
		token, err := auth.ExchangeCode(r.Context(), r.URL.Query().Get("code"))
		if err != nil {
			log.WithError(err).Warn("Failed to exchange authorization code")
			http.Error(w, "Failed to exchange authorization code for a token: "+err.Error(), http.StatusUnauthorized)
			return
		}

		// Verify the ID token and extract the profile
		claims, err := auth.GetClaims(r.Context(), token)
		if err != nil {
			log.WithError(err).Warn("Failed to verify ID token")
			http.Error(w, "Failed to verify ID Token: "+err.Error(), http.StatusInternalServerError)
			return
		}
		if claims.Subject() == "" {
			http.Error(w, "ID token has no subject", http.StatusUnauthorized)
			return
		}

		// Store the user session
		sess.Set(middleware.SessionUserID, claims.Subject())
		sess.Set(middleware.SessionUserEmail, claims.Email())
		sess.Set(middleware.SessionUserNickname, claims.DisplayName())

		// Clear the state from session
		sess.Delete("state")

		log.WithField("user_id", claims.Subject()).Info("Operator signed in")

		http.Redirect(w, r, redirectTarget(sess.Get(middleware.SessionRedirect)), http.StatusSeeOther)
		sess.Delete(middleware.SessionRedirect)
	}
}

// Logout handles GET /logout
func (ac *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	sess := session.GetSession(r)
	for _, key := range []string{
		middleware.SessionUserID,
		middleware.SessionUserEmail,
		middleware.SessionUserNickname,
		middleware.SessionRedirect,
		"state",
	} {
		sess.Delete(key)
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// redirectTarget only follows local paths stored before login
func redirectTarget(stored interface{}) string {
	target, _ := stored.(string)
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") {
		return "/"
	}
	return target
}

// generateRandomState generates a random state value for CSRF protection
func generateRandomState() (string, error) {
	b := make([]byte, 32)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
