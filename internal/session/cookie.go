// Package session maps session tokens to and from the browser cookie.
// Logout only clears the client-side cookie; a token copied out of it
// stays valid until its embedded expiry, since no revocation list is
// kept server-side.
package session

import (
	"net/http"
	"time"
)

const CookieName = "auth_token"

// Write stores the token in the session cookie. HttpOnly keeps it away
// from page scripts, SameSite=Lax restricts cross-site sends, Secure
// limits it to encrypted transport.
func Write(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear overwrites the cookie with an empty value and an immediate
// expiry.
func Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Read extracts the raw token from the request, if present.
func Read(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}
