package auth

import (
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/formhive/formhive/internal/models"
)

const (
	// SessionCookie carries the signed session token. HttpOnly; this is
	// the only cookie authorization decisions are derived from.
	SessionCookie = "fh_session"

	// DisplayCookie carries a denormalized {id, email, full_name} copy
	// readable by client-side code. It is a display hint, not a trust
	// boundary: nothing server-side ever authorizes from it.
	DisplayCookie = "user_data"
)

func SetSessionCookie(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func SetDisplayCookie(w http.ResponseWriter, user models.UserResponse, ttl time.Duration) {
	payload, err := json.Marshal(user)
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     DisplayCookie,
		Value:    encodeCookieValue(payload),
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: false,
		SameSite: http.SameSiteLaxMode,
	})
}

// encodeCookieValue percent-encodes the JSON payload so characters that
// are illegal in cookie values (quotes, commas) survive the round trip.
func encodeCookieValue(payload []byte) string {
	return url.QueryEscape(string(payload))
}

func ClearCookies(w http.ResponseWriter) {
	for _, name := range []string{SessionCookie, DisplayCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:   name,
			Value:  "",
			Path:   "/",
			MaxAge: -1,
		})
	}
}
