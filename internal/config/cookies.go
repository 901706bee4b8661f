package config

import (
	"net/http"
	"strings"
	"time"
)

const GameTokenCookie = "game_token"

type Cookies struct {
	Domain   string
	Secure   bool
	SameSite http.SameSite
}

func NewCookies(c CookiesConfig) *Cookies {
	sameSite := http.SameSiteStrictMode
	switch strings.ToUpper(c.SameSite) {
	case "DEFAULT":
		sameSite = http.SameSiteDefaultMode
	case "LAX":
		sameSite = http.SameSiteLaxMode
	case "STRICT":
		sameSite = http.SameSiteStrictMode
	case "NONE":
		sameSite = http.SameSiteNoneMode
	}

	return &Cookies{
		Domain:   c.Domain,
		Secure:   c.Secure,
		SameSite: sameSite,
	}
}

func (c *Cookies) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     GameTokenCookie,
		Path:     "/",
		Value:    "delete",
		MaxAge:   -1,
		HttpOnly: true,
		Domain:   c.Domain,
		Secure:   c.Secure,
		SameSite: c.SameSite,
	})
}

func (c *Cookies) Refresh(w http.ResponseWriter, token string, lifetime time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     GameTokenCookie,
		Path:     "/",
		Value:    token,
		Expires:  time.Now().Add(lifetime),
		HttpOnly: true,
		Domain:   c.Domain,
		Secure:   c.Secure,
		SameSite: c.SameSite,
	})
}

// GameToken returns the token from the X-Game-Token header, falling back to
// the game_token cookie.
func (c *Cookies) GameToken(r *http.Request) (string, bool) {
	if token := r.Header.Get("X-Game-Token"); token != "" {
		return token, true
	}
	cookie, err := r.Cookie(GameTokenCookie)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}
