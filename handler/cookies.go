package handler

import (
	"net/http"
	"time"
	"videotube-api/model"
)

const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

// CookieConfig controls the attributes of the session cookies.
type CookieConfig struct {
	Secure     bool
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

func (c CookieConfig) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (c CookieConfig) setTokens(w http.ResponseWriter, pair model.TokenPair) {
	http.SetCookie(w, c.cookie(AccessTokenCookie, pair.AccessToken, int(c.AccessTTL.Seconds())))
	http.SetCookie(w, c.cookie(RefreshTokenCookie, pair.RefreshToken, int(c.RefreshTTL.Seconds())))
}

// clearTokens expires both cookies with the same attributes they were set with.
func (c CookieConfig) clearTokens(w http.ResponseWriter) {
	http.SetCookie(w, c.cookie(AccessTokenCookie, "", -1))
	http.SetCookie(w, c.cookie(RefreshTokenCookie, "", -1))
}
