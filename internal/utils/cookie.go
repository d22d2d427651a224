package utils

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Cookie names of the three session carriers. The access and refresh cookies
// are HttpOnly; logged_in is readable by the client for UI purposes only and
// carries no secret.
const (
	AccessCookie   = "access_token"
	RefreshCookie  = "refresh_token"
	LoggedInCookie = "logged_in"
)

func sessionCookie(name, value string, maxAge int, httpOnly bool) *http.Cookie {
	ck := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: httpOnly,
	}
	if maxAge < 0 {
		// Expire in the past so even clients that ignore Max-Age drop it.
		ck.Expires = time.Unix(0, 0).UTC()
	}
	return ck
}

// SetSessionCookies writes all three carriers after a successful login. The
// logged_in flag shares the access credential's max-age.
func SetSessionCookies(c echo.Context, access, refresh string, accessMaxAge, refreshMaxAge int) {
	c.SetCookie(sessionCookie(AccessCookie, access, accessMaxAge, true))
	c.SetCookie(sessionCookie(RefreshCookie, refresh, refreshMaxAge, true))
	c.SetCookie(sessionCookie(LoggedInCookie, "true", accessMaxAge, false))
}

// SetAccessCookies rewrites the access carrier and the logged_in flag after a
// refresh; the refresh carrier is left untouched.
func SetAccessCookies(c echo.Context, access string, accessMaxAge int) {
	c.SetCookie(sessionCookie(AccessCookie, access, accessMaxAge, true))
	c.SetCookie(sessionCookie(LoggedInCookie, "true", accessMaxAge, false))
}

// ClearSessionCookies expires all three carriers. Used on logout and whenever
// the request gate rejects a credential, so clients stop retrying with a
// known-dead value.
func ClearSessionCookies(c echo.Context) {
	c.SetCookie(sessionCookie(AccessCookie, "", -1, true))
	c.SetCookie(sessionCookie(RefreshCookie, "", -1, true))
	c.SetCookie(sessionCookie(LoggedInCookie, "", -1, false))
}
