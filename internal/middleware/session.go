package middleware

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/zhengdechang/auth-service/internal/auth"
	"github.com/zhengdechang/auth-service/internal/utils"
)

// Context keys set by SessionGate for downstream handlers.
const (
	CtxSubject = "subject"
	CtxClaims  = "claims"
)

// Validator is the part of the session service the gate depends on.
type Validator interface {
	Validate(ctx context.Context, access string) auth.Validation
}

// SessionGate returns an Echo middleware that validates the access credential
// carried in the access_token cookie before any protected handler runs.
// Requests matched by skip bypass validation (the login route). A missing or
// invalid credential short-circuits with 401 and clears all session cookies;
// the response never reveals which check failed. On success the decoded
// claims are attached to the request context.
func SessionGate(svc Validator, skip func(c echo.Context) bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if skip != nil && skip(c) {
				return next(c)
			}
			cookie, err := c.Cookie(utils.AccessCookie)
			if err != nil || cookie.Value == "" {
				return reject(c)
			}
			v := svc.Validate(c.Request().Context(), cookie.Value)
			if !v.Valid {
				return reject(c)
			}
			c.Set(CtxSubject, v.Claims.Subject)
			c.Set(CtxClaims, v.Claims)
			return next(c)
		}
	}
}

func reject(c echo.Context) error {
	utils.ClearSessionCookies(c)
	return utils.JSON(c, http.StatusUnauthorized, nil, "login has expired.")
}
