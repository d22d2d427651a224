package router // package router defines how HTTP routes are registered for the API

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/zhengdechang/auth-service/internal/handler"
)

// SkipGate reports whether a request bypasses the session gate. Only the
// login operation itself is exempt; refresh and logout still require a live
// access credential like every other protected route.
func SkipGate(c echo.Context) bool {
	return strings.HasSuffix(c.Path(), "/login")
}

// Register wires all routes. The health check sits outside the gate; every
// /api route passes through it, with the login route exempted via SkipGate
// and additionally guarded by the rate limiter.
func Register(e *echo.Echo, a *handler.AuthHandler, u *handler.UserHandler, gate, loginLimiter echo.MiddlewareFunc) {
	e.GET("/healthz", handler.Health)

	api := e.Group("/api", gate)
	user := api.Group("/user")

	user.POST("/login", a.Login, loginLimiter)
	user.POST("/refresh", a.Refresh)
	user.POST("/logout", a.Logout)

	user.GET("/groups", u.Groups)
	user.GET("/user", u.List)
	user.POST("/user", u.Create)
	user.GET("/user/:id", u.Get)
	user.PUT("/user/:id", u.Update)
	user.DELETE("/user/:id", u.Delete)
}
