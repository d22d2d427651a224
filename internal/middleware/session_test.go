package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/zhengdechang/auth-service/internal/auth"
	"github.com/zhengdechang/auth-service/internal/middleware"
	"github.com/zhengdechang/auth-service/internal/token"
	"github.com/zhengdechang/auth-service/internal/utils"
)

// stubValidator accepts exactly one credential value.
type stubValidator struct {
	accept string
	claims token.Claims
}

func (s stubValidator) Validate(_ context.Context, access string) auth.Validation {
	if access == s.accept {
		return auth.Validation{Valid: true, Claims: s.claims}
	}
	return auth.Validation{}
}

func gateRequest(t *testing.T, gate echo.MiddlewareFunc, cookie *http.Cookie, path string) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath(path)

	var captured echo.Context
	next := func(c echo.Context) error {
		captured = c
		return c.NoContent(http.StatusOK)
	}
	require.NoError(t, gate(next)(c))
	return rec, captured
}

func clearedCookies(rec *httptest.ResponseRecorder) map[string]bool {
	out := map[string]bool{}
	for _, ck := range rec.Result().Cookies() {
		if ck.MaxAge < 0 && ck.Value == "" {
			out[ck.Name] = true
		}
	}
	return out
}

func TestGateAllowsValidCredential(t *testing.T) {
	gate := middleware.SessionGate(stubValidator{accept: "good", claims: token.Claims{Subject: "alice"}}, nil)

	rec, next := gateRequest(t, gate, &http.Cookie{Name: utils.AccessCookie, Value: "good"}, "/api/user/user")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, next)
	require.Equal(t, "alice", next.Get(middleware.CtxSubject))
}

func TestGateRejectsMissingCookie(t *testing.T) {
	gate := middleware.SessionGate(stubValidator{accept: "good"}, nil)

	rec, next := gateRequest(t, gate, nil, "/api/user/user")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Nil(t, next)

	cleared := clearedCookies(rec)
	require.True(t, cleared[utils.AccessCookie])
	require.True(t, cleared[utils.RefreshCookie])
	require.True(t, cleared[utils.LoggedInCookie])
}

func TestGateRejectsInvalidCredential(t *testing.T) {
	gate := middleware.SessionGate(stubValidator{accept: "good"}, nil)

	rec, next := gateRequest(t, gate, &http.Cookie{Name: utils.AccessCookie, Value: "stale"}, "/api/user/user")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Nil(t, next)
	require.Len(t, clearedCookies(rec), 3)
}

func TestGateSkipsExemptRoutes(t *testing.T) {
	skip := func(c echo.Context) bool { return c.Path() == "/api/user/login" }
	gate := middleware.SessionGate(stubValidator{accept: "good"}, skip)

	rec, next := gateRequest(t, gate, nil, "/api/user/login")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, next)
}
