package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/zhengdechang/auth-service/internal/auth"
	"github.com/zhengdechang/auth-service/internal/queue"
	"github.com/zhengdechang/auth-service/internal/utils"
)

const dbTimeout = 5 * time.Second

// AuthHandler binds the session service to the login/refresh/logout routes
// and manages the cookie carriers. Audit may be nil when no broker is
// configured.
type AuthHandler struct {
	Svc   *auth.Service
	Audit *queue.Publisher
}

func NewAuthHandler(svc *auth.Service, audit *queue.Publisher) *AuthHandler {
	return &AuthHandler{Svc: svc, Audit: audit}
}

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login authenticates by username/password and sets the access, refresh and
// logged_in cookies. Failures keep the original wire behavior: a 500 envelope
// carrying the error message.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return utils.JSON(c, http.StatusBadRequest, nil, "invalid body")
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return utils.JSON(c, http.StatusBadRequest, nil, "username/password required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	sess, err := h.Svc.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		log.Error().Err(err).Str("username", req.Username).Msg("login failed")
		return utils.JSON(c, http.StatusInternalServerError, nil, err.Error())
	}

	utils.SetSessionCookies(c, sess.AccessToken, sess.RefreshToken,
		int(h.Svc.AccessTTL().Seconds()), int(h.Svc.RefreshTTL().Seconds()))
	h.audit(ctx, queue.ActionLogin, sess.UserInfo.Username)
	log.Info().Str("username", req.Username).Msg("login success")
	return utils.JSON(c, http.StatusOK, sess, "login success")
}

// Refresh exchanges the refresh_token cookie for a new access credential and
// rewrites the access and logged_in cookies. The refresh cookie is untouched;
// the credential stays valid until its own expiry.
func (h *AuthHandler) Refresh(c echo.Context) error {
	cookie, err := c.Cookie(utils.RefreshCookie)
	if err != nil || cookie.Value == "" {
		return utils.JSON(c, http.StatusUnauthorized, nil, "refresh error: missing refresh token")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	sess, err := h.Svc.Refresh(ctx, cookie.Value)
	if err != nil {
		log.Error().Err(err).Msg("refresh failed")
		return utils.JSON(c, http.StatusUnauthorized, nil, fmt.Sprintf("refresh error: %v", err))
	}

	utils.SetAccessCookies(c, sess.AccessToken, int(h.Svc.AccessTTL().Seconds()))
	h.audit(ctx, queue.ActionRefresh, sess.UserInfo.Username)
	return utils.JSON(c, http.StatusOK, sess, "refresh token success")
}

// Logout revokes the session named by the refresh_token cookie and clears all
// three carriers. It works even when the refresh credential has expired.
func (h *AuthHandler) Logout(c echo.Context) error {
	cookie, err := c.Cookie(utils.RefreshCookie)
	if err != nil || cookie.Value == "" {
		return utils.JSON(c, http.StatusBadRequest, nil, "refresh token required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	subject, err := h.Svc.Logout(ctx, cookie.Value)
	if err != nil {
		log.Error().Err(err).Msg("logout failed")
		return utils.JSON(c, http.StatusInternalServerError, nil, fmt.Sprintf("logout error: %v", err))
	}

	utils.ClearSessionCookies(c)
	h.audit(ctx, queue.ActionLogout, subject)
	log.Info().Str("username", subject).Msg("logout success")
	return utils.JSON(c, http.StatusOK, nil, fmt.Sprintf("logout success, username:%s", subject))
}

// audit publishes a lifecycle event; failures are logged inside the publisher
// and never affect the request.
func (h *AuthHandler) audit(ctx context.Context, action, username string) {
	if h.Audit == nil {
		return
	}
	_ = h.Audit.Publish(ctx, queue.AuditEvent{
		Action:   action,
		Username: username,
		At:       time.Now().UTC(),
	})
}
