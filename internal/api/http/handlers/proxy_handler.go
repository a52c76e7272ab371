package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/proxy"
	"go.uber.org/zap"

	"github.com/analify/dashboard-gateway/internal/auth"
	"github.com/analify/dashboard-gateway/internal/session"
	apperrors "github.com/analify/dashboard-gateway/pkg/util"
)

// ProxyHandler forwards /api/* to the backend with the session's bearer token.
type ProxyHandler struct {
	baseURL  string
	timeout  time.Duration
	sessions *session.Manager
	logger   *zap.Logger
}

// NewProxyHandler forwards to baseURL, the backend API root that /api maps onto.
func NewProxyHandler(baseURL string, timeout time.Duration, sessions *session.Manager, logger *zap.Logger) *ProxyHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProxyHandler{baseURL: strings.TrimRight(baseURL, "/"), timeout: timeout, sessions: sessions, logger: logger}
}

// Forward handles ALL /api/* behind auth.RequireAuthenticated. A 401 from the backend ends the session.
func (h *ProxyHandler) Forward(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not signed in")
	}

	target := h.baseURL + strings.TrimPrefix(c.OriginalURL(), "/api")
	c.Request().Header.Set(fiber.HeaderAuthorization, "Bearer "+principal.Token)
	c.Request().Header.Del(fiber.HeaderCookie)

	if err := proxy.DoTimeout(c, target, h.timeout); err != nil {
		h.logger.Warn("backend proxy failed", zap.String("target", target), zap.Error(err))
		return apperrors.NewUpstreamError(fiber.StatusBadGateway, "backend unavailable")
	}
	c.Response().Header.Del(fiber.HeaderServer)

	if c.Response().StatusCode() == fiber.StatusUnauthorized {
		h.logger.Info("backend rejected session token; signing out", zap.String("path", c.Path()))
		h.sessions.InvalidateToken(c.UserContext(), principal.Token, "backend_unauthorized")
	}
	return nil
}
