package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/analify/dashboard-gateway/internal/api/dto"
	"github.com/analify/dashboard-gateway/internal/service"
	"github.com/analify/dashboard-gateway/internal/session"
)

// AuthHandler exposes the login flow and the current session.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	res, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": dto.NewSessionResponse(res.State)})
}

// Logout handles POST /auth/logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.auth.Logout(c.UserContext())
	return c.SendStatus(http.StatusNoContent)
}

// Session handles GET /auth/session. It answers immediately, loading or not.
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	sessions, err := session.FromContext(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewSessionResponse(sessions.State())})
}
