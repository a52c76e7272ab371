package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/analify/dashboard-gateway/internal/api/dto"
	"github.com/analify/dashboard-gateway/internal/service"
	apperrors "github.com/analify/dashboard-gateway/pkg/util"
)

// ProfileHandler edits the signed-in user's profile.
type ProfileHandler struct {
	profiles *service.ProfileService
}

// NewProfileHandler constructs handler.
func NewProfileHandler(profiles *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// Update handles PUT /api/profile.
func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	var req dto.ProfileUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Role != nil {
		return apperrors.NewValidationError("role cannot be changed from the profile", map[string]any{"field": "role"})
	}

	st, err := h.profiles.Update(c.UserContext(), req.ProfilePatch)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewSessionResponse(st)})
}
