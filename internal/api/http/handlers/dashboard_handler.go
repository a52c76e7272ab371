package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/analify/dashboard-gateway/internal/api/dto"
	"github.com/analify/dashboard-gateway/internal/auth"
	"github.com/analify/dashboard-gateway/internal/session"
)

// DashboardPath is the dashboard entry point.
const DashboardPath = "/dashboard"

// DashboardHandler serves the role-scoped dashboard pages.
type DashboardHandler struct{}

// NewDashboardHandler constructs handler.
func NewDashboardHandler() *DashboardHandler {
	return &DashboardHandler{}
}

// Root handles GET /. Signed-in users go to the dashboard; everyone else gets the landing page.
func (h *DashboardHandler) Root(c *fiber.Ctx) error {
	st, err := readySession(c)
	if err != nil {
		return err
	}
	if st.IsAuthenticated() {
		return c.Redirect(DashboardPath, fiber.StatusSeeOther)
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"name":  "Analify",
		"login": auth.LoginPath,
	}})
}

// Login handles GET /login. Signed-in users are sent to their home page.
func (h *DashboardHandler) Login(c *fiber.Ctx) error {
	st, err := readySession(c)
	if err != nil {
		return err
	}
	if st.IsAuthenticated() {
		return c.Redirect(auth.HomeRouteFor(st.User.Role), fiber.StatusSeeOther)
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"action": "/auth/login",
		"fields": []string{"email", "password"},
	}})
}

// Index handles GET /dashboard.
func (h *DashboardHandler) Index(c *fiber.Ctx) error {
	return c.Redirect(auth.PathProfile, fiber.StatusSeeOther)
}

// Page handles GET /dashboard/:page behind auth.Guard.
func (h *DashboardHandler) Page(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return c.Redirect(auth.LoginPath, fiber.StatusSeeOther)
	}

	role := principal.User.Role
	nav := auth.NavigationFor(role)
	title := ""
	for _, item := range nav {
		if item.Path == c.Path() {
			title = item.Label
			break
		}
	}

	return c.JSON(fiber.Map{"data": dto.DashboardPageResponse{
		Path:       c.Path(),
		Title:      title,
		User:       principal.User,
		RoleLabel:  auth.DisplayLabelFor(role),
		Navigation: nav,
	}})
}

func readySession(c *fiber.Ctx) (session.State, error) {
	sessions, err := session.FromContext(c.UserContext())
	if err != nil {
		return session.State{}, err
	}
	if err := sessions.WaitReady(c.UserContext()); err != nil {
		return session.State{}, auth.ErrSessionLoading
	}
	return sessions.State(), nil
}
