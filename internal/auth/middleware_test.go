package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/analify/dashboard-gateway/internal/domain"
	apperrors "github.com/analify/dashboard-gateway/pkg/util"
)

type fakeView struct {
	loading bool
	user    *domain.User
}

func (f *fakeView) WaitReady(ctx context.Context) error {
	if f.loading {
		return context.DeadlineExceeded
	}
	return nil
}

func (f *fakeView) Principal() (string, *domain.User, bool) {
	if f.user == nil {
		return "", nil, false
	}
	return "tok", f.user, true
}

func newGuardedApp(view SessionView) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: func(c *fiber.Ctx, err error) error {
		var de *apperrors.DomainError
		if errors.As(err, &de) {
			return c.SendStatus(de.HTTPStatus)
		}
		return fiber.DefaultErrorHandler(c, err)
	}})
	app.Get("/dashboard/:page", Guard(view), func(c *fiber.Ctx) error {
		p, ok := PrincipalFromContext(c)
		if !ok {
			return c.SendStatus(http.StatusInternalServerError)
		}
		return c.SendString(string(p.User.Role))
	})
	app.Get("/api/me", RequireAuthenticated(view), RequireRole(domain.RoleGeneralAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusNoContent)
	})
	return app
}

func TestGuard_RedirectsAnonymousToLogin(t *testing.T) {
	app := newGuardedApp(&fakeView{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, PathOrders, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, LoginPath, resp.Header.Get("Location"))
}

func TestGuard_RedirectsForeignPageToHome(t *testing.T) {
	app := newGuardedApp(&fakeView{user: &domain.User{UserID: 1, Role: domain.RoleCashier}})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, PathEmployees, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, PathOrders, resp.Header.Get("Location"))
}

func TestGuard_AllowsOwnPage(t *testing.T) {
	app := newGuardedApp(&fakeView{user: &domain.User{UserID: 1, Role: domain.RoleStoreAdmin}})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, PathEmployees, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGuard_UnknownRoleIsRefused(t *testing.T) {
	app := newGuardedApp(&fakeView{user: &domain.User{UserID: 1, Role: "AUDITOR"}})

	for _, path := range []string{PathStatistics, PathProfile} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode, path)
		assert.Empty(t, resp.Header.Get("Location"))
	}
}

func TestGuard_LoadingIsNotTreatedAsLoggedOut(t *testing.T) {
	app := newGuardedApp(&fakeView{loading: true})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, PathOrders, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestRequireRole(t *testing.T) {
	app := newGuardedApp(&fakeView{user: &domain.User{UserID: 1, Role: domain.RoleInvestor}})
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/me", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	app = newGuardedApp(&fakeView{user: &domain.User{UserID: 1, Role: domain.RoleGeneralAdmin}})
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/me", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}
