package auth

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/analify/dashboard-gateway/internal/domain"
	apperrors "github.com/analify/dashboard-gateway/pkg/util"
)

const principalKey = "auth_principal"

// LoginPath is where unauthenticated visitors are sent.
const LoginPath = "/login"

// ErrSessionLoading is returned while the persisted session is still being restored and the
// request gave up waiting.
var ErrSessionLoading = apperrors.NewDomainError("SESSION_LOADING", "session is still loading", fiber.StatusServiceUnavailable, nil)

// Principal represents the signed-in user as seen by a request.
type Principal struct {
	Token string
	User  *domain.User
}

// SessionView is the read-only slice of the session the guards need.
type SessionView interface {
	WaitReady(ctx context.Context) error
	Principal() (token string, user *domain.User, ok bool)
}

// Guard protects dashboard pages. It waits until the session has been restored, sends anonymous
// visitors to the login page and authenticated users to their home page when the requested page
// is not part of their navigation. A role with no reachable home is refused outright.
func Guard(view SessionView) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, err := resolve(c, view)
		if err != nil {
			return err
		}
		if principal == nil {
			return c.Redirect(LoginPath, fiber.StatusSeeOther)
		}
		if !CanNavigate(principal.User.Role, c.Path()) {
			home := HomeRouteFor(principal.User.Role)
			if !CanNavigate(principal.User.Role, home) {
				return apperrors.NewForbidden("no dashboard pages for this role")
			}
			return c.Redirect(home, fiber.StatusSeeOther)
		}
		c.Locals(principalKey, principal)
		return c.Next()
	}
}

// RequireAuthenticated protects JSON endpoints; it answers 401 instead of redirecting.
func RequireAuthenticated(view SessionView) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, err := resolve(c, view)
		if err != nil {
			return err
		}
		if principal == nil {
			return apperrors.NewUnauthorized("not signed in")
		}
		c.Locals(principalKey, principal)
		return c.Next()
	}
}

func resolve(c *fiber.Ctx, view SessionView) (*Principal, error) {
	if err := view.WaitReady(c.UserContext()); err != nil {
		return nil, ErrSessionLoading
	}
	token, user, ok := view.Principal()
	if !ok {
		return nil, nil
	}
	return &Principal{Token: token, User: user}, nil
}

// PrincipalFromContext retrieves the authenticated user stored by a guard.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
