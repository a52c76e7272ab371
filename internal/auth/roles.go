package auth

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/analify/dashboard-gateway/internal/domain"
)

// Dashboard routes reachable from the navigation.
const (
	PathOrders          = "/dashboard/orders"
	PathProfile         = "/dashboard/profile"
	PathEmployees       = "/dashboard/employees"
	PathLowStock        = "/dashboard/low-stock"
	PathStatistics      = "/dashboard/statistics"
	PathProducts        = "/dashboard/products"
	PathBiddingOverview = "/dashboard/bidding-overview"
	PathBidding         = "/dashboard/bidding"
	PathMyBids          = "/dashboard/my-bids"
)

var roleNavigation = map[domain.Role][]domain.NavItem{
	domain.RoleCashier: {
		{Label: "Manage Orders", Path: PathOrders, Icon: "shopping-cart"},
		{Label: "Personal Data", Path: PathProfile, Icon: "user"},
	},
	domain.RoleStoreAdmin: {
		{Label: "Store Orders", Path: PathOrders, Icon: "shopping-cart"},
		{Label: "Manage Employees", Path: PathEmployees, Icon: "users"},
		{Label: "Low Stock Alerts", Path: PathLowStock, Icon: "alert-triangle"},
		{Label: "Statistics", Path: PathStatistics, Icon: "bar-chart-3"},
		{Label: "Personal Data", Path: PathProfile, Icon: "user"},
	},
	domain.RoleInvestor: {
		{Label: "Bidding Overview", Path: PathBiddingOverview, Icon: "layout-dashboard"},
		{Label: "Browse Sections", Path: PathBidding, Icon: "trending-up"},
		{Label: "My Bids", Path: PathMyBids, Icon: "trophy"},
		{Label: "My Products", Path: PathProducts, Icon: "package"},
		{Label: "Low Stock", Path: PathLowStock, Icon: "alert-triangle"},
		{Label: "Statistics", Path: PathStatistics, Icon: "bar-chart-3"},
		{Label: "Personal Data", Path: PathProfile, Icon: "user"},
	},
	domain.RoleGeneralAdmin: {
		{Label: "Manage Orders", Path: PathOrders, Icon: "shopping-cart"},
		{Label: "Manage Employees", Path: PathEmployees, Icon: "users"},
		{Label: "All Products", Path: PathProducts, Icon: "package"},
		{Label: "Low Stock Alerts", Path: PathLowStock, Icon: "alert-triangle"},
		{Label: "Global Statistics", Path: PathStatistics, Icon: "bar-chart-3"},
		{Label: "Personal Data", Path: PathProfile, Icon: "user"},
	},
}

var roleLabels = map[domain.Role]string{
	domain.RoleCashier:      "Cashier",
	domain.RoleStoreAdmin:   "Store Admin",
	domain.RoleInvestor:     "Investor",
	domain.RoleGeneralAdmin: "General Admin",
}

var roleHomes = map[domain.Role]string{
	domain.RoleCashier:      PathOrders,
	domain.RoleStoreAdmin:   PathEmployees,
	domain.RoleInvestor:     PathProducts,
	domain.RoleGeneralAdmin: PathStatistics,
}

// Canonicalize folds the backend spelling ADMIN_G into ADMIN_GENERAL. Every other tag passes through.
// It runs once, when a token is decoded; everything downstream compares canonical roles only.
func Canonicalize(role domain.Role) domain.Role {
	if role == domain.RoleGeneralAdminShort {
		return domain.RoleGeneralAdmin
	}
	return role
}

// NavigationFor returns the ordered navigation of a canonical role.
// Unknown roles get no navigation at all.
func NavigationFor(role domain.Role) []domain.NavItem {
	items := roleNavigation[role]
	out := make([]domain.NavItem, len(items))
	copy(out, items)
	return out
}

// DisplayLabelFor returns a human readable role name, or the raw tag when unknown.
func DisplayLabelFor(role domain.Role) string {
	if label, ok := roleLabels[role]; ok {
		return label
	}
	return string(role)
}

// HomeRouteFor returns the page a role lands on after signing in.
func HomeRouteFor(role domain.Role) string {
	if home, ok := roleHomes[role]; ok {
		return home
	}
	return PathProfile
}

// CanNavigate reports whether path is one of the role's navigation entries.
func CanNavigate(role domain.Role, path string) bool {
	for _, item := range roleNavigation[role] {
		if item.Path == path {
			return true
		}
	}
	return false
}

// RequireRole ensures the authenticated principal has one of the allowed roles.
func RequireRole(allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[principal.User.Role]; !exists {
			return fiber.NewError(http.StatusForbidden, "insufficient role")
		}
		return c.Next()
	}
}
