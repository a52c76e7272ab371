package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/analify/dashboard-gateway/internal/domain"
)

var knownRoles = []domain.Role{
	domain.RoleCashier,
	domain.RoleStoreAdmin,
	domain.RoleInvestor,
	domain.RoleGeneralAdmin,
}

func TestCanonicalize(t *testing.T) {
	assert.Equal(t, Canonicalize(domain.RoleGeneralAdminShort), Canonicalize(domain.RoleGeneralAdmin))
	assert.Equal(t, domain.RoleGeneralAdmin, Canonicalize(domain.RoleGeneralAdminShort))

	for _, role := range append(knownRoles, "SOMETHING_ELSE", "") {
		assert.Equal(t, role, Canonicalize(role))
	}
}

func TestNavigationFor_KnownRoles(t *testing.T) {
	for _, role := range knownRoles {
		items := NavigationFor(role)
		assert.NotEmpty(t, items, role)
		assert.Equal(t, PathProfile, items[len(items)-1].Path, "profile is last for %s", role)
	}

	cashier := NavigationFor(domain.RoleCashier)
	assert.Equal(t, []domain.NavItem{
		{Label: "Manage Orders", Path: PathOrders, Icon: "shopping-cart"},
		{Label: "Personal Data", Path: PathProfile, Icon: "user"},
	}, cashier)

	investor := NavigationFor(domain.RoleInvestor)
	assert.Len(t, investor, 7)
	assert.Equal(t, "Bidding Overview", investor[0].Label)
}

func TestNavigationFor_UnknownRoleIsEmpty(t *testing.T) {
	assert.Empty(t, NavigationFor("HACKER"))
	assert.NotNil(t, NavigationFor("HACKER"))
	// Only canonical roles are in the table.
	assert.Empty(t, NavigationFor(domain.RoleGeneralAdminShort))
}

func TestNavigationFor_ReturnsCopy(t *testing.T) {
	items := NavigationFor(domain.RoleCashier)
	items[0].Path = "/elsewhere"

	assert.Equal(t, PathOrders, NavigationFor(domain.RoleCashier)[0].Path)
}

func TestDisplayLabelFor(t *testing.T) {
	assert.Equal(t, "Cashier", DisplayLabelFor(domain.RoleCashier))
	assert.Equal(t, "Store Admin", DisplayLabelFor(domain.RoleStoreAdmin))
	assert.Equal(t, "Investor", DisplayLabelFor(domain.RoleInvestor))
	assert.Equal(t, "General Admin", DisplayLabelFor(domain.RoleGeneralAdmin))
	assert.Equal(t, "AUDITOR", DisplayLabelFor("AUDITOR"))
}

func TestHomeRouteFor(t *testing.T) {
	assert.Equal(t, PathOrders, HomeRouteFor(domain.RoleCashier))
	assert.Equal(t, PathEmployees, HomeRouteFor(domain.RoleStoreAdmin))
	assert.Equal(t, PathProducts, HomeRouteFor(domain.RoleInvestor))
	assert.Equal(t, PathStatistics, HomeRouteFor(domain.RoleGeneralAdmin))
	assert.Equal(t, PathProfile, HomeRouteFor("AUDITOR"))

	for _, role := range knownRoles {
		assert.True(t, CanNavigate(role, HomeRouteFor(role)), role)
	}
}

func TestCanNavigate(t *testing.T) {
	assert.True(t, CanNavigate(domain.RoleStoreAdmin, PathEmployees))
	assert.False(t, CanNavigate(domain.RoleCashier, PathEmployees))
	assert.False(t, CanNavigate(domain.RoleInvestor, PathOrders))
	assert.False(t, CanNavigate("AUDITOR", PathProfile))
}
