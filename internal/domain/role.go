package domain

// Role enumerates job functions recognised by the dashboard.
type Role string

const (
	RoleCashier      Role = "CAISSIER"
	RoleStoreAdmin   Role = "ADMIN_STORE"
	RoleInvestor     Role = "INVESTOR"
	RoleGeneralAdmin Role = "ADMIN_GENERAL"

	// RoleGeneralAdminShort is the backend spelling of RoleGeneralAdmin.
	RoleGeneralAdminShort Role = "ADMIN_G"
)

// NavItem is one entry of a role's dashboard navigation.
type NavItem struct {
	Label string `json:"label"`
	Path  string `json:"path"`
	Icon  string `json:"icon"`
}
