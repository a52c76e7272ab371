package dto

import (
	"github.com/analify/dashboard-gateway/internal/auth"
	"github.com/analify/dashboard-gateway/internal/domain"
	"github.com/analify/dashboard-gateway/internal/session"
)

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionResponse describes the session to the dashboard.
type SessionResponse struct {
	IsAuthenticated bool             `json:"isAuthenticated"`
	IsLoading       bool             `json:"isLoading"`
	User            *domain.User     `json:"user"`
	RoleLabel       string           `json:"roleLabel,omitempty"`
	Home            string           `json:"home,omitempty"`
	Navigation      []domain.NavItem `json:"navigation"`
}

// NewSessionResponse projects a session snapshot. The token never leaves the gateway.
func NewSessionResponse(st session.State) SessionResponse {
	resp := SessionResponse{
		IsAuthenticated: st.IsAuthenticated(),
		IsLoading:       st.Loading,
		Navigation:      []domain.NavItem{},
	}
	if st.User != nil {
		resp.User = st.User
		resp.RoleLabel = auth.DisplayLabelFor(st.User.Role)
		resp.Home = auth.HomeRouteFor(st.User.Role)
		resp.Navigation = auth.NavigationFor(st.User.Role)
	}
	return resp
}

// ProfileUpdateRequest is the body of PUT /api/profile. Role is accepted only to be refused.
type ProfileUpdateRequest struct {
	domain.ProfilePatch
	Role *string `json:"role,omitempty"`
}

// DashboardPageResponse is the view-model of one dashboard page.
type DashboardPageResponse struct {
	Path       string           `json:"path"`
	Title      string           `json:"title"`
	User       *domain.User     `json:"user"`
	RoleLabel  string           `json:"roleLabel"`
	Navigation []domain.NavItem `json:"navigation"`
}
