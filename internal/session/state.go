package session

import (
	"context"

	"github.com/analify/dashboard-gateway/internal/domain"
)

// State is a read-only snapshot of the session.
type State struct {
	Token   string
	User    *domain.User
	Loading bool
}

// IsAuthenticated is true only when both the token and the profile are present.
func (s State) IsAuthenticated() bool {
	return s.Token != "" && s.User != nil
}

type managerKey struct{}

// WithManager returns a context carrying m.
func WithManager(ctx context.Context, m *Manager) context.Context {
	return context.WithValue(ctx, managerKey{}, m)
}

// FromContext returns the manager stored by WithManager. Reaching for the session outside
// a request that carries it is a wiring bug and yields ErrUnauthorized.
func FromContext(ctx context.Context) (*Manager, error) {
	m, ok := ctx.Value(managerKey{}).(*Manager)
	if !ok || m == nil {
		return nil, ErrUnauthorized
	}
	return m, nil
}
