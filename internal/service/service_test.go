package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/analify/dashboard-gateway/internal/auth"
	"github.com/analify/dashboard-gateway/internal/auth/authtest"
	"github.com/analify/dashboard-gateway/internal/backend"
	"github.com/analify/dashboard-gateway/internal/config"
	"github.com/analify/dashboard-gateway/internal/domain"
	"github.com/analify/dashboard-gateway/internal/events"
	"github.com/analify/dashboard-gateway/internal/observability"
	"github.com/analify/dashboard-gateway/internal/session"
	"github.com/analify/dashboard-gateway/internal/storage"
	apperrors "github.com/analify/dashboard-gateway/pkg/util"
)

type fakeBackend struct {
	token     string
	loginErr  error
	users     map[int64]*domain.User
	updateErr error
	patches   []domain.ProfilePatch

	beforeUpdate func()
}

func (f *fakeBackend) Login(_ context.Context, email, password string) (string, error) {
	if f.loginErr != nil {
		return "", f.loginErr
	}
	return f.token, nil
}

func (f *fakeBackend) GetProfile(_ context.Context, userID int64, _ string) (*domain.User, error) {
	u, ok := f.users[userID]
	if !ok {
		return nil, &backend.APIError{Status: 404, Message: "Employee not found"}
	}
	return u.Clone(), nil
}

func (f *fakeBackend) UpdateProfile(_ context.Context, userID int64, _ string, patch domain.ProfilePatch) (*domain.User, error) {
	if f.beforeUpdate != nil {
		f.beforeUpdate()
	}
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	f.patches = append(f.patches, patch)
	u := f.users[userID].Clone()
	patch.ApplyTo(u)
	return u, nil
}

func newFixture(t *testing.T, role string) (*fakeBackend, *session.Manager, events.Dispatcher) {
	t.Helper()
	fb := &fakeBackend{
		token: authtest.Token(t, 7, role, time.Now().Add(time.Hour)),
		users: map[int64]*domain.User{
			7: {UserID: 7, UserName: "Amina", Mail: "amina@analify.io", Role: domain.Role(role)},
		},
	}
	dispatcher := events.NewInMemoryDispatcher()
	m := session.NewManager(storage.NewMemoryStore(), fb, session.WithDispatcher(dispatcher))
	return fb, m, dispatcher
}

func TestAuthService_Login(t *testing.T) {
	fb, m, _ := newFixture(t, "ADMIN_STORE")
	svc := NewAuthService(fb, m, nil)

	res, err := svc.Login(context.Background(), " amina@analify.io ", "pw")
	require.NoError(t, err)

	assert.True(t, res.State.IsAuthenticated())
	assert.Equal(t, auth.PathEmployees, res.Home)
}

func mustLogin(t *testing.T, m *session.Manager, ctx context.Context, token string) {
	t.Helper()
	_, err := m.Login(ctx, token)
	require.NoError(t, err)
}

func TestAuthService_LoginSurvivesImmediateSignOut(t *testing.T) {
	ctx := context.Background()
	fb, m, _ := newFixture(t, "CAISSIER")
	m.Subscribe(func(st session.State) {
		if st.IsAuthenticated() {
			m.Logout(ctx)
		}
	})
	svc := NewAuthService(fb, m, nil)

	res, err := svc.Login(ctx, "amina@analify.io", "pw")

	require.NoError(t, err)
	assert.Equal(t, auth.PathOrders, res.Home)
	assert.Equal(t, int64(7), res.State.User.UserID)
	assert.False(t, m.State().IsAuthenticated())
}

func TestAuthService_LoginValidation(t *testing.T) {
	fb, m, _ := newFixture(t, "CAISSIER")
	svc := NewAuthService(fb, m, nil)

	_, err := svc.Login(context.Background(), "  ", "pw")

	var de *apperrors.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "VALIDATION_FAILED", de.Code)
}

func TestAuthService_LoginBackendRejects(t *testing.T) {
	fb, m, _ := newFixture(t, "CAISSIER")
	fb.loginErr = &backend.APIError{Status: 400, Message: "Invalid email or password"}
	svc := NewAuthService(fb, m, nil)

	_, err := svc.Login(context.Background(), "a@b.c", "wrong")

	assert.ErrorContains(t, err, "Invalid email or password")
	assert.False(t, m.State().IsAuthenticated())
}

func TestAuthService_LoginProfileMissing(t *testing.T) {
	fb, m, _ := newFixture(t, "CAISSIER")
	delete(fb.users, 7)
	svc := NewAuthService(fb, m, nil)

	_, err := svc.Login(context.Background(), "a@b.c", "pw")

	assert.ErrorIs(t, err, session.ErrProfileFetch)
}

func TestAuthService_Logout(t *testing.T) {
	fb, m, _ := newFixture(t, "CAISSIER")
	svc := NewAuthService(fb, m, nil)
	_, err := svc.Login(context.Background(), "a@b.c", "pw")
	require.NoError(t, err)

	svc.Logout(context.Background())

	assert.False(t, m.State().IsAuthenticated())
}

func TestProfileService_WriteThenReflect(t *testing.T) {
	ctx := context.Background()
	fb, m, _ := newFixture(t, "CAISSIER")
	mustLogin(t, m, ctx, fb.token)
	svc := NewProfileService(fb, m, nil)

	name := "Amina K."
	st, err := svc.Update(ctx, domain.ProfilePatch{UserName: &name})
	require.NoError(t, err)

	require.Len(t, fb.patches, 1)
	assert.Equal(t, "Amina K.", st.User.UserName)
	assert.Equal(t, "Amina K.", m.State().User.UserName)
}

func TestProfileService_FailedWriteChangesNothing(t *testing.T) {
	ctx := context.Background()
	fb, m, _ := newFixture(t, "CAISSIER")
	mustLogin(t, m, ctx, fb.token)
	fb.updateErr = &backend.APIError{Status: 500, Message: "boom"}
	svc := NewProfileService(fb, m, nil)

	name := "Amina K."
	_, err := svc.Update(ctx, domain.ProfilePatch{UserName: &name})

	assert.Error(t, err)
	assert.Equal(t, "Amina", m.State().User.UserName)
}

func TestProfileService_BackendUnauthorizedEndsSession(t *testing.T) {
	ctx := context.Background()
	fb, m, _ := newFixture(t, "CAISSIER")
	mustLogin(t, m, ctx, fb.token)
	fb.updateErr = backend.ErrUnauthorized
	svc := NewProfileService(fb, m, nil)

	name := "x"
	_, err := svc.Update(ctx, domain.ProfilePatch{UserName: &name})

	assert.ErrorIs(t, err, backend.ErrUnauthorized)
	assert.False(t, m.State().IsAuthenticated())
}

func TestProfileService_StaleTokenRejectionKeepsNewerSession(t *testing.T) {
	ctx := context.Background()
	fb, m, _ := newFixture(t, "CAISSIER")
	fb.users[9] = &domain.User{UserID: 9, UserName: "Kofi", Role: domain.RoleInvestor}
	mustLogin(t, m, ctx, fb.token)
	newer := authtest.Token(t, 9, "INVESTOR", time.Now().Add(time.Hour))
	fb.beforeUpdate = func() { mustLogin(t, m, ctx, newer) }
	fb.updateErr = backend.ErrUnauthorized
	svc := NewProfileService(fb, m, nil)

	name := "x"
	_, err := svc.Update(ctx, domain.ProfilePatch{UserName: &name})

	assert.ErrorIs(t, err, backend.ErrUnauthorized)
	st := m.State()
	require.True(t, st.IsAuthenticated())
	assert.Equal(t, newer, st.Token)
	assert.Equal(t, int64(9), st.User.UserID)
}

func TestProfileService_RequiresSession(t *testing.T) {
	fb, m, _ := newFixture(t, "CAISSIER")
	svc := NewProfileService(fb, m, nil)

	name := "x"
	_, err := svc.Update(context.Background(), domain.ProfilePatch{UserName: &name})

	var de *apperrors.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, 401, de.HTTPStatus)
	assert.Empty(t, fb.patches)
}

func TestProfileService_EmptyPatch(t *testing.T) {
	ctx := context.Background()
	fb, m, _ := newFixture(t, "CAISSIER")
	mustLogin(t, m, ctx, fb.token)
	svc := NewProfileService(fb, m, nil)

	_, err := svc.Update(ctx, domain.ProfilePatch{})

	var de *apperrors.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "VALIDATION_FAILED", de.Code)
}

func TestAuditService_RecordsEvents(t *testing.T) {
	ctx := context.Background()
	fb, m, dispatcher := newFixture(t, "INVESTOR")
	core, logs := observer.New(zap.DebugLevel)
	metrics := observability.NewMetrics()
	audit := NewAuditService(dispatcher, metrics, zap.New(core), config.AuditConfig{WebhookURL: "https://hooks.analify.io/session"})
	unsubscribe := audit.RegisterHandlers()

	mustLogin(t, m, ctx, fb.token)
	m.Logout(ctx)
	unsubscribe()
	mustLogin(t, m, ctx, fb.token)

	snap := metrics.Snapshot()
	assert.Equal(t, int64(1), snap.SessionEvents[string(events.EventSessionLoggedIn)])
	assert.Equal(t, int64(1), snap.SessionEvents[string(events.EventSessionLoggedOut)])

	entries := logs.FilterMessage("session event").All()
	require.Len(t, entries, 2)
	assert.Equal(t, int64(7), entries[0].ContextMap()["user_id"])
	assert.Len(t, logs.FilterMessage("sendWebhookStub").All(), 2)
}

func TestAuditService_NilDispatcher(t *testing.T) {
	audit := NewAuditService(nil, nil, zap.NewNop(), config.AuditConfig{})
	assert.NotPanics(t, func() { audit.RegisterHandlers()() })
	assert.NoError(t, audit.handle(context.Background(), events.Event{Type: events.EventSessionCleared}))
}
