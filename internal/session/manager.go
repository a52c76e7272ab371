package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/analify/dashboard-gateway/internal/auth"
	"github.com/analify/dashboard-gateway/internal/domain"
	"github.com/analify/dashboard-gateway/internal/events"
	"github.com/analify/dashboard-gateway/internal/storage"
)

// DefaultTokenKey is the storage key of the persisted bearer token.
const DefaultTokenKey = "auth_token"

// ProfileFetcher loads the profile of the token's subject.
type ProfileFetcher interface {
	GetProfile(ctx context.Context, userID int64, token string) (*domain.User, error)
}

// Manager owns the single process-wide session: the bearer token, the profile fetched for it,
// and the one-shot loading flag that stays up until the persisted session has been restored.
//
// Every login and restore records the epoch it started in. Logout, expiry and every committed
// login advance the epoch, so a profile fetch that resolves after one of them is discarded
// instead of resurrecting a stale session.
type Manager struct {
	store      storage.Store
	profiles   ProfileFetcher
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
	tokenKey   string

	mu      sync.RWMutex
	epoch   uint64
	token   string
	payload *domain.TokenPayload
	user    *domain.User

	restoreOnce sync.Once
	readyOnce   sync.Once
	ready       chan struct{}
}

// Option customises a Manager.
type Option func(*Manager)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(m *Manager) { m.logger = logger }
}

// WithDispatcher publishes session events on d instead of a private dispatcher.
func WithDispatcher(d events.Dispatcher) Option {
	return func(m *Manager) { m.dispatcher = d }
}

// WithTokenKey changes the storage key of the token.
func WithTokenKey(key string) Option {
	return func(m *Manager) {
		if key != "" {
			m.tokenKey = key
		}
	}
}

// NewManager builds a manager in the loading state. Call Restore once at startup.
func NewManager(store storage.Store, profiles ProfileFetcher, opts ...Option) *Manager {
	m := &Manager{
		store:    store,
		profiles: profiles,
		logger:   zap.NewNop(),
		now:      time.Now,
		tokenKey: DefaultTokenKey,
		ready:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.dispatcher == nil {
		m.dispatcher = events.NewInMemoryDispatcher()
	}
	return m
}

// Login starts a session from a freshly issued token. The token is decoded and checked for
// expiry, the profile of its subject is fetched, and only then are the token persisted and the
// session swapped in. Any failure leaves both the session and storage untouched. The returned
// state is the one committed by this call, even if a later transition has already replaced it.
func (m *Manager) Login(ctx context.Context, rawToken string) (State, error) {
	payload, err := auth.CheckToken(rawToken, m.now())
	if err != nil {
		return State{}, err
	}

	epoch := m.currentEpoch()

	user, err := m.fetchProfile(ctx, payload, rawToken)
	if err != nil {
		return State{}, err
	}

	m.mu.Lock()
	if m.epoch != epoch {
		m.mu.Unlock()
		m.logger.Info("login discarded; session changed during profile fetch", zap.Int64("user_id", payload.UserID))
		return State{}, ErrSessionSuperseded
	}
	if err := m.store.Set(ctx, m.tokenKey, rawToken); err != nil {
		m.mu.Unlock()
		return State{}, fmt.Errorf("persist token: %w", err)
	}
	m.commitLocked(rawToken, payload, user)
	m.markReady()
	snapshot := m.snapshotLocked()
	m.mu.Unlock()

	m.logger.Info("signed in", zap.Int64("user_id", user.UserID), zap.String("role", string(user.Role)))
	m.publish(ctx, events.EventSessionLoggedIn, "", snapshot)
	return snapshot, nil
}

// Logout drops the session and the persisted token. It never fails and may be called repeatedly.
func (m *Manager) Logout(ctx context.Context) {
	m.clear(ctx, events.EventSessionLoggedOut, "logout", nil)
}

// InvalidateToken drops the session because the backend rejected token. A session that has
// since moved on to another token is left alone. It reports whether the session was cleared.
func (m *Manager) InvalidateToken(ctx context.Context, token, reason string) bool {
	return m.clear(ctx, events.EventSessionCleared, reason, func() bool {
		return token != "" && m.token == token
	})
}

// UpdateUser merges patch into the cached profile. It is a local reflection of a write the
// caller has already made on the server, and does nothing without a session.
func (m *Manager) UpdateUser(patch domain.ProfilePatch) bool {
	m.mu.Lock()
	if m.user == nil {
		m.mu.Unlock()
		return false
	}
	patch.ApplyTo(m.user)
	snapshot := m.snapshotLocked()
	m.mu.Unlock()

	m.publish(context.Background(), events.EventSessionUserUpdated, "", snapshot)
	return true
}

// Restore rebuilds the session from storage. Only the first call does any work. Whatever the
// outcome, the loading flag drops exactly once afterwards. Failures are logged, never returned:
// a token that cannot be restored is deleted and the session stays empty.
func (m *Manager) Restore(ctx context.Context) {
	m.restoreOnce.Do(func() { m.restore(ctx) })
}

func (m *Manager) restore(ctx context.Context) {
	m.mu.RLock()
	epoch, active := m.epoch, m.token != ""
	m.mu.RUnlock()
	if active {
		// A login already committed; its token is the persisted one.
		m.finishSuperseded(ctx)
		return
	}

	raw, ok, err := m.store.Get(ctx, m.tokenKey)
	if err != nil {
		m.logger.Warn("persisted token unreadable", zap.Error(err))
		m.abandonRestore(ctx, epoch, "storage_error")
		return
	}
	if !ok {
		m.abandonRestore(ctx, epoch, "no_token")
		return
	}

	payload, err := auth.CheckToken(raw, m.now())
	if err != nil {
		reason := "invalid_token"
		if errors.Is(err, ErrTokenExpired) {
			reason = "token_expired"
		}
		m.logger.Info("discarding persisted token", zap.String("reason", reason), zap.Error(err))
		m.abandonRestore(ctx, epoch, reason)
		return
	}

	user, err := m.fetchProfile(ctx, payload, raw)
	if err != nil {
		m.logger.Warn("failed to restore session", zap.Error(err))
		m.abandonRestore(ctx, epoch, "profile_fetch_failed")
		return
	}

	m.mu.Lock()
	if m.epoch != epoch {
		m.mu.Unlock()
		m.finishSuperseded(ctx)
		return
	}
	m.commitLocked(raw, payload, user)
	m.markReady()
	snapshot := m.snapshotLocked()
	m.mu.Unlock()

	m.logger.Info("session restored", zap.Int64("user_id", user.UserID), zap.String("role", string(user.Role)))
	m.publish(ctx, events.EventSessionRestored, "", snapshot)
}

// abandonRestore deletes the persisted token unless a newer operation owns storage by now,
// then resolves loading.
func (m *Manager) abandonRestore(ctx context.Context, epoch uint64, reason string) {
	m.mu.Lock()
	if m.epoch != epoch {
		m.mu.Unlock()
		m.finishSuperseded(ctx)
		return
	}
	if reason != "no_token" {
		if err := m.store.Remove(ctx, m.tokenKey); err != nil {
			m.logger.Error("failed to remove persisted token", zap.Error(err))
		}
	}
	m.markReady()
	snapshot := m.snapshotLocked()
	m.mu.Unlock()

	m.publish(ctx, events.EventSessionCleared, reason, snapshot)
}

func (m *Manager) finishSuperseded(ctx context.Context) {
	m.mu.Lock()
	closed := m.markReady()
	snapshot := m.snapshotLocked()
	m.mu.Unlock()

	m.logger.Debug("restore superseded by a newer session operation")
	if closed {
		m.publish(ctx, events.EventSessionCleared, "superseded", snapshot)
	}
}

// CheckExpiry ends the session when its token has expired. It reports whether it did.
func (m *Manager) CheckExpiry(ctx context.Context) bool {
	return m.clear(ctx, events.EventSessionExpired, "token_expired", func() bool {
		return m.payload != nil && m.payload.IsExpired(m.now())
	})
}

// clear ends the session. When match is set it is evaluated under the lock and the session is
// only cleared if it returns true.
func (m *Manager) clear(ctx context.Context, eventType events.EventType, reason string, match func() bool) bool {
	m.mu.Lock()
	if match != nil && !match() {
		m.mu.Unlock()
		return false
	}
	m.epoch++
	had := m.token != "" || m.user != nil
	m.token, m.payload, m.user = "", nil, nil
	if err := m.store.Remove(ctx, m.tokenKey); err != nil {
		m.logger.Error("failed to remove persisted token", zap.Error(err))
	}
	snapshot := m.snapshotLocked()
	m.mu.Unlock()

	if had {
		m.logger.Info("session ended", zap.String("event", string(eventType)), zap.String("reason", reason))
		m.publish(ctx, eventType, reason, snapshot)
	}
	return had
}

// State returns a copy of the current session.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshotLocked()
}

// Principal returns the token and a copy of the profile when authenticated.
func (m *Manager) Principal() (string, *domain.User, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.token == "" || m.user == nil {
		return "", nil, false
	}
	return m.token, m.user.Clone(), true
}

// Ready is closed once the session has been restored or a login has been committed.
func (m *Manager) Ready() <-chan struct{} {
	return m.ready
}

// WaitReady blocks until Ready is closed or ctx is done.
func (m *Manager) WaitReady(ctx context.Context) error {
	select {
	case <-m.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Subscribe calls fn with the new state after every transition until unsubscribe is called.
// fn runs synchronously on the goroutine that caused the transition.
func (m *Manager) Subscribe(fn func(State)) (unsubscribe func()) {
	return m.dispatcher.SubscribeAll(func(_ context.Context, e events.Event) error {
		if st, ok := e.Payload.(State); ok {
			fn(st)
		}
		return nil
	})
}

func (m *Manager) fetchProfile(ctx context.Context, payload *domain.TokenPayload, rawToken string) (*domain.User, error) {
	profile, err := m.profiles.GetProfile(ctx, payload.UserID, rawToken)
	if err != nil {
		return nil, &ProfileFetchError{UserID: payload.UserID, Err: err}
	}
	if profile == nil {
		return nil, &ProfileFetchError{UserID: payload.UserID, Err: errors.New("empty profile")}
	}

	user := profile.Clone()
	// The role always comes from the token. Whatever role the profile endpoint reports is
	// overwritten on purpose.
	user.Role = payload.Role
	return user, nil
}

func (m *Manager) currentEpoch() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.epoch
}

func (m *Manager) commitLocked(raw string, payload *domain.TokenPayload, user *domain.User) {
	m.epoch++
	m.token = raw
	m.payload = payload
	m.user = user
}

// markReady closes the ready channel once and reports whether this call closed it.
func (m *Manager) markReady() bool {
	closed := false
	m.readyOnce.Do(func() {
		close(m.ready)
		closed = true
	})
	return closed
}

func (m *Manager) snapshotLocked() State {
	loading := true
	select {
	case <-m.ready:
		loading = false
	default:
	}
	return State{Token: m.token, User: m.user.Clone(), Loading: loading}
}

func (m *Manager) publish(ctx context.Context, eventType events.EventType, reason string, snapshot State) {
	err := m.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Reason:    reason,
		Timestamp: m.now(),
		Payload:   snapshot,
	})
	if err != nil {
		m.logger.Warn("session event handler failed", zap.String("event", string(eventType)), zap.Error(err))
	}
}
