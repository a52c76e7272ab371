package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/analify/dashboard-gateway/internal/backend"
	"github.com/analify/dashboard-gateway/internal/domain"
	"github.com/analify/dashboard-gateway/internal/session"
	apperrors "github.com/analify/dashboard-gateway/pkg/util"
)

// ProfileWriter persists profile edits on the server.
type ProfileWriter interface {
	UpdateProfile(ctx context.Context, userID int64, token string, patch domain.ProfilePatch) (*domain.User, error)
}

// ProfileService edits the signed-in user's own profile.
type ProfileService struct {
	backend  ProfileWriter
	sessions *session.Manager
	logger   *zap.Logger
}

// NewProfileService builds the service.
func NewProfileService(backend ProfileWriter, sessions *session.Manager, logger *zap.Logger) *ProfileService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileService{backend: backend, sessions: sessions, logger: logger}
}

// Update writes patch on the server and, once that succeeded, mirrors it into the session.
func (s *ProfileService) Update(ctx context.Context, patch domain.ProfilePatch) (session.State, error) {
	token, user, ok := s.sessions.Principal()
	if !ok {
		return session.State{}, apperrors.NewUnauthorized("not signed in")
	}
	if patch.Empty() {
		return session.State{}, apperrors.NewValidationError("nothing to update", nil)
	}

	if _, err := s.backend.UpdateProfile(ctx, user.UserID, token, patch); err != nil {
		if errors.Is(err, backend.ErrUnauthorized) {
			s.sessions.InvalidateToken(ctx, token, "backend_unauthorized")
		}
		return session.State{}, err
	}

	// Another login may have replaced the session during the write.
	if _, current, ok := s.sessions.Principal(); ok && current.UserID == user.UserID {
		s.sessions.UpdateUser(patch)
	} else {
		s.logger.Info("profile saved but session changed; not reflecting locally", zap.Int64("user_id", user.UserID))
	}
	return s.sessions.State(), nil
}
