package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/analify/dashboard-gateway/internal/auth"
	"github.com/analify/dashboard-gateway/internal/session"
	apperrors "github.com/analify/dashboard-gateway/pkg/util"
)

// CredentialExchanger trades credentials for a bearer token.
type CredentialExchanger interface {
	Login(ctx context.Context, email, password string) (string, error)
}

// LoginResult is the session after a successful login plus where to send the user.
type LoginResult struct {
	State session.State
	Home  string
}

// AuthService coordinates the login and logout flows.
type AuthService struct {
	backend  CredentialExchanger
	sessions *session.Manager
	logger   *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(backend CredentialExchanger, sessions *session.Manager, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{backend: backend, sessions: sessions, logger: logger}
}

// Login authenticates against the backend and installs the returned token as the session.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, apperrors.NewValidationError("email and password are required", nil)
	}

	token, err := s.backend.Login(ctx, email, password)
	if err != nil {
		s.logger.Info("login rejected by backend", zap.String("email", email), zap.Error(err))
		return nil, err
	}
	st, err := s.sessions.Login(ctx, token)
	if err != nil {
		return nil, err
	}
	return &LoginResult{State: st, Home: auth.HomeRouteFor(st.User.Role)}, nil
}

// Logout ends the session.
func (s *AuthService) Logout(ctx context.Context) {
	s.sessions.Logout(ctx)
}
