package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/exam-compliance/internal/auth"
	"github.com/spec-kit/exam-compliance/internal/config"
	"github.com/spec-kit/exam-compliance/internal/domain"
	apperrors "github.com/spec-kit/exam-compliance/pkg/util/errorutil"
)

// AuthService coordinates operator login.
type AuthService struct {
	operator domain.Operator
	tokenMgr *auth.TokenManager
	sessions *SessionService
	logger   *zap.Logger
}

// NewAuthService builds the service. A plain operator password is hashed
// once at startup; a configured hash takes precedence.
func NewAuthService(cfg config.AuthConfig, sessions *SessionService, logger *zap.Logger) (*AuthService, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	hash := cfg.OperatorPasswordHash
	if hash == "" && cfg.OperatorPassword != "" {
		hashed, err := auth.HashPassword(cfg.OperatorPassword, cfg.BcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash operator password: %w", err)
		}
		hash = hashed
	}
	if hash == "" {
		logger.Warn("no operator password configured; logins will be rejected")
	}
	return &AuthService{
		operator: domain.Operator{Username: cfg.OperatorUsername, PasswordHash: hash},
		tokenMgr: auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL()),
		sessions: sessions,
		logger:   logger,
	}, nil
}

// TokenManager exposes the JWT manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// Logout ends the operator's session. The token itself stays valid until it
// expires; later requests start from an empty session.
func (s *AuthService) Logout(ctx context.Context, p *auth.Principal) error {
	if s.sessions != nil {
		if err := s.sessions.End(ctx, p); err != nil {
			return err
		}
	}
	s.logger.Info("operator logged out", zap.String("username", p.Username), zap.String("session_id", p.SessionID))
	return nil
}

// Login verifies operator credentials and opens a new session.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.Token, error) {
	if err := auth.VerifyOperator(s.operator, username, password); err != nil {
		s.logger.Debug("login rejected", zap.String("username", username))
		return nil, apperrors.NewUnauthorized(err.Error())
	}

	token, err := s.tokenMgr.GenerateToken(username)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if s.sessions != nil {
		if err := s.sessions.Start(ctx, token); err != nil {
			return nil, apperrors.MapError(err)
		}
	}
	s.logger.Info("operator logged in", zap.String("username", username), zap.String("session_id", token.SessionID))
	return token, nil
}
