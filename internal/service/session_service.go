package service

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/exam-compliance/internal/auth"
	"github.com/spec-kit/exam-compliance/internal/domain"
	"github.com/spec-kit/exam-compliance/internal/events"
	"github.com/spec-kit/exam-compliance/internal/session"
	"github.com/spec-kit/exam-compliance/internal/source"
	apperrors "github.com/spec-kit/exam-compliance/pkg/util/errorutil"
)

// SessionService owns the operator's interaction state: the selected role
// and the last generated authorization text.
type SessionService struct {
	store       session.Store
	dispatcher  events.Dispatcher
	roles       *RoleService
	invalidator source.Invalidator
	logger      *zap.Logger
	now         func() time.Time
}

// SessionDependencies bundles collaborators of SessionService.
type SessionDependencies struct {
	Store       session.Store
	Dispatcher  events.Dispatcher
	Roles       *RoleService
	Invalidator source.Invalidator
}

// NewSessionService constructs the service and subscribes its event handlers.
func NewSessionService(deps SessionDependencies, logger *zap.Logger) *SessionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &SessionService{
		store:       deps.Store,
		dispatcher:  deps.Dispatcher,
		roles:       deps.Roles,
		invalidator: deps.Invalidator,
		logger:      logger,
		now:         time.Now,
	}
	s.registerHandlers()
	return s
}

func (s *SessionService) registerHandlers() {
	if s.dispatcher == nil {
		return
	}
	s.dispatcher.Subscribe(events.EventSnapshotRefreshed, s.clearPendingText)
	s.dispatcher.Subscribe(events.EventRoleSelected, s.clearPendingText)
}

// Start records a fresh session for a newly issued token.
func (s *SessionService) Start(ctx context.Context, token *domain.Token) error {
	return s.store.Save(ctx, &domain.Session{
		ID:        token.SessionID,
		Username:  token.Username,
		UpdatedAt: s.now(),
	})
}

// Current returns the stored session, creating an empty one if none exists.
func (s *SessionService) Current(ctx context.Context, p *auth.Principal) (*domain.Session, error) {
	sess, err := s.store.Get(ctx, p.SessionID)
	if errors.Is(err, session.ErrNotFound) {
		return &domain.Session{ID: p.SessionID, Username: p.Username}, nil
	}
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return sess, nil
}

// SelectRole stores role as the selection. Only roles currently having an
// expired employee can be selected. Any pending text is discarded.
func (s *SessionService) SelectRole(ctx context.Context, p *auth.Principal, role string, today time.Time) (*domain.Session, error) {
	if role == "" {
		return nil, apperrors.NewValidationError("role required", nil)
	}
	available, err := s.roles.RolesWithExpired(ctx, today)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(available, role) {
		return nil, apperrors.NewNotFound("role with expired exams", map[string]any{"role": role})
	}

	sess, err := s.Current(ctx, p)
	if err != nil {
		return nil, err
	}
	sess.SelectedRole = role
	if err := s.save(ctx, sess); err != nil {
		return nil, err
	}
	s.publish(ctx, p, events.EventRoleSelected, events.RoleSelectedPayload{Role: role})
	return s.Current(ctx, p)
}

// Generate builds the authorization for role, or for the selected role when
// role is empty, and keeps it as the session's pending text.
func (s *SessionService) Generate(ctx context.Context, p *auth.Principal, role string, today time.Time) (*Authorization, error) {
	sess, err := s.Current(ctx, p)
	if err != nil {
		return nil, err
	}
	if role == "" {
		role = sess.SelectedRole
	}
	if role == "" {
		return nil, apperrors.NewValidationError("select a role first", nil)
	}

	authz, err := s.roles.GenerateAuthorization(ctx, role, today)
	if err != nil {
		return nil, err
	}

	sess.SelectedRole = role
	sess.AuthorizationText = authz.Text
	if err := s.save(ctx, sess); err != nil {
		return nil, err
	}
	s.publish(ctx, p, events.EventAuthorizationGenerated, events.AuthorizationGeneratedPayload{
		Role:      role,
		Employees: authz.Employees,
		Exams:     authz.Exams,
	})
	return authz, nil
}

// ClearAuthorization discards the pending text.
func (s *SessionService) ClearAuthorization(ctx context.Context, p *auth.Principal) error {
	sess, err := s.Current(ctx, p)
	if err != nil {
		return err
	}
	sess.ClearAuthorization()
	return s.save(ctx, sess)
}

// Refresh invalidates the cached snapshot and discards the pending text.
func (s *SessionService) Refresh(ctx context.Context, p *auth.Principal) error {
	if s.invalidator != nil {
		if err := s.invalidator.Invalidate(ctx); err != nil {
			s.logger.Warn("snapshot invalidation failed", zap.Error(err))
		}
	}
	s.publish(ctx, p, events.EventSnapshotRefreshed, nil)
	return nil
}

// End discards all state of the principal's session.
func (s *SessionService) End(ctx context.Context, p *auth.Principal) error {
	if err := s.store.Delete(ctx, p.SessionID); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

func (s *SessionService) clearPendingText(ctx context.Context, event events.Event) error {
	sess, err := s.store.Get(ctx, event.SessionID)
	if errors.Is(err, session.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if !sess.HasAuthorization() {
		return nil
	}
	sess.ClearAuthorization()
	return s.save(ctx, sess)
}

func (s *SessionService) save(ctx context.Context, sess *domain.Session) error {
	sess.UpdatedAt = s.now()
	if err := s.store.Save(ctx, sess); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

func (s *SessionService) publish(ctx context.Context, p *auth.Principal, eventType events.EventType, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	event := events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		SessionID: p.SessionID,
		Username:  p.Username,
		Timestamp: s.now(),
		Payload:   payload,
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed", zap.String("event", string(eventType)), zap.Error(err))
	}
}
