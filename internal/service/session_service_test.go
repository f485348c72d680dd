package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/exam-compliance/internal/auth"
	"github.com/spec-kit/exam-compliance/internal/domain"
	"github.com/spec-kit/exam-compliance/internal/events"
	"github.com/spec-kit/exam-compliance/internal/session"
	apperrors "github.com/spec-kit/exam-compliance/pkg/util/errorutil"
)

type sessionFixture struct {
	src       *stubSource
	store     *session.MemoryStore
	svc       *SessionService
	principal *auth.Principal
	published []events.EventType
}

func newSessionFixture(t *testing.T) *sessionFixture {
	t.Helper()
	f := &sessionFixture{
		src:       operatorFixture(),
		store:     session.NewMemoryStore(),
		principal: &auth.Principal{Username: "operador", SessionID: "sess-1"},
	}
	dispatcher := events.NewInMemoryDispatcher()
	for _, et := range []events.EventType{events.EventSnapshotRefreshed, events.EventRoleSelected, events.EventAuthorizationGenerated} {
		dispatcher.Subscribe(et, func(_ context.Context, e events.Event) error {
			f.published = append(f.published, e.Type)
			return nil
		})
	}
	f.svc = NewSessionService(SessionDependencies{
		Store:       f.store,
		Dispatcher:  dispatcher,
		Roles:       newRoleService(f.src),
		Invalidator: f.src,
	}, nil)
	require.NoError(t, f.svc.Start(context.Background(), &domain.Token{SessionID: "sess-1", Username: "operador"}))
	return f
}

func TestSessionGenerateUsesSelectedRole(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	sess, err := f.svc.SelectRole(ctx, f.principal, "Operator", today)
	require.NoError(t, err)
	assert.Equal(t, "Operator", sess.SelectedRole)

	authz, err := f.svc.Generate(ctx, f.principal, "", today)
	require.NoError(t, err)
	assert.Equal(t, "Operator", authz.Role)

	current, err := f.svc.Current(ctx, f.principal)
	require.NoError(t, err)
	assert.Equal(t, authz.Text, current.AuthorizationText)
	assert.Contains(t, f.published, events.EventAuthorizationGenerated)
}

func TestSessionSelectRoleClearsPendingText(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	_, err := f.svc.Generate(ctx, f.principal, "Operator", today)
	require.NoError(t, err)

	sess, err := f.svc.SelectRole(ctx, f.principal, "Soldador", today)
	require.NoError(t, err)
	assert.Equal(t, "Soldador", sess.SelectedRole)
	assert.Empty(t, sess.AuthorizationText)
}

func TestSessionRefreshClearsTextAndInvalidates(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	_, err := f.svc.Generate(ctx, f.principal, "Operator", today)
	require.NoError(t, err)

	require.NoError(t, f.svc.Refresh(ctx, f.principal))
	assert.Equal(t, 1, f.src.invalidated)

	current, err := f.svc.Current(ctx, f.principal)
	require.NoError(t, err)
	assert.False(t, current.HasAuthorization())
	assert.Equal(t, "Operator", current.SelectedRole)
	assert.Contains(t, f.published, events.EventSnapshotRefreshed)
}

func TestSessionRefreshDoesNotTouchOtherSessions(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()
	other := &auth.Principal{Username: "operador", SessionID: "sess-2"}

	_, err := f.svc.Generate(ctx, other, "Operator", today)
	require.NoError(t, err)
	require.NoError(t, f.svc.Refresh(ctx, f.principal))

	current, err := f.svc.Current(ctx, other)
	require.NoError(t, err)
	assert.True(t, current.HasAuthorization())
}

func TestSessionSelectRoleRequiresExpiredEmployees(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	_, err := f.svc.SelectRole(ctx, f.principal, "Eletricista", today)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperrors.ToDomainError(err).HTTPStatus)

	_, err = f.svc.SelectRole(ctx, f.principal, "", today)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperrors.ToDomainError(err).HTTPStatus)
}

func TestSessionGenerateWithoutRole(t *testing.T) {
	f := newSessionFixture(t)
	_, err := f.svc.Generate(context.Background(), f.principal, "", today)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperrors.ToDomainError(err).HTTPStatus)
}

func TestSessionGenerateFailureKeepsPreviousText(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	first, err := f.svc.Generate(ctx, f.principal, "Operator", today)
	require.NoError(t, err)

	_, err = f.svc.Generate(ctx, f.principal, "Eletricista", today)
	require.Error(t, err)

	current, err := f.svc.Current(ctx, f.principal)
	require.NoError(t, err)
	assert.Equal(t, first.Text, current.AuthorizationText)
}

func TestSessionClearAuthorization(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	_, err := f.svc.Generate(ctx, f.principal, "Operator", today)
	require.NoError(t, err)
	require.NoError(t, f.svc.ClearAuthorization(ctx, f.principal))

	current, err := f.svc.Current(ctx, f.principal)
	require.NoError(t, err)
	assert.Empty(t, current.AuthorizationText)
}

func TestSessionCurrentWithoutStoredState(t *testing.T) {
	f := newSessionFixture(t)
	sess, err := f.svc.Current(context.Background(), &auth.Principal{Username: "operador", SessionID: "unknown"})
	require.NoError(t, err)
	assert.Equal(t, "unknown", sess.ID)
	assert.Empty(t, sess.SelectedRole)
}

func TestNewClockTruncatesToDate(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	got := NewClock(loc)()
	assert.Equal(t, 0, got.Hour())
	assert.Equal(t, time.UTC, got.Location())
}
