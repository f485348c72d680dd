package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDispatcherInvokesAllHandlers(t *testing.T) {
	d := NewInMemoryDispatcher()
	var calls []string

	d.Subscribe(EventRoleSelected, func(_ context.Context, e Event) error {
		calls = append(calls, "first:"+e.SessionID)
		return errors.New("first failed")
	})
	d.Subscribe(EventRoleSelected, func(_ context.Context, e Event) error {
		calls = append(calls, "second:"+e.SessionID)
		return nil
	})
	d.Subscribe(EventSnapshotRefreshed, func(context.Context, Event) error {
		calls = append(calls, "refresh")
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventRoleSelected, SessionID: "s1"})
	assert.EqualError(t, err, "first failed")
	assert.Equal(t, []string{"first:s1", "second:s1"}, calls)
}

func TestDispatcherWithoutListeners(t *testing.T) {
	d := NewInMemoryDispatcher()
	assert.NoError(t, d.Publish(context.Background(), Event{Type: EventAuthorizationGenerated}))
}
