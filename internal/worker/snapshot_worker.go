package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/exam-compliance/internal/events"
	"github.com/spec-kit/exam-compliance/internal/service"
)

// StartSnapshotWorker registers the handler that reloads the snapshot after
// an operator refresh, so the next page view hits a warm cache.
func StartSnapshotWorker(dispatcher events.Dispatcher, loader *service.SnapshotLoader, clock service.Clock, logger *zap.Logger) {
	if dispatcher == nil || loader == nil {
		return
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	dispatcher.Subscribe(events.EventSnapshotRefreshed, func(ctx context.Context, evt events.Event) error {
		snap, err := loader.Load(ctx, clock())
		if err != nil {
			// Views already report unavailable data; a failed warm-up is not fatal.
			logger.Warn("snapshot warm-up failed", zap.String("session_id", evt.SessionID), zap.Error(err))
			return nil
		}
		if _, err := loader.RoleRequirements(ctx); err != nil {
			logger.Warn("role mapping warm-up failed", zap.Error(err))
		}
		logger.Info("snapshot reloaded",
			zap.Int("rows", snap.RawRows),
			zap.Int("dropped", snap.Dropped()))
		return nil
	})
}
