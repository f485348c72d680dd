package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/exam-compliance/internal/compliance"
	"github.com/spec-kit/exam-compliance/internal/domain"
	"github.com/spec-kit/exam-compliance/internal/observability"
	"github.com/spec-kit/exam-compliance/internal/source"
)

// Clock returns the evaluation date used as "today".
type Clock func() time.Time

// NewClock returns a Clock reading the wall clock in loc.
func NewClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return func() time.Time {
		return compliance.DateOf(time.Now().In(loc))
	}
}

// ClassifiedSnapshot is the classified view of one "Dados" fetch.
type ClassifiedSnapshot struct {
	RawRows int
	Records []domain.ClassifiedRecord
}

// Dropped is the number of rows excluded for having no usable exam date.
func (s *ClassifiedSnapshot) Dropped() int {
	return s.RawRows - len(s.Records)
}

// SnapshotLoader fetches exam records and classifies them for a given day.
type SnapshotLoader struct {
	source  source.Source
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewSnapshotLoader constructs the loader.
func NewSnapshotLoader(src source.Source, metrics *observability.Metrics, logger *zap.Logger) *SnapshotLoader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SnapshotLoader{source: src, metrics: metrics, logger: logger}
}

// Load returns the classified snapshot. An empty record set counts as unavailable.
func (l *SnapshotLoader) Load(ctx context.Context, today time.Time) (*ClassifiedSnapshot, error) {
	raw, err := l.source.ExamRecords(ctx)
	if err != nil {
		l.logger.Warn("exam records unavailable", zap.Error(err))
		return nil, err
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: %s has no rows", source.ErrUnavailable, source.SetExamRecords)
	}

	snap := &ClassifiedSnapshot{
		RawRows: len(raw),
		Records: compliance.Classify(raw, today),
	}
	if dropped := snap.Dropped(); dropped > 0 {
		l.logger.Debug("rows without a valid exam date dropped", zap.Int("dropped", dropped))
	}
	l.metrics.RecordClassification(compliance.CountByStatus(snap.Records), snap.Dropped(), time.Now())
	return snap, nil
}

// RoleRequirements returns the role mapping set.
func (l *SnapshotLoader) RoleRequirements(ctx context.Context) ([]domain.RoleExamRequirement, error) {
	reqs, err := l.source.RoleRequirements(ctx)
	if err != nil {
		l.logger.Warn("role requirements unavailable", zap.Error(err))
		return nil, err
	}
	return reqs, nil
}
