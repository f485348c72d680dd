// Package source provides the read-only tabular snapshots the service
// classifies: employee exam records ("Dados") and the role to required
// exams mapping ("FuncaoExames").
package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/spec-kit/exam-compliance/internal/domain"
)

// ErrUnavailable marks a data source that could not be reached or returned
// nothing usable.
var ErrUnavailable = errors.New("data source unavailable")

// Source is an explicitly constructed handle to the tabular data.
type Source interface {
	ExamRecords(ctx context.Context) ([]domain.ExamRecord, error)
	RoleRequirements(ctx context.Context) ([]domain.RoleExamRequirement, error)
}

// Invalidator is implemented by sources that keep a cached snapshot.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// Record set names as they appear in the spreadsheet.
const (
	SetExamRecords      = "Dados"
	SetRoleRequirements = "FuncaoExames"
)

func unavailable(set string, err error) error {
	return fmt.Errorf("%w: load %s: %w", ErrUnavailable, set, err)
}
