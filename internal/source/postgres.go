package source

import (
	"context"
	"errors"

	"github.com/spec-kit/exam-compliance/internal/domain"
	"github.com/spec-kit/exam-compliance/internal/repository"
)

// PostgresSource reads the snapshot tables loaded by cmd/import.
type PostgresSource struct {
	records repository.ExamRecordRepository
	roles   repository.RoleRequirementRepository
}

// NewPostgresSource builds a source over the snapshot repositories.
func NewPostgresSource(records repository.ExamRecordRepository, roles repository.RoleRequirementRepository) *PostgresSource {
	return &PostgresSource{records: records, roles: roles}
}

// ExamRecords lists the exam_records table in source order.
func (s *PostgresSource) ExamRecords(ctx context.Context) ([]domain.ExamRecord, error) {
	if s.records == nil {
		return nil, unavailable(SetExamRecords, errors.New("postgres not configured"))
	}
	records, err := s.records.ListAll(ctx)
	if err != nil {
		return nil, unavailable(SetExamRecords, err)
	}
	return records, nil
}

// RoleRequirements lists the role_exam_requirements table in source order.
func (s *PostgresSource) RoleRequirements(ctx context.Context) ([]domain.RoleExamRequirement, error) {
	if s.roles == nil {
		return nil, unavailable(SetRoleRequirements, errors.New("postgres not configured"))
	}
	reqs, err := s.roles.ListAll(ctx)
	if err != nil {
		return nil, unavailable(SetRoleRequirements, err)
	}
	return reqs, nil
}
