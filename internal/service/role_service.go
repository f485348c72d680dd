package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/exam-compliance/internal/compliance"
	"github.com/spec-kit/exam-compliance/internal/domain"
	apperrors "github.com/spec-kit/exam-compliance/pkg/util/errorutil"
)

// RoleService drives the per-role analysis and bulk authorization.
type RoleService struct {
	loader *SnapshotLoader
	logger *zap.Logger
}

// NewRoleService constructs the service.
func NewRoleService(loader *SnapshotLoader, logger *zap.Logger) *RoleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoleService{loader: loader, logger: logger}
}

// RoleDetail is the analysis panel for a single role.
type RoleDetail struct {
	Role             string
	RequiredExams    []string
	Mapped           bool
	PendingEmployees []domain.ClassifiedRecord
}

// Authorization is a generated bulk authorization document.
type Authorization struct {
	Role      string
	Text      string
	Employees int
	Exams     int
}

// RolesWithExpired lists, sorted, the roles having at least one expired employee.
func (s *RoleService) RolesWithExpired(ctx context.Context, today time.Time) ([]string, error) {
	snap, err := s.loader.Load(ctx, today)
	if err != nil {
		return nil, err
	}
	return RolesWithExpired(snap.Records), nil
}

// RoleDetail returns the required exams and pending employees of role.
func (s *RoleService) RoleDetail(ctx context.Context, role string, today time.Time) (*RoleDetail, error) {
	snap, err := s.loader.Load(ctx, today)
	if err != nil {
		return nil, err
	}
	reqs, err := s.loader.RoleRequirements(ctx)
	if err != nil {
		return nil, err
	}
	exams, mapped := RequiredExamsFor(reqs, role)
	return &RoleDetail{
		Role:             role,
		RequiredExams:    exams,
		Mapped:           mapped,
		PendingEmployees: ExpiredForRole(snap.Records, role),
	}, nil
}

// GenerateAuthorization renders the bulk authorization for role.
func (s *RoleService) GenerateAuthorization(ctx context.Context, role string, today time.Time) (*Authorization, error) {
	detail, err := s.RoleDetail(ctx, role, today)
	if err != nil {
		return nil, err
	}
	text, err := compliance.BuildAuthorization(role, detail.PendingEmployees, detail.RequiredExams)
	if errors.Is(err, compliance.ErrNoEmployees) {
		return nil, apperrors.NewUnprocessable("NOTHING_TO_AUTHORIZE",
			"no employees with expired exams for role", map[string]any{"role": role})
	}
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !detail.Mapped {
		s.logger.Info("role has no required exams mapping", zap.String("role", role))
	}
	return &Authorization{
		Role:      role,
		Text:      text,
		Employees: len(detail.PendingEmployees),
		Exams:     len(detail.RequiredExams),
	}, nil
}

// RolesWithExpired returns the sorted distinct roles of expired records.
func RolesWithExpired(records []domain.ClassifiedRecord) []string {
	seen := make(map[string]struct{})
	roles := []string{}
	for _, rec := range records {
		if rec.Status != domain.StatusExpired {
			continue
		}
		if _, ok := seen[rec.Role]; ok {
			continue
		}
		seen[rec.Role] = struct{}{}
		roles = append(roles, rec.Role)
	}
	sort.Strings(roles)
	return roles
}

// ExpiredForRole keeps the expired records of role, one per employee name,
// in source order.
func ExpiredForRole(records []domain.ClassifiedRecord, role string) []domain.ClassifiedRecord {
	seen := make(map[string]struct{})
	out := []domain.ClassifiedRecord{}
	for _, rec := range records {
		if rec.Role != role || rec.Status != domain.StatusExpired {
			continue
		}
		if _, ok := seen[rec.EmployeeName]; ok {
			continue
		}
		seen[rec.EmployeeName] = struct{}{}
		out = append(out, rec)
	}
	return out
}

// RequiredExamsFor returns the exams of the first mapping matching role
// exactly. mapped is false when role has no entry; exams is never nil.
func RequiredExamsFor(reqs []domain.RoleExamRequirement, role string) (exams []string, mapped bool) {
	for _, req := range reqs {
		if req.Role != role {
			continue
		}
		if req.RequiredExams == nil {
			return []string{}, true
		}
		return req.RequiredExams, true
	}
	return []string{}, false
}
