package service

import (
	"context"
	"sort"
	"time"

	"github.com/spec-kit/exam-compliance/internal/compliance"
	"github.com/spec-kit/exam-compliance/internal/domain"
	apperrors "github.com/spec-kit/exam-compliance/pkg/util/errorutil"
)

// DashboardService answers the overview queries: counts, filtered table and alert lists.
type DashboardService struct {
	loader *SnapshotLoader
}

// NewDashboardService constructs the service.
func NewDashboardService(loader *SnapshotLoader) *DashboardService {
	return &DashboardService{loader: loader}
}

// Summary aggregates status counts for the whole workforce.
type Summary struct {
	Counts     map[domain.Status]int
	RawRows    int
	Classified int
	Dropped    int
}

// RecordFilter narrows the detailed table. Empty fields match everything.
type RecordFilter struct {
	Company  string
	ExamType string
	Status   domain.Status
}

// FilterOptions lists the distinct values an operator can filter on.
type FilterOptions struct {
	Companies []string
	ExamTypes []string
	Statuses  []domain.Status
}

// RecordsView is the filtered table plus the options computed over the full snapshot.
type RecordsView struct {
	Records []domain.ClassifiedRecord
	Options FilterOptions
}

// AlertEntry names one employee needing attention.
type AlertEntry struct {
	EmployeeName string
	Role         string
}

// Alerts groups employees by urgency.
type Alerts struct {
	Expired      []AlertEntry
	ExpiringSoon []AlertEntry
}

// Summary counts classified records per status.
func (s *DashboardService) Summary(ctx context.Context, today time.Time) (*Summary, error) {
	snap, err := s.loader.Load(ctx, today)
	if err != nil {
		return nil, err
	}
	return &Summary{
		Counts:     compliance.CountByStatus(snap.Records),
		RawRows:    snap.RawRows,
		Classified: len(snap.Records),
		Dropped:    snap.Dropped(),
	}, nil
}

// Records returns classified rows matching filter.
func (s *DashboardService) Records(ctx context.Context, filter RecordFilter, today time.Time) (*RecordsView, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": filter.Status})
	}
	snap, err := s.loader.Load(ctx, today)
	if err != nil {
		return nil, err
	}

	view := &RecordsView{
		Records: FilterRecords(snap.Records, filter),
		Options: FilterOptions{
			Companies: distinct(snap.Records, func(r domain.ClassifiedRecord) string { return r.Company }),
			ExamTypes: distinct(snap.Records, func(r domain.ClassifiedRecord) string { return r.ExamType }),
			Statuses:  append([]domain.Status(nil), domain.Statuses...),
		},
	}
	return view, nil
}

// Alerts lists expired and soon-to-expire records in source order.
func (s *DashboardService) Alerts(ctx context.Context, today time.Time) (*Alerts, error) {
	snap, err := s.loader.Load(ctx, today)
	if err != nil {
		return nil, err
	}
	alerts := &Alerts{Expired: []AlertEntry{}, ExpiringSoon: []AlertEntry{}}
	for _, rec := range snap.Records {
		entry := AlertEntry{EmployeeName: rec.EmployeeName, Role: rec.Role}
		switch rec.Status {
		case domain.StatusExpired:
			alerts.Expired = append(alerts.Expired, entry)
		case domain.StatusExpiringSoon:
			alerts.ExpiringSoon = append(alerts.ExpiringSoon, entry)
		}
	}
	return alerts, nil
}

// FilterRecords applies filter, keeping input order.
func FilterRecords(records []domain.ClassifiedRecord, filter RecordFilter) []domain.ClassifiedRecord {
	out := make([]domain.ClassifiedRecord, 0, len(records))
	for _, rec := range records {
		if filter.Company != "" && rec.Company != filter.Company {
			continue
		}
		if filter.ExamType != "" && rec.ExamType != filter.ExamType {
			continue
		}
		if filter.Status != "" && rec.Status != filter.Status {
			continue
		}
		out = append(out, rec)
	}
	return out
}

func distinct(records []domain.ClassifiedRecord, field func(domain.ClassifiedRecord) string) []string {
	seen := make(map[string]struct{})
	values := []string{}
	for _, rec := range records {
		v := field(rec)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}
