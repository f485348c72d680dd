// Package compliance holds the exam expiry classification and the bulk
// authorization text generation. It performs no I/O.
package compliance

import (
	"strings"
	"time"

	"github.com/spec-kit/exam-compliance/internal/domain"
)

const (
	// ExamDateLayout accepts one or two digit day and month.
	ExamDateLayout = "2/1/2006"
	// DisplayDateLayout is used when rendering dates back to operators.
	DisplayDateLayout = "02/01/2006"

	validityDays = 365
	warningDays  = 30
)

// DateOf truncates t to its calendar date, expressed at UTC midnight.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseExamDate parses a DD/MM/YYYY value. ok is false for empty or malformed input.
func ParseExamDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	parsed, err := time.Parse(ExamDateLayout, raw)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}

// ExpiryDate returns the date an exam taken on examDate stops being valid.
func ExpiryDate(examDate time.Time) time.Time {
	return DateOf(examDate).AddDate(0, 0, validityDays)
}

// StatusFor assigns the urgency tier. expiry == today is EXPIRING_SOON.
func StatusFor(expiry, today time.Time) domain.Status {
	expiry = DateOf(expiry)
	today = DateOf(today)
	switch {
	case expiry.Before(today):
		return domain.StatusExpired
	case !expiry.After(today.AddDate(0, 0, warningDays)):
		return domain.StatusExpiringSoon
	default:
		return domain.StatusCurrent
	}
}

// Classify enriches each record with its expiry date and status, preserving
// input order. Records without a parseable exam date are dropped.
func Classify(records []domain.ExamRecord, today time.Time) []domain.ClassifiedRecord {
	today = DateOf(today)
	out := make([]domain.ClassifiedRecord, 0, len(records))
	for _, rec := range records {
		examDate, ok := ParseExamDate(rec.LastExamDate)
		if !ok {
			continue
		}
		expiry := ExpiryDate(examDate)
		out = append(out, domain.ClassifiedRecord{
			ExamRecord: rec,
			ExamDate:   examDate,
			ExpiryDate: expiry,
			Status:     StatusFor(expiry, today),
		})
	}
	return out
}

// CountByStatus tallies classified records per tier. Every tier is present.
func CountByStatus(records []domain.ClassifiedRecord) map[domain.Status]int {
	counts := make(map[domain.Status]int, len(domain.Statuses))
	for _, s := range domain.Statuses {
		counts[s] = 0
	}
	for _, rec := range records {
		counts[rec.Status]++
	}
	return counts
}
