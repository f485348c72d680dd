package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/spec-kit/exam-compliance/internal/domain"
)

// Metrics provides basic in-memory counters.
type Metrics struct {
	mu             sync.Mutex
	requestCount   map[string]int64
	errorCount     map[string]int64
	statusCount    map[domain.Status]int
	droppedRecords int
	classifiedAt   time.Time
}

// MetricsSnapshot is a point-in-time copy of the counters.
type MetricsSnapshot struct {
	Requests       map[string]int64 `json:"requests"`
	Errors         map[string]int64 `json:"errors"`
	Statuses       map[string]int   `json:"statuses"`
	DroppedRecords int              `json:"dropped_records"`
	ClassifiedAt   *time.Time       `json:"classified_at,omitempty"`
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount: make(map[string]int64),
		errorCount:   make(map[string]int64),
		statusCount:  make(map[domain.Status]int),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := pathKey(path, method, status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// RecordClassification stores the status distribution of the latest
// classification run and how many raw rows were dropped.
func (m *Metrics) RecordClassification(counts map[domain.Status]int, dropped int, at time.Time) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statusCount = make(map[domain.Status]int, len(counts))
	for status, n := range counts {
		m.statusCount[status] = n
	}
	m.droppedRecords = dropped
	m.classifiedAt = at
}

// Snapshot copies the current counters.
func (m *Metrics) Snapshot() MetricsSnapshot {
	snap := MetricsSnapshot{
		Requests: map[string]int64{},
		Errors:   map[string]int64{},
		Statuses: map[string]int{},
	}
	if m == nil {
		return snap
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range m.requestCount {
		snap.Requests[k] = v
	}
	for k, v := range m.errorCount {
		snap.Errors[k] = v
	}
	for k, v := range m.statusCount {
		snap.Statuses[string(k)] = v
	}
	snap.DroppedRecords = m.droppedRecords
	if !m.classifiedAt.IsZero() {
		at := m.classifiedAt
		snap.ClassifiedAt = &at
	}
	return snap
}

func pathKey(path, method string, status int) string {
	return path + "|" + method + "|" + strconv.Itoa(status)
}
