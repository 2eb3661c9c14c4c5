package session

import (
	"strings"
	"time"
)

// Status represents the lifecycle of a profiling session.
type Status string

const (
	StatusPending     Status = "pending"
	StatusChartGen    Status = "chart_generating"
	StatusChartReady  Status = "chart_ready"
	StatusPrinting    Status = "printing"
	StatusPrinted     Status = "printed"
	StatusScanning    Status = "scanning"
	StatusScanned     Status = "scanned"
	StatusReading     Status = "reading"
	StatusMeasured    Status = "measured"
	StatusCurveTuning Status = "curve_tuning"
	StatusCurveTuned  Status = "curve_tuned"
	StatusProfiling   Status = "profiling"
	StatusCompleted   Status = "completed"
	StatusFailed      Status = "failed"
)

var allStatuses = []Status{
	StatusPending,
	StatusChartGen,
	StatusChartReady,
	StatusPrinting,
	StatusPrinted,
	StatusScanning,
	StatusScanned,
	StatusReading,
	StatusMeasured,
	StatusCurveTuning,
	StatusCurveTuned,
	StatusProfiling,
	StatusCompleted,
	StatusFailed,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// Valid reports whether the status is a known lifecycle value.
func (s Status) Valid() bool {
	_, ok := statusSet[s]
	return ok
}

// Label renders the status for operator-facing tables.
func (s Status) Label() string {
	parts := strings.Fields(strings.ReplaceAll(string(s), "_", " "))
	for i, part := range parts {
		if part == "" {
			continue
		}
		parts[i] = strings.ToUpper(part[:1]) + part[1:]
	}
	return strings.Join(parts, " ")
}

// Session is one profiling run persisted in SQLite.
type Session struct {
	ID           int64
	Name         string
	Status       Status
	PageCount    int
	ChartPath    string
	MeasurePath  string
	ProfilePath  string
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SetFailed records a failure message and flips the status.
func (s *Session) SetFailed(message string) {
	s.Status = StatusFailed
	s.ErrorMessage = strings.TrimSpace(message)
}
