package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Action represents the type of session event being recorded.
type Action string

const (
	ActionLoad         Action = "load"
	ActionReload       Action = "reload"
	ActionReloadDenied Action = "reload_denied"
	ActionSourceChange Action = "source_change"
	ActionReportBuild  Action = "report_build"
	ActionExport       Action = "export"
)

// Severity represents the severity level of an activity entry.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Entry represents a single activity log entry.
type Entry struct {
	ID          string    `json:"id"`
	Action      Action    `json:"action"`
	Severity    Severity  `json:"severity"`
	Detail      string    `json:"detail,omitempty"`
	Fingerprint string    `json:"fingerprint,omitempty"`
	Error       string    `json:"error,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// RecordParams contains parameters for recording an activity entry.
type RecordParams struct {
	Action      Action
	Detail      string
	Fingerprint string
	Err         error
}

// determineSeverity returns the appropriate severity for an action.
func determineSeverity(action Action, failed bool) Severity {
	if failed {
		return SeverityCritical
	}
	switch action {
	case ActionReloadDenied, ActionSourceChange:
		return SeverityWarning
	default:
		return SeverityInfo
	}
}

// DefaultActivityLimit caps the in-memory activity log.
const DefaultActivityLimit = 200

// ActivityLog keeps the most recent session events in memory. The log is
// bounded: once the limit is reached the oldest entries fall off.
type ActivityLog struct {
	mu      sync.RWMutex
	limit   int
	entries []Entry
}

// NewActivityLog creates a log keeping at most limit entries.
func NewActivityLog(limit int) *ActivityLog {
	if limit <= 0 {
		limit = DefaultActivityLimit
	}
	return &ActivityLog{limit: limit}
}

// Record appends a new entry and returns it.
func (l *ActivityLog) Record(params RecordParams) Entry {
	entry := Entry{
		ID:          uuid.NewString(),
		Action:      params.Action,
		Severity:    determineSeverity(params.Action, params.Err != nil),
		Detail:      params.Detail,
		Fingerprint: params.Fingerprint,
		CreatedAt:   time.Now().UTC(),
	}
	if params.Err != nil {
		entry.Error = params.Err.Error()
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, entry)
	if len(l.entries) > l.limit {
		l.entries = l.entries[len(l.entries)-l.limit:]
	}
	return entry
}

// Recent returns up to limit entries, newest first. limit <= 0 returns
// everything the log holds.
func (l *ActivityLog) Recent(limit int) []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	n := len(l.entries)
	if limit > 0 && limit < n {
		n = limit
	}

	out := make([]Entry, 0, n)
	for i := len(l.entries) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, l.entries[i])
	}
	return out
}

// Len returns the number of entries currently held.
func (l *ActivityLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}
