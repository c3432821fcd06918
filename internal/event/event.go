// Package event defines the core data model for crashlens analyses.
package event

import "time"

// Severity is the tier assigned to a signal or to an aggregate report.
type Severity string

const (
	SevCritical Severity = "CRITICAL"
	SevHigh     Severity = "HIGH"
	SevMedium   Severity = "MEDIUM"
	SevLow      Severity = "LOW"
	SevUnknown  Severity = "UNKNOWN"
)

// CrashEvent is one parsed occurrence of a process terminating abnormally.
// Timestamp is nil when the source line carried no recognizable timestamp;
// callers must handle that rather than assume it is set.
type CrashEvent struct {
	Timestamp *time.Time
	PID       int
	Command   string
	Signal    int
	RawText   string
}

// SignalInfo is the static reference entry for one POSIX signal. The builtin
// table is constructed once at startup and never mutated.
type SignalInfo struct {
	Number       int
	Name         string
	Description  string
	CommonCauses []string
	Severity     Severity
}

// Label returns a human-readable severity label.
func (s Severity) Label() string {
	switch s {
	case SevCritical:
		return "Critical"
	case SevHigh:
		return "High"
	case SevMedium:
		return "Medium"
	case SevLow:
		return "Low"
	default:
		return "Unknown"
	}
}
