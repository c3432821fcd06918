package analyzer

import (
	"encoding/json"

	"github.com/setevik/crashlens/internal/event"
	"github.com/setevik/crashlens/internal/meminfo"
)

// NoEventsStatus is the crash_summary status emitted when the input text
// contained no crash records.
const NoEventsStatus = "No crash events found"

// Report is the aggregate result of one analysis run. It is immutable once
// returned and carries no analysis-time fields, so the same input always
// serializes to byte-identical JSON.
type Report struct {
	CrashSummary    CrashSummary             `json:"crash_summary"`
	SignalAnalysis  map[string]*SignalDetail `json:"signal_analysis"`
	Assessment      SeverityAssessment       `json:"severity_assessment"`
	Recommendations []string                 `json:"recommendations"`

	// Not part of the serialized compatibility shape.
	Events    []event.CrashEvent `json:"-"`
	Patterns  map[string]bool    `json:"-"`
	RootCause string             `json:"-"`

	// Memory is the snapshot consulted for the bias, when a provider was
	// configured and readable. Display-only; excluded from the JSON so the
	// report stays a pure function of the input text.
	Memory *meminfo.Snapshot `json:"-"`
}

// CrashSummary aggregates counts and timing over one analysis. When Status
// is set (the no-event case) it serializes as {"status": "..."} only.
type CrashSummary struct {
	Status            string
	TotalCrashes      int
	UniqueSignals     int
	AffectedProcesses int
	TimeSpan          string
	CrashFrequency    string
}

func (s CrashSummary) MarshalJSON() ([]byte, error) {
	if s.Status != "" {
		return json.Marshal(struct {
			Status string `json:"status"`
		}{s.Status})
	}
	return json.Marshal(struct {
		TotalCrashes      int    `json:"total_crashes"`
		UniqueSignals     int    `json:"unique_signals"`
		AffectedProcesses int    `json:"affected_processes"`
		TimeSpan          string `json:"time_span"`
		CrashFrequency    string `json:"crash_frequency"`
	}{
		TotalCrashes:      s.TotalCrashes,
		UniqueSignals:     s.UniqueSignals,
		AffectedProcesses: s.AffectedProcesses,
		TimeSpan:          s.TimeSpan,
		CrashFrequency:    s.CrashFrequency,
	})
}

// SignalDetail is the per-signal breakdown entry, keyed in SignalAnalysis by
// the decimal signal number.
type SignalDetail struct {
	SignalName   string   `json:"signal_name"`
	Description  string   `json:"description"`
	Count        int      `json:"count"`
	Severity     string   `json:"severity"`
	CommonCauses []string `json:"common_causes"`
	AffectedPIDs []int    `json:"affected_pids"`
}

// SeverityAssessment holds the aggregate score and its tier.
type SeverityAssessment struct {
	OverallSeverity     string   `json:"overall_severity"`
	SeverityScore       int      `json:"severity_score"`
	ContributingFactors []string `json:"contributing_factors"`
}

// JSON serializes the report in the stable compatibility shape.
func (r *Report) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}
