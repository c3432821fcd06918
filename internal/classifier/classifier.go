// Package classifier maps crash signals to reference info and matches
// heuristic failure patterns over raw log text.
package classifier

import (
	"fmt"
	"sort"

	"github.com/setevik/crashlens/internal/event"
)

// Table holds the signal reference data used for classification. The zero
// value is not usable; construct with NewTable. A Table is read-only after
// construction and safe for concurrent use.
type Table struct {
	signals         map[int]event.SignalInfo
	recommendations map[int][]string
}

// NewTable returns a Table populated with the builtin signal reference data.
func NewTable() *Table {
	t := &Table{
		signals:         make(map[int]event.SignalInfo, len(builtinSignals)),
		recommendations: make(map[int][]string, len(builtinRecommendations)),
	}
	for n, info := range builtinSignals {
		t.signals[n] = info
	}
	for n, recs := range builtinRecommendations {
		t.recommendations[n] = recs
	}
	return t
}

// Lookup returns the SignalInfo for a signal number. Unknown numbers get a
// synthesized entry (name "SIG<n>", severity UNKNOWN); lookup never fails.
func (t *Table) Lookup(sig int) event.SignalInfo {
	if info, ok := t.signals[sig]; ok {
		return info
	}
	return event.SignalInfo{
		Number:       sig,
		Name:         fmt.Sprintf("SIG%d", sig),
		Description:  "Unrecognized signal",
		CommonCauses: []string{"Unknown"},
		Severity:     event.SevUnknown,
	}
}

// Recommendations returns the canned remediation list for a signal, or nil
// for signals without one.
func (t *Table) Recommendations(sig int) []string {
	return t.recommendations[sig]
}

// FrequencyRecommendations returns the canned list appended when crashes are
// frequent within one analysis.
func (t *Table) FrequencyRecommendations() []string {
	return frequencyRecommendations
}

// Signals returns all known signal entries ordered by number.
func (t *Table) Signals() []event.SignalInfo {
	infos := make([]event.SignalInfo, 0, len(t.signals))
	for _, info := range t.signals {
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Number < infos[j].Number
	})
	return infos
}

// MatchPatterns runs every heuristic pattern over text and reports which
// matched. Checks are independent; several can be true at once.
func MatchPatterns(text string) map[string]bool {
	matches := make(map[string]bool, len(heuristicPatterns))
	for _, p := range heuristicPatterns {
		matches[p.name] = p.re.MatchString(text)
	}
	return matches
}

// DetermineRootCause picks a single best-effort explanation from the matched
// heuristic patterns, checking categories in fixed priority order and
// returning the first hit. memoryBias applies only when nothing matched: a
// high-memory environment turns the unknown cause into suspected memory
// exhaustion.
func DetermineRootCause(matches map[string]bool, memoryBias bool) string {
	for _, rc := range rootCauses {
		if matches[rc.pattern] {
			return rc.explanation
		}
	}
	if memoryBias {
		return memoryBiasRootCause
	}
	return unknownRootCause
}
