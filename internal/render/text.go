// Package render formats analysis reports for terminal or JSON output.
package render

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/setevik/crashlens/internal/analyzer"
	"github.com/setevik/crashlens/internal/format"
)

// Text writes a human-readable rendering of the report. An empty result
// prints a friendly notice, never an error.
func Text(w io.Writer, report *analyzer.Report) {
	if report.CrashSummary.Status != "" {
		fmt.Fprintln(w, "No crash events found.")
		return
	}

	s := report.CrashSummary
	fmt.Fprintf(w, "Crashes:       %d (%d process(es), %d signal(s))\n",
		s.TotalCrashes, s.AffectedProcesses, s.UniqueSignals)
	fmt.Fprintf(w, "Time span:     %s\n", s.TimeSpan)
	fmt.Fprintf(w, "Frequency:     %s\n", s.CrashFrequency)
	fmt.Fprintf(w, "Severity:      %s (score %d)\n",
		report.Assessment.OverallSeverity, report.Assessment.SeverityScore)
	fmt.Fprintf(w, "Root cause:    %s\n", report.RootCause)
	if m := report.Memory; m != nil {
		fmt.Fprintf(w, "Memory:        %s of %s in use (%s)\n",
			format.KBytes(m.TotalKB-m.AvailableKB),
			format.KBytes(m.TotalKB),
			format.Percent(m.TotalKB-m.AvailableKB, m.TotalKB))
	}

	fmt.Fprintln(w, "\nSignal breakdown:")
	for _, key := range sortedSignalKeys(report) {
		d := report.SignalAnalysis[key]
		fmt.Fprintf(w, "  %s (%s, %s): %d crash(es), pids %s\n",
			d.SignalName, "sig "+key, d.Severity, d.Count, joinInts(d.AffectedPIDs))
		fmt.Fprintf(w, "    %s\n", d.Description)
	}

	if matched := matchedPatterns(report); len(matched) > 0 {
		fmt.Fprintf(w, "\nHeuristic indicators: %s\n", strings.Join(matched, ", "))
	}

	if len(report.Assessment.ContributingFactors) > 0 {
		fmt.Fprintln(w, "\nContributing factors:")
		for _, f := range report.Assessment.ContributingFactors {
			fmt.Fprintf(w, "  - %s\n", f)
		}
	}

	if len(report.Recommendations) > 0 {
		fmt.Fprintln(w, "\nRecommendations:")
		for i, r := range report.Recommendations {
			fmt.Fprintf(w, "  %d. %s\n", i+1, r)
		}
	}
}

// sortedSignalKeys orders the breakdown numerically by signal number.
func sortedSignalKeys(report *analyzer.Report) []string {
	keys := make([]string, 0, len(report.SignalAnalysis))
	for k := range report.SignalAnalysis {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, _ := strconv.Atoi(keys[i])
		b, _ := strconv.Atoi(keys[j])
		return a < b
	})
	return keys
}

func matchedPatterns(report *analyzer.Report) []string {
	var matched []string
	for name, hit := range report.Patterns {
		if hit {
			matched = append(matched, name)
		}
	}
	sort.Strings(matched)
	return matched
}

func joinInts(pids []int) string {
	parts := make([]string, len(pids))
	for i, pid := range pids {
		parts[i] = strconv.Itoa(pid)
	}
	return strings.Join(parts, ", ")
}
