// Package analyzer scores extracted crash events and assembles the
// aggregate analysis report.
package analyzer

import (
	"fmt"
	"io"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/setevik/crashlens/internal/classifier"
	"github.com/setevik/crashlens/internal/event"
	"github.com/setevik/crashlens/internal/extractor"
	"github.com/setevik/crashlens/internal/meminfo"
)

// Scoring constants. These reproduce the fixed point-scoring rule exactly;
// changing them breaks report compatibility.
const (
	pointsCritical   = 10
	pointsHigh       = 5
	pointsManyEvents = 5 // count > 5
	pointsSomeEvents = 2 // count > 2

	manyEventsCount = 5
	someEventsCount = 2

	// Frequency recommendations kick in above this event count.
	frequentCrashCount = 3

	// DefaultMemoryBiasPct is the used-memory percentage above which an
	// unattributed crash is biased toward memory exhaustion.
	DefaultMemoryBiasPct = 70
)

// Breakpoint maps a minimum score to an overall severity tier.
type Breakpoint struct {
	MinScore int
	Tier     event.Severity
}

// DefaultBreakpoints are the fixed score thresholds: >=15 CRITICAL,
// >=8 HIGH, >=3 MEDIUM, else LOW.
var DefaultBreakpoints = []Breakpoint{
	{15, event.SevCritical},
	{8, event.SevHigh},
	{3, event.SevMedium},
	{0, event.SevLow},
}

// Analyzer turns raw log text into an analysis report. Each call is a pure
// function of the text and the optional memory snapshot; an Analyzer holds
// no per-call state and is safe for concurrent use.
type Analyzer struct {
	table       *classifier.Table
	mem         meminfo.Provider
	biasPct     float64
	breakpoints []Breakpoint
	extractOpts []extractor.Option
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithTable replaces the builtin signal table, e.g. after loading overrides.
func WithTable(t *classifier.Table) Option {
	return func(a *Analyzer) { a.table = t }
}

// WithMemoryProvider injects a memory snapshot source for the environmental
// classification bias. Without one the bias is simply unavailable.
func WithMemoryProvider(p meminfo.Provider) Option {
	return func(a *Analyzer) { a.mem = p }
}

// WithMemoryBiasThreshold sets the used-memory percentage that triggers the
// memory-exhaustion bias.
func WithMemoryBiasThreshold(pct float64) Option {
	return func(a *Analyzer) { a.biasPct = pct }
}

// WithBreakpoints replaces the fixed severity thresholds. The slice must be
// ordered by descending MinScore.
func WithBreakpoints(bps []Breakpoint) Option {
	return func(a *Analyzer) { a.breakpoints = bps }
}

// WithYear pins the year used for year-less syslog timestamps.
func WithYear(year int) Option {
	return func(a *Analyzer) {
		a.extractOpts = append(a.extractOpts, extractor.WithYear(year))
	}
}

// New creates an Analyzer with the builtin table, default thresholds, and no
// memory provider.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		table:       classifier.NewTable(),
		biasPct:     DefaultMemoryBiasPct,
		breakpoints: DefaultBreakpoints,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze extracts, classifies, and scores crash events from text.
func (a *Analyzer) Analyze(text string) *Report {
	events := extractor.Extract(text, a.extractOpts...)
	if len(events) == 0 {
		return emptyReport()
	}

	breakdown, signalOrder := a.buildBreakdown(events)
	score, factors := a.score(events, breakdown)

	snap := a.memorySnapshot()
	patterns := classifier.MatchPatterns(text)
	rootCause := classifier.DetermineRootCause(patterns, a.memoryBias(snap))

	report := &Report{
		CrashSummary:    a.buildSummary(events, breakdown),
		SignalAnalysis:  breakdown,
		Recommendations: a.buildRecommendations(events, signalOrder),
		Events:          events,
		Patterns:        patterns,
		RootCause:       rootCause,
		Memory:          snap,
	}

	report.Assessment = SeverityAssessment{
		OverallSeverity:     string(a.tierFor(score)),
		SeverityScore:       score,
		ContributingFactors: append([]string{"Likely root cause: " + rootCause}, factors...),
	}

	return report
}

// AnalyzeReader reads all of r and analyzes it. A nil reader yields
// extractor.ErrNilInput.
func (a *Analyzer) AnalyzeReader(r io.Reader) (*Report, error) {
	if r == nil {
		return nil, extractor.ErrNilInput
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return a.Analyze(string(data)), nil
}

func emptyReport() *Report {
	return &Report{
		CrashSummary:   CrashSummary{Status: NoEventsStatus},
		SignalAnalysis: map[string]*SignalDetail{},
		Assessment: SeverityAssessment{
			OverallSeverity:     string(event.SevLow),
			SeverityScore:       0,
			ContributingFactors: []string{},
		},
		Recommendations: []string{},
	}
}

// buildBreakdown groups events by signal. signalOrder preserves the order of
// first appearance, which drives recommendation ordering.
func (a *Analyzer) buildBreakdown(events []event.CrashEvent) (map[string]*SignalDetail, []int) {
	breakdown := make(map[string]*SignalDetail)
	var signalOrder []int

	for _, ev := range events {
		key := fmt.Sprintf("%d", ev.Signal)
		detail, ok := breakdown[key]
		if !ok {
			info := a.table.Lookup(ev.Signal)
			detail = &SignalDetail{
				SignalName:   info.Name,
				Description:  info.Description,
				Severity:     string(info.Severity),
				CommonCauses: info.CommonCauses,
				AffectedPIDs: []int{},
			}
			breakdown[key] = detail
			signalOrder = append(signalOrder, ev.Signal)
		}

		detail.Count++
		if !containsInt(detail.AffectedPIDs, ev.PID) {
			detail.AffectedPIDs = append(detail.AffectedPIDs, ev.PID)
		}
	}

	return breakdown, signalOrder
}

// score applies the fixed point rule: +10 per CRITICAL event, +5 per HIGH
// event, +5 when count > 5, else +2 when count > 2.
func (a *Analyzer) score(events []event.CrashEvent, breakdown map[string]*SignalDetail) (int, []string) {
	var critical, high int
	for _, ev := range events {
		switch a.table.Lookup(ev.Signal).Severity {
		case event.SevCritical:
			critical++
		case event.SevHigh:
			high++
		}
	}

	score := critical*pointsCritical + high*pointsHigh

	var factors []string
	if critical > 0 {
		factors = append(factors, fmt.Sprintf("%d critical-severity crash(es)", critical))
	}
	if high > 0 {
		factors = append(factors, fmt.Sprintf("%d high-severity crash(es)", high))
	}

	switch {
	case len(events) > manyEventsCount:
		score += pointsManyEvents
		factors = append(factors, fmt.Sprintf("high crash frequency (%d events)", len(events)))
	case len(events) > someEventsCount:
		score += pointsSomeEvents
		factors = append(factors, fmt.Sprintf("elevated crash frequency (%d events)", len(events)))
	}

	return score, factors
}

// tierFor thresholds a score against the breakpoint table.
func (a *Analyzer) tierFor(score int) event.Severity {
	for _, bp := range a.breakpoints {
		if score >= bp.MinScore {
			return bp.Tier
		}
	}
	return event.SevLow
}

// buildRecommendations appends the canned list for each distinct signal in
// first-appearance order, plus the frequency set when crashes are frequent,
// de-duplicating while preserving insertion order.
func (a *Analyzer) buildRecommendations(events []event.CrashEvent, signalOrder []int) []string {
	recs := []string{}
	seen := make(map[string]bool)

	add := func(list []string) {
		for _, r := range list {
			if seen[r] {
				continue
			}
			seen[r] = true
			recs = append(recs, r)
		}
	}

	for _, sig := range signalOrder {
		add(a.table.Recommendations(sig))
	}

	if len(events) > frequentCrashCount {
		add(a.table.FrequencyRecommendations())
	}

	return recs
}

func (a *Analyzer) buildSummary(events []event.CrashEvent, breakdown map[string]*SignalDetail) CrashSummary {
	processes := make(map[string]bool)
	var timestamps []time.Time
	for _, ev := range events {
		processes[ev.Command] = true
		if ev.Timestamp != nil {
			timestamps = append(timestamps, *ev.Timestamp)
		}
	}

	return CrashSummary{
		TotalCrashes:      len(events),
		UniqueSignals:     len(breakdown),
		AffectedProcesses: len(processes),
		TimeSpan:          formatTimeSpan(timestamps),
		CrashFrequency:    formatFrequency(timestamps),
	}
}

const summaryTimeLayout = "2006-01-02 15:04:05"

func formatTimeSpan(timestamps []time.Time) string {
	switch len(timestamps) {
	case 0:
		return "unknown"
	case 1:
		return fmt.Sprintf("single event at %s", timestamps[0].Format(summaryTimeLayout))
	}

	first, last := minMax(timestamps)
	return fmt.Sprintf("%s to %s (%s)",
		first.Format(summaryTimeLayout),
		last.Format(summaryTimeLayout),
		last.Sub(first).Round(time.Second))
}

// formatFrequency summarizes crash timing using inter-crash interval
// statistics over the sorted timestamps.
func formatFrequency(timestamps []time.Time) string {
	if len(timestamps) < 2 {
		return "n/a (insufficient timing data)"
	}

	sorted := make([]time.Time, len(timestamps))
	copy(sorted, timestamps)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	span := sorted[len(sorted)-1].Sub(sorted[0])
	if span <= 0 {
		return fmt.Sprintf("%d crashes within one second", len(timestamps))
	}

	intervals := make([]float64, 0, len(sorted)-1)
	for i := 1; i < len(sorted); i++ {
		intervals = append(intervals, sorted[i].Sub(sorted[i-1]).Seconds())
	}

	rate := float64(len(sorted)) / span.Hours()
	mean := time.Duration(stat.Mean(intervals, nil) * float64(time.Second)).Round(time.Second)

	if len(intervals) < 2 {
		return fmt.Sprintf("%.1f crashes/hour (mean interval %s)", rate, mean)
	}

	sd := time.Duration(stat.StdDev(intervals, nil) * float64(time.Second)).Round(time.Second)
	return fmt.Sprintf("%.1f crashes/hour (mean interval %s, stddev %s)", rate, mean, sd)
}

// memorySnapshot reads the configured provider once per analysis. A missing
// or failing provider yields nil, never an error.
func (a *Analyzer) memorySnapshot() *meminfo.Snapshot {
	if a.mem == nil {
		return nil
	}
	snap, err := a.mem.Snapshot()
	if err != nil {
		return nil
	}
	return &snap
}

// memoryBias reports whether the snapshot's usage exceeds the bias threshold.
func (a *Analyzer) memoryBias(snap *meminfo.Snapshot) bool {
	return snap != nil && snap.UsedPercent() >= a.biasPct
}

func minMax(timestamps []time.Time) (time.Time, time.Time) {
	first, last := timestamps[0], timestamps[0]
	for _, ts := range timestamps[1:] {
		if ts.Before(first) {
			first = ts
		}
		if ts.After(last) {
			last = ts
		}
	}
	return first, last
}

func containsInt(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
