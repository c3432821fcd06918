package render

import (
	"strings"
	"testing"

	"github.com/setevik/crashlens/internal/analyzer"
	"github.com/setevik/crashlens/internal/meminfo"
)

func TestTextNoEvents(t *testing.T) {
	var buf strings.Builder
	Text(&buf, analyzer.New().Analyze("nothing here"))

	if got := buf.String(); got != "No crash events found.\n" {
		t.Errorf("Text = %q", got)
	}
}

func TestTextReport(t *testing.T) {
	input := `Jun  3 10:00:00 host audit[1]: ANOM_ABEND pid=100 comm="code" sig=11
Jun  3 10:10:00 host audit[1]: ANOM_ABEND pid=200 comm="chrome" sig=6
`
	report := analyzer.New(analyzer.WithYear(2026)).Analyze(input)

	var buf strings.Builder
	Text(&buf, report)
	out := buf.String()

	for _, want := range []string{
		"Crashes:       2",
		"SIGSEGV",
		"SIGABRT",
		"Severity:",
		"Root cause:",
		"Recommendations:",
		"segfault", // sig=11 trips the heuristic indicator
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	// Breakdown ordered numerically: SIGABRT (6) before SIGSEGV (11).
	if strings.Index(out, "SIGABRT") > strings.Index(out, "SIGSEGV") {
		t.Error("signal breakdown not in numeric order")
	}
}

func TestTextMemoryLine(t *testing.T) {
	input := `Jun  3 10:00:00 host audit[1]: ANOM_ABEND pid=100 comm="code" sig=11`
	provider := meminfo.Static{Snap: meminfo.Snapshot{TotalKB: 16254004, AvailableKB: 4063501}}

	var buf strings.Builder
	Text(&buf, analyzer.New(analyzer.WithYear(2026), analyzer.WithMemoryProvider(provider)).Analyze(input))

	out := buf.String()
	if !strings.Contains(out, "Memory:") {
		t.Errorf("memory line missing:\n%s", out)
	}
	if !strings.Contains(out, "15.5 GB") || !strings.Contains(out, "75.0%") {
		t.Errorf("memory line not formatted:\n%s", out)
	}

	// Without a provider there is nothing to show.
	buf.Reset()
	Text(&buf, analyzer.New(analyzer.WithYear(2026)).Analyze(input))
	if strings.Contains(buf.String(), "Memory:") {
		t.Error("memory line shown without a provider")
	}
}

func TestJSON(t *testing.T) {
	var buf strings.Builder
	if err := JSON(&buf, map[string]int{"a": 1}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "\"a\": 1") {
		t.Errorf("JSON output = %q", buf.String())
	}
}
