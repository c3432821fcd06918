// Package extractor scans raw audit/journal text for abnormal-termination
// (ANOM_ABEND) records and turns them into structured crash events.
package extractor

import (
	"bufio"
	"errors"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/setevik/crashlens/internal/event"
)

// ErrNilInput is returned when a nil reader is passed where input text is
// expected. This is the only caller-error condition; malformed log content
// never produces an error.
var ErrNilInput = errors.New("extractor: nil input")

// Option configures extraction behavior.
type Option func(*options)

type options struct {
	year int
}

// WithYear sets the year used to complete syslog-style timestamps that lack
// a year component. The default is the current year, matching syslog
// convention; logs spanning a year boundary need an explicit year.
func WithYear(year int) Option {
	return func(o *options) {
		o.year = year
	}
}

// Extract scans text for crash records and returns one CrashEvent per
// structurally matching record, in source order. Lines that do not match are
// skipped. A record missing any of pid, comm, or sig is dropped, not
// defaulted. A record whose timestamp cannot be parsed is still emitted,
// with a nil Timestamp.
func Extract(text string, opts ...Option) []event.CrashEvent {
	o := options{year: time.Now().Year()}
	for _, opt := range opts {
		opt(&o)
	}

	var events []event.CrashEvent

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		if !abendMarkerRe.MatchString(line) {
			continue
		}

		ev, ok := parseRecord(line, o.year)
		if !ok {
			continue
		}
		events = append(events, ev)
	}

	return events
}

// ExtractReader reads all of r and extracts crash events from it. It returns
// ErrNilInput for a nil reader; read failures are returned as-is.
func ExtractReader(r io.Reader, opts ...Option) ([]event.CrashEvent, error) {
	if r == nil {
		return nil, ErrNilInput
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Extract(string(data), opts...), nil
}

// parseRecord pulls the pid/comm/sig fields out of a single marker line.
// The fields may appear in any order within the record.
func parseRecord(line string, year int) (event.CrashEvent, bool) {
	pidMatch := pidFieldRe.FindStringSubmatch(line)
	sigMatch := sigFieldRe.FindStringSubmatch(line)
	command := extractComm(line)

	if pidMatch == nil || sigMatch == nil || command == "" {
		return event.CrashEvent{}, false
	}

	pid, err := strconv.Atoi(pidMatch[1])
	if err != nil || pid <= 0 {
		return event.CrashEvent{}, false
	}
	sig, err := strconv.Atoi(sigMatch[1])
	if err != nil {
		return event.CrashEvent{}, false
	}

	return event.CrashEvent{
		Timestamp: parseTimestamp(line, year),
		PID:       pid,
		Command:   command,
		Signal:    sig,
		RawText:   line,
	}, true
}

// extractComm returns the comm field value, handling both the quoted audit
// form (comm="code") and the bare token form (comm=code).
func extractComm(line string) string {
	if m := commQuotedRe.FindStringSubmatch(line); len(m) == 2 {
		return m[1]
	}
	if m := commBareRe.FindStringSubmatch(line); len(m) == 2 {
		return m[1]
	}
	return ""
}

// parseTimestamp tries the known timestamp formats in order and returns nil
// when none of them match.
func parseTimestamp(line string, year int) *time.Time {
	// Epoch-style audit header: audit(1717408800.123:456)
	if m := auditEpochRe.FindStringSubmatch(line); len(m) == 3 {
		sec, err1 := strconv.ParseInt(m[1], 10, 64)
		frac, err2 := strconv.ParseInt(m[2], 10, 64)
		if err1 == nil && err2 == nil {
			// The fraction is decimal digits after the point, not a
			// millisecond count: .5 is 500ms. Scale to nanoseconds by
			// captured digit count.
			nsec := frac
			for i := len(m[2]); i < 9; i++ {
				nsec *= 10
			}
			ts := time.Unix(sec, nsec)
			return &ts
		}
	}

	// ISO-8601 / "YYYY-MM-DD HH:MM:SS"; dmesg uses a comma before the
	// fractional seconds, which the layouts do not accept.
	if m := isoTimestampRe.FindStringSubmatch(line); len(m) == 2 {
		candidate := strings.Replace(m[1], ",", ".", 1)
		for _, layout := range isoLayouts {
			if ts, err := time.Parse(layout, candidate); err == nil {
				return &ts
			}
		}
	}

	// Syslog "Mon _2 15:04:05" carries no year; supply the configured one.
	if m := syslogTimestampRe.FindStringSubmatch(line); len(m) == 2 {
		if ts, err := time.Parse(time.Stamp, m[1]); err == nil {
			ts = ts.AddDate(year, 0, 0)
			return &ts
		}
	}

	return nil
}

var isoLayouts = []string{
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}
