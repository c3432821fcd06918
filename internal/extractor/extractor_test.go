package extractor

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestExtractWellFormedRecord(t *testing.T) {
	text := `Jun  3 10:00:00 host audit[812]: ANOM_ABEND auid=1000 uid=1000 pid=1234 comm="code" exe="/usr/share/code/code" sig=11 res=1`

	events := Extract(text, WithYear(2026))
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}

	ev := events[0]
	if ev.PID != 1234 {
		t.Errorf("pid = %d, want 1234", ev.PID)
	}
	if ev.Command != "code" {
		t.Errorf("command = %q, want %q", ev.Command, "code")
	}
	if ev.Signal != 11 {
		t.Errorf("signal = %d, want 11", ev.Signal)
	}
	if ev.RawText != text {
		t.Errorf("raw text not retained")
	}
	if ev.Timestamp == nil {
		t.Fatal("timestamp should be parsed")
	}
	want := time.Date(2026, 6, 3, 10, 0, 0, 0, time.UTC)
	if !ev.Timestamp.Equal(want) {
		t.Errorf("timestamp = %v, want %v", ev.Timestamp, want)
	}
}

func TestExtractSourceOrder(t *testing.T) {
	text := strings.Join([]string{
		`Jun  3 10:00:00 host audit[1]: ANOM_ABEND pid=100 comm="code" sig=11`,
		`Started Session 3 of User user.`,
		`Jun  3 10:05:00 host audit[1]: ANOM_ABEND pid=200 comm="chrome" sig=6`,
		`Jun  3 10:10:00 host audit[1]: ANOM_ABEND pid=300 comm="code" sig=4`,
	}, "\n")

	events := Extract(text, WithYear(2026))
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}

	wantPIDs := []int{100, 200, 300}
	for i, ev := range events {
		if ev.PID != wantPIDs[i] {
			t.Errorf("events[%d].PID = %d, want %d", i, ev.PID, wantPIDs[i])
		}
	}
}

func TestExtractFieldOrderIndependent(t *testing.T) {
	text := `Jun  3 10:00:00 host audit[1]: ANOM_ABEND sig=6 comm="electron" pid=42`

	events := Extract(text)
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].PID != 42 || events[0].Command != "electron" || events[0].Signal != 6 {
		t.Errorf("unexpected event %+v", events[0])
	}
}

func TestExtractUnquotedComm(t *testing.T) {
	text := `Jun  3 10:00:00 host audit[1]: ANOM_ABEND pid=42 comm=code sig=11`

	events := Extract(text)
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].Command != "code" {
		t.Errorf("command = %q, want %q", events[0].Command, "code")
	}
}

func TestExtractPartialRecordsDropped(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"missing sig", `Jun  3 10:00:00 host audit[1]: ANOM_ABEND pid=1234 comm="code"`},
		{"missing pid", `Jun  3 10:00:00 host audit[1]: ANOM_ABEND comm="code" sig=11`},
		{"missing comm", `Jun  3 10:00:00 host audit[1]: ANOM_ABEND pid=1234 sig=11`},
		{"no marker", `Jun  3 10:00:00 host kernel: pid=1234 comm="code" sig=11`},
		{"zero pid", `Jun  3 10:00:00 host audit[1]: ANOM_ABEND pid=0 comm="code" sig=11`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if events := Extract(tt.line); len(events) != 0 {
				t.Errorf("got %d events, want 0", len(events))
			}
		})
	}
}

func TestExtractMalformedTimestamp(t *testing.T) {
	// Marker and fields are fine but nothing recognizable as a timestamp.
	text := `??? garbled prefix ANOM_ABEND pid=55 comm="code" sig=6`

	events := Extract(text)
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].Timestamp != nil {
		t.Errorf("timestamp = %v, want nil", events[0].Timestamp)
	}
	if events[0].Signal != 6 {
		t.Errorf("signal = %d, want 6", events[0].Signal)
	}
}

func TestExtractTimestampFormats(t *testing.T) {
	tests := []struct {
		name string
		line string
		want time.Time
	}{
		{
			"iso with zone",
			`2026-06-03T10:00:00+02:00 host audit: ANOM_ABEND pid=1 comm="code" sig=11`,
			time.Date(2026, 6, 3, 10, 0, 0, 0, time.FixedZone("", 2*3600)),
		},
		{
			"iso space separated",
			`2026-06-03 10:00:00 host audit: ANOM_ABEND pid=1 comm="code" sig=11`,
			time.Date(2026, 6, 3, 10, 0, 0, 0, time.UTC),
		},
		{
			"audit epoch header",
			`type=ANOM_ABEND msg=audit(1717408800.123:456): pid=1 comm="code" sig=11`,
			time.Unix(1717408800, 123_000_000),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := Extract(tt.line)
			if len(events) != 1 {
				t.Fatalf("got %d events, want 1", len(events))
			}
			if events[0].Timestamp == nil {
				t.Fatal("timestamp should be parsed")
			}
			if !events[0].Timestamp.Equal(tt.want) {
				t.Errorf("timestamp = %v, want %v", events[0].Timestamp, tt.want)
			}
		})
	}
}

func TestExtractDmesgRecord(t *testing.T) {
	// The kernel ring buffer prints the numeric record type, never the
	// ANOM_ABEND token.
	text := `2026-06-03T10:00:00,123456+02:00 audit: type=1701 audit(1717408800.123:456): auid=1000 uid=1000 ses=2 pid=4321 comm="chrome" exe="/usr/bin/chrome" sig=6 res=1`

	events := Extract(text)
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}

	ev := events[0]
	if ev.PID != 4321 || ev.Command != "chrome" || ev.Signal != 6 {
		t.Errorf("unexpected event %+v", ev)
	}
	if ev.Timestamp == nil {
		t.Fatal("timestamp should be parsed")
	}
	if want := time.Unix(1717408800, 123_000_000); !ev.Timestamp.Equal(want) {
		t.Errorf("timestamp = %v, want %v", ev.Timestamp, want)
	}
}

func TestExtractDmesgCommaTimestamp(t *testing.T) {
	// dmesg ISO timestamps fraction with a comma; the zone offset after it
	// must survive parsing.
	text := `2026-06-03T10:00:00,500000+02:00 kernel: type=1701 pid=77 comm="code" sig=11`

	events := Extract(text)
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].Timestamp == nil {
		t.Fatal("timestamp should be parsed")
	}

	want := time.Date(2026, 6, 3, 10, 0, 0, 500_000_000, time.FixedZone("", 2*3600))
	if !events[0].Timestamp.Equal(want) {
		t.Errorf("timestamp = %v, want %v", events[0].Timestamp, want)
	}
	if _, off := events[0].Timestamp.Zone(); off != 2*3600 {
		t.Errorf("zone offset = %d, want 7200", off)
	}
}

func TestExtractAuditEpochFractionDigits(t *testing.T) {
	// The epoch fraction is decimal digits, not milliseconds: .5 is 500ms.
	text := `type=ANOM_ABEND msg=audit(1717408800.5:456): pid=1 comm="code" sig=11`

	events := Extract(text)
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if want := time.Unix(1717408800, 500_000_000); !events[0].Timestamp.Equal(want) {
		t.Errorf("timestamp = %v, want %v", events[0].Timestamp, want)
	}
}

func TestExtractEmptyInput(t *testing.T) {
	if events := Extract(""); len(events) != 0 {
		t.Errorf("empty input: got %d events, want 0", len(events))
	}
}

func TestExtractReaderNilInput(t *testing.T) {
	_, err := ExtractReader(nil)
	if !errors.Is(err, ErrNilInput) {
		t.Errorf("err = %v, want ErrNilInput", err)
	}
}

func TestExtractReader(t *testing.T) {
	r := strings.NewReader(`Jun  3 10:00:00 host audit[1]: ANOM_ABEND pid=7 comm="code" sig=11`)

	events, err := ExtractReader(r)
	if err != nil {
		t.Fatalf("ExtractReader: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].PID != 7 {
		t.Errorf("pid = %d, want 7", events[0].PID)
	}
}
