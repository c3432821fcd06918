package meminfo

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleMeminfo = `MemTotal:       16254004 kB
MemFree:         1204876 kB
MemAvailable:    4063501 kB
Buffers:          351024 kB
Cached:          5120040 kB
`

func writeMeminfo(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "meminfo")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestProcProviderSnapshot(t *testing.T) {
	p := ProcProvider{Path: writeMeminfo(t, sampleMeminfo)}

	snap, err := p.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if snap.TotalKB != 16254004 {
		t.Errorf("TotalKB = %d, want 16254004", snap.TotalKB)
	}
	if snap.AvailableKB != 4063501 {
		t.Errorf("AvailableKB = %d, want 4063501", snap.AvailableKB)
	}

	pct := snap.UsedPercent()
	if pct < 74 || pct > 76 {
		t.Errorf("UsedPercent = %.2f, want ~75", pct)
	}
}

func TestProcProviderMissingFile(t *testing.T) {
	p := ProcProvider{Path: filepath.Join(t.TempDir(), "nope")}
	if _, err := p.Snapshot(); err == nil {
		t.Error("missing file should error")
	}
}

func TestProcProviderNoMemTotal(t *testing.T) {
	p := ProcProvider{Path: writeMeminfo(t, "MemFree: 100 kB\n")}
	if _, err := p.Snapshot(); err == nil {
		t.Error("file without MemTotal should error")
	}
}

func TestUsedPercent(t *testing.T) {
	tests := []struct {
		name string
		snap Snapshot
		want float64
	}{
		{"half used", Snapshot{TotalKB: 1000, AvailableKB: 500}, 50},
		{"all available", Snapshot{TotalKB: 1000, AvailableKB: 1000}, 0},
		{"none available", Snapshot{TotalKB: 1000, AvailableKB: 0}, 100},
		{"empty snapshot", Snapshot{}, 0},
		{"available exceeds total", Snapshot{TotalKB: 1000, AvailableKB: 1200}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.snap.UsedPercent(); got != tt.want {
				t.Errorf("UsedPercent() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStaticProvider(t *testing.T) {
	p := Static{Snap: Snapshot{TotalKB: 100, AvailableKB: 20}}
	snap, err := p.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	if snap.UsedPercent() != 80 {
		t.Errorf("UsedPercent = %v, want 80", snap.UsedPercent())
	}
}
