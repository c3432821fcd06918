// Package meminfo supplies current memory-pressure snapshots to the
// analyzer. The live /proc/meminfo read lives here as an adapter so the
// classification core stays pure and testable.
package meminfo

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Snapshot holds current system memory metrics in kilobytes.
type Snapshot struct {
	TotalKB     int64
	AvailableKB int64
}

// UsedPercent returns the share of memory currently in use, 0-100.
// Returns 0 when the snapshot is empty.
func (s Snapshot) UsedPercent() float64 {
	if s.TotalKB <= 0 {
		return 0
	}
	used := s.TotalKB - s.AvailableKB
	if used < 0 {
		used = 0
	}
	return float64(used) / float64(s.TotalKB) * 100
}

// Provider produces memory snapshots. The analyzer treats a nil Provider as
// "feature unavailable" and proceeds without the environmental bias.
type Provider interface {
	Snapshot() (Snapshot, error)
}

// ProcProvider reads snapshots from a meminfo-format file, /proc/meminfo by
// default. Path is overridable for tests.
type ProcProvider struct {
	Path string
}

// Snapshot parses MemTotal and MemAvailable from the meminfo file.
// Lines look like "MemTotal:       16254004 kB".
func (p ProcProvider) Snapshot() (Snapshot, error) {
	path := p.Path
	if path == "" {
		path = "/proc/meminfo"
	}

	f, err := os.Open(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var snap Snapshot
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "MemTotal:"):
			snap.TotalKB = parseMeminfoKB(line)
		case strings.HasPrefix(line, "MemAvailable:"):
			snap.AvailableKB = parseMeminfoKB(line)
		}
	}
	if err := scanner.Err(); err != nil {
		return Snapshot{}, err
	}

	if snap.TotalKB == 0 {
		return Snapshot{}, fmt.Errorf("no MemTotal in %s", path)
	}
	return snap, nil
}

// Static is a fixed-value Provider for tests and for callers that already
// hold the metrics.
type Static struct {
	Snap Snapshot
}

func (s Static) Snapshot() (Snapshot, error) {
	return s.Snap, nil
}

func parseMeminfoKB(line string) int64 {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return 0
	}
	v, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return 0
	}
	return v
}
