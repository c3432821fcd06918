// Package source collects raw log text for analysis from files, stdin, or
// short-lived journalctl/dmesg subprocesses. All I/O stays here; the
// analysis core only ever sees a string.
package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"
)

const collectTimeout = 30 * time.Second

// ReadInput reads log text from a file path, or from stdin when path is "-".
func ReadInput(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

// CollectJournal fetches audit-transport journal entries via journalctl.
// since uses journalctl's own syntax (e.g. "24 hours ago", "2026-08-01").
func CollectJournal(ctx context.Context, since string) (string, error) {
	args := []string{
		"-o", "short",
		"--no-pager",
		"_TRANSPORT=audit",
	}
	if since != "" {
		args = append(args, "--since", since)
	}

	out, err := runCommand(ctx, "journalctl", args...)
	if err != nil {
		return "", fmt.Errorf("collecting journal entries: %w", err)
	}
	return string(out), nil
}

// CollectDmesg fetches the kernel ring buffer with ISO timestamps.
func CollectDmesg(ctx context.Context) (string, error) {
	out, err := runCommand(ctx, "dmesg", "--time-format", "iso")
	if err != nil {
		return "", fmt.Errorf("collecting dmesg output: %w", err)
	}
	return string(out), nil
}

// runCommand executes a command with a timeout and returns its stdout.
func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, collectTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s %v: %w (stderr: %s)", name, args, err, stderr.String())
	}
	return stdout.Bytes(), nil
}
