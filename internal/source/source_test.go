package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReadInputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	want := "line one\nline two\n"
	if err := os.WriteFile(path, []byte(want), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := ReadInput(path)
	if err != nil {
		t.Fatalf("ReadInput: %v", err)
	}
	if got != want {
		t.Errorf("ReadInput = %q, want %q", got, want)
	}
}

func TestReadInputMissingFile(t *testing.T) {
	if _, err := ReadInput(filepath.Join(t.TempDir(), "nope.log")); err == nil {
		t.Error("missing file should error")
	}
}

func TestReadInputStdin(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	orig := os.Stdin
	os.Stdin = r
	t.Cleanup(func() { os.Stdin = orig })

	go func() {
		w.WriteString("from stdin\n")
		w.Close()
	}()

	got, err := ReadInput("-")
	if err != nil {
		t.Fatalf("ReadInput: %v", err)
	}
	if got != "from stdin\n" {
		t.Errorf("ReadInput = %q", got)
	}
}
