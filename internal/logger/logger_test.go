package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestLogger(t *testing.T, level Level) (*Logger, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "log.txt")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	t.Cleanup(func() { f.Close() })
	return New(f, level), path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	return string(data)
}

func TestLogFiltersBelowMinimumLevel(t *testing.T) {
	l, path := newTestLogger(t, Warn)
	l.Info("type %q registered", "widget")
	l.Warn("reader pool exhausted")

	out := readFile(t, path)
	if strings.Contains(out, "registered") {
		t.Fatalf("Info line emitted below the Warn floor: %q", out)
	}
	if !strings.Contains(out, "reader pool exhausted") {
		t.Fatalf("Warn line missing: %q", out)
	}
}

func TestSetLevelChangesFilterAtRuntime(t *testing.T) {
	l, path := newTestLogger(t, Error)
	l.Info("before")
	l.SetLevel(Debug)
	l.Info("after")

	out := readFile(t, path)
	if strings.Contains(out, "before") {
		t.Fatalf("line emitted before SetLevel widened the floor: %q", out)
	}
	if !strings.Contains(out, "after") {
		t.Fatalf("line missing after SetLevel widened the floor: %q", out)
	}
}

func TestLevelStringNames(t *testing.T) {
	cases := map[Level]string{Debug: "DEBUG", Info: "INFO", Warn: "WARN", Error: "ERROR"}
	for level, want := range cases {
		if got := level.String(); got != want {
			t.Fatalf("Level(%d).String() = %q, want %q", level, got, want)
		}
	}
}
