package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewLevels(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, "warn", false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	log.Info().Msg("hidden")
	log.Warn().Str(DatasetKey, "a.csv").Int(RowsKey, 3).Msg("shown")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info line leaked at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "dataset=a.csv") || !strings.Contains(out, "rows=3") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestNewDebugOverridesLevel(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, "error", true)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	log.Debug().Msg("details")
	if !strings.Contains(buf.String(), "details") {
		t.Fatalf("debug line missing: %q", buf.String())
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := New(&bytes.Buffer{}, "loud", false); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}
