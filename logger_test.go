package mapcore

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestDefaultLoggerIsSilent(t *testing.T) {
	SetLogger(nil)
	l := Logger()
	if l == nil {
		t.Fatal("Logger returned nil")
	}
	if l.Enabled(context.Background(), slog.LevelError) {
		t.Error("default logger should be disabled at every level")
	}
	// Must not panic.
	l.Error("ignored", "k", "v")
}

func TestSetLogger(t *testing.T) {
	defer SetLogger(nil)

	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	Logger().Warn("cache over budget", "entries", 3)

	out := buf.String()
	if !strings.Contains(out, "cache over budget") || !strings.Contains(out, "entries=3") {
		t.Errorf("log output = %q", out)
	}

	SetLogger(nil)
	buf.Reset()
	Logger().Warn("after reset")
	if buf.Len() != 0 {
		t.Errorf("silent logger wrote %q", buf.String())
	}
}
