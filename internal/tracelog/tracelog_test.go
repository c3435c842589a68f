package tracelog

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestTraceWritesToConfiguredOutput(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	defer SetOutput(slog.NewTextHandler(bytesDiscard{}, nil))

	Trace("add definition", "name", "x")

	out := buf.String()
	if !strings.Contains(out, "add definition") || !strings.Contains(out, "name=x") {
		t.Fatalf("trace output missing expected fields: %q", out)
	}
}

type bytesDiscard struct{}

func (bytesDiscard) Write(p []byte) (int, error) { return len(p), nil }
