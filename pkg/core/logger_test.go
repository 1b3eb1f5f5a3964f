package core

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestLogger_DefaultIsSilent(t *testing.T) {
	SetLogger(nil)
	if Logger().Enabled(context.Background(), slog.LevelError) {
		t.Error("Expected default logger to be disabled at every level")
	}
}

func TestLogger_SetLogger(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	defer SetLogger(nil)

	Logger().Info("cast finished", "points", 42)

	if !strings.Contains(buf.String(), "points=42") {
		t.Errorf("Expected log output to contain points=42, got %q", buf.String())
	}
}
