package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/jwebster45206/atlas-engine/internal/config"
)

func TestSetupWriter_Production(t *testing.T) {
	var buf bytes.Buffer
	log := SetupWriter(&config.Config{Environment: "production", LogLevel: slog.LevelInfo}, &buf)

	WithSession(log, "abc").Info("Scene event started", "scene_id", "squall")
	log.Debug("hidden")

	var rec map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &rec); err != nil {
		t.Fatalf("expected one JSON record, got %q: %v", buf.String(), err)
	}
	if rec["session_id"] != "abc" || rec["scene_id"] != "squall" {
		t.Errorf("unexpected record %v", rec)
	}
}

func TestSetupWriter_Development(t *testing.T) {
	var buf bytes.Buffer
	log := SetupWriter(&config.Config{Environment: "development", LogLevel: slog.LevelDebug}, &buf)

	WithError(log, errors.New("boom")).Debug("Failed to publish notice")
	out := buf.String()
	if !strings.Contains(out, "error=boom") || !strings.Contains(out, "level=DEBUG") {
		t.Errorf("unexpected text output %q", out)
	}
}
