package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, expected %v", tt.in, got, tt.want)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "warn", "text")

	Debug("hidden %d", 1)
	Info("hidden %d", 2)
	Warn("shown %d", 3)
	Error("shown %d", 4)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("Expected debug/info to be filtered, got %q", out)
	}
	if !strings.Contains(out, "shown 3") || !strings.Contains(out, "shown 4") {
		t.Errorf("Expected warn and error lines, got %q", out)
	}
}

func TestTextFormatWithoutTerminal(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "info", "text")

	Info("plain %s", "line")

	out := buf.String()
	if !strings.Contains(out, "plain line") {
		t.Errorf("Expected message, got %q", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Errorf("Expected no color codes when not writing to a terminal, got %q", out)
	}

	f, err := os.CreateTemp(t.TempDir(), "log")
	if err != nil {
		t.Fatalf("CreateTemp failed: %v", err)
	}
	defer f.Close()
	if isTerminal(f) {
		t.Errorf("Expected a regular file not to be a terminal")
	}
}

func TestJSONFormatWithAttributes(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "info", "json")
	With("run_id", "abc")

	Info("loaded %d customers", 7043)

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("Expected a JSON record, got %q: %v", buf.String(), err)
	}
	if record["msg"] != "loaded 7043 customers" {
		t.Errorf("Unexpected msg: %v", record["msg"])
	}
	if record["run_id"] != "abc" {
		t.Errorf("Expected run_id attribute, got %v", record["run_id"])
	}
}
