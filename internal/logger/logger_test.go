package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
		"":        slog.LevelInfo,
	}
	for input, want := range cases {
		if got := ParseLevel(input); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestForComponentHonorsLateInit(t *testing.T) {
	// Component loggers are created at package init, before main configures
	// logging. They must still pick up that configuration.
	log := ForComponent("codec")

	var buf bytes.Buffer
	Init(Config{Level: slog.LevelInfo, Format: "json", Output: &buf})

	log.Info("part written", "name", "slide1.xml")
	log.Debug("suppressed")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 emitted record, got %d: %q", len(lines), buf.String())
	}

	var record map[string]interface{}
	if err := json.Unmarshal([]byte(lines[0]), &record); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if record["component"] != "codec" {
		t.Errorf("expected component attribute, got %v", record)
	}
	if record["msg"] != "part written" {
		t.Errorf("expected message, got %v", record)
	}
	if record["name"] != "slide1.xml" {
		t.Errorf("expected call attribute, got %v", record)
	}
}
