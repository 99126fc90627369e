package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
		hasError bool
	}{
		{"debug", LevelDebug, false},
		{"DEBUG", LevelDebug, false},
		{"info", LevelInfo, false},
		{"warn", LevelWarn, false},
		{"warning", LevelWarn, false},
		{" error ", LevelError, false},
		{"invalid", LevelInfo, true},
		{"", LevelInfo, true},
	}

	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			level, err := ParseLevel(test.input)
			if test.hasError && err == nil {
				t.Error("expected error, got nil")
			}
			if !test.hasError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !test.hasError && level != test.expected {
				t.Errorf("expected %v, got %v", test.expected, level)
			}
		})
	}
}

func TestLevelString(t *testing.T) {
	for _, want := range []string{"debug", "info", "warn", "error"} {
		lvl, err := ParseLevel(want)
		if err != nil {
			t.Fatalf("ParseLevel(%q) error = %v", want, err)
		}
		if got := LevelString(lvl); got != want {
			t.Errorf("LevelString(%v) = %q, want %q", lvl, got, want)
		}
	}
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: LevelInfo, Format: FormatJSON, Output: &buf, Component: "test"})

	logger.Info("expanded", "phrase", "brb")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not JSON: %v (%q)", err, buf.String())
	}
	if entry["msg"] != "expanded" {
		t.Errorf("msg = %v, want expanded", entry["msg"])
	}
	if entry["phrase"] != "brb" {
		t.Errorf("phrase = %v, want brb", entry["phrase"])
	}
	if entry["component"] != "test" {
		t.Errorf("component = %v, want test", entry["component"])
	}
}

func TestNew_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: LevelWarn, Output: &buf})

	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info record written at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("warn record missing: %q", out)
	}
}

func TestFromConfig(t *testing.T) {
	var buf bytes.Buffer
	logger, err := FromConfig("debug", "json", &buf)
	if err != nil {
		t.Fatalf("FromConfig() error = %v", err)
	}
	logger.Debug("reload")
	if !strings.Contains(buf.String(), `"component":"quip"`) {
		t.Errorf("output = %q, want component attr", buf.String())
	}

	if _, err := FromConfig("loud", "", &buf); err == nil {
		t.Error("FromConfig() accepted unknown level")
	}
	if _, err := FromConfig("", "xml", &buf); err == nil {
		t.Error("FromConfig() accepted unknown format")
	}
}

func TestDiscard(t *testing.T) {
	// Must not panic and must accept all levels.
	l := Discard()
	l.Error("dropped", "k", 1)
}
