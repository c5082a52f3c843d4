package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestTextOutput(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "INFO", "text")

	Info("engine ready", "node", "exec-1 (localhost:7337)")

	out := buf.String()
	if !strings.Contains(out, "engine ready") {
		t.Errorf("missing message in output: %q", out)
	}
	if !strings.Contains(out, "node=") {
		t.Errorf("missing structured field in output: %q", out)
	}
}

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "INFO", "json")

	Info("block registered", "mem", 100)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if entry["msg"] != "block registered" {
		t.Errorf("unexpected msg: %v", entry["msg"])
	}
	if entry["mem"] != float64(100) {
		t.Errorf("unexpected mem field: %v", entry["mem"])
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "WARN", "text")

	Debug("dropped")
	Info("also dropped")
	Warn("kept")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Errorf("below-level entries must be filtered: %q", out)
	}
	if !strings.Contains(out, "kept") {
		t.Errorf("warn entry missing: %q", out)
	}
}

func TestSetLevelIgnoresInvalid(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "INFO", "text")

	SetLevel("VERBOSE")

	Info("still here")
	if !strings.Contains(buf.String(), "still here") {
		t.Errorf("invalid level must not change filtering")
	}
}
