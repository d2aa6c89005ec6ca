package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter("warn", &buf)

	logger.Info("should be dropped")
	logger.Warn("should be kept", "key", "value")

	out := buf.String()
	if strings.Contains(out, "should be dropped") {
		t.Error("info record emitted at warn level")
	}
	if !strings.Contains(out, "should be kept") {
		t.Error("warn record missing")
	}
}

func TestNewEmitsJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter("info", &buf)

	logger.Info("hello", "count", 3)

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if record["msg"] != "hello" {
		t.Errorf("expected msg hello, got %v", record["msg"])
	}
	if record["count"] != float64(3) {
		t.Errorf("expected count 3, got %v", record["count"])
	}
}

func TestNewUnknownLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter("verbose", &buf)

	logger.Debug("dropped")
	logger.Info("kept")

	if strings.Contains(buf.String(), "dropped") {
		t.Error("debug record emitted at default level")
	}
	if !strings.Contains(buf.String(), "kept") {
		t.Error("info record missing")
	}
}
