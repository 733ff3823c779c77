package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", "info", false},
		{"DEBUG", "debug", false},
		{"warning", "warn", false},
		{"error", "error", false},
		{"loud", "info", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got.String() != tt.want {
				t.Errorf("ParseLevel(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestBuildJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWithWriter(Config{Level: "info", Format: "json"}, &buf)
	if err != nil {
		t.Fatalf("build error: %v", err)
	}

	logger.Debug("hidden")
	logger.Info("move applied", zap.String("game_id", "g1"), zap.String("move", "e2e4"))
	_ = logger.Sync()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d log lines, want 1: %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["msg"] != "move applied" || entry["game_id"] != "g1" || entry["level"] != "info" {
		t.Errorf("unexpected entry: %v", entry)
	}
}

func TestBuildFileTee(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "chess.log")
	var buf bytes.Buffer
	logger, err := NewWithWriter(Config{Format: "console", File: path}, &buf)
	if err != nil {
		t.Fatalf("build error: %v", err)
	}
	logger.Warn("storage degraded")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}
	if !strings.Contains(string(data), "storage degraded") {
		t.Errorf("file log missing message: %q", data)
	}
	if !strings.Contains(buf.String(), "WARN") {
		t.Errorf("console log missing level: %q", buf.String())
	}
}

func TestGlobal(t *testing.T) {
	if L() == nil {
		t.Fatal("L() returned nil before Set")
	}
	custom := zap.NewExample()
	Set(custom)
	defer Set(nil)
	if L() != custom {
		t.Error("L() did not return the logger passed to Set")
	}
}
