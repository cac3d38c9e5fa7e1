package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	log, err := New(Options{JSON: true, Debug: true, Output: path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	log.Debug("analysis computed", zap.String(FieldUserID, "u-1"))
	_ = log.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	line := string(data)
	if !strings.Contains(line, `"step":"analysis computed"`) || !strings.Contains(line, `"user_id":"u-1"`) {
		t.Fatalf("unexpected log line: %s", line)
	}
}

func TestNewSkipsDebugByDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	log, err := New(Options{Output: path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	log.Debug("hidden")
	log.Info("shown")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if strings.Contains(string(data), "hidden") || !strings.Contains(string(data), "shown") {
		t.Fatalf("unexpected log output: %s", data)
	}
}

func TestOutputPathDefaultsToStderr(t *testing.T) {
	if got := outputPath("  "); got != OutputStderr {
		t.Fatalf("expected %q, got %q", OutputStderr, got)
	}
	if got := outputPath(OutputStdout); got != OutputStdout {
		t.Fatalf("expected %q, got %q", OutputStdout, got)
	}
}

func TestStringFields(t *testing.T) {
	fields := StringFields(
		StringField{Key: "  user_id  ", Value: "  u-1  "},
		StringField{Key: "ignored", Value: "   "},
		StringField{Key: "   ", Value: "empty key"},
	)

	if len(fields) != 1 {
		t.Fatalf("expected 1 field, got %d", len(fields))
	}

	if fields[0].Key != "user_id" || fields[0].String != "u-1" {
		t.Fatalf("unexpected field: %+v", fields[0])
	}
}

func TestWithCommonFields(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)

	WithCommonFields(zap.New(core), "groq", "llama").Info("test log")

	entries := observed.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	ctx := entries[0].ContextMap()
	if ctx[FieldProvider] != "groq" || ctx[FieldModel] != "llama" {
		t.Fatalf("unexpected context: %v", ctx)
	}

	// Falls back to a no-op logger.
	WithCommonFields(nil, "gemini", "model-x").Info("another log")
}

func TestAnalysisFields(t *testing.T) {
	fields := AnalysisFields("u-1", "")
	if len(fields) != 1 || fields[0].Key != FieldUserID {
		t.Fatalf("expected only the user field, got %+v", fields)
	}
}

func TestTruncateForLog(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		limit  int
		expect string
	}{
		{name: "returns empty when limit non-positive", input: "hello world", limit: 0, expect: ""},
		{name: "shorter than limit", input: "hello", limit: 10, expect: "hello"},
		{name: "truncates and adds ellipsis", input: "hello world", limit: 5, expect: "hello..."},
		{name: "counts runes", input: "привет мир", limit: 6, expect: "привет..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := TruncateForLog(tt.input, tt.limit); got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}
