package logging_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"voxtype/internal/config"
	"voxtype/internal/logging"
)

func readLog(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	return string(content)
}

func TestNewFromConfigConsole(t *testing.T) {
	cfg := config.Default()
	logger, err := logging.NewFromConfig(&cfg, "")
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	if logger == nil {
		t.Fatal("expected logger instance")
	}
	if logger.Enabled(t.Context(), slog.LevelDebug) {
		t.Fatal("default config should not enable debug")
	}
}

func TestNewFromConfigLevelOverride(t *testing.T) {
	cfg := config.Default()
	logger, err := logging.NewFromConfig(&cfg, "debug")
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	if !logger.Enabled(t.Context(), slog.LevelDebug) {
		t.Fatal("override should enable debug")
	}
}

func TestConsoleLoggerFormatsComponentAndFields(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logging.NewComponentLogger(logger, "statusbus").Info("upstream connected", logging.String(logging.FieldSessionID, "abc"), logging.String("note", "two words"))

	content := readLog(t, logPath)
	if !strings.Contains(content, "INFO  [statusbus] upstream connected") {
		t.Fatalf("unexpected console line %q", content)
	}
	if !strings.Contains(content, "session_id=abc") || !strings.Contains(content, `note="two words"`) {
		t.Fatalf("missing fields in %q", content)
	}
	if strings.Contains(content, ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", content)
	}
}

func TestConsoleLoggerIncludesCallerForDebug(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console-debug.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "debug", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("message with caller")

	if content := readLog(t, logPath); !strings.Contains(content, ".go:") {
		t.Fatalf("expected caller information in debug logs, got %q", content)
	}
}

func TestJSONLoggerKeys(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "json.log")
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Warn("stale lock", logging.Int(logging.FieldPID, 42))

	content := readLog(t, logPath)
	for _, want := range []string{`"ts":`, `"level":"warn"`, `"msg":"stale lock"`, `"pid":42`} {
		if !strings.Contains(content, want) {
			t.Fatalf("expected %s in %q", want, content)
		}
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestParseLevelDefaultsToInfo(t *testing.T) {
	if logging.ParseLevel("invalid") != slog.LevelInfo {
		t.Fatal("unknown level should map to info")
	}
	if logging.ParseLevel("WARNING") != slog.LevelWarn {
		t.Fatal("warning alias should map to warn")
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "warn.log")
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logging.WarnWithContext(logger, "spawn failed", "status_spawn_failed", logging.String(logging.FieldErrorHint, "is voxtype on PATH?"))

	content := readLog(t, logPath)
	for _, want := range []string{`"event_type":"status_spawn_failed"`, `"error_hint":"is voxtype on PATH?"`, `"impact":`} {
		if !strings.Contains(content, want) {
			t.Fatalf("expected %s in %q", want, content)
		}
	}
}

func TestNewNopDiscards(t *testing.T) {
	logger := logging.NewNop()
	if logger.Enabled(t.Context(), slog.LevelError) {
		t.Fatal("nop logger should never be enabled")
	}
}
