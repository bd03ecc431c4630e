package log

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

func TestLogger_Make_DefaultConfiguration(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf)

	if logger.Level() != LevelWarn {
		t.Errorf("expected default level warn, got %v", logger.Level())
	}
	if logger.Format() != FormatText {
		t.Errorf("expected default format text, got %v", logger.Format())
	}
	if logger.caller {
		t.Error("expected caller disabled by default")
	}

	logger.Info("hidden")
	logger.Warn("shown")

	output := buf.String()
	if strings.Contains(output, "hidden") {
		t.Errorf("info message logged at default level: %s", output)
	}
	if !strings.Contains(output, "msg=shown") {
		t.Errorf("expected warn message, got: %s", output)
	}
	if strings.Contains(output, "time=") {
		t.Errorf("expected no timestamp by default, got: %s", output)
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	tests := []struct {
		name  string
		level Level
		log   func(Logger)
		want  bool
	}{
		{"trace at trace", LevelTrace, func(l Logger) { l.Trace("m") }, true},
		{"trace at debug", LevelDebug, func(l Logger) { l.Trace("m") }, false},
		{"debug at debug", LevelDebug, func(l Logger) { l.Debug("m") }, true},
		{"info at warn", LevelWarn, func(l Logger) { l.Info("m") }, false},
		{"error at warn", LevelWarn, func(l Logger) { l.Error("m") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.log(Make(&buf, WithLevel(tt.level)))

			if got := buf.Len() > 0; got != tt.want {
				t.Errorf("logged = %v, want %v (%q)", got, tt.want, buf.String())
			}
		})
	}
}

func TestLogger_TraceLevelName(t *testing.T) {
	var buf bytes.Buffer
	Make(&buf, WithLevel(LevelTrace)).Trace("deep")

	if !strings.Contains(buf.String(), "level=TRACE") {
		t.Errorf("expected TRACE level name, got: %s", buf.String())
	}
}

func TestLogger_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf, WithFormat(FormatJSON), WithLevel(LevelInfo))
	logger.With(slog.String("file", "st.cmd")).Info("expanding",
		slog.Int("lines", 3))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse JSON output: %v", err)
	}

	if entry["msg"] != "expanding" {
		t.Errorf("expected msg=expanding, got %v", entry["msg"])
	}
	if entry["file"] != "st.cmd" {
		t.Errorf("expected file attribute, got %v", entry["file"])
	}
	if entry["lines"] != float64(3) {
		t.Errorf("expected lines=3, got %v", entry["lines"])
	}
}

func TestLogger_Caller(t *testing.T) {
	tests := []struct {
		name string
		log  func(Logger)
	}{
		{"Warn", func(l Logger) { l.Warn("here") }},
		{"WarnContext", func(l Logger) { l.WarnContext(context.Background(), "here") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.log(Make(&buf, WithCaller(true)))

			if !strings.Contains(buf.String(), "log_test.go") {
				t.Errorf("expected caller to point at the test file, got: %s", buf.String())
			}
		})
	}
}

func TestLogger_ZeroValue(t *testing.T) {
	var l Logger

	l.Error("dropped")

	if l.Output() != io.Discard {
		t.Errorf("expected zero value to discard, got %T", l.Output())
	}

	if l.Format() != DefaultFormat {
		t.Errorf("expected default format from zero value, got %v", l.Format())
	}

	if w := l.Wrap(WithLevel(LevelError)); w.Level() != LevelError {
		t.Errorf("expected wrapped level error, got %v", w.Level())
	}
}

func TestLogger_Pretty_KeepsAttributes(t *testing.T) {
	tests := []struct {
		name   string
		format Format
	}{
		{"text", FormatText},
		{"json", FormatJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := Make(&buf, WithPretty(true), WithFormat(tt.format))
			logger.With(slog.String("scope", "loop")).Warn("fold",
				slog.String("name", "TOTAL"))

			output := buf.String()
			for _, want := range []string{"fold", "scope", "loop", "TOTAL", "WARN"} {
				if !strings.Contains(output, want) {
					t.Errorf("expected %q in pretty output, got: %s", want, output)
				}
			}
			if strings.Contains(output, "time") {
				t.Errorf("expected timestamp to be dropped, got: %s", output)
			}
		})
	}
}

func TestLogger_Wrap_Overrides(t *testing.T) {
	var first, second bytes.Buffer

	base := Make(&first, WithLevel(LevelError))
	wrapped := base.Wrap(WithOutput(&second), WithLevel(LevelDebug))

	base.Warn("base")
	wrapped.Debug("wrapped")

	if first.Len() != 0 {
		t.Errorf("base logged below its level: %s", first.String())
	}
	if !strings.Contains(second.String(), "wrapped") {
		t.Errorf("wrapped logger did not log: %s", second.String())
	}
}

func TestLogger_ZeroValue_Safety(t *testing.T) {
	var l Logger

	l.Trace("test")
	l.Warn("test")
	l.Error("test")

	if l.With(slog.String("key", "value")).Logger != nil {
		t.Error("expected nil logger from zero value With")
	}
	if l.Level() != DefaultLevel {
		t.Errorf("expected default level from zero value, got %v", l.Level())
	}
}

func TestLogger_ConcurrentCalls(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf, WithFormat(FormatJSON))

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)

		go func() {
			defer wg.Done()
			logger.Warn("concurrent", slog.Int("n", i))
		}()
	}

	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 20 {
		t.Errorf("expected 20 log lines, got %d", len(lines))
	}
}
