package logging

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name   string
		config *Config
	}{
		{
			name:   "default config",
			config: nil,
		},
		{
			name: "json format",
			config: &Config{
				Level:  LevelInfo,
				Format: "json",
				Output: &bytes.Buffer{},
				Sync:   true,
			},
		},
		{
			name: "text format",
			config: &Config{
				Level:  LevelDebug,
				Format: "text",
				Output: &bytes.Buffer{},
				Sync:   true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := NewLogger(tt.config)
			if logger == nil {
				t.Error("NewLogger() returned nil")
			}
		})
	}
}

func testLogger(buf *bytes.Buffer, level LogLevel) *Logger {
	return NewLogger(&Config{
		Level:   level,
		Format:  "text",
		Output:  buf,
		Sync:    true,
		NoColor: true,
	})
}

func TestLoggerWithContext(t *testing.T) {
	var buf bytes.Buffer
	logger := testLogger(&buf, LevelDebug)

	deviceLogger := logger.WithDevice("hdmi-tx")
	deviceLogger.Info("test message")

	output := buf.String()
	if !strings.Contains(output, "device=hdmi-tx") {
		t.Errorf("Expected device=hdmi-tx in output, got: %s", output)
	}

	buf.Reset()
	opLogger := deviceLogger.WithOp("FRAME_UPDATE")
	opLogger.Info("frame message")

	output = buf.String()
	if !strings.Contains(output, "device=hdmi-tx") {
		t.Errorf("Expected device=hdmi-tx in op logger output, got: %s", output)
	}
	if !strings.Contains(output, "op=FRAME_UPDATE") {
		t.Errorf("Expected op=FRAME_UPDATE in output, got: %s", output)
	}
}

func TestLoggerWithMode(t *testing.T) {
	var buf bytes.Buffer
	logger := testLogger(&buf, LevelDebug)

	modeLogger := logger.WithMode("1280x720")
	modeLogger.Debug("entering mode")

	output := buf.String()
	if !strings.Contains(output, "mode=1280x720") {
		t.Errorf("Expected mode=1280x720 in output, got: %s", output)
	}
}

func TestLoggerWithError(t *testing.T) {
	var buf bytes.Buffer
	logger := testLogger(&buf, LevelDebug)

	testErr := errors.New("test error")
	errorLogger := logger.WithError(testErr)
	errorLogger.Error("operation failed")

	output := buf.String()
	if !strings.Contains(output, "test error") {
		t.Errorf("Expected 'test error' in output, got: %s", output)
	}
}

func TestGlobalLoggerFunctions(t *testing.T) {
	var buf bytes.Buffer
	SetDefault(testLogger(&buf, LevelDebug))

	Debug("debug message", "key", "value")
	output := buf.String()
	if !strings.Contains(output, "debug message") {
		t.Errorf("Expected debug message, got: %s", output)
	}
	if !strings.Contains(output, "key=value") {
		t.Errorf("Expected key=value, got: %s", output)
	}

	buf.Reset()
	Info("info message")
	output = buf.String()
	if !strings.Contains(output, "info message") {
		t.Errorf("Expected info message, got: %s", output)
	}

	buf.Reset()
	Warn("warning message")
	output = buf.String()
	if !strings.Contains(output, "warning message") {
		t.Errorf("Expected warning message, got: %s", output)
	}

	buf.Reset()
	Error("error message")
	output = buf.String()
	if !strings.Contains(output, "error message") {
		t.Errorf("Expected error message, got: %s", output)
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := testLogger(&buf, LevelWarn)

	logger.Debug("too quiet")
	logger.Info("still too quiet")
	if buf.Len() != 0 {
		t.Errorf("Expected no output below warn level, got: %s", buf.String())
	}

	logger.Warn("loud enough")
	if !strings.Contains(buf.String(), "loud enough") {
		t.Errorf("Expected warn output, got: %s", buf.String())
	}
}
