// Package logging constructs hclog loggers with launcher-wide settings.
package logging

import (
	"io"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
)

// NewLogger creates a new hclog logger with standard settings
func NewLogger(name string, level string, output io.Writer) hclog.Logger {
	if output == nil {
		output = defaultOutput()
	}

	jsonFormat := false
	actualLevel := level

	// Level strings may request JSON output (e.g. "json:debug" or just "json")
	if strings.HasPrefix(level, "json") {
		jsonFormat = true
		if _, rest, ok := strings.Cut(level, ":"); ok {
			actualLevel = rest
		} else {
			actualLevel = "info"
		}
	}
	if os.Getenv("CRAFT_JSON_LOG") == "1" {
		jsonFormat = true
	}

	// Add prefix for non-JSON output (ASCII on Windows, emoji on Unix)
	if !jsonFormat {
		prefix := "[CRAFT] "
		if runtime.GOOS != "windows" {
			prefix = "⛏️ "
		}
		output = NewPrefixWriter(prefix, output)
	}

	opts := &hclog.LoggerOptions{
		Name:       name,
		Level:      hclog.LevelFromString(actualLevel),
		JSONFormat: jsonFormat,
		Output:     output,
		TimeFormat: "2006-01-02T15:04:05Z", // UTC ISO format
		TimeFn: func() time.Time {
			return time.Now().UTC()
		},
	}

	return hclog.New(opts)
}

// GetLogLevel returns the configured log level from environment
func GetLogLevel() string {
	level := os.Getenv("CRAFT_LOG_LEVEL")
	if level == "" {
		level = "info"
	}
	return level
}

// defaultOutput returns stderr, or the file named by CRAFT_LOG_PATH when set.
func defaultOutput() io.Writer {
	if logPath := os.Getenv("CRAFT_LOG_PATH"); logPath != "" {
		if file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
			return file
		}
	}
	return os.Stderr
}
