// SPDX-License-Identifier: MPL-2.0

package logging

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/argparseutils/argparseutils/internal/testutil"

	"github.com/charmbracelet/log"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		want    log.Level
		wantErr bool
	}{
		{"TRACE", TraceLevel, false},
		{"trace", TraceLevel, false},
		{"DEBUG", log.DebugLevel, false},
		{"INFO", log.InfoLevel, false},
		{"WARNING", log.WarnLevel, false},
		{"CRITICAL", log.FatalLevel, false},
		{"VERBOSE", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseLevel(tt.name)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidLevel) {
					t.Errorf("ParseLevel(%q) error = %v, want ErrInvalidLevel", tt.name, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, %v, want %v", tt.name, got, err, tt.want)
			}
		})
	}

	if TraceLevel >= log.DebugLevel {
		t.Error("TraceLevel must be below DebugLevel")
	}
	if LevelName(TraceLevel) != "TRACE" || LevelName(log.WarnLevel) != "WARN" {
		t.Errorf("LevelName() = %q/%q", LevelName(TraceLevel), LevelName(log.WarnLevel))
	}
}

func TestFromFlags(t *testing.T) {
	t.Parallel()

	reg := testutil.NewRegistry(t, map[string]string{"LOG_LEVEL": "TRACE"})
	fs := testutil.NewFlagSet("logging")
	if _, err := AddFlags(reg, fs, "", nil); err != nil {
		t.Fatalf("AddFlags() unexpected error: %v", err)
	}
	testutil.MustParse(t, fs, "--log-format", "json", "--log-timestamp=false")

	cfg, err := FromFlags(reg, fs, "")
	if err != nil {
		t.Fatalf("FromFlags() unexpected error: %v", err)
	}
	want := Config{Level: TraceLevel, Format: FormatJSON}
	if cfg != want {
		t.Errorf("FromFlags() = %+v, want %+v", cfg, want)
	}
}

func TestAddFlags_RejectsUnknownLevel(t *testing.T) {
	t.Parallel()

	reg := testutil.NewRegistry(t, nil)
	fs := testutil.NewFlagSet("logging")
	if _, err := AddFlags(reg, fs, "", nil); err != nil {
		t.Fatalf("AddFlags() unexpected error: %v", err)
	}
	if err := fs.Parse([]string{"--log-level", "LOUD"}); err == nil {
		t.Error("Parse(--log-level LOUD) should fail")
	}
}

func TestNewLogger_Trace(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewLogger(Config{Level: TraceLevel, Format: FormatText}, &buf)
	Trace(logger, "A TRACE log message", "step", 1)

	out := buf.String()
	if !strings.Contains(out, "TRAC") || !strings.Contains(out, "A TRACE log message") {
		t.Errorf("output = %q, want a TRACE line", out)
	}

	buf.Reset()
	quiet := NewLogger(Config{Level: log.InfoLevel, Format: FormatText}, &buf)
	Trace(quiet, "hidden")
	quiet.Debug("hidden too")
	quiet.Info("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Errorf("output = %q, want only the info line", buf.String())
	}
}

func TestNewLogger_Formats(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format string
		want   string
	}{
		{FormatJSON, `"msg":"hello"`},
		{FormatLogfmt, "msg=hello"},
		{FormatText, "hello"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			NewLogger(Config{Level: log.InfoLevel, Format: tt.format}, &buf).Info("hello")
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("output = %q, want it to contain %q", buf.String(), tt.want)
			}
		})
	}
}

func TestOpen_File(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "app.log")
	logger, closer, err := Open(Config{Level: log.InfoLevel, Format: FormatLogfmt, File: path})
	if err != nil {
		t.Fatalf("Open() unexpected error: %v", err)
	}
	logger.Info("to file")
	testutil.MustClose(t, closer)

	data, err := os.ReadFile(path)
	if err != nil || !strings.Contains(string(data), "to file") {
		t.Errorf("log file = %q, %v", data, err)
	}

	logger, closer, err = Open(Config{Level: log.InfoLevel, Format: FormatLogfmt, File: filepath.Join(path, "nested")})
	if err == nil {
		testutil.MustClose(t, closer)
		t.Fatalf("Open() under a regular file should fail, got logger %v", logger)
	}
}
