// SPDX-License-Identifier: MPL-2.0

// Package logging declares log level and format options and builds
// charmbracelet/log loggers from them, including a TRACE level below DEBUG.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/argparseutils/argparseutils/pkg/options"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
)

// Group is the option group name used for shard registration.
const Group = "logging"

// Output formats accepted by the log-format option.
const (
	FormatText   = "text"
	FormatJSON   = "json"
	FormatLogfmt = "logfmt"
)

// Config is the resolved logging configuration.
type Config struct {
	Level           log.Level
	Format          string
	File            string
	ReportCaller    bool
	ReportTimestamp bool
}

// AddFlags declares the log-* options of shard on fs.
func AddFlags(reg *options.Registry, fs *pflag.FlagSet, shard string, overrides options.Overrides) ([]*options.Flag, error) {
	d := reg.Declare(fs, Group, shard, overrides)
	d.Add(options.Option{Name: "log-level", Default: "INFO", Choices: LevelNames(),
		Help: "The log level to use"})
	d.Add(options.Option{Name: "log-format", Default: FormatText, Choices: []string{FormatText, FormatJSON, FormatLogfmt},
		Help: "The log output format"})
	d.Add(options.Option{Name: "log-file",
		Help: "Append log output to this file instead of stderr"})
	d.Add(options.Option{Name: "log-caller", Type: options.TypeBool, Default: false,
		Help: "Report the file and line of each log call"})
	d.Add(options.Option{Name: "log-timestamp", Type: options.TypeBool, Default: true,
		Help: "Prefix log lines with a timestamp"})
	return d.Flags(), d.Err()
}

// FromFlags reads the logging configuration of shard from a parsed flag set.
func FromFlags(reg *options.Registry, fs *pflag.FlagSet, shard string) (Config, error) {
	if err := reg.Shards.Validate(Group, shard); err != nil {
		return Config{}, err
	}
	r := options.NewReader(fs, shard)
	levelName := r.String("log-level")
	cfg := Config{
		Format:          r.String("log-format"),
		File:            r.String("log-file"),
		ReportCaller:    r.Bool("log-caller"),
		ReportTimestamp: r.Bool("log-timestamp"),
	}
	if err := r.Err(); err != nil {
		return Config{}, err
	}
	level, err := ParseLevel(levelName)
	if err != nil {
		return Config{}, err
	}
	cfg.Level = level
	return cfg, nil
}

// NewLogger returns a logger writing to w according to cfg.
func NewLogger(cfg Config, w io.Writer) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		Level:           cfg.Level,
		Formatter:       formatter(cfg.Format),
		ReportCaller:    cfg.ReportCaller,
		ReportTimestamp: cfg.ReportTimestamp,
	})
	logger.SetStyles(Styles())
	return logger
}

// Open returns a logger for cfg writing to cfg.File, or to stderr when no
// file is configured. The returned closer releases the file.
func Open(cfg Config) (*log.Logger, io.Closer, error) {
	if cfg.File == "" {
		return NewLogger(cfg, os.Stderr), io.NopCloser(os.Stderr), nil
	}
	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return NewLogger(cfg, f), f, nil
}

// Styles returns the default styles with TRACE added.
func Styles() *log.Styles {
	styles := log.DefaultStyles()
	styles.Levels[TraceLevel] = lipgloss.NewStyle().
		SetString("TRACE").
		Bold(true).
		MaxWidth(4).
		Foreground(lipgloss.Color("245"))
	return styles
}

// Trace logs msg at TraceLevel.
func Trace(logger *log.Logger, msg string, keyvals ...any) {
	logger.Log(TraceLevel, msg, keyvals...)
}

func formatter(format string) log.Formatter {
	switch format {
	case FormatJSON:
		return log.JSONFormatter
	case FormatLogfmt:
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}
