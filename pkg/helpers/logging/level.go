// SPDX-License-Identifier: MPL-2.0

package logging

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
)

// TraceLevel sits below log.DebugLevel for very chatty diagnostics.
const TraceLevel = log.DebugLevel - 4

// ErrInvalidLevel is returned by ParseLevel for unknown level names.
var ErrInvalidLevel = errors.New("invalid log level")

// levelNames lists the accepted level names, least severe first.
// WARNING and CRITICAL are accepted aliases.
var levelNames = []struct {
	name  string
	level log.Level
}{
	{"TRACE", TraceLevel},
	{"DEBUG", log.DebugLevel},
	{"INFO", log.InfoLevel},
	{"WARN", log.WarnLevel},
	{"WARNING", log.WarnLevel},
	{"ERROR", log.ErrorLevel},
	{"CRITICAL", log.FatalLevel},
	{"FATAL", log.FatalLevel},
}

// LevelNames returns the accepted level names.
func LevelNames() []string {
	names := make([]string, len(levelNames))
	for i, l := range levelNames {
		names[i] = l.name
	}
	return names
}

// ParseLevel maps a level name, case-insensitively, to its level.
func ParseLevel(name string) (log.Level, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	for _, l := range levelNames {
		if l.name == upper {
			return l.level, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidLevel, name)
}

// LevelName returns the canonical name of level.
func LevelName(level log.Level) string {
	if level == TraceLevel {
		return "TRACE"
	}
	return strings.ToUpper(level.String())
}
