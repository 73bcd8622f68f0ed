// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/argparseutils/argparseutils/pkg/options"

	"github.com/spf13/pflag"
)

const maskedValue = "********"

// secretFlagMarkers are name fragments whose values are never printed.
var secretFlagMarkers = []string{"password", "api-key"}

// printFlags writes one line per declared flag: name, value, environment
// variable and where the value came from.
func printFlags(w io.Writer, title string, fs *pflag.FlagSet, flags []*options.Flag) {
	fmt.Fprintln(w, TitleStyle.Render(title))

	nameWidth, valueWidth, envWidth := 0, 0, 0
	values := make([]string, len(flags))
	for i, f := range flags {
		values[i] = flagValue(fs, f)
		nameWidth = max(nameWidth, len(f.Name)+2)
		valueWidth = max(valueWidth, len(values[i]))
		envWidth = max(envWidth, len(f.EnvVar))
	}

	for i, f := range flags {
		fmt.Fprintf(w, "  %s  %s  %s  %s\n",
			CmdStyle.Width(nameWidth).Render("--"+f.Name),
			SuccessStyle.Width(valueWidth).Render(values[i]),
			CmdStyle.Width(envWidth).Render(f.EnvVar),
			SubtitleStyle.Render(flagSource(fs, f)),
		)
	}
}

func flagValue(fs *pflag.FlagSet, f *options.Flag) string {
	pf := fs.Lookup(f.Name)
	if pf == nil {
		return ""
	}
	val := pf.Value.String()
	if val == "" {
		return "(unset)"
	}
	for _, marker := range secretFlagMarkers {
		if strings.Contains(f.Name, marker) {
			return maskedValue
		}
	}
	return val
}

// flagSource reports "flag" for values given on the command line and the
// resolution source otherwise.
func flagSource(fs *pflag.FlagSet, f *options.Flag) string {
	if pf := fs.Lookup(f.Name); pf != nil && pf.Changed {
		return "flag"
	}
	return f.Source.String()
}
