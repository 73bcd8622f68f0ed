// SPDX-License-Identifier: MPL-2.0

package options

import (
	"slices"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// CheckRequired returns a *MissingRequiredError listing the required flags of
// fs that were not given. It applies the same rule cobra does before running
// a command, for flag sets parsed outside of cobra.
func CheckRequired(fs *pflag.FlagSet) error {
	var missing []string
	fs.VisitAll(func(f *pflag.Flag) {
		if IsRequired(f) && !f.Changed {
			missing = append(missing, f.Name)
		}
	})
	if len(missing) == 0 {
		return nil
	}
	slices.Sort(missing)
	return &MissingRequiredError{Flags: missing}
}

// IsRequired reports whether f carries the cobra required-flag annotation.
func IsRequired(f *pflag.Flag) bool {
	vals, ok := f.Annotations[cobra.BashCompOneRequiredFlag]
	return ok && len(vals) > 0 && vals[0] == "true"
}
