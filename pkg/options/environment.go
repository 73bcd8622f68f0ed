// SPDX-License-Identifier: MPL-2.0

package options

import (
	"io"

	"github.com/spf13/pflag"
)

const (
	// EnvironmentFlagName is the long name of the environment listing flag.
	EnvironmentFlagName = "environment"
	// EnvironmentFlagShort is its short name, used when still free.
	EnvironmentFlagShort = "e"
)

// AddEnvironmentFlag declares -e/--environment on fs. Calling it again on the
// same flag set is a no-op.
func AddEnvironmentFlag(fs *pflag.FlagSet) {
	if fs.Lookup(EnvironmentFlagName) != nil {
		return
	}
	short := EnvironmentFlagShort
	if fs.ShorthandLookup(short) != nil {
		short = ""
	}
	fs.BoolP(EnvironmentFlagName, short, false, "list the environment variables understood by this program and exit")
}

// HandleEnvironment writes the environment report to w when --environment was
// given. The caller exits with status 0 when it returns true.
func (r *Registry) HandleEnvironment(fs *pflag.FlagSet, w io.Writer) (bool, error) {
	if fs.Lookup(EnvironmentFlagName) == nil {
		return false, nil
	}
	on, err := fs.GetBool(EnvironmentFlagName)
	if err != nil || !on {
		return false, err
	}
	_, err = io.WriteString(w, r.Env.RenderHelp())
	return true, err
}
