// SPDX-License-Identifier: MPL-2.0

package options

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
)

// newTestRegistry returns a registry isolated from the process environment
// that reports invalid shards as errors.
func newTestRegistry(t *testing.T, env map[string]string, opts ...RegistryOption) *Registry {
	t.Helper()
	base := []RegistryOption{
		WithLookupEnv(func(name string) (string, bool) {
			v, ok := env[name]
			return v, ok
		}),
		WithLogger(log.New(io.Discard)),
		WithInvalidShardHandler(ErrorOnInvalidShard),
	}
	return NewRegistry(append(base, opts...)...)
}

func newTestFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}
