// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"io"
	"testing"

	"github.com/argparseutils/argparseutils/pkg/options"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
)

// LookupMap returns an environment lookup function backed by env.
// A nil map behaves as an empty environment.
func LookupMap(env map[string]string) func(string) (string, bool) {
	return func(name string) (string, bool) {
		v, ok := env[name]
		return v, ok
	}
}

// NewRegistry returns an options registry that reads env instead of the
// process environment, discards its log output and returns invalid shard
// errors instead of exiting. Extra options are applied last.
func NewRegistry(t testing.TB, env map[string]string, opts ...options.RegistryOption) *options.Registry {
	t.Helper()
	base := []options.RegistryOption{
		options.WithLookupEnv(LookupMap(env)),
		options.WithLogger(log.New(io.Discard)),
		options.WithInvalidShardHandler(options.ErrorOnInvalidShard),
	}
	return options.NewRegistry(append(base, opts...)...)
}

// NewFlagSet returns a flag set that reports parse errors without printing.
func NewFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// MustParse parses args into fs. The test fails immediately on error.
func MustParse(t testing.TB, fs *pflag.FlagSet, args ...string) {
	t.Helper()
	if err := fs.Parse(args); err != nil {
		t.Fatalf("failed to parse %v: %v", args, err)
	}
}
