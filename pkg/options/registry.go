// SPDX-License-Identifier: MPL-2.0

package options

import (
	"io"
	"maps"
	"os"
	"sync"

	"github.com/charmbracelet/log"
)

type (
	// Registry holds the environment and shard registries together with the
	// default sources consulted when options are declared.
	Registry struct {
		Env    *EnvRegistry
		Shards *ShardRegistry

		lookupEnv    func(string) (string, bool)
		envFile      map[string]string
		fileDefaults map[string]any
		logger       *log.Logger
	}

	// RegistryOption configures a Registry.
	RegistryOption func(*Registry)
)

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// NewRegistry returns a Registry reading the process environment, logging to
// stderr and exiting on invalid shards unless configured otherwise.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		Env:       NewEnvRegistry(),
		Shards:    NewShardRegistry(nil),
		lookupEnv: os.LookupEnv,
		logger:    newLogger(os.Stderr),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Default returns the process-wide Registry, built on first use.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// WithLookupEnv replaces the process environment lookup.
func WithLookupEnv(fn func(string) (string, bool)) RegistryOption {
	return func(r *Registry) {
		if fn != nil {
			r.lookupEnv = fn
		}
	}
}

// WithEnvMap adds variables, typically read from a dotenv file, that are
// consulted before the process environment.
func WithEnvMap(env map[string]string) RegistryOption {
	return func(r *Registry) {
		if r.envFile == nil {
			r.envFile = make(map[string]string, len(env))
		}
		maps.Copy(r.envFile, env)
	}
}

// WithFileDefaults adds config file defaults keyed by full flag name.
func WithFileDefaults(defaults map[string]any) RegistryOption {
	return func(r *Registry) {
		if r.fileDefaults == nil {
			r.fileDefaults = make(map[string]any, len(defaults))
		}
		maps.Copy(r.fileDefaults, defaults)
	}
}

// WithLogger sets the logger used for declaration warnings.
func WithLogger(logger *log.Logger) RegistryOption {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithInvalidShardHandler replaces the invalid shard policy.
func WithInvalidShardHandler(h InvalidShardHandler) RegistryOption {
	return func(r *Registry) {
		r.Shards.SetInvalidShardHandler(h)
	}
}

// Logger returns the registry logger.
func (r *Registry) Logger() *log.Logger { return r.logger }

// LookupEnv looks name up in the env map first and then in the environment.
// It does not record the name.
func (r *Registry) LookupEnv(name string) (string, bool) {
	if v, ok := r.envFile[name]; ok {
		return v, true
	}
	return r.lookupEnv(name)
}

func newLogger(w io.Writer) *log.Logger {
	return log.NewWithOptions(w, log.Options{Prefix: "options"})
}
