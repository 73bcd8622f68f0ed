// SPDX-License-Identifier: MPL-2.0

package options

import (
	"fmt"
	"strings"
)

// Sources a flag default can be resolved from, in increasing priority.
const (
	SourceNone Source = iota
	SourceAuthor
	SourceOverride
	SourceFile
	SourceEnv
)

type (
	// Option declares one command line option.
	Option struct {
		// Group names the option group the option belongs to. When set, the
		// shard must be registered for it in the ShardRegistry.
		Group string
		// Name is the base name, e.g. "port". Required.
		Name string
		// Short is a single character short flag, honoured only when Shard is empty.
		Short string
		// Shard prefixes the flag and environment variable names.
		Shard string
		// Type converts environment values and defaults. Zero means TypeString.
		Type ValueType
		// Choices restricts accepted values, compared against their formatted form.
		Choices []string
		// Default is the author default. nil means no default.
		Default any
		// Required marks the flag required when no default could be resolved.
		Required bool
		// Help is the usage text. The shard label and env var name are appended.
		Help string
	}

	// Overrides are caller-supplied defaults keyed by option base name. Keys may
	// use hyphens or underscores.
	Overrides map[string]any

	// Source tells where a flag default came from.
	Source int

	// Flag describes a declared flag and how its default was resolved.
	Flag struct {
		Name      string
		Shorthand string
		EnvVar    string
		Group     string
		Shard     string
		Type      ValueType
		Default   any
		Source    Source
		Required  bool
	}
)

// Validate checks that the declaration can be registered at all.
func (o Option) Validate() error {
	if strings.TrimSpace(o.Name) == "" {
		return &InvalidOptionError{Err: ErrMissingName}
	}
	name := FlagName(o.Shard, o.Name)
	if ok, errs := o.Type.IsValid(); !ok {
		return &InvalidOptionError{Name: name, Err: errs[0]}
	}
	if o.Shard != "" && o.Group == "" {
		return &InvalidOptionError{Name: name, Err: ErrShardWithoutGroup}
	}
	if o.Short != "" && len(o.Short) != 1 {
		return &InvalidOptionError{Name: name, Err: fmt.Errorf("%w: %q", ErrInvalidShort, o.Short)}
	}
	return nil
}

// Lookup returns the override for name, trying the hyphen and the underscore
// spellings.
func (o Overrides) Lookup(name string) (any, bool) {
	if o == nil {
		return nil, false
	}
	for _, key := range []string{name, strings.ReplaceAll(name, "-", "_"), strings.ReplaceAll(name, "_", "-")} {
		if v, ok := o[key]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// String returns the string representation of the Source.
func (s Source) String() string {
	switch s {
	case SourceNone:
		return "none"
	case SourceAuthor:
		return "author"
	case SourceOverride:
		return "override"
	case SourceFile:
		return "config"
	case SourceEnv:
		return "env"
	default:
		return fmt.Sprintf("source(%d)", int(s))
	}
}

// HasDefault reports whether any default was resolved for the flag.
func (f *Flag) HasDefault() bool { return f.Source != SourceNone }
