// SPDX-License-Identifier: MPL-2.0

package options

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Add declares opt on fs and returns how its default was resolved.
//
// The flag is named FlagName(opt.Shard, opt.Name) and its default is taken
// from the first of environment, config file, overrides and opt.Default that
// has a value. The environment variable name is recorded even when unset.
func (r *Registry) Add(fs *pflag.FlagSet, overrides Overrides, opt Option) (*Flag, error) {
	if err := opt.Validate(); err != nil {
		return nil, err
	}
	if opt.Group != "" {
		if err := r.Shards.Validate(opt.Group, opt.Shard); err != nil {
			return nil, err
		}
	}

	name := FlagName(opt.Shard, opt.Name)
	if fs.Lookup(name) != nil {
		return nil, &InvalidOptionError{Name: name, Err: ErrDuplicateOption}
	}

	typ := opt.Type.Resolved()
	envVar := EnvVarName(opt.Shard, opt.Name)
	def, src, err := r.resolveDefault(name, envVar, typ, overrides, opt)
	if err != nil {
		return nil, err
	}

	val := newValue(typ, opt.Choices)
	if src != SourceNone {
		if err := val.checkChoice(def); err != nil {
			if src == SourceEnv {
				raw, _ := r.LookupEnv(envVar)
				return nil, &EnvConversionError{Var: envVar, Value: raw, Type: typ, Err: err}
			}
			return nil, &InvalidOptionError{Name: name, Err: fmt.Errorf("%s default: %w", src, err)}
		}
		val.val, val.set = def, true
	}

	short := r.shorthand(fs, name, opt)
	f := fs.VarPF(val, name, short, usage(opt, envVar))
	// A bool defaulting to true only changes with an explicit value, so it
	// takes one: --name false.
	if typ == TypeBool && def != true {
		f.NoOptDefVal = "true"
	}

	required := src == SourceNone && opt.Required
	if required {
		if err := cobra.MarkFlagRequired(fs, name); err != nil {
			return nil, err
		}
	}

	return &Flag{
		Name:      name,
		Shorthand: short,
		EnvVar:    envVar,
		Group:     opt.Group,
		Shard:     opt.Shard,
		Type:      typ,
		Default:   def,
		Source:    src,
		Required:  required,
	}, nil
}

// MustAdd is like Add but panics on error.
func (r *Registry) MustAdd(fs *pflag.FlagSet, overrides Overrides, opt Option) *Flag {
	f, err := r.Add(fs, overrides, opt)
	if err != nil {
		panic(err)
	}
	return f
}

func (r *Registry) resolveDefault(name, envVar string, typ ValueType, overrides Overrides, opt Option) (any, Source, error) {
	var (
		def any
		src = SourceNone
	)
	if opt.Default != nil {
		def, src = opt.Default, SourceAuthor
	}
	if v, ok := overrides.Lookup(opt.Name); ok {
		def, src = v, SourceOverride
	}
	if v, ok := r.fileDefaults[name]; ok && v != nil {
		def, src = v, SourceFile
	}

	r.Env.Register(envVar)
	if raw, ok := r.LookupEnv(envVar); ok {
		conv, err := typ.Convert(raw)
		if err != nil {
			return nil, SourceNone, &EnvConversionError{Var: envVar, Value: raw, Type: typ, Err: err}
		}
		return conv, SourceEnv, nil
	}

	if src == SourceNone {
		return nil, SourceNone, nil
	}
	conv, err := typ.Convert(def)
	if err != nil {
		return nil, SourceNone, &InvalidOptionError{
			Name: name,
			Err:  fmt.Errorf("%w: %s default %v is not a valid %s", ErrInvalidValue, src, def, typ),
		}
	}
	return conv, src, nil
}

// shorthand returns the short flag to register, or "" when it has to be dropped.
func (r *Registry) shorthand(fs *pflag.FlagSet, name string, opt Option) string {
	if opt.Short == "" {
		return ""
	}
	if opt.Shard != "" {
		r.logger.Warn("dropping short flag of sharded option", "flag", "--"+name, "short", "-"+opt.Short, "shard", opt.Shard)
		return ""
	}
	if fs.ShorthandLookup(opt.Short) != nil {
		r.logger.Warn("dropping short flag already in use", "flag", "--"+name, "short", "-"+opt.Short)
		return ""
	}
	return opt.Short
}

func usage(opt Option, envVar string) string {
	var sb strings.Builder
	sb.WriteString(opt.Help)
	sb.WriteString(HelpSuffix(opt.Shard))
	if len(opt.Choices) > 0 {
		fmt.Fprintf(&sb, " {%s}", strings.Join(opt.Choices, ","))
	}
	fmt.Fprintf(&sb, " (env %s)", envVar)
	return strings.TrimSpace(sb.String())
}
