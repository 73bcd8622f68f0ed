// SPDX-License-Identifier: MPL-2.0

package options

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

// View reads the flags of one shard by base name. It holds no copies, so
// values set on the flag set after the View was created are visible through it.
type View struct {
	fs    *pflag.FlagSet
	shard string
}

// NewView returns a View of fs for shard. An empty shard reads names as is.
func NewView(fs *pflag.FlagSet, shard string) View {
	return View{fs: fs, shard: shard}
}

// Shard returns the shard the View reads.
func (v View) Shard() string { return v.shard }

// FlagName returns the flag name read for base name.
func (v View) FlagName(name string) string { return FlagName(v.shard, name) }

// Lookup returns the underlying flag for base name.
func (v View) Lookup(name string) (*pflag.Flag, error) {
	f := v.fs.Lookup(v.FlagName(name))
	if f == nil {
		return nil, &UnknownOptionError{Name: name, Shard: v.shard}
	}
	return f, nil
}

// IsSet reports whether the option has a value, either given or defaulted.
func (v View) IsSet(name string) bool {
	f, err := v.Lookup(name)
	if err != nil {
		return false
	}
	if val, ok := f.Value.(*value); ok {
		return val.set
	}
	return f.Changed || f.DefValue != ""
}

// Changed reports whether the option was given on the command line.
func (v View) Changed(name string) bool {
	f, err := v.Lookup(name)
	return err == nil && f.Changed
}

// Set parses raw into the option as if it was given on the command line.
func (v View) Set(name, raw string) error {
	if _, err := v.Lookup(name); err != nil {
		return err
	}
	return v.fs.Set(v.FlagName(name), raw)
}

// String returns the textual form of the option's value, whatever its type.
func (v View) String(name string) (string, error) {
	f, err := v.Lookup(name)
	if err != nil {
		return "", err
	}
	return f.Value.String(), nil
}

// Int returns the value of an int option. Unset options read as zero.
func (v View) Int(name string) (int, error) {
	return get[int](v, name, TypeInt)
}

// Float returns the value of a float option. Unset options read as zero.
func (v View) Float(name string) (float64, error) {
	return get[float64](v, name, TypeFloat)
}

// Bool returns the value of a bool option. Unset options read as false.
func (v View) Bool(name string) (bool, error) {
	return get[bool](v, name, TypeBool)
}

// Duration returns the value of a duration option. Unset options read as zero.
func (v View) Duration(name string) (time.Duration, error) {
	return get[time.Duration](v, name, TypeDuration)
}

func get[T any](v View, name string, want ValueType) (T, error) {
	var zero T
	f, err := v.Lookup(name)
	if err != nil {
		return zero, err
	}

	raw, ok := f.Value.(*value)
	if !ok {
		// Flags declared directly on the flag set are parsed from their text.
		s := f.Value.String()
		if s == "" {
			return zero, nil
		}
		conv, err := want.Convert(s)
		if err != nil {
			return zero, fmt.Errorf("option %q: %w", name, err)
		}
		return conv.(T), nil
	}

	if raw.typ != want {
		return zero, fmt.Errorf("%w: --%s is %s, not %s", ErrWrongType, f.Name, raw.typ, want)
	}
	if !raw.set {
		return zero, nil
	}
	return raw.val.(T), nil
}
