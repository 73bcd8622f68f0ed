// SPDX-License-Identifier: MPL-2.0

package options

import (
	"fmt"
	"slices"

	"github.com/spf13/pflag"
)

// value is the pflag.Value behind every declared option. It keeps the
// converted value so View can hand it out without reparsing.
type value struct {
	typ     ValueType
	choices []string
	val     any
	set     bool
}

var _ pflag.Value = (*value)(nil)

func newValue(typ ValueType, choices []string) *value {
	return &value{typ: typ.Resolved(), choices: choices}
}

func (v *value) String() string {
	if !v.set {
		return ""
	}
	return v.typ.Format(v.val)
}

func (v *value) Set(s string) error {
	conv, err := v.typ.Convert(s)
	if err != nil {
		return fmt.Errorf("%w: %q is not a valid %s", ErrInvalidValue, s, v.typ)
	}
	if err := v.checkChoice(conv); err != nil {
		return err
	}
	v.val, v.set = conv, true
	return nil
}

func (v *value) Type() string { return string(v.typ) }

func (v *value) checkChoice(conv any) error {
	if len(v.choices) == 0 {
		return nil
	}
	formatted := v.typ.Format(conv)
	if slices.Contains(v.choices, formatted) {
		return nil
	}
	return &InvalidChoiceError{Value: formatted, Choices: v.choices}
}
