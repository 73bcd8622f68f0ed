// SPDX-License-Identifier: MPL-2.0

package options

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// TypeString is the default, so the zero ValueType declares a string option.
const (
	TypeString   ValueType = "string"
	TypeInt      ValueType = "int"
	TypeFloat    ValueType = "float"
	TypeBool     ValueType = "bool"
	TypeDuration ValueType = "duration"
)

// ValueType is the type converter tag of an option. Environment values and
// defaults are converted through it before they become flag defaults.
type ValueType string

// IsValid returns whether the ValueType is one of the defined types,
// and a list of validation errors if it is not.
// The zero value is valid and means TypeString.
func (t ValueType) IsValid() (bool, []error) {
	switch t {
	case "", TypeString, TypeInt, TypeFloat, TypeBool, TypeDuration:
		return true, nil
	default:
		return false, []error{fmt.Errorf("%w: %q", ErrInvalidValueType, string(t))}
	}
}

// Resolved returns the type with the zero value mapped to TypeString.
func (t ValueType) Resolved() ValueType {
	if t == "" {
		return TypeString
	}
	return t
}

// String returns the string representation of the ValueType.
func (t ValueType) String() string { return string(t.Resolved()) }

// Convert turns raw into a value of this type.
// Strings are parsed strictly: numbers in base 10, durations with a unit,
// and an empty string is rejected for every type except string and bool.
// Other Go values are cast.
func (t ValueType) Convert(raw any) (any, error) {
	if s, ok := raw.(string); ok {
		if t.Resolved() == TypeString {
			return s, nil
		}
		return t.parse(strings.TrimSpace(s))
	}
	switch t.Resolved() {
	case TypeInt:
		return toInt(raw)
	case TypeFloat:
		return cast.ToFloat64E(raw)
	case TypeBool:
		return cast.ToBoolE(raw)
	case TypeDuration:
		return cast.ToDurationE(raw)
	default:
		return cast.ToStringE(raw)
	}
}

func (t ValueType) parse(s string) (any, error) {
	typ := t.Resolved()
	if typ == TypeBool {
		return parseBool(s)
	}
	if s == "" {
		return nil, fmt.Errorf("%w: empty %s", ErrInvalidValue, typ)
	}
	switch typ {
	case TypeInt:
		n, err := strconv.ParseInt(s, 10, 0)
		if err != nil {
			return nil, err
		}
		return int(n), nil
	case TypeFloat:
		return strconv.ParseFloat(s, 64)
	default:
		return time.ParseDuration(s)
	}
}

// toInt casts v to int, refusing floats with a fractional part.
func toInt(v any) (int, error) {
	var f float64
	switch v := v.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	default:
		return cast.ToIntE(v)
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("%w: %v is not a whole number", ErrInvalidValue, v)
	}
	return int(f), nil
}

// Format renders a converted value the way it is parsed back by Convert.
func (t ValueType) Format(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case time.Duration:
		return v.String()
	default:
		return cast.ToString(v)
	}
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y", "on":
		return true, nil
	case "no", "n", "off", "":
		return false, nil
	}
	return cast.ToBoolE(strings.TrimSpace(s))
}
