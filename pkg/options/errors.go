// SPDX-License-Identifier: MPL-2.0

package options

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingName is returned when an option is declared without a base name.
	ErrMissingName = errors.New("option name is required")
	// ErrInvalidValueType is returned for a ValueType outside the known set.
	ErrInvalidValueType = errors.New("invalid value type")
	// ErrInvalidShort is returned when a short flag is not a single character.
	ErrInvalidShort = errors.New("invalid short flag")
	// ErrShardWithoutGroup is returned when an option has a shard but no group to validate it against.
	ErrShardWithoutGroup = errors.New("sharded option needs a group")
	// ErrDuplicateOption is returned when a flag name is declared twice on one flag set.
	ErrDuplicateOption = errors.New("option already declared")
	// ErrInvalidShard is the sentinel wrapped by InvalidShardError.
	ErrInvalidShard = errors.New("invalid shard")
	// ErrEnvConversion is the sentinel wrapped by EnvConversionError.
	ErrEnvConversion = errors.New("invalid environment value")
	// ErrInvalidValue is returned when a value cannot be converted to the option's type.
	ErrInvalidValue = errors.New("invalid value")
	// ErrInvalidChoice is the sentinel wrapped by InvalidChoiceError.
	ErrInvalidChoice = errors.New("invalid choice")
	// ErrUnknownOption is the sentinel wrapped by UnknownOptionError.
	ErrUnknownOption = errors.New("unknown option")
	// ErrWrongType is returned when a View getter does not match the option's type.
	ErrWrongType = errors.New("option has a different type")
	// ErrMissingRequired is the sentinel wrapped by MissingRequiredError.
	ErrMissingRequired = errors.New("required flag not set")
)

type (
	// InvalidOptionError is returned for declarations that can never succeed.
	// These are programming errors in the embedding code.
	InvalidOptionError struct {
		Name string
		Err  error
	}

	// InvalidShardError is returned by ErrorOnInvalidShard when a group is used
	// under a shard that was never registered for it.
	InvalidShardError struct {
		Group      string
		Shard      string
		Registered []string
	}

	// EnvConversionError is returned when an environment variable holds a value
	// that cannot be converted to the option's type. There is no fallback to
	// the other defaults.
	EnvConversionError struct {
		Var   string
		Value string
		Type  ValueType
		Err   error
	}

	// InvalidChoiceError is returned when a value is not one of the declared choices.
	InvalidChoiceError struct {
		Value   string
		Choices []string
	}

	// UnknownOptionError is returned by View when the shard-qualified flag does not exist.
	UnknownOptionError struct {
		Name  string
		Shard string
	}

	// MissingRequiredError lists required flags that were neither defaulted nor given.
	MissingRequiredError struct {
		Flags []string
	}
)

// Error implements the error interface.
func (e *InvalidOptionError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("invalid option declaration: %v", e.Err)
	}
	return fmt.Sprintf("invalid option --%s: %v", e.Name, e.Err)
}

// Unwrap returns the underlying cause.
func (e *InvalidOptionError) Unwrap() error { return e.Err }

// Error implements the error interface.
func (e *InvalidShardError) Error() string {
	registered := make([]string, len(e.Registered))
	for i, s := range e.Registered {
		registered[i] = shardLabel(s)
	}
	return fmt.Sprintf("invalid shard %q for %s (registered: %s)",
		e.Shard, e.Group, strings.Join(registered, ", "))
}

// Unwrap returns ErrInvalidShard for errors.Is() compatibility.
func (e *InvalidShardError) Unwrap() error { return ErrInvalidShard }

// Error implements the error interface.
func (e *EnvConversionError) Error() string {
	return fmt.Sprintf("environment variable %s=%q is not a valid %s: %v", e.Var, e.Value, e.Type, e.Err)
}

// Unwrap returns both ErrEnvConversion and the conversion failure.
func (e *EnvConversionError) Unwrap() []error { return []error{ErrEnvConversion, e.Err} }

// Error implements the error interface.
func (e *InvalidChoiceError) Error() string {
	return fmt.Sprintf("invalid choice %q (choose from %s)", e.Value, strings.Join(e.Choices, ", "))
}

// Unwrap returns ErrInvalidChoice for errors.Is() compatibility.
func (e *InvalidChoiceError) Unwrap() error { return ErrInvalidChoice }

// Error implements the error interface.
func (e *UnknownOptionError) Error() string {
	return fmt.Sprintf("unknown option %q (flag --%s)", e.Name, FlagName(e.Shard, e.Name))
}

// Unwrap returns ErrUnknownOption for errors.Is() compatibility.
func (e *UnknownOptionError) Unwrap() error { return ErrUnknownOption }

// Error implements the error interface. The wording follows cobra's.
func (e *MissingRequiredError) Error() string {
	return fmt.Sprintf(`required flag(s) "%s" not set`, strings.Join(e.Flags, `", "`))
}

// Unwrap returns ErrMissingRequired for errors.Is() compatibility.
func (e *MissingRequiredError) Unwrap() error { return ErrMissingRequired }
