// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
)

const (
	// ShardPolicyExit prints a diagnostic and exits with status 5.
	ShardPolicyExit InvalidShardPolicy = "exit"
	// ShardPolicyError returns the failure to the command, which reports it.
	ShardPolicyError InvalidShardPolicy = "error"
)

var (
	// ErrInvalidShardPolicy is the sentinel error wrapped by InvalidShardPolicyError.
	ErrInvalidShardPolicy = errors.New("invalid shard policy")
	// ErrInvalidDefaultKey is returned for defaults keys that cannot be flag names.
	ErrInvalidDefaultKey = errors.New("invalid defaults key")
)

type (
	// InvalidShardPolicy selects what happens when options are read under an
	// unregistered shard.
	InvalidShardPolicy string

	// InvalidShardPolicyError is returned when the policy is not one of the
	// defined values.
	InvalidShardPolicyError struct {
		Value InvalidShardPolicy
	}

	// Config is the operator configuration.
	Config struct {
		// Defaults are flag defaults keyed by full flag name, e.g. "input-baudrate".
		Defaults map[string]any `json:"defaults" mapstructure:"defaults" toml:"defaults" yaml:"defaults"`
		// EnvFile is a dotenv file consulted before the process environment.
		// Relative paths are resolved from the config file's directory.
		EnvFile string `json:"env_file" mapstructure:"env_file" toml:"env_file" yaml:"env_file"`
		// InvalidShard is the invalid shard policy.
		InvalidShard InvalidShardPolicy `json:"invalid_shard" mapstructure:"invalid_shard" toml:"invalid_shard" yaml:"invalid_shard"`

		// Source is the file the configuration was read from, empty for defaults.
		Source string `json:"-" mapstructure:"-" toml:"-" yaml:"-"`
	}
)

// Error implements the error interface.
func (e *InvalidShardPolicyError) Error() string {
	return fmt.Sprintf("invalid shard policy %q (valid: exit, error)", e.Value)
}

// Unwrap returns ErrInvalidShardPolicy for errors.Is() compatibility.
func (e *InvalidShardPolicyError) Unwrap() error { return ErrInvalidShardPolicy }

// IsValid returns whether the InvalidShardPolicy is one of the defined
// policies, and a list of validation errors if it is not.
func (p InvalidShardPolicy) IsValid() (bool, []error) {
	switch p {
	case ShardPolicyExit, ShardPolicyError:
		return true, nil
	default:
		return false, []error{&InvalidShardPolicyError{Value: p}}
	}
}

// DefaultConfig returns the configuration used when no file is found.
func DefaultConfig() *Config {
	return &Config{
		Defaults:     map[string]any{},
		InvalidShard: ShardPolicyExit,
	}
}
