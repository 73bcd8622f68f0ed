// SPDX-License-Identifier: MPL-2.0

package config

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/argparseutils/argparseutils/pkg/options"

	"github.com/joho/godotenv"
)

// EnvFilePath returns the dotenv file to read. An explicit path wins over
// env_file, which is resolved relative to the config file's directory.
func (c *Config) EnvFilePath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if c.EnvFile == "" || filepath.IsAbs(c.EnvFile) || c.Source == "" {
		return c.EnvFile
	}
	return filepath.Join(filepath.Dir(c.Source), c.EnvFile)
}

// LoadEnvFile reads a dotenv file. An empty path yields an empty map.
func LoadEnvFile(path string) (map[string]string, error) {
	if path == "" {
		return map[string]string{}, nil
	}
	if !fileExists(path) {
		return nil, fmt.Errorf("env file not found: %s", path)
	}
	env, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse env file %s: %w", path, err)
	}
	return env, nil
}

// RegistryOptions turns the configuration into registry options: file
// defaults, the dotenv map and the invalid shard policy. Under the exit
// policy the diagnostic goes to w and exit is called with status 5.
func (c *Config) RegistryOptions(env map[string]string, w io.Writer, exit func(int)) []options.RegistryOption {
	var handler options.InvalidShardHandler = options.ErrorOnInvalidShard
	if c.InvalidShard != ShardPolicyError {
		handler = options.ExitOnInvalidShard(w, exit)
	}
	return []options.RegistryOption{
		options.WithFileDefaults(c.Defaults),
		options.WithEnvMap(env),
		options.WithInvalidShardHandler(handler),
	}
}
