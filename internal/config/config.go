// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"slices"

	"github.com/argparseutils/argparseutils/internal/issue"
	"github.com/argparseutils/argparseutils/pkg/platform"

	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "argparseutils"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// DefaultConfigFileExt is the extension written by CreateDefaultConfig.
	DefaultConfigFileExt = "toml"

	// maxFileSize bounds config and env files read into memory.
	maxFileSize int64 = 1 << 20
)

var (
	// SupportedExts lists config file extensions in lookup order.
	SupportedExts = []string{"cue", "toml", "yaml", "yml", "json"}

	defaultKeyPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)
)

// ConfigDir returns the configuration directory using platform-specific
// conventions: Windows uses %APPDATA%, macOS uses ~/Library/Application Support,
// and Linux/others use $XDG_CONFIG_HOME (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var configDir string

	switch runtime.GOOS {
	case platform.Windows:
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case platform.Darwin:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default:
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// FindConfigFile returns the first config.<ext> in dir and then in the current
// directory, or "" when there is none.
func FindConfigFile(dir string) string {
	for _, base := range []string{dir, "."} {
		for _, ext := range SupportedExts {
			path := filepath.Join(base, ConfigFileName+"."+ext)
			if fileExists(path) {
				return path
			}
		}
	}
	return ""
}

// loadWithOptions performs option-driven config loading without mutating
// package-level state.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	defaults := DefaultConfig()
	v := viper.New()
	v.SetDefault("invalid_shard", string(defaults.InvalidShard))
	v.SetDefault("env_file", defaults.EnvFile)

	path := opts.ConfigFilePath
	if path != "" {
		if !fileExists(path) {
			return nil, issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(path).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Check that the file exists and is readable").
				WithSuggestion("Use 'argparseutils config path' to see where configuration is looked up").
				Wrap(fmt.Errorf("config file not found: %s", path)).
				BuildError()
		}
	} else {
		cfgDir, err := configDirWithOverride(opts.ConfigDirPath)
		if err != nil {
			return nil, err
		}
		path = FindConfigFile(cfgDir)
	}

	if path != "" {
		if err := readIntoViper(v, path); err != nil {
			return nil, issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(path).
				WithSuggestion("Check the file syntax for its extension (cue, toml, yaml, json)").
				WithSuggestion("Verify the configuration values match the expected schema").
				WithSuggestion("Run 'argparseutils config dump' to see a valid configuration").
				Wrap(err).
				BuildError()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Defaults == nil {
		cfg.Defaults = map[string]any{}
	}
	cfg.Source = path

	if err := cfg.Validate(); err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(path).
			WithSuggestion("Defaults keys are full flag names such as 'input-baudrate'").
			WithSuggestion("invalid_shard must be 'exit' or 'error'").
			Wrap(err).
			BuildError()
	}

	return &cfg, nil
}

// Validate checks constraints that TOML, YAML and JSON files are not
// schema-checked for.
func (c *Config) Validate() error {
	if c.InvalidShard == "" {
		c.InvalidShard = ShardPolicyExit
	}
	if ok, errs := c.InvalidShard.IsValid(); !ok {
		return errs[0]
	}
	keys := make([]string, 0, len(c.Defaults))
	for k := range c.Defaults {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		if !defaultKeyPattern.MatchString(k) {
			return fmt.Errorf("%w: %q", ErrInvalidDefaultKey, k)
		}
		switch c.Defaults[k].(type) {
		case bool, string, int, int64, uint64, float64:
		default:
			return fmt.Errorf("%w: %q must be a bool, number or string, got %T", ErrInvalidDefaultKey, k, c.Defaults[k])
		}
	}
	return nil
}

// readIntoViper dispatches on the file extension.
func readIntoViper(v *viper.Viper, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if info.Size() > maxFileSize {
		return fmt.Errorf("%s: file size %d bytes exceeds maximum %d bytes", path, info.Size(), maxFileSize)
	}

	if filepath.Ext(path) == ".cue" {
		return loadCUEIntoViper(v, path)
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

// configDirWithOverride resolves the configuration directory, honoring
// explicit provider options before platform defaults.
func configDirWithOverride(configDirPath string) (string, error) {
	if configDirPath != "" {
		return configDirPath, nil
	}
	return ConfigDir()
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

// CreateDefaultConfig writes a default config.toml into dir (the platform
// config directory when empty) unless a config file already exists there.
// It returns the path of the existing or created file.
func CreateDefaultConfig(dir string) (path string, created bool, err error) {
	cfgDir, err := configDirWithOverride(dir)
	if err != nil {
		return "", false, err
	}
	for _, ext := range SupportedExts {
		existing := filepath.Join(cfgDir, ConfigFileName+"."+ext)
		if fileExists(existing) {
			return existing, false, nil
		}
	}

	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		return "", false, fmt.Errorf("failed to create config directory: %w", err)
	}

	content, err := GenerateTOML(DefaultConfig())
	if err != nil {
		return "", false, err
	}
	path = filepath.Join(cfgDir, ConfigFileName+"."+DefaultConfigFileExt)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", false, fmt.Errorf("failed to write config file: %w", err)
	}
	return path, true, nil
}
