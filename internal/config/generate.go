// SPDX-License-Identifier: MPL-2.0

package config

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Output formats accepted by Generate.
const (
	FormatTOML = "toml"
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// ErrUnknownFormat is returned by Generate for unsupported formats.
var ErrUnknownFormat = errors.New("unknown config format")

const tomlHeader = `# argparseutils configuration file
#
# [defaults] maps full flag names to default values. They apply below the
# environment and above built-in defaults, e.g.
#
#   [defaults]
#   input-baudrate = 19200
#   mqtt-host = "broker.local"

`

// GenerateTOML renders cfg as a commented TOML document.
func GenerateTOML(cfg *Config) (string, error) {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("failed to encode config: %w", err)
	}
	return tomlHeader + string(data), nil
}

// Generate renders cfg in one of the formats the loader reads back.
func Generate(cfg *Config, format string) (string, error) {
	switch format {
	case FormatTOML, "":
		return GenerateTOML(cfg)
	case FormatYAML:
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return "", fmt.Errorf("failed to encode config: %w", err)
		}
		return string(data), nil
	case FormatJSON:
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to encode config: %w", err)
		}
		return string(data) + "\n", nil
	default:
		return "", fmt.Errorf("%w %q (valid: toml, yaml, json)", ErrUnknownFormat, format)
	}
}
