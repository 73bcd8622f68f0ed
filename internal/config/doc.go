// SPDX-License-Identifier: MPL-2.0

// Package config loads the operator configuration file with Viper.
//
// The file is looked up as config.{cue,toml,yaml,yml,json} in the platform
// configuration directory ($XDG_CONFIG_HOME/argparseutils on Linux,
// ~/Library/Application Support/argparseutils on macOS, %APPDATA%\argparseutils
// on Windows) and then in the current directory, unless a path is given
// explicitly. CUE files are validated against the embedded schema
// (config_schema.cue) before being merged into Viper.
//
// The file supplies flag defaults keyed by full flag name, an optional dotenv
// file and the invalid shard policy. RegistryOptions turns a loaded Config
// into options.RegistryOption values.
package config
