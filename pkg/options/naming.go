// SPDX-License-Identifier: MPL-2.0

package options

import "strings"

// FlagName returns the long flag name of option name under shard.
// Example: ("input", "port") -> "input-port"
func FlagName(shard, name string) string {
	if shard == "" {
		return name
	}
	return shard + "-" + name
}

// EnvVarName returns the environment variable consulted for option name under shard.
// Example: ("input", "write-timeout") -> "INPUT_WRITE_TIMEOUT"
func EnvVarName(shard, name string) string {
	envName := envSegment(name)
	if shard == "" {
		return envName
	}
	return envSegment(shard) + "_" + envName
}

// HelpSuffix returns the label appended to help texts of sharded options.
func HelpSuffix(shard string) string {
	if shard == "" {
		return ""
	}
	return " [" + shard + "]"
}

func envSegment(s string) string {
	return strings.ToUpper(strings.ReplaceAll(s, "-", "_"))
}

// shardLabel is used in diagnostics where the unsharded group would otherwise print as "".
func shardLabel(shard string) string {
	if shard == "" {
		return "(default)"
	}
	return shard
}
