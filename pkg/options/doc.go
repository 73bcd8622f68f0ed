// SPDX-License-Identifier: MPL-2.0

// Package options declares command line flags whose defaults can come from
// several places, and lets one option group be instantiated more than once in
// the same process.
//
// # Resolution
//
// Each option is declared once with Registry.Add. The effective default of the
// resulting flag is picked from, in increasing priority:
//
//  1. the author default (Option.Default)
//  2. the caller override (Overrides, keyed by base name)
//  3. the config file default (WithFileDefaults, keyed by flag name)
//  4. the environment variable, converted to the option's ValueType
//
// A flag that ends up with a default is always optional. A flag without one is
// marked required when the declaration asks for it, using the cobra
// required-flag annotation so cobra (or CheckRequired) enforces it.
//
// # Shards
//
// A shard is a prefix that namespaces every option of a group:
//
//	reg.Shards.Register("serialport", "input")
//	reg.Add(fs, nil, options.Option{Group: "serialport", Shard: "input", Name: "port"})
//	// --input-port, $INPUT_PORT
//
// Declaring or reading a group under a shard that was never registered goes
// through the registry's InvalidShardHandler. The default handler prints a
// diagnostic and exits with status 5.
//
// After parsing, NewView gives shard-unaware code typed access to the flags of
// one shard:
//
//	v := options.NewView(fs, "input")
//	port, err := v.String("port") // reads --input-port
//
// # Environment report
//
// Every environment variable name consulted while declaring options is
// recorded in the EnvRegistry, whether it was set or not. AddEnvironmentFlag
// and HandleEnvironment implement the -e/--environment listing.
//
// The registries are plain values meant to be built once at start-up and
// passed around; Default returns a lazily built process-wide instance for
// programs that do not need more than one.
package options
