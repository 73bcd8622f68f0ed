// SPDX-License-Identifier: MPL-2.0

// Package socket declares the address and port a server binds to.
package socket

import (
	"context"
	"fmt"
	"net"

	"github.com/argparseutils/argparseutils/pkg/options"
	"github.com/argparseutils/argparseutils/pkg/types"

	"github.com/spf13/pflag"
)

// Group is the option group name used for shard registration.
const Group = "socket"

// DefaultShard is the shard used when a program binds a single HTTP server.
const DefaultShard = "http"

// Config is a bind address.
type Config struct {
	Address string
	Port    types.Port
}

// AddFlags declares the address and port options of shard on fs.
func AddFlags(reg *options.Registry, fs *pflag.FlagSet, shard string, overrides options.Overrides) ([]*options.Flag, error) {
	d := reg.Declare(fs, Group, shard, overrides)
	d.Add(options.Option{Name: "address", Default: "0.0.0.0",
		Help: "The IP address to bind to"})
	d.Add(options.Option{Name: "port", Type: options.TypeInt, Default: 8080,
		Help: "The port to bind to"})
	return d.Flags(), d.Err()
}

// FromFlags reads the bind address of shard from a parsed flag set.
func FromFlags(reg *options.Registry, fs *pflag.FlagSet, shard string) (Config, error) {
	if err := reg.Shards.Validate(Group, shard); err != nil {
		return Config{}, err
	}
	r := options.NewReader(fs, shard)
	cfg := Config{
		Address: r.String("address"),
		Port:    types.Port(r.Int("port")),
	}
	if err := r.Err(); err != nil {
		return Config{}, err
	}
	if err := cfg.Port.Validate(); err != nil {
		return Config{}, fmt.Errorf("--%s: %w", options.FlagName(shard, "port"), err)
	}
	return cfg, nil
}

// Addr returns the address in host:port form.
func (cfg Config) Addr() string {
	return net.JoinHostPort(cfg.Address, cfg.Port.String())
}

// Listen binds a TCP listener on cfg.
func Listen(ctx context.Context, cfg Config) (net.Listener, error) {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", cfg.Addr())
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", cfg.Addr(), err)
	}
	return ln, nil
}
