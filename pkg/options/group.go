// SPDX-License-Identifier: MPL-2.0

package options

import "github.com/spf13/pflag"

// Declarer declares the options of one group under one shard. The first
// error sticks; later Add calls are no-ops and Err reports it.
type Declarer struct {
	reg       *Registry
	fs        *pflag.FlagSet
	group     string
	shard     string
	overrides Overrides
	flags     []*Flag
	err       error
}

// Declare registers shard for group and returns a Declarer for its options.
func (r *Registry) Declare(fs *pflag.FlagSet, group, shard string, overrides Overrides) *Declarer {
	r.Shards.Register(group, shard)
	return &Declarer{reg: r, fs: fs, group: group, shard: shard, overrides: overrides}
}

// Add declares opt with the Declarer's group and shard.
func (d *Declarer) Add(opt Option) *Flag {
	if d.err != nil {
		return nil
	}
	opt.Group, opt.Shard = d.group, d.shard
	f, err := d.reg.Add(d.fs, d.overrides, opt)
	if err != nil {
		d.err = err
		return nil
	}
	d.flags = append(d.flags, f)
	return f
}

// Flags returns the flags declared so far.
func (d *Declarer) Flags() []*Flag { return d.flags }

// Err returns the first declaration error.
func (d *Declarer) Err() error { return d.err }
