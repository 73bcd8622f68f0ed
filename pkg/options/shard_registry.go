// SPDX-License-Identifier: MPL-2.0

package options

import (
	"fmt"
	"io"
	"os"
	"slices"
	"sync"

	"github.com/argparseutils/argparseutils/pkg/types"
)

// InvalidShardHandler is invoked when a group is used under a shard that was
// never registered for it. The returned error is passed back to the caller.
type InvalidShardHandler func(group, shard string, registered []string) error

// ShardRegistry records which shards were registered for each option group.
// Registration is idempotent and keeps insertion order.
type ShardRegistry struct {
	mu        sync.Mutex
	groups    map[string][]string
	onInvalid InvalidShardHandler
}

// NewShardRegistry returns an empty registry. A nil handler selects
// ExitOnInvalidShard on stderr.
func NewShardRegistry(onInvalid InvalidShardHandler) *ShardRegistry {
	if onInvalid == nil {
		onInvalid = ExitOnInvalidShard(os.Stderr, os.Exit)
	}
	return &ShardRegistry{
		groups:    make(map[string][]string),
		onInvalid: onInvalid,
	}
}

// SetInvalidShardHandler replaces the handler. A nil handler is ignored.
func (r *ShardRegistry) SetInvalidShardHandler(h InvalidShardHandler) {
	if h == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onInvalid = h
}

// Register adds shard to group. Registering the same pair again is a no-op.
func (r *ShardRegistry) Register(group, shard string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if slices.Contains(r.groups[group], shard) {
		return
	}
	r.groups[group] = append(r.groups[group], shard)
}

// Registered returns the shards of group in registration order.
func (r *ShardRegistry) Registered(group string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.groups[group])
}

// IsRegistered reports whether shard was registered for group.
func (r *ShardRegistry) IsRegistered(group, shard string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Contains(r.groups[group], shard)
}

// Validate returns nil when shard is registered for group and otherwise
// defers to the invalid shard handler.
func (r *ShardRegistry) Validate(group, shard string) error {
	r.mu.Lock()
	registered := slices.Clone(r.groups[group])
	handler := r.onInvalid
	r.mu.Unlock()

	if slices.Contains(registered, shard) {
		return nil
	}
	if err := handler(group, shard, registered); err != nil {
		return err
	}
	// A handler that swallows the failure still must not let the lookup through.
	return &InvalidShardError{Group: group, Shard: shard, Registered: registered}
}

// ExitOnInvalidShard writes a diagnostic to w and calls exit with
// types.ExitInvalidShard.
func ExitOnInvalidShard(w io.Writer, exit func(int)) InvalidShardHandler {
	return func(group, shard string, registered []string) error {
		err := &InvalidShardError{Group: group, Shard: shard, Registered: registered}
		fmt.Fprintf(w, "error: %v\n", err)
		exit(int(types.ExitInvalidShard))
		return err
	}
}

// ErrorOnInvalidShard reports the invalid shard as an *InvalidShardError
// without terminating the process.
func ErrorOnInvalidShard(group, shard string, registered []string) error {
	return &InvalidShardError{Group: group, Shard: shard, Registered: registered}
}
