// SPDX-License-Identifier: MPL-2.0

package options

import (
	"maps"
	"slices"
	"strings"
	"sync"
)

// EnvRegistry records the environment variable names consulted while options
// are declared, whether or not they were set.
type EnvRegistry struct {
	mu     sync.Mutex
	counts map[string]int
}

// NewEnvRegistry returns an empty EnvRegistry.
func NewEnvRegistry() *EnvRegistry {
	return &EnvRegistry{counts: make(map[string]int)}
}

// Register records name as consulted.
func (r *EnvRegistry) Register(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counts[name]++
}

// Count returns how many times name was consulted.
func (r *EnvRegistry) Count(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts[name]
}

// Known returns the recorded names, sorted and without duplicates.
func (r *EnvRegistry) Known() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Sorted(maps.Keys(r.counts))
}

// RenderHelp renders the report printed by -e/--environment.
func (r *EnvRegistry) RenderHelp() string {
	known := r.Known()

	var sb strings.Builder
	sb.WriteString("Environment variables:\n")
	if len(known) == 0 {
		sb.WriteString("  (none)\n")
		return sb.String()
	}
	for _, name := range known {
		sb.WriteString("  ")
		sb.WriteString(name)
		sb.WriteByte('\n')
	}
	return sb.String()
}
