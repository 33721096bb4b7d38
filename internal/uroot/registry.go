// SPDX-License-Identifier: MPL-2.0

package uroot

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// DefaultRegistry holds every command this package registers at init.
var DefaultRegistry = NewRegistry()

// Registry maps command names to implementations. It is safe for
// concurrent use.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]Command
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]Command),
	}
}

// Register adds cmd. It panics on an empty or duplicate name.
func (r *Registry) Register(cmd Command) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := cmd.Name()
	if name == "" {
		panic("uroot: cannot register command with empty name")
	}
	if _, exists := r.commands[name]; exists {
		panic(fmt.Sprintf("uroot: command %q already registered", name))
	}
	r.commands[name] = cmd
}

// Lookup retrieves a command by name.
func (r *Registry) Lookup(name string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cmd, ok := r.commands[name]
	return cmd, ok
}

// Has reports whether every name is registered. It is false for no names.
func (r *Registry) Has(names ...string) bool {
	if len(names) == 0 {
		return false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, name := range names {
		if _, ok := r.commands[name]; !ok {
			return false
		}
	}
	return true
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run executes the command named args[0].
func (r *Registry) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("[uroot] no command given")
	}
	cmd, ok := r.Lookup(args[0])
	if !ok {
		return fmt.Errorf("[uroot] %s: command not found", args[0])
	}
	return cmd.Run(ctx, args)
}

// RegisterDefault registers cmd in DefaultRegistry. Called from init.
func RegisterDefault(cmd Command) {
	DefaultRegistry.Register(cmd)
}
