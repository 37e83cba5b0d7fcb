package tools

import (
	"fmt"
	"sort"
	"sync"
)

// Registry holds the set of tools available to a single agent loop.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds tool to the registry. Registering a name that is already
// taken returns an error; the existing tool is left in place.
func (r *Registry) Register(tool Tool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[tool.Name()]; exists {
		return fmt.Errorf("tool %q is already registered", tool.Name())
	}
	r.tools[tool.Name()] = tool
	return nil
}

// Get retrieves a tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// IsEmpty reports whether the registry has no tools.
func (r *Registry) IsEmpty() bool {
	return r.Len() == 0
}

// ListTools returns each registered tool's name and description, sorted by
// name for stable output.
func (r *Registry) ListTools() []struct{ Name, Description string } {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]struct{ Name, Description string }, 0, len(r.tools))
	for _, t := range r.tools {
		out = append(out, struct{ Name, Description string }{t.Name(), t.Description()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Definitions returns the LLM-facing Definition for every registered tool,
// sorted by name for a stable prompt.
func (r *Registry) Definitions() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := make([]Definition, 0, len(r.tools))
	for _, t := range r.tools {
		defs = append(defs, ToDefinition(t))
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Function.Name < defs[j].Function.Name })
	return defs
}
