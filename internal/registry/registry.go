// Package registry holds named launch description generators. Built-in
// descriptions register themselves through the Module interface; the CLI
// looks them up by name.
package registry

import (
	"context"
	"fmt"
	"sort"

	"github.com/spotstack/launchgo/internal/index"
	"github.com/spotstack/launchgo/internal/launch"
)

// Deps carries the collaborators a generator may need while assembling its
// description.
type Deps struct {
	Index *index.Index
}

// Generator assembles one launch description.
type Generator func(ctx context.Context, deps Deps) (launch.Description, error)

// Module is the interface all built-in descriptions implement to be
// registered.
type Module interface {
	Register(r *Registry)
}

// Registry maps description names to their generators for a single
// application instance.
type Registry struct {
	generators map[string]Generator
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{generators: make(map[string]Generator)}
}

// RegisterGenerator adds a named generator. Registering the same name twice
// is a programmer error and panics.
func (r *Registry) RegisterGenerator(name string, g Generator) {
	if _, exists := r.generators[name]; exists {
		panic(fmt.Sprintf("launch description with name '%s' already registered", name))
	}
	r.generators[name] = g
}

// Lookup returns the generator for a description name.
func (r *Registry) Lookup(name string) (Generator, bool) {
	g, ok := r.generators[name]
	return g, ok
}

// Names returns all registered description names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.generators))
	for name := range r.generators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
