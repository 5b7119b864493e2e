// Package registry manages the object type definitions that contribute
// fields to the active index mapping.
package registry

import (
	"fmt"
	"regexp"
	"sort"
	"sync"

	"github.com/indexforge/indexforge/internal/mappings"
)

// TypeDefinition is one registered object type: its name, its field
// mappings, and whether the type is hidden from listings. Hidden types
// still contribute their fields to the built mapping.
type TypeDefinition struct {
	Name     string                         `json:"name" yaml:"name"`
	Hidden   bool                           `json:"hidden,omitempty" yaml:"hidden,omitempty"`
	Mappings mappings.TypeMappingDefinition `json:"mappings" yaml:"mappings"`
}

var typeNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)

// Registry holds all registered type definitions for the application.
type Registry struct {
	types map[string]*TypeDefinition
	mu    sync.RWMutex
}

// NewRegistry creates an empty type registry.
func NewRegistry() *Registry {
	return &Registry{
		types: make(map[string]*TypeDefinition),
	}
}

// Register adds a type definition. Type names must be unique and match
// ^[a-z][a-z0-9_-]*$; field-level validation (duplicates across types,
// reserved prefixes) happens later when the mapping is built.
func (r *Registry) Register(def *TypeDefinition) error {
	if def.Name == "" {
		return fmt.Errorf("type definition has no name")
	}
	if !typeNamePattern.MatchString(def.Name) {
		return fmt.Errorf("invalid type name %q: must match %s", def.Name, typeNamePattern)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.types[def.Name]; exists {
		return fmt.Errorf("type %s is already registered", def.Name)
	}
	r.types[def.Name] = def

	return nil
}

// Get retrieves a type definition by name.
func (r *Registry) Get(name string) (*TypeDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, exists := r.types[name]
	return def, exists
}

// All returns a copy of all registered definitions.
func (r *Registry) All() map[string]*TypeDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string]*TypeDefinition, len(r.types))
	for k, v := range r.types {
		result[k] = v
	}
	return result
}

// List returns all registered type names in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Definitions returns the per-type mapping definitions in the shape
// the mapping builder consumes.
func (r *Registry) Definitions() map[string]mappings.TypeMappingDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := make(map[string]mappings.TypeMappingDefinition, len(r.types))
	for name, def := range r.types {
		defs[name] = def.Mappings
	}
	return defs
}

// Exists checks if a type is registered.
func (r *Registry) Exists(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.types[name]
	return exists
}

// Count returns the number of registered types.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.types)
}

// Clear removes all registered types (useful for testing).
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.types = make(map[string]*TypeDefinition)
}
