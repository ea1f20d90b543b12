// Package schema provides a registry for managing resource schemas
package schema

import (
	"fmt"
	"sort"
	"sync"
)

// Registry manages all resource schemas in the application.
// Schemas are treated as immutable once Resolve has run.
type Registry struct {
	schemas   map[string]*ResourceSchema
	validator *SchemaValidator
	mu        sync.RWMutex
}

// NewRegistry creates a new schema registry
func NewRegistry() *Registry {
	return &Registry{
		schemas:   make(map[string]*ResourceSchema),
		validator: NewSchemaValidator(),
	}
}

// Register registers a new resource schema
func (r *Registry) Register(schema *ResourceSchema) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.schemas[schema.Name]; exists {
		return fmt.Errorf("resource %s is already registered", schema.Name)
	}

	// Forward references are allowed here; Resolve binds them
	if err := r.validator.ValidateStructural(schema); err != nil {
		return fmt.Errorf("schema validation failed for %s: %w", schema.Name, err)
	}

	r.schemas[schema.Name] = schema
	return nil
}

// Get retrieves a resource schema by name
func (r *Registry) Get(name string) (*ResourceSchema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	schema, exists := r.schemas[name]
	return schema, exists
}

// List returns all resource names in sorted order
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.schemas))
	for name := range r.schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve binds association target names to registered schemas and
// validates every descriptor.
func (r *Registry) Resolve() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, name := range r.sortedNames() {
		schema := r.schemas[name]
		for _, assoc := range schema.Associations {
			if assoc.Target != nil {
				continue
			}
			target, ok := r.schemas[assoc.TargetName]
			if !ok {
				return &SchemaError{
					Resource: schema.Name,
					Field:    assoc.As,
					Reason:   fmt.Sprintf("association targets unregistered resource %q", assoc.TargetName),
					Err:      ErrUnknownResource,
				}
			}
			assoc.Target = target
		}
	}

	for _, name := range r.sortedNames() {
		if err := r.validator.ValidateResolved(r.schemas[name]); err != nil {
			return err
		}
	}

	return nil
}

// Includes maps include names to association descriptors of the given
// resource, in request order. Duplicate names are collapsed.
func (r *Registry) Includes(resource string, names []string) ([]*Association, error) {
	schema, ok := r.Get(resource)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownResource, resource)
	}
	return IncludesFor(schema, names)
}

// IncludesFor maps include names against a single schema. A name matches an
// association's embedded field or its rendered relationship name.
func IncludesFor(schema *ResourceSchema, names []string) ([]*Association, error) {
	if len(names) == 0 {
		return nil, nil
	}

	result := make([]*Association, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		assoc := findAssociation(schema, name)
		if assoc == nil {
			return nil, fmt.Errorf("%w: %s has no association %q", ErrUnknownAssociation, schema.Name, name)
		}
		if seen[assoc.As] {
			continue
		}
		seen[assoc.As] = true
		result = append(result, assoc)
	}
	return result, nil
}

func findAssociation(schema *ResourceSchema, name string) *Association {
	if assoc, ok := schema.Association(name); ok {
		return assoc
	}
	for _, assoc := range schema.Associations {
		if assoc.RelationshipName() == name {
			return assoc
		}
	}
	return nil
}

// sortedNames must be called with the lock held
func (r *Registry) sortedNames() []string {
	names := make([]string, 0, len(r.schemas))
	for name := range r.schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
