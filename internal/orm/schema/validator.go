package schema

import (
	"fmt"
)

// SchemaValidator validates resource schemas
type SchemaValidator struct{}

// NewSchemaValidator creates a new schema validator
func NewSchemaValidator() *SchemaValidator {
	return &SchemaValidator{}
}

// ValidateStructural validates a single resource schema without cross-resource checks.
// Association targets may still be unresolved names at this point.
func (v *SchemaValidator) ValidateStructural(schema *ResourceSchema) error {
	if schema.Name == "" {
		return &SchemaError{Reason: "resource name is required"}
	}

	if _, err := schema.GetPrimaryKey(); err != nil {
		return err
	}

	primaries := 0
	for _, name := range schema.FieldOrder {
		if schema.Fields[name].PrimaryKey {
			primaries++
		}
	}
	if primaries > 1 {
		return &SchemaError{
			Resource: schema.Name,
			Reason:   fmt.Sprintf("resource declares %d primary keys", primaries),
		}
	}

	seen := make(map[string]bool, len(schema.Associations))
	for _, assoc := range schema.Associations {
		if assoc.As == "" {
			return &SchemaError{Resource: schema.Name, Reason: "association is missing its embedded field name (as)", Err: ErrInvalidAssociation}
		}
		if seen[assoc.As] {
			return &SchemaError{Resource: schema.Name, Field: assoc.As, Reason: "association declared twice", Err: ErrInvalidAssociation}
		}
		seen[assoc.As] = true

		if assoc.ForeignKey == "" {
			return &SchemaError{Resource: schema.Name, Field: assoc.As, Reason: "association is missing its foreign key", Err: ErrInvalidAssociation}
		}
		if assoc.Target == nil && assoc.TargetName == "" {
			return &SchemaError{Resource: schema.Name, Field: assoc.As, Reason: "association has no target resource", Err: ErrInvalidAssociation}
		}
	}

	return nil
}

// ValidateResolved checks every association once targets are bound
func (v *SchemaValidator) ValidateResolved(schema *ResourceSchema) error {
	for _, assoc := range schema.Associations {
		if err := assoc.Validate(schema.Name); err != nil {
			return err
		}
		if _, err := assoc.IdentifierKey(); err != nil {
			return fmt.Errorf("resource %s association %s: %w", schema.Name, assoc.As, err)
		}
	}
	return nil
}
