// Package schema provides the model metadata consumed by the document
// assembler: resource names, attribute lists with primary-key flags, and the
// association descriptors that explain how related records are embedded.
package schema

import (
	"fmt"

	strutil "github.com/conduit-lang/jsonapify/internal/util/strings"
)

// PrimitiveType represents the storage type of an attribute
type PrimitiveType int

const (
	TypeString PrimitiveType = iota
	TypeText
	TypeInt
	TypeBigInt
	TypeFloat
	TypeDecimal
	TypeBool
	TypeTimestamp
	TypeDate
	TypeUUID
	TypeJSON
)

// String returns the string representation of the primitive type
func (p PrimitiveType) String() string {
	switch p {
	case TypeString:
		return "string"
	case TypeText:
		return "text"
	case TypeInt:
		return "int"
	case TypeBigInt:
		return "bigint"
	case TypeFloat:
		return "float"
	case TypeDecimal:
		return "decimal"
	case TypeBool:
		return "bool"
	case TypeTimestamp:
		return "timestamp"
	case TypeDate:
		return "date"
	case TypeUUID:
		return "uuid"
	case TypeJSON:
		return "json"
	default:
		return "unknown"
	}
}

// ParsePrimitiveType converts a string to a PrimitiveType.
// An empty string maps to TypeString.
func ParsePrimitiveType(s string) (PrimitiveType, error) {
	switch s {
	case "", "string":
		return TypeString, nil
	case "text":
		return TypeText, nil
	case "int":
		return TypeInt, nil
	case "bigint":
		return TypeBigInt, nil
	case "float":
		return TypeFloat, nil
	case "decimal":
		return TypeDecimal, nil
	case "bool":
		return TypeBool, nil
	case "timestamp":
		return TypeTimestamp, nil
	case "date":
		return TypeDate, nil
	case "uuid":
		return TypeUUID, nil
	case "json":
		return TypeJSON, nil
	default:
		return 0, fmt.Errorf("unknown primitive type: %s", s)
	}
}

// Field represents an attribute of a resource
type Field struct {
	Name       string
	Type       PrimitiveType
	PrimaryKey bool
}

// AssociationKind represents the type of association
type AssociationKind int

const (
	AssociationBelongsTo AssociationKind = iota
	AssociationHasOne
	AssociationHasMany
)

// String returns the string representation of the association kind
func (k AssociationKind) String() string {
	switch k {
	case AssociationBelongsTo:
		return "belongs_to"
	case AssociationHasOne:
		return "has_one"
	case AssociationHasMany:
		return "has_many"
	default:
		return "unknown"
	}
}

// ParseAssociationKind converts a string to an AssociationKind
func ParseAssociationKind(s string) (AssociationKind, error) {
	switch s {
	case "belongs_to":
		return AssociationBelongsTo, nil
	case "has_one":
		return AssociationHasOne, nil
	case "has_many":
		return AssociationHasMany, nil
	default:
		return 0, fmt.Errorf("unknown association kind: %s", s)
	}
}

// Association describes one relationship from a parent resource to a
// related resource.
type Association struct {
	// As is the field under which related record(s) are embedded in the parent.
	As   string
	Kind AssociationKind

	// Target is the related resource. TargetName is kept for late binding
	// by Registry.Resolve.
	Target     *ResourceSchema
	TargetName string

	// ForeignKey is stripped from the parent's attributes when the
	// association is included. For has_one/has_many it names the column on
	// the related resource instead.
	ForeignKey string

	// TargetKey is the related record's identifier inside reference
	// objects. Empty means the target's primary key.
	TargetKey string

	// Underscored associations render their relationship name dash-cased.
	Underscored bool
}

// IsSingular reports whether the association is to-one
func (a *Association) IsSingular() bool {
	return a.Kind == AssociationBelongsTo || a.Kind == AssociationHasOne
}

// IdentifierKey returns the field used to identify related records
func (a *Association) IdentifierKey() (string, error) {
	if a.TargetKey != "" {
		return a.TargetKey, nil
	}
	if a.Target == nil {
		return "", &SchemaError{Field: a.As, Reason: "association has no target resource", Err: ErrInvalidAssociation}
	}
	pk, err := a.Target.GetPrimaryKey()
	if err != nil {
		return "", err
	}
	return pk.Name, nil
}

// RelationshipName returns the key used under "relationships"
func (a *Association) RelationshipName() string {
	if a.Underscored {
		return strutil.ToDashCase(a.As)
	}
	return a.As
}

// Validate checks that the descriptor carries every field the assembler needs
func (a *Association) Validate(owner string) error {
	switch {
	case a.As == "":
		return &SchemaError{Resource: owner, Reason: "association is missing its embedded field name (as)", Err: ErrInvalidAssociation}
	case a.Target == nil:
		return &SchemaError{Resource: owner, Field: a.As, Reason: "association has no target resource", Err: ErrInvalidAssociation}
	case a.ForeignKey == "":
		return &SchemaError{Resource: owner, Field: a.As, Reason: "association is missing its foreign key", Err: ErrInvalidAssociation}
	}
	return nil
}

// ResourceSchema describes one record type
type ResourceSchema struct {
	// Name is used as the JSON:API type
	Name string
	// Path is the collection path without a leading slash; defaults to Name
	Path string
	// TableName is the backing table for the SQL read operations
	TableName string

	Underscored bool

	Fields       map[string]*Field
	FieldOrder   []string
	Associations []*Association
}

// NewResourceSchema creates a new ResourceSchema
func NewResourceSchema(name string) *ResourceSchema {
	return &ResourceSchema{
		Name:         name,
		Path:         name,
		TableName:    strutil.ToSnakeCase(name),
		Fields:       make(map[string]*Field),
		FieldOrder:   make([]string, 0),
		Associations: make([]*Association, 0),
	}
}

// AddField appends a field, preserving declaration order
func (r *ResourceSchema) AddField(field *Field) *ResourceSchema {
	if _, exists := r.Fields[field.Name]; !exists {
		r.FieldOrder = append(r.FieldOrder, field.Name)
	}
	r.Fields[field.Name] = field
	return r
}

// AddAssociation appends an association descriptor
func (r *ResourceSchema) AddAssociation(assoc *Association) *ResourceSchema {
	r.Associations = append(r.Associations, assoc)
	return r
}

// GetPrimaryKey returns the primary key field
func (r *ResourceSchema) GetPrimaryKey() (*Field, error) {
	for _, name := range r.FieldOrder {
		if field := r.Fields[name]; field != nil && field.PrimaryKey {
			return field, nil
		}
	}
	return nil, &SchemaError{Resource: r.Name, Reason: "resource has no primary key", Err: ErrNoPrimaryKey}
}

// HasField returns true if the resource has a field with the given name
func (r *ResourceSchema) HasField(name string) bool {
	_, exists := r.Fields[name]
	return exists
}

// Association returns the descriptor embedded under the given field name
func (r *ResourceSchema) Association(as string) (*Association, bool) {
	for _, assoc := range r.Associations {
		if assoc.As == as {
			return assoc, true
		}
	}
	return nil, false
}

// AttributeNames returns field names in declaration order
func (r *ResourceSchema) AttributeNames() []string {
	names := make([]string, len(r.FieldOrder))
	copy(names, r.FieldOrder)
	return names
}

// BasePath returns the collection path with a leading slash
func (r *ResourceSchema) BasePath() string {
	if r.Path == "" {
		return "/" + r.Name
	}
	return "/" + r.Path
}
