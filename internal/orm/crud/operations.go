// Package crud provides the SQL read operations that feed the document
// assembler: windowed collection reads with a total count and single-record
// reads by primary key.
package crud

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/conduit-lang/jsonapify/internal/orm/schema"
)

// Querier is an interface for executing SQL queries, allowing for testing and instrumentation
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Operations provides read operations for a resource
type Operations struct {
	resource *schema.ResourceSchema
	db       Querier
}

// NewOperations creates a new Operations instance
func NewOperations(resource *schema.ResourceSchema, db Querier) *Operations {
	return &Operations{
		resource: resource,
		db:       db,
	}
}

// Resource returns the resource schema
func (o *Operations) Resource() *schema.ResourceSchema {
	return o.resource
}

// tableName returns the quoted backing table
func (o *Operations) tableName() string {
	name := o.resource.TableName
	if name == "" {
		name = o.resource.Name
	}
	return pq.QuoteIdentifier(name)
}

// columnList returns the quoted declared columns in declaration order
func (o *Operations) columnList() string {
	if len(o.resource.FieldOrder) == 0 {
		return "*"
	}
	cols := make([]string, len(o.resource.FieldOrder))
	for i, name := range o.resource.FieldOrder {
		cols[i] = pq.QuoteIdentifier(name)
	}
	return strings.Join(cols, ", ")
}

// primaryKey returns the primary key column name
func (o *Operations) primaryKey() (string, error) {
	pk, err := o.resource.GetPrimaryKey()
	if err != nil {
		return "", err
	}
	return pk.Name, nil
}

// validateFieldIsColumn checks that field is a declared column and not the
// embedded name of an association
func (o *Operations) validateFieldIsColumn(field string) error {
	if _, exists := o.resource.Fields[field]; exists {
		return nil
	}
	if _, isAssoc := o.resource.Association(field); isAssoc {
		return ErrRelationshipField
	}
	return ErrFieldNotFound
}

// placeholders returns "$start, $start+1, ..." for n arguments
func placeholders(start, n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("$%d", start+i)
	}
	return strings.Join(parts, ", ")
}
