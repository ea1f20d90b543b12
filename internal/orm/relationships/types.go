// Package relationships embeds associated records into parent records so the
// document assembler receives already-resolved nested objects.
package relationships

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/conduit-lang/jsonapify/internal/orm/crud"
	"github.com/conduit-lang/jsonapify/internal/orm/schema"
)

// Querier is an interface for executing SQL queries, allowing for testing and instrumentation
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Loader loads associations for a page of records with one batched query per
// association.
type Loader struct {
	db Querier
}

// NewLoader creates a new relationship loader
func NewLoader(db Querier) *Loader {
	return &Loader{db: db}
}

// operations returns read operations against an association's target
func (l *Loader) operations(target *schema.ResourceSchema) *crud.Operations {
	return crud.NewOperations(target, l.db)
}

// idToString renders an identifier as a grouping key
func idToString(id interface{}) (string, error) {
	if id == nil {
		return "", fmt.Errorf("ID cannot be nil")
	}

	switch v := id.(type) {
	case string:
		return v, nil
	case int, int64, int32, uint, uint64, uint32:
		return fmt.Sprintf("%d", v), nil
	case []byte:
		return string(v), nil
	default:
		return fmt.Sprintf("%v", v), nil
	}
}
