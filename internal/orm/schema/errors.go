package schema

import (
	"errors"
	"strings"
)

var (
	// ErrNoPrimaryKey is returned when a resource declares no primary key field
	ErrNoPrimaryKey = errors.New("no primary key")

	// ErrInvalidAssociation is returned when an association descriptor is incomplete
	ErrInvalidAssociation = errors.New("invalid association")

	// ErrUnknownAssociation is returned when an include names no association
	ErrUnknownAssociation = errors.New("unknown association")

	// ErrUnknownResource is returned when a resource name is not registered
	ErrUnknownResource = errors.New("unknown resource")
)

// SchemaError reports model metadata the assembler cannot work with.
// It is fatal: assembly never guesses around it.
type SchemaError struct {
	Resource string
	Field    string
	Reason   string
	Err      error
}

// Error implements the error interface
func (e *SchemaError) Error() string {
	var b strings.Builder
	b.WriteString("schema error: ")

	if e.Resource != "" {
		b.WriteString(e.Resource)
		if e.Field != "" {
			b.WriteString(".")
			b.WriteString(e.Field)
		}
		b.WriteString(": ")
	} else if e.Field != "" {
		b.WriteString(e.Field)
		b.WriteString(": ")
	}

	b.WriteString(e.Reason)
	return b.String()
}

// Unwrap exposes the sentinel for errors.Is
func (e *SchemaError) Unwrap() error {
	return e.Err
}
