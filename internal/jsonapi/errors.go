package jsonapi

import (
	"errors"

	"github.com/conduit-lang/jsonapify/internal/orm/schema"
)

// SchemaError reports model metadata the engine refuses to guess around
type SchemaError = schema.SchemaError

var (
	// ErrNoPrimaryKey is wrapped by SchemaError when a model has no primary key
	ErrNoPrimaryKey = schema.ErrNoPrimaryKey

	// ErrInvalidAssociation is wrapped by SchemaError for incomplete descriptors
	ErrInvalidAssociation = schema.ErrInvalidAssociation

	// ErrUnsupportedResult is returned when a read result has an unexpected shape
	ErrUnsupportedResult = errors.New("unsupported result shape")
)
