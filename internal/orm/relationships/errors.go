package relationships

import "errors"

var (
	// ErrInvalidRelationType is returned when an invalid relationship type is encountered
	ErrInvalidRelationType = errors.New("invalid relationship type")

	// ErrInvalidKey is returned when a key value cannot be used to match records
	ErrInvalidKey = errors.New("invalid key value")
)
