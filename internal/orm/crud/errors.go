package crud

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// Common read error types
var (
	// ErrRecordNotFound is returned when a record is not found
	ErrRecordNotFound = errors.New("record not found")

	// ErrFieldNotFound is returned when a field does not exist on a resource
	ErrFieldNotFound = errors.New("field not found")

	// ErrRelationshipField is returned when trying to use an association name in a WHERE clause
	ErrRelationshipField = errors.New("relationship field cannot be used directly in queries")

	// ErrUndefinedTable is returned when the backing table does not exist
	ErrUndefinedTable = errors.New("undefined table")

	// ErrUndefinedColumn is returned when a declared field has no column
	ErrUndefinedColumn = errors.New("undefined column")
)

// PostgreSQL error codes a read can produce
const (
	codeUndefinedTable  = "42P01"
	codeUndefinedColumn = "42703"
)

// ConvertDBError converts database-specific errors to crud errors
func ConvertDBError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return ErrRecordNotFound
	}

	// pgx stdlib driver
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return convertCode(pgErr.Code, pgErr.Message, err)
	}

	// lib/pq driver
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return convertCode(string(pqErr.Code), pqErr.Message, err)
	}

	return err
}

func convertCode(code, message string, err error) error {
	switch code {
	case codeUndefinedTable:
		return fmt.Errorf("%w: %s", ErrUndefinedTable, message)
	case codeUndefinedColumn:
		return fmt.Errorf("%w: %s", ErrUndefinedColumn, message)
	}
	return err
}

// IsNotFound returns true if the error is ErrRecordNotFound
func IsNotFound(err error) bool {
	return errors.Is(err, ErrRecordNotFound)
}
