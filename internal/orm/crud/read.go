package crud

import (
	"context"
	"fmt"

	"github.com/lib/pq"
)

// Find retrieves a record by its primary key
func (o *Operations) Find(
	ctx context.Context,
	id interface{},
) (map[string]interface{}, error) {
	pk, err := o.primaryKey()
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1 LIMIT 1",
		o.columnList(), o.tableName(), pq.QuoteIdentifier(pk))

	rows, err := o.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find record by id: %w", ConvertDBError(err))
	}
	defer rows.Close()

	results, err := scanRows(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan record: %w", ConvertDBError(err))
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("%s %v: %w", o.resource.Name, id, ErrRecordNotFound)
	}

	return results[0], nil
}

// FindWindow retrieves one page of records ordered by primary key, together
// with the total number of records in the table.
func (o *Operations) FindWindow(
	ctx context.Context,
	skip, limit int,
) ([]map[string]interface{}, int, error) {
	pk, err := o.primaryKey()
	if err != nil {
		return nil, 0, err
	}

	total, err := o.Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY %s LIMIT $1 OFFSET $2",
		o.columnList(), o.tableName(), pq.QuoteIdentifier(pk))

	rows, err := o.db.QueryContext(ctx, query, limit, skip)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query records: %w", ConvertDBError(err))
	}
	defer rows.Close()

	results, err := scanRows(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to scan query results: %w", ConvertDBError(err))
	}

	return results, total, nil
}

// FindIn retrieves every record whose field value is one of values
func (o *Operations) FindIn(
	ctx context.Context,
	field string,
	values []interface{},
) ([]map[string]interface{}, error) {
	if err := o.validateFieldIsColumn(field); err != nil {
		return nil, fmt.Errorf("invalid field %s: %w", field, err)
	}
	if len(values) == 0 {
		return []map[string]interface{}{}, nil
	}

	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s IN (%s)",
		o.columnList(), o.tableName(), pq.QuoteIdentifier(field), placeholders(1, len(values)))

	rows, err := o.db.QueryContext(ctx, query, values...)
	if err != nil {
		return nil, fmt.Errorf("failed to query records by %s: %w", field, ConvertDBError(err))
	}
	defer rows.Close()

	results, err := scanRows(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan query results: %w", ConvertDBError(err))
	}

	return results, nil
}

// Count returns the total number of records
func (o *Operations) Count(ctx context.Context) (int, error) {
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", o.tableName())

	var count int
	if err := o.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count records: %w", ConvertDBError(err))
	}

	return count, nil
}
