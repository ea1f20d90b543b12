package crud

import (
	"database/sql"
)

// scanRows scans multiple rows into a slice of maps. []byte values are
// converted to strings so text columns from every driver read the same.
func scanRows(rows *sql.Rows) ([]map[string]interface{}, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	results := make([]map[string]interface{}, 0)
	for rows.Next() {
		values := make([]interface{}, len(columns))
		valuePtrs := make([]interface{}, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, err
		}

		results = append(results, buildRecord(columns, values))
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return results, nil
}

func buildRecord(columns []string, values []interface{}) map[string]interface{} {
	record := make(map[string]interface{}, len(columns))
	for i, col := range columns {
		if b, ok := values[i].([]byte); ok {
			record[col] = string(b)
		} else {
			record[col] = values[i]
		}
	}
	return record
}
