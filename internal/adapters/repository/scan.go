package repository

import (
	"database/sql"

	"github.com/okian/ott/internal/domain/model"
)

// collect drains every result set of rows, in order, and closes it.
// Result sets without columns (the trailing status packet of a CALL) are skipped.
func collect(rows *sql.Rows) ([]model.Row, error) {
	defer func() { _ = rows.Close() }()

	var out []model.Row
	for {
		cols, err := rows.Columns()
		if err != nil {
			return nil, err
		}
		for rows.Next() {
			row, err := scanRow(rows, cols)
			if err != nil {
				return nil, err
			}
			out = append(out, row)
		}
		if err := rows.Err(); err != nil {
			return nil, err
		}
		if !rows.NextResultSet() {
			break
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanRow(rows *sql.Rows, cols []string) (model.Row, error) {
	values := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, err
	}

	row := make(model.Row, len(cols))
	for i, col := range cols {
		row[col] = normalise(values[i])
	}
	return row, nil
}

// normalise turns driver byte slices (CHAR, TEXT, DECIMAL) into strings so
// they serialise as text instead of base64.
func normalise(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
