package repository

import (
	"fmt"
	"strings"
)

// setClause is one column assignment in a merge-patch update.
type setClause struct {
	column string
	value  any
}

// set appends a clause only when the field was present in the request
// payload. A nil pointer means "leave the stored value unchanged".
func set[T any](sets []setClause, column string, v *T) []setClause {
	if v == nil {
		return sets
	}
	return append(sets, setClause{column: column, value: *v})
}

// updateQuery builds a single-statement merge-patch update from the
// present fields. The id is always the last positional argument.
//
// Example output:
//
//	update clients set first_name = $1, email = $2 where id = $3
func updateQuery(table string, id int64, sets []setClause) (string, []any) {
	assignments := make([]string, 0, len(sets))
	args := make([]any, 0, len(sets)+1)

	for _, s := range sets {
		args = append(args, s.value)
		assignments = append(assignments, fmt.Sprintf("%s = $%d", s.column, len(args)))
	}

	args = append(args, id)
	query := fmt.Sprintf("update %s set %s where id = $%d",
		table, strings.Join(assignments, ", "), len(args))

	return query, args
}
