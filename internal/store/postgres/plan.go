package postgres

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/sudo-init-do/skillmarket/internal/apierr"
	"github.com/sudo-init-do/skillmarket/internal/mutation"
)

func itoa(n int) string { return strconv.Itoa(n) }

// column describes how a writable scalar field maps onto the table.
type column struct {
	name  string
	jsonb bool
}

// buildUpdate renders one UPDATE statement for a whole plan. Scalar fields
// become plain SETs; appends become `col = col || $n::jsonb`, with all
// appends for a column batched into one jsonb array so the column is
// assigned exactly once. Fields outside the maps were never provisioned a
// column, which seals relationship and secret fields at the store boundary.
func buildUpdate(table string, scalars map[string]column, sequences map[string]string,
	plan mutation.Plan, returning string) (string, []any, error) {

	sets := []string{}
	args := []any{}

	for field, v := range plan.Scalars {
		col, ok := scalars[field]
		if !ok {
			return "", nil, apierr.ValidationCode("field_not_writable",
				fmt.Sprintf("field %q cannot be updated", field))
		}
		if col.jsonb {
			b, err := json.Marshal(v)
			if err != nil {
				return "", nil, apierr.Internal(err)
			}
			args = append(args, string(b))
			sets = append(sets, fmt.Sprintf("%s = $%d::jsonb", col.name, len(args)))
		} else {
			args = append(args, v)
			sets = append(sets, fmt.Sprintf("%s = $%d", col.name, len(args)))
		}
	}

	// batch appends per column, preserving submission order
	perCol := map[string][]any{}
	colOrder := []string{}
	for _, a := range plan.Appends {
		col, ok := sequences[a.Field]
		if !ok {
			return "", nil, apierr.ValidationCode("field_not_writable",
				fmt.Sprintf("field %q cannot be appended to", a.Field))
		}
		if _, seen := perCol[col]; !seen {
			colOrder = append(colOrder, col)
		}
		perCol[col] = append(perCol[col], a.Value)
	}
	for _, col := range colOrder {
		b, err := json.Marshal(perCol[col])
		if err != nil {
			return "", nil, apierr.Internal(err)
		}
		args = append(args, string(b))
		sets = append(sets, fmt.Sprintf("%s = %s || $%d::jsonb", col, col, len(args)))
	}

	sets = append(sets, "updated_at = NOW()")
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d RETURNING %s",
		table, strings.Join(sets, ", "), len(args)+1, returning)
	return query, args, nil
}
