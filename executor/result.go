package executor

import (
	"fmt"
	"strconv"
	"strings"

	"onetable/storage"
)

// Result is the outcome of executing a single command line: either
// selected rows, or a one-line confirmation (possibly multi-line for
// SHOW DATABASES).
type Result struct {
	Rows    []storage.Row
	Message string
}

// Render returns the user-visible text for the result. Selected rows are
// rendered one per line with comma-joined values.
func (r *Result) Render() string {
	if len(r.Rows) == 0 {
		return r.Message
	}
	lines := make([]string, len(r.Rows))
	for i, row := range r.Rows {
		lines[i] = renderRow(row)
	}
	return strings.Join(lines, "\n")
}

func renderRow(row storage.Row) string {
	parts := make([]string, len(row))
	for i, v := range row {
		parts[i] = renderValue(v)
	}
	return strings.Join(parts, ", ")
}

func renderValue(v any) string {
	switch v := v.(type) {
	case int64:
		return strconv.FormatInt(v, 10)
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
