package google

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	idColumn     = 0
	amountColumn = 6
	columns      = 7
)

// toValues converts export rows to sheet cells. The id and amount columns of
// data rows become numbers so the sheet can sum them.
func toValues(rows [][]string) [][]interface{} {
	out := make([][]interface{}, len(rows))
	for i, row := range rows {
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
			if i == 0 || (j != idColumn && j != amountColumn) {
				continue
			}
			if j == idColumn {
				if n, err := strconv.ParseInt(v, 10, 64); err == nil {
					cells[j] = n
				}
				continue
			}
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				cells[j] = f
			}
		}
		out[i] = cells
	}
	return out
}

// fromValues converts the API matrix to strings padded to the export width.
// Trailing empty rows are dropped.
func fromValues(values [][]interface{}) [][]string {
	out := make([][]string, 0, len(values))
	for _, row := range values {
		cols := make([]string, columns)
		for i := 0; i < len(row) && i < columns; i++ {
			cols[i] = toString(row[i])
		}
		out = append(out, cols)
	}
	for len(out) > 0 && strings.Join(out[len(out)-1], "") == "" {
		out = out[:len(out)-1]
	}
	return out
}

func toString(v interface{}) string {
	switch n := v.(type) {
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(n, 10)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}
