package report

import (
	"context"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/bankcap-dev/bankcap/internal/model"
	"github.com/bankcap-dev/bankcap/internal/store"
)

// Querier runs a read-only statement.
type Querier interface {
	Query(ctx context.Context, query string, args ...any) (store.Result, error)
}

// Milestones records progress messages.
type Milestones interface {
	Append(msg string) error
}

// Query is one fixed report query.
type Query struct {
	Label string
	SQL   string
}

// Block is the result of one query.
type Block struct {
	Query  Query
	Result store.Result
}

// Queries returns the report queries against table, in run order: every
// row, the banks with the largest EUR market cap and the banks with the
// smallest INR market cap. Ties return every tied bank.
func Queries(table string) []Query {
	return []Query{
		{
			Label: "Select Query",
			SQL:   fmt.Sprintf("SELECT * FROM %s", table),
		},
		{
			Label: "Max query",
			SQL: fmt.Sprintf("SELECT %[2]s FROM %[1]s WHERE %[3]s = (SELECT MAX(%[3]s) FROM %[1]s)",
				table, model.ColName, model.ColMCEUR),
		},
		{
			Label: "Min query",
			SQL: fmt.Sprintf("SELECT %[2]s FROM %[1]s WHERE %[3]s = (SELECT MIN(%[3]s) FROM %[1]s)",
				table, model.ColName, model.ColMCINR),
		},
	}
}

// Run executes the report queries in order, printing each row as a tuple to
// w with two blank lines between blocks. It stops at the first failure.
func Run(ctx context.Context, q Querier, table string, w io.Writer, log Milestones) ([]Block, error) {
	if err := store.ValidateTableName(table); err != nil {
		return nil, err
	}

	var blocks []Block
	for i, query := range Queries(table) {
		if err := log.Append("Running " + query.Label); err != nil {
			return blocks, err
		}

		res, err := q.Query(ctx, query.SQL)
		if err != nil {
			return blocks, fmt.Errorf("%s: %w", query.Label, err)
		}
		if i > 0 {
			if _, err := io.WriteString(w, "\n\n"); err != nil {
				return blocks, fmt.Errorf("writing report: %w", err)
			}
		}
		if err := WriteRows(w, res.Rows); err != nil {
			return blocks, err
		}
		blocks = append(blocks, Block{Query: query, Result: res})

		if err := log.Append(query.Label + " ran successfully"); err != nil {
			return blocks, err
		}
	}
	return blocks, nil
}

// WriteRows prints one tuple per row.
func WriteRows(w io.Writer, rows [][]any) error {
	for _, row := range rows {
		if _, err := fmt.Fprintln(w, FormatTuple(row)); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
	}
	return nil
}

// FormatTuple renders a row the way an interactive shell prints a tuple:
// (0, 'JPMorgan Chase', 432.92) and ('JPMorgan Chase',) for one value.
func FormatTuple(row []any) string {
	parts := make([]string, len(row))
	for i, v := range row {
		parts[i] = formatValue(v)
	}
	if len(parts) == 1 {
		return "(" + parts[0] + ",)"
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "None"
	case string:
		return quoteString(x)
	case []byte:
		return quoteString(string(x))
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case float64:
		return formatFloat(x)
	case bool:
		if x {
			return "True"
		}
		return "False"
	default:
		return fmt.Sprint(x)
	}
}

func quoteString(s string) string {
	if strings.Contains(s, "'") && !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	return "'" + strings.ReplaceAll(s, "'", `\'`) + "'"
}

// formatFloat prints the shortest representation, always with a
// fractional part: 80 prints as 80.0.
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	abs := math.Abs(f)
	if abs >= 1e16 || (abs != 0 && abs < 1e-4) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
