package extract

import (
	"errors"
	"fmt"
	"strings"
)

// ErrTableNotFound is returned when no table on the page satisfies a Selector.
var ErrTableNotFound = errors.New("table not found")

// Selector picks the table of interest out of a parsed page.
type Selector interface {
	Select(tables []Table) (Table, error)
	String() string
}

// ByIndex selects the table at a fixed position in document order.
// This is how the page has always been read: the market-cap table is the
// second table, so the selection breaks silently if the layout changes.
type ByIndex int

// Select returns tables[i] or ErrTableNotFound.
func (i ByIndex) Select(tables []Table) (Table, error) {
	if i < 0 || int(i) >= len(tables) {
		return Table{}, fmt.Errorf("%w: %s, page has %d table(s)", ErrTableNotFound, i, len(tables))
	}
	return tables[i], nil
}

func (i ByIndex) String() string {
	return fmt.Sprintf("table at index %d", int(i))
}

// ByHeaders selects the first table whose header row contains every column.
type ByHeaders []string

// Select returns the first matching table or ErrTableNotFound.
func (h ByHeaders) Select(tables []Table) (Table, error) {
	for _, t := range tables {
		if hasColumns(t, h) {
			return t, nil
		}
	}
	return Table{}, fmt.Errorf("%w: %s, page has %d table(s)", ErrTableNotFound, h, len(tables))
}

func (h ByHeaders) String() string {
	return fmt.Sprintf("table with columns [%s]", strings.Join(h, ", "))
}

func hasColumns(t Table, cols []string) bool {
	for _, c := range cols {
		if t.Column(c) < 0 {
			return false
		}
	}
	return true
}
