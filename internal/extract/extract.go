package extract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bankcap-dev/bankcap/internal/fetch"
	"github.com/bankcap-dev/bankcap/internal/model"
)

// ErrMissingColumn is returned when the selected table lacks a required column.
var ErrMissingColumn = errors.New("missing column")

// DefaultSelector picks the second table on the page.
var DefaultSelector Selector = ByIndex(1)

// Extract fetches source, selects the market-cap table and returns its rows
// in page order.
func Extract(ctx context.Context, client *http.Client, source string, sel Selector) ([]model.RankedBank, error) {
	body, err := fetch.Open(ctx, client, source)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	return Parse(body, sel)
}

// Parse reads the market-cap table from an HTML document.
func Parse(r io.Reader, sel Selector) ([]model.RankedBank, error) {
	if sel == nil {
		sel = DefaultSelector
	}

	tables, err := ParseTables(r)
	if err != nil {
		return nil, err
	}
	t, err := sel.Select(tables)
	if err != nil {
		return nil, err
	}
	return ReadBanks(t)
}

// ReadBanks converts a table with Rank, Bank name and market-cap columns.
func ReadBanks(t Table) ([]model.RankedBank, error) {
	cols := make([]int, len(model.SourceColumns))
	for i, name := range model.SourceColumns {
		cols[i] = t.Column(name)
		if cols[i] < 0 {
			return nil, fmt.Errorf("%w %q in header [%s]", ErrMissingColumn, name, strings.Join(t.Header, ", "))
		}
	}
	colRank, colName, colCap := cols[0], cols[1], cols[2]

	banks := make([]model.RankedBank, 0, len(t.Rows))
	for i, row := range t.Rows {
		b, err := parseRow(row, colRank, colName, colCap)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		banks = append(banks, b)
	}
	return banks, nil
}

func parseRow(row []string, colRank, colName, colCap int) (model.RankedBank, error) {
	need := max(colRank, colName, colCap) + 1
	if len(row) < need {
		return model.RankedBank{}, fmt.Errorf("expected at least %d cells, got %d", need, len(row))
	}

	rank, err := strconv.Atoi(row[colRank])
	if err != nil {
		return model.RankedBank{}, fmt.Errorf("parsing rank %q: %w", row[colRank], err)
	}

	capUSD, err := decimal.NewFromString(strings.ReplaceAll(row[colCap], ",", ""))
	if err != nil {
		return model.RankedBank{}, fmt.Errorf("parsing market cap %q: %w", row[colCap], err)
	}

	return model.RankedBank{
		Rank:         rank,
		Name:         row[colName],
		MarketCapUSD: capUSD,
	}, nil
}
