package rates

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bankcap-dev/bankcap/internal/model"
)

// Header columns of the exchange-rate file. Other columns are ignored.
const (
	HeaderCurrency = "Currency"
	HeaderRate     = "Rate"
)

// ReadRates reads an exchange-rate CSV. The Currency and Rate columns are
// located by header name.
func ReadRates(r io.Reader) ([]model.ExchangeRate, error) {
	cr := csv.NewReader(r)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading exchange rate CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	colCurrency, colRate := -1, -1
	for i, h := range records[0] {
		switch strings.TrimSpace(h) {
		case HeaderCurrency:
			colCurrency = i
		case HeaderRate:
			colRate = i
		}
	}
	if colCurrency < 0 || colRate < 0 {
		return nil, fmt.Errorf("exchange rate header %v must contain %q and %q", records[0], HeaderCurrency, HeaderRate)
	}

	var rates []model.ExchangeRate
	for i, rec := range records[1:] {
		rate, err := decimal.NewFromString(strings.TrimSpace(rec[colRate]))
		if err != nil {
			return nil, fmt.Errorf("row %d: parsing rate %q: %w", i+2, rec[colRate], err)
		}
		rates = append(rates, model.ExchangeRate{
			Currency: model.ParseCurrency(rec[colCurrency]),
			Rate:     rate,
		})
	}
	return rates, nil
}
