package transform

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/bankcap-dev/bankcap/internal/model"
)

// Places is the number of fractional digits kept on converted values.
const Places = 2

// RateSource looks up a conversion rate from US dollars.
type RateSource interface {
	Rate(currency model.Currency) (decimal.Decimal, error)
}

// Convert returns usd * rate rounded half-to-even to Places digits.
func Convert(usd, rate decimal.Decimal) decimal.Decimal {
	return usd.Mul(rate).RoundBank(Places)
}

// Transform converts every bank's market cap into the target currencies and
// drops the rank. All rates are resolved before any row is converted, so a
// missing currency fails the whole table.
func Transform(banks []model.RankedBank, rates RateSource) ([]model.BankRecord, error) {
	resolved := make(map[model.Currency]decimal.Decimal, len(model.TargetCurrencies))
	for _, c := range model.TargetCurrencies {
		r, err := rates.Rate(c)
		if err != nil {
			return nil, fmt.Errorf("resolving %s rate: %w", c, err)
		}
		resolved[c] = r
	}

	records := make([]model.BankRecord, 0, len(banks))
	for _, b := range banks {
		rec := model.BankRecord{Name: b.Name, MCUSBillion: b.MarketCapUSD}
		for _, c := range model.TargetCurrencies {
			rec.Set(c, Convert(b.MarketCapUSD, resolved[c]))
		}
		records = append(records, rec)
	}
	return records, nil
}
