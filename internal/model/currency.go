package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Currency is an ISO 4217 code as it appears in the exchange-rate file.
type Currency string

const (
	USD Currency = "USD"
	GBP Currency = "GBP"
	EUR Currency = "EUR"
	INR Currency = "INR"
)

// TargetCurrencies are converted from USD, in column order.
var TargetCurrencies = []Currency{GBP, EUR, INR}

// ParseCurrency normalizes a currency code read from a file.
func ParseCurrency(s string) Currency {
	return Currency(strings.ToUpper(strings.TrimSpace(s)))
}

// ExchangeRate is one row of the exchange-rate reference file.
type ExchangeRate struct {
	Currency Currency
	Rate     decimal.Decimal // units of Currency per US dollar
}
