package rates

import (
	"errors"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"github.com/bankcap-dev/bankcap/internal/model"
)

var (
	// ErrRateNotFound is returned when the reference has no row for a currency.
	ErrRateNotFound = errors.New("exchange rate not found")
	// ErrDuplicateRate is returned when the reference has several rows for a currency.
	ErrDuplicateRate = errors.New("duplicate exchange rate")
)

// Service provides lookup over the exchange-rate reference.
type Service struct {
	rates      []model.ExchangeRate
	byCurrency map[model.Currency][]decimal.Decimal
}

// NewService creates a Service from a slice of rates. Duplicates are kept
// so that Rate can refuse to pick one.
func NewService(rates []model.ExchangeRate) *Service {
	byCurrency := make(map[model.Currency][]decimal.Decimal, len(rates))
	for _, r := range rates {
		byCurrency[r.Currency] = append(byCurrency[r.Currency], r.Rate)
	}
	return &Service{rates: rates, byCurrency: byCurrency}
}

// Load reads an exchange-rate CSV file and returns a Service.
func Load(path string) (*Service, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening exchange rates: %w", err)
	}
	defer f.Close()

	rates, err := ReadRates(f)
	if err != nil {
		return nil, fmt.Errorf("reading exchange rates: %w", err)
	}
	return NewService(rates), nil
}

// All returns all rates in file order.
func (s *Service) All() []model.ExchangeRate {
	return s.rates
}

// Rate returns the single rate for currency. Missing and ambiguous
// currencies are errors; there is no default rate.
func (s *Service) Rate(currency model.Currency) (decimal.Decimal, error) {
	found := s.byCurrency[currency]
	switch len(found) {
	case 0:
		return decimal.Zero, fmt.Errorf("%w for %s", ErrRateNotFound, currency)
	case 1:
		return found[0], nil
	default:
		return decimal.Zero, fmt.Errorf("%w for %s: %d rows", ErrDuplicateRate, currency, len(found))
	}
}
