package banks

import (
	"errors"
	"fmt"

	"github.com/bankcap-dev/bankcap/internal/model"
)

// ErrInvalidRecords wraps the violations found by Check.
var ErrInvalidRecords = errors.New("invalid bank records")

// ValidationError describes a single rule violation on one record.
type ValidationError struct {
	Index       int
	Name        string
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("row %d [%s]: %s", e.Index, e.Name, e.Description)
}

// Validate checks records before they are written: every bank has a name,
// no market cap is negative and converted amounts carry at most two
// fractional digits.
func Validate(records []model.BankRecord) []ValidationError {
	var errs []ValidationError
	for i, rec := range records {
		fail := func(format string, args ...any) {
			errs = append(errs, ValidationError{Index: i, Name: rec.Name, Description: fmt.Sprintf(format, args...)})
		}

		if rec.Name == "" {
			fail("empty bank name")
		}
		if rec.MCUSBillion.IsNegative() {
			fail("negative %s %s", model.ColMCUSD, rec.MCUSBillion)
		}
		for _, c := range model.TargetCurrencies {
			v, _ := rec.MarketCap(c)
			if v.IsNegative() {
				fail("negative %s market cap %s", c, v)
			}
			if !v.Equal(v.Truncate(2)) {
				fail("%s market cap %s has more than 2 decimal places", c, v)
			}
		}
	}
	return errs
}

// Check runs Validate and joins any violations into one error wrapping
// ErrInvalidRecords.
func Check(records []model.BankRecord) error {
	errs := Validate(records)
	if len(errs) == 0 {
		return nil
	}
	joined := make([]error, len(errs))
	for i, e := range errs {
		joined[i] = e
	}
	return fmt.Errorf("%w: %w", ErrInvalidRecords, errors.Join(joined...))
}
