package banks

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/bankcap-dev/bankcap/internal/model"
)

const (
	numFields = 6
	colIndex  = 0
	colName   = 1
	colMCUSD  = 2
	colMCGBP  = 3
	colMCEUR  = 4
	colMCINR  = 5
)

// Header returns the CSV header: an unnamed index column followed by model.Columns.
func Header() []string {
	return append([]string{""}, model.Columns...)
}

// MarshalRecord converts a BankRecord and its 0-based row index to a CSV row.
// Amounts are written with two fixed fractional digits.
func MarshalRecord(index int, rec model.BankRecord) []string {
	row := make([]string, numFields)
	row[colIndex] = strconv.Itoa(index)
	row[colName] = rec.Name
	row[colMCUSD] = rec.MCUSBillion.StringFixed(2)
	row[colMCGBP] = rec.MCGBPBillion.StringFixed(2)
	row[colMCEUR] = rec.MCEURBillion.StringFixed(2)
	row[colMCINR] = rec.MCINRBillion.StringFixed(2)
	return row
}

// UnmarshalRecord converts a CSV row to its index and BankRecord.
func UnmarshalRecord(record []string) (int, model.BankRecord, error) {
	if len(record) != numFields {
		return 0, model.BankRecord{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	index, err := strconv.Atoi(record[colIndex])
	if err != nil {
		return 0, model.BankRecord{}, fmt.Errorf("parsing index %q: %w", record[colIndex], err)
	}

	rec := model.BankRecord{Name: record[colName]}
	amounts := []struct {
		col int
		dst *decimal.Decimal
	}{
		{colMCUSD, &rec.MCUSBillion},
		{colMCGBP, &rec.MCGBPBillion},
		{colMCEUR, &rec.MCEURBillion},
		{colMCINR, &rec.MCINRBillion},
	}
	for _, a := range amounts {
		v, err := decimal.NewFromString(record[a.col])
		if err != nil {
			return 0, model.BankRecord{}, fmt.Errorf("parsing %s %q: %w", model.Columns[a.col-1], record[a.col], err)
		}
		*a.dst = v
	}
	return index, rec, nil
}

// WriteRecords writes the header and one row per record.
func WriteRecords(w io.Writer, records []model.BankRecord) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Header()); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, rec := range records {
		if err := cw.Write(MarshalRecord(i, rec)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadRecords reads a file written by WriteRecords. Rows come back in file
// order; the index column is checked against the row position.
func ReadRecords(r io.Reader) ([]model.BankRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading banks CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	// Skip header row.
	var out []model.BankRecord
	for i, rec := range records[1:] {
		index, bank, err := UnmarshalRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		if index != i {
			return nil, fmt.Errorf("row %d: index %d out of sequence", i+2, index)
		}
		out = append(out, bank)
	}
	return out, nil
}

// SaveCSV writes records to path, replacing any existing file.
func SaveCSV(path string, records []model.BankRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := WriteRecords(f, records); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

// LoadCSV reads records from path.
func LoadCSV(path string) ([]model.BankRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	return ReadRecords(f)
}
