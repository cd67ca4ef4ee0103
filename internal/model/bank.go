package model

import "github.com/shopspring/decimal"

// Column names of the extracted page table.
const (
	SourceColRank      = "Rank"
	SourceColName      = "Bank name"
	SourceColMarketCap = "Market cap (US$ billion)"
)

// Canonical column names of the transformed table.
const (
	ColName  = "Name"
	ColMCUSD = "MC_US_Billion"
	ColMCGBP = "MC_GBP_Billion"
	ColMCEUR = "MC_EUR_Billion"
	ColMCINR = "MC_INR_Billion"
)

// Columns is the column order of a BankRecord in every output (CSV and store).
var Columns = []string{ColName, ColMCUSD, ColMCGBP, ColMCEUR, ColMCINR}

// SourceColumns are the columns the extracted table must carry.
var SourceColumns = []string{SourceColRank, SourceColName, SourceColMarketCap}

// RankedBank is one row of the market-cap table as it appears on the page.
type RankedBank struct {
	Rank         int
	Name         string
	MarketCapUSD decimal.Decimal // US$ billion
}

// BankRecord is one row after transformation. All amounts are in billions.
type BankRecord struct {
	Name         string
	MCUSBillion  decimal.Decimal
	MCGBPBillion decimal.Decimal
	MCEURBillion decimal.Decimal
	MCINRBillion decimal.Decimal
}

// MarketCap returns the market cap in the given currency.
// USD returns MCUSBillion; unknown currencies return zero and false.
func (r BankRecord) MarketCap(c Currency) (decimal.Decimal, bool) {
	switch c {
	case USD:
		return r.MCUSBillion, true
	case GBP:
		return r.MCGBPBillion, true
	case EUR:
		return r.MCEURBillion, true
	case INR:
		return r.MCINRBillion, true
	}
	return decimal.Zero, false
}

// Set stores v in the column for currency c. It reports false for a
// currency with no column.
func (r *BankRecord) Set(c Currency, v decimal.Decimal) bool {
	switch c {
	case USD:
		r.MCUSBillion = v
	case GBP:
		r.MCGBPBillion = v
	case EUR:
		r.MCEURBillion = v
	case INR:
		r.MCINRBillion = v
	default:
		return false
	}
	return true
}
