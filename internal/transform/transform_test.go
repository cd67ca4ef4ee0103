package transform

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bankcap-dev/bankcap/internal/model"
	"github.com/bankcap-dev/bankcap/internal/rates"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func testRates() *rates.Service {
	return rates.NewService([]model.ExchangeRate{
		{Currency: model.EUR, Rate: dec("0.93")},
		{Currency: model.GBP, Rate: dec("0.8")},
		{Currency: model.INR, Rate: dec("82.95")},
	})
}

func TestTransform(t *testing.T) {
	banks := []model.RankedBank{
		{Rank: 1, Name: "JPMorgan Chase", MarketCapUSD: dec("432.92")},
		{Rank: 10, Name: "Bank of China", MarketCapUSD: dec("136.81")},
	}

	got, err := Transform(banks, testRates())
	require.NoError(t, err)
	require.Len(t, got, 2)

	jpm := got[0]
	assert.Equal(t, "JPMorgan Chase", jpm.Name)
	assert.Equal(t, "432.92", jpm.MCUSBillion.StringFixed(2))
	assert.Equal(t, "346.34", jpm.MCGBPBillion.StringFixed(2))
	assert.Equal(t, "402.62", jpm.MCEURBillion.StringFixed(2))
	assert.Equal(t, "35910.71", jpm.MCINRBillion.StringFixed(2))

	boc := got[1]
	assert.Equal(t, "Bank of China", boc.Name)
	assert.Equal(t, "11348.39", boc.MCINRBillion.StringFixed(2))
}

func TestTransform_HundredAtPointEight(t *testing.T) {
	got, err := Transform([]model.RankedBank{{Rank: 1, Name: "A", MarketCapUSD: dec("100.00")}}, testRates())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].MCGBPBillion.Equal(dec("80.0")), "got %s", got[0].MCGBPBillion)
}

func TestTransform_ConversionMatchesRates(t *testing.T) {
	banks := []model.RankedBank{
		{Rank: 1, Name: "A", MarketCapUSD: dec("157.91")},
		{Rank: 2, Name: "B", MarketCapUSD: dec("148.90")},
		{Rank: 3, Name: "C", MarketCapUSD: dec("0.01")},
	}
	svc := testRates()

	got, err := Transform(banks, svc)
	require.NoError(t, err)

	for i, rec := range got {
		for _, c := range model.TargetCurrencies {
			rate, err := svc.Rate(c)
			require.NoError(t, err)
			want := banks[i].MarketCapUSD.Mul(rate).RoundBank(2)
			v, ok := rec.MarketCap(c)
			require.True(t, ok)
			assert.True(t, want.Equal(v), "%s %s: want %s got %s", rec.Name, c, want, v)
		}
	}
}

func TestTransform_MissingRate(t *testing.T) {
	svc := rates.NewService([]model.ExchangeRate{
		{Currency: model.GBP, Rate: dec("0.8")},
		{Currency: model.EUR, Rate: dec("0.93")},
	})

	got, err := Transform([]model.RankedBank{{Rank: 1, Name: "A", MarketCapUSD: dec("1")}}, svc)
	require.Error(t, err)
	assert.ErrorIs(t, err, rates.ErrRateNotFound)
	assert.Nil(t, got, "no partially converted table")
}

func TestTransform_Empty(t *testing.T) {
	got, err := Transform(nil, testRates())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestConvert_HalfToEven(t *testing.T) {
	tests := []struct {
		usd, rate string
		want      string
	}{
		{"1.005", "1", "1"},     // tie goes to even
		{"1.015", "1", "1.02"},  // tie goes to even
		{"1.0151", "1", "1.02"}, // above the tie
		{"100", "0.8", "80"},
		{"-2.345", "1", "-2.34"},
	}
	for _, tt := range tests {
		got := Convert(dec(tt.usd), dec(tt.rate))
		assert.True(t, dec(tt.want).Equal(got), "Convert(%s, %s) = %s, want %s", tt.usd, tt.rate, got, tt.want)
	}
}
