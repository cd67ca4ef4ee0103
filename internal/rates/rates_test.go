package rates

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bankcap-dev/bankcap/internal/model"
)

func TestReadRates(t *testing.T) {
	rates, err := ReadRates(strings.NewReader("Currency,Rate\nEUR,0.93\nGBP,0.8\nINR,82.95\n"))
	require.NoError(t, err)
	require.Len(t, rates, 3)

	assert.Equal(t, model.EUR, rates[0].Currency)
	assert.Equal(t, "0.93", rates[0].Rate.String())
	assert.Equal(t, model.INR, rates[2].Currency)
	assert.Equal(t, "82.95", rates[2].Rate.String())
}

func TestReadRates_ColumnsByName(t *testing.T) {
	rates, err := ReadRates(strings.NewReader("Rate,Name,Currency\n0.8,Pound sterling,GBP\n"))
	require.NoError(t, err)
	require.Len(t, rates, 1)
	assert.Equal(t, model.GBP, rates[0].Currency)
	assert.Equal(t, "0.8", rates[0].Rate.String())
}

func TestReadRates_Errors(t *testing.T) {
	_, err := ReadRates(strings.NewReader("Code,Value\nGBP,0.8\n"))
	assert.Error(t, err, "missing header columns")

	_, err = ReadRates(strings.NewReader("Currency,Rate\nGBP,abc\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
}

func TestReadRates_Empty(t *testing.T) {
	rates, err := ReadRates(strings.NewReader(""))
	require.NoError(t, err)
	assert.Nil(t, rates)
}

func TestServiceRate(t *testing.T) {
	svc := NewService([]model.ExchangeRate{
		{Currency: model.GBP, Rate: dec("0.8")},
		{Currency: model.EUR, Rate: dec("0.93")},
	})

	r, err := svc.Rate(model.GBP)
	require.NoError(t, err)
	assert.True(t, r.Equal(dec("0.8")))

	_, err = svc.Rate(model.INR)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRateNotFound)
	assert.Contains(t, err.Error(), "INR")
}

func TestServiceRate_Duplicate(t *testing.T) {
	svc := NewService([]model.ExchangeRate{
		{Currency: model.GBP, Rate: dec("0.8")},
		{Currency: model.GBP, Rate: dec("0.81")},
	})

	_, err := svc.Rate(model.GBP)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateRate)
	assert.Len(t, svc.All(), 2)
}

func TestLoadFromTestdata(t *testing.T) {
	svc, err := Load("../../testdata/exchange_rate.csv")
	require.NoError(t, err)
	assert.Len(t, svc.All(), 3)

	for _, c := range model.TargetCurrencies {
		_, err := svc.Rate(c)
		assert.NoError(t, err, "currency %s", c)
	}
}

func TestLoad_NotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "exchange_rate.csv"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
