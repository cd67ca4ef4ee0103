package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Source.MatchHeaders = []string{"Bank name", "Market cap (US$ billion)"}
	cfg.HTTP.Timeout = 30 * time.Second
	cfg.Rates.Download = false

	path := filepath.Join(t.TempDir(), "bankcap.yaml")
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, cfg.Source, got.Source)
	assert.Equal(t, cfg.Rates, got.Rates)
	assert.Equal(t, cfg.Output, got.Output)
	assert.Equal(t, 30*time.Second, got.HTTP.Timeout)
	assert.Equal(t, "info", got.LogLevel)
}

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, DefaultSourceURL, cfg.Source.URL)
	assert.Equal(t, 1, cfg.Source.TableIndex)
	assert.Empty(t, cfg.Source.MatchHeaders)
	assert.Equal(t, DefaultRatesURL, cfg.Rates.URL)
	assert.Equal(t, "exchange_rate.csv", cfg.Rates.File)
	assert.True(t, cfg.Rates.Download)
	assert.Equal(t, "code_log.txt", cfg.Output.LogFile)
	assert.Equal(t, "Largest_banks_data.csv", cfg.Output.CSVFile)
	assert.Equal(t, "Banks.db", cfg.Output.Database)
	assert.Equal(t, "Largest_banks", cfg.Output.Table)
	assert.Zero(t, cfg.HTTP.Timeout, "no timeout by default")
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bankcap.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output:\n  table: Banks_2023\nhttp:\n  timeout: 1m\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Banks_2023", cfg.Output.Table)
	assert.Equal(t, "Banks.db", cfg.Output.Database)
	assert.Equal(t, DefaultSourceURL, cfg.Source.URL)
	assert.Equal(t, time.Minute, cfg.HTTP.Timeout)
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bankcap.yaml")
	require.NoError(t, os.WriteFile(path, []byte("source: [unclosed\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

func TestYAMLFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bankcap.yaml")
	require.NoError(t, Save(path, Default()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "table_index: 1")
	assert.Contains(t, contents, "log_file: code_log.txt")
	assert.Contains(t, contents, "table: Largest_banks")
	assert.Contains(t, contents, "download: true")
}

func env(vars map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := vars[k]
		return v, ok
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	err := ApplyEnv(cfg, env(map[string]string{
		"BANKCAP_SOURCE_URL":     "testdata/largest_banks.html",
		"BANKCAP_TABLE_INDEX":    "2",
		"BANKCAP_MATCH_HEADERS":  "Bank name, Market cap (US$ billion),",
		"BANKCAP_RATES_DOWNLOAD": "false",
		"BANKCAP_DATABASE":       "other.db",
		"BANKCAP_HTTP_TIMEOUT":   "15s",
		"BANKCAP_LOG_LEVEL":      "debug",
	}))
	require.NoError(t, err)

	assert.Equal(t, "testdata/largest_banks.html", cfg.Source.URL)
	assert.Equal(t, 2, cfg.Source.TableIndex)
	assert.Equal(t, []string{"Bank name", "Market cap (US$ billion)"}, cfg.Source.MatchHeaders)
	assert.False(t, cfg.Rates.Download)
	assert.Equal(t, "other.db", cfg.Output.Database)
	assert.Equal(t, 15*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "Largest_banks", cfg.Output.Table, "unset variables keep values")
}

func TestApplyEnv_Errors(t *testing.T) {
	for _, vars := range []map[string]string{
		{"BANKCAP_TABLE_INDEX": "second"},
		{"BANKCAP_RATES_DOWNLOAD": "maybe"},
		{"BANKCAP_HTTP_TIMEOUT": "soon"},
	} {
		assert.Error(t, ApplyEnv(Default(), env(vars)), "%v", vars)
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, LoadEnvFile(filepath.Join(dir, ".env")), "missing file is fine")

	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("BANKCAP_TEST_ENV_FILE=loaded\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("BANKCAP_TEST_ENV_FILE") })

	require.NoError(t, LoadEnvFile(path))
	assert.Equal(t, "loaded", os.Getenv("BANKCAP_TEST_ENV_FILE"))
}

func TestResolve(t *testing.T) {
	cfg := Default()
	cfg.Output.Database = "/var/lib/bankcap/Banks.db"

	got := cfg.Resolve("/work")
	assert.Equal(t, filepath.Join("/work", "code_log.txt"), got.Output.LogFile)
	assert.Equal(t, filepath.Join("/work", "Largest_banks_data.csv"), got.Output.CSVFile)
	assert.Equal(t, filepath.Join("/work", "exchange_rate.csv"), got.Rates.File)
	assert.Equal(t, "/var/lib/bankcap/Banks.db", got.Output.Database, "absolute paths are kept")
	assert.Equal(t, "code_log.txt", cfg.Output.LogFile, "original is not modified")
}
