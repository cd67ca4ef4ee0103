package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Default sources.
const (
	DefaultSourceURL = "https://web.archive.org/web/20230908091635/https://en.wikipedia.org/wiki/List_of_largest_banks"
	DefaultRatesURL  = "https://cf-courses-data.s3.us.cloud-object-storage.appdomain.cloud/IBMSkillsNetwork-PY0221EN-Coursera/labs/v2/exchange_rate.csv"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "BANKCAP_"

// Config represents the optional bankcap.yaml configuration.
type Config struct {
	Source   SourceConfig `yaml:"source"`
	Rates    RatesConfig  `yaml:"rates"`
	Output   OutputConfig `yaml:"output"`
	HTTP     HTTPConfig   `yaml:"http"`
	LogLevel string       `yaml:"log_level"`
}

// SourceConfig locates the page and the market-cap table on it.
type SourceConfig struct {
	URL          string   `yaml:"url"`                     // http(s) URL, file:// URL or path
	TableIndex   int      `yaml:"table_index"`             // 0-based, used when MatchHeaders is empty
	MatchHeaders []string `yaml:"match_headers,omitempty"` // select the first table with these columns
}

// RatesConfig locates the exchange-rate reference.
type RatesConfig struct {
	URL      string `yaml:"url"`
	File     string `yaml:"file"`
	Download bool   `yaml:"download"` // false reuses File as is
}

// OutputConfig names the files the pipeline writes.
type OutputConfig struct {
	LogFile  string `yaml:"log_file"`
	CSVFile  string `yaml:"csv_file"`
	Database string `yaml:"database"`
	Table    string `yaml:"table"`
}

// HTTPConfig controls the HTTP client. A zero Timeout means no timeout.
type HTTPConfig struct {
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"user_agent,omitempty"`
}

// Load reads a bankcap.yaml file from disk. Missing keys keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns the stock configuration: the archived page, the course
// exchange-rate file and every output in the working directory.
func Default() *Config {
	return &Config{
		Source: SourceConfig{
			URL:        DefaultSourceURL,
			TableIndex: 1,
		},
		Rates: RatesConfig{
			URL:      DefaultRatesURL,
			File:     "exchange_rate.csv",
			Download: true,
		},
		Output: OutputConfig{
			LogFile:  "code_log.txt",
			CSVFile:  "Largest_banks_data.csv",
			Database: "Banks.db",
			Table:    "Largest_banks",
		},
		LogLevel: "info",
	}
}

// LoadEnvFile loads KEY=value pairs from a .env file into the process
// environment. A missing file is not an error.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides cfg with BANKCAP_* variables found by lookup
// (os.LookupEnv in production).
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = v
		}
	}
	str("SOURCE_URL", &cfg.Source.URL)
	str("RATES_URL", &cfg.Rates.URL)
	str("RATES_FILE", &cfg.Rates.File)
	str("LOG_FILE", &cfg.Output.LogFile)
	str("CSV_FILE", &cfg.Output.CSVFile)
	str("DATABASE", &cfg.Output.Database)
	str("TABLE", &cfg.Output.Table)
	str("HTTP_USER_AGENT", &cfg.HTTP.UserAgent)
	str("LOG_LEVEL", &cfg.LogLevel)

	if v, ok := lookup(EnvPrefix + "TABLE_INDEX"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parsing %sTABLE_INDEX %q: %w", EnvPrefix, v, err)
		}
		cfg.Source.TableIndex = n
	}
	if v, ok := lookup(EnvPrefix + "MATCH_HEADERS"); ok {
		cfg.Source.MatchHeaders = splitList(v)
	}
	if v, ok := lookup(EnvPrefix + "RATES_DOWNLOAD"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("parsing %sRATES_DOWNLOAD %q: %w", EnvPrefix, v, err)
		}
		cfg.Rates.Download = b
	}
	if v, ok := lookup(EnvPrefix + "HTTP_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parsing %sHTTP_TIMEOUT %q: %w", EnvPrefix, v, err)
		}
		cfg.HTTP.Timeout = d
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Resolve returns a copy of cfg with relative file paths joined to dir.
func (c *Config) Resolve(dir string) *Config {
	out := *c
	out.Source.MatchHeaders = append([]string(nil), c.Source.MatchHeaders...)
	for _, p := range []*string{&out.Rates.File, &out.Output.LogFile, &out.Output.CSVFile, &out.Output.Database} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(dir, *p)
		}
	}
	return &out
}
