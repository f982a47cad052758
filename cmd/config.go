package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config is the application configuration. Priority: defaults -> file -> env.
type Config struct {
	Data       DataConfig       `toml:"data"`
	Custody    CustodyConfig    `toml:"custody"`
	Regulator  RegulatorConfig  `toml:"regulator"`
	Statements StatementsConfig `toml:"statements"`
}

// DataConfig locates the persisted artifacts.
type DataConfig struct {
	// Dir holds the consolidated snapshot, the registry and the build meta.
	Dir string `toml:"dir"`
	// TTLMinutes is the query-surface cache window.
	TTLMinutes int `toml:"ttl_minutes"`
}

// CustodyConfig configures the custody feed client.
type CustodyConfig struct {
	BaseURL string `toml:"base_url"`
}

// RegulatorConfig configures the bulk downloader.
type RegulatorConfig struct {
	BaseURL  string `toml:"base_url"`
	CacheDir string `toml:"cache_dir"`
	TTLHours int    `toml:"ttl_hours"`
	// Months is how far back the bulk build reaches.
	Months int `toml:"months"`
}

// StatementsConfig locates local vendor PDF statements.
type StatementsConfig struct {
	Dir string `toml:"dir"`
}

// Environment variable overrides, applied after the file.
const (
	EnvDataDir          = "FSC_DATA_DIR"
	EnvCustodyBaseURL   = "FSC_CUSTODY_BASE_URL"
	EnvRegulatorBaseURL = "FSC_REGULATOR_BASE_URL"
	EnvRegulatorCache   = "FSC_REGULATOR_CACHE"
	EnvStatementsDir    = "FSC_STATEMENTS_DIR"
)

// defaultConfig returns the built-in defaults, suitable for a local run.
func defaultConfig() Config {
	return Config{
		Data:       DataConfig{Dir: ".fundscope", TTLMinutes: 5},
		Custody:    CustodyConfig{BaseURL: "https://custody.example.com"},
		Regulator:  RegulatorConfig{BaseURL: "https://data.regulator.example.com", CacheDir: ".fundscope/cache", TTLHours: 24, Months: 24},
		Statements: StatementsConfig{Dir: ""},
	}
}

// LoadConfig loads the configuration from an optional TOML file, then
// applies environment overrides. A missing file is not an error: defaults
// apply.
func LoadConfig(path string) (Config, error) {
	config := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return config, fmt.Errorf("cannot read config %q: %w", path, err)
		}
		if err == nil {
			if err := toml.Unmarshal(data, &config); err != nil {
				return config, fmt.Errorf("cannot parse config %q: %w", path, err)
			}
		}
	}

	if v := os.Getenv(EnvDataDir); v != "" {
		config.Data.Dir = v
	}
	if v := os.Getenv(EnvCustodyBaseURL); v != "" {
		config.Custody.BaseURL = v
	}
	if v := os.Getenv(EnvRegulatorBaseURL); v != "" {
		config.Regulator.BaseURL = v
	}
	if v := os.Getenv(EnvRegulatorCache); v != "" {
		config.Regulator.CacheDir = v
	}
	if v := os.Getenv(EnvStatementsDir); v != "" {
		config.Statements.Dir = v
	}
	return config, nil
}

// LoaderTTL returns the query-surface cache window as a duration.
func (c Config) LoaderTTL() time.Duration {
	return time.Duration(c.Data.TTLMinutes) * time.Minute
}

// RegulatorTTL returns the bulk-cache staleness threshold as a duration.
func (c Config) RegulatorTTL() time.Duration {
	return time.Duration(c.Regulator.TTLHours) * time.Hour
}
