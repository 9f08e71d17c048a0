package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// defaultWindowMonths is the trailing number of months retained per series
const defaultWindowMonths = 60

// Config holds all configuration for one run. It is constructed once at
// process start and passed explicitly into every component that needs it;
// core logic never reads ambient state.
type Config struct {
	// Credentials
	FREDAPIKey    string `mapstructure:"fred_api_key"`
	DocStoreToken string `mapstructure:"docstore_token"`

	// Remote document identity
	DocStoreDocumentID string `mapstructure:"docstore_document_id"`
	DocumentFile       string `mapstructure:"document_file"`

	// Base URLs for API endpoints (configurable for testing)
	FREDBaseURL      string `mapstructure:"fred_base_url"`
	WorldBankBaseURL string `mapstructure:"worldbank_base_url"`
	DocStoreBaseURL  string `mapstructure:"docstore_base_url"`

	// Optional country selection; empty means every supported country
	Countries []string `mapstructure:"countries"`

	// Months of history retained per published series
	WindowMonths int `mapstructure:"window_months"`
}

// Load reads configuration from environment variables and an optional
// config file. Environment variables take precedence over config file
// values.
//
// Expected environment variables:
//   - FRED_API_KEY
//   - DOCSTORE_TOKEN
//   - DOCSTORE_DOCUMENT_ID
//   - DOCUMENT_FILE (optional)
//   - FRED_BASE_URL (optional, defaults to production)
//   - WORLDBANK_BASE_URL (optional, defaults to production)
//   - DOCSTORE_BASE_URL (optional, defaults to production)
//   - COUNTRIES (optional, comma-separated country codes)
//   - WINDOW_MONTHS (optional)
func Load() (*Config, error) {
	v := viper.New()

	v.SetEnvPrefix("")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("fred_base_url", "https://api.stlouisfed.org/fred")
	v.SetDefault("worldbank_base_url", "https://api.worldbank.org/v2")
	v.SetDefault("docstore_base_url", "https://api.docstore.io/v1")
	v.SetDefault("document_file", "indicators.json")
	v.SetDefault("window_months", defaultWindowMonths)

	// Optionally read from config file if it exists
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.econfetcher")
	_ = v.ReadInConfig()

	// Bind environment variables
	v.BindEnv("fred_api_key", "FRED_API_KEY")
	v.BindEnv("docstore_token", "DOCSTORE_TOKEN")
	v.BindEnv("docstore_document_id", "DOCSTORE_DOCUMENT_ID")
	v.BindEnv("document_file", "DOCUMENT_FILE")
	v.BindEnv("fred_base_url", "FRED_BASE_URL")
	v.BindEnv("worldbank_base_url", "WORLDBANK_BASE_URL")
	v.BindEnv("docstore_base_url", "DOCSTORE_BASE_URL")
	v.BindEnv("countries", "COUNTRIES")
	v.BindEnv("window_months", "WINDOW_MONTHS")

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// COUNTRIES from the environment arrives as one comma-separated value
	if len(config.Countries) == 1 && strings.Contains(config.Countries[0], ",") {
		config.Countries = strings.Split(config.Countries[0], ",")
	}

	// Validate required fields
	var missing []string
	if config.FREDAPIKey == "" {
		missing = append(missing, "FRED_API_KEY")
	}
	if config.DocStoreToken == "" {
		missing = append(missing, "DOCSTORE_TOKEN")
	}
	if config.DocStoreDocumentID == "" {
		missing = append(missing, "DOCSTORE_DOCUMENT_ID")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	if config.WindowMonths <= 0 {
		return nil, fmt.Errorf("window_months must be positive, got %d", config.WindowMonths)
	}

	return config, nil
}
