// Package config resolves runtime settings for the asconnect CLI.
//
// Resolution order: built-in defaults, then an optional .env file in the
// working directory, then process environment variables. Later sources win.
// Command-line flags are handled by the CLI layer and override everything.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds runtime settings for the asconnect CLI.
type Config struct {
	// KeyPath is the path to the unified API key JSON file.
	KeyPath string

	// Backend endpoints. Overridable so tests and proxies can redirect
	// traffic; the defaults are the production Apple endpoints.
	RESTBaseURL  string
	IrisBaseURL  string
	LegacyRPCURL string

	// UploadWorkers is the number of delivery-file chunks transferred at
	// once. 1 keeps the transfer strictly sequential.
	UploadWorkers int

	// StrictLookup makes app resolution fail when more than one candidate
	// matches instead of picking the first.
	StrictLookup bool

	// HTTPTimeout bounds each network round trip. Zero means no timeout.
	HTTPTimeout time.Duration

	// LogLevel is one of debug, info, warn, error.
	LogLevel string
}

// LoadDefaults populates c with the production endpoints and conservative
// transfer settings.
func (c *Config) LoadDefaults() {
	c.RESTBaseURL = "https://api.appstoreconnect.apple.com/v1"
	c.IrisBaseURL = "https://contentdelivery.itunes.apple.com/MZContentDeliveryService/iris/v1"
	c.LegacyRPCURL = "https://contentdelivery.itunes.apple.com/WebObjects/MZLabelService.woa/json/MZITunesSoftwareService"
	c.UploadWorkers = 1
	c.LogLevel = "info"
}

// Load constructs a Config, applies defaults, then overlays values from a
// .env file (if present) and the process environment.
func Load() (*Config, error) {
	// Missing .env is fine; it only exists in dev setups.
	_ = godotenv.Load()

	cfg := &Config{}
	cfg.LoadDefaults()
	if err := cfg.loadEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadEnv() error {
	if v := os.Getenv("ASC_API_KEY"); v != "" {
		c.KeyPath = v
	}
	if v := os.Getenv("ASC_REST_URL"); v != "" {
		c.RESTBaseURL = v
	}
	if v := os.Getenv("ASC_IRIS_URL"); v != "" {
		c.IrisBaseURL = v
	}
	if v := os.Getenv("ASC_LEGACY_RPC_URL"); v != "" {
		c.LegacyRPCURL = v
	}
	if v := os.Getenv("ASC_UPLOAD_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return fmt.Errorf("ASC_UPLOAD_WORKERS: expected a positive integer, got %q", v)
		}
		c.UploadWorkers = n
	}
	if v := os.Getenv("ASC_STRICT_LOOKUP"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("ASC_STRICT_LOOKUP: expected a boolean, got %q", v)
		}
		c.StrictLookup = b
	}
	if v := os.Getenv("ASC_HTTP_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("ASC_HTTP_TIMEOUT: expected a duration like 30s, got %q", v)
		}
		c.HTTPTimeout = d
	}
	if v := os.Getenv("ASC_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	return nil
}
