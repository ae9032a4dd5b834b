package sheets

import (
	"fmt"
	"time"
)

// ReadonlyScope is the OAuth scope requested for the service account.
const ReadonlyScope = "https://www.googleapis.com/auth/spreadsheets.readonly"

// Config holds settings for the remote spreadsheet client
type Config struct {
	BaseURL string        `json:"base_url"`
	Timeout time.Duration `json:"timeout"`
	Scope   string        `json:"scope"`
	// TokenLifetime is the validity requested for each signed assertion.
	TokenLifetime time.Duration `json:"token_lifetime"`
}

// DefaultConfig returns the Google Sheets v4 endpoint with read-only scope.
func DefaultConfig() Config {
	return Config{
		BaseURL:       "https://sheets.googleapis.com/v4",
		Timeout:       30 * time.Second,
		Scope:         ReadonlyScope,
		TokenLifetime: time.Hour,
	}
}

// Validate checks if the configuration is usable
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("sheets base URL is required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("sheets timeout must be positive")
	}
	if c.TokenLifetime <= 0 || c.TokenLifetime > time.Hour {
		return fmt.Errorf("token lifetime must be between 0 and 1h")
	}
	return nil
}
