package config

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"mrportal/internal/errors"
	"mrportal/models"
)

// Config represents the complete application configuration
type Config struct {
	Environment string
	LogLevel    string
	Database    DatabaseConfig
	Auth        AuthConfig
	Server      ServerConfig
	Storage     StorageConfig
	Report      ReportConfig
	Sheets      SheetsConfig
	CORS        CORSConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Driver string // sqlite3 or postgres
	Path   string // sqlite file
	URL    string // postgres DSN
}

// AuthConfig holds token settings
type AuthConfig struct {
	JWTSecret       string
	TokenExpiration time.Duration
	Issuer          string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Host    string
	Port    string
	GinMode string
}

// StorageConfig holds file system paths for uploads and report assets
type StorageConfig struct {
	RootDir         string
	SpreadsheetsDir string
	ImagesDir       string
}

// ReportConfig points at the JSON report configuration
type ReportConfig struct {
	ConfigPath string
}

// SheetsConfig holds the remote spreadsheet client settings
type SheetsConfig struct {
	ServiceAccountFile string
	BaseURL            string
	Timeout            time.Duration
}

// CORSConfig controls cross-origin access
type CORSConfig struct {
	Enabled bool
	Origins []string
}

const devJWTSecret = "dev-secret-key-change-in-production"

// IsProduction reports whether APP_ENV is production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	env := getEnvOrDefault("APP_ENV", "development")
	production := env == "production"
	root := getEnvOrDefault("APP_ROOT", ".")

	config := &Config{
		Environment: env,
		LogLevel:    getEnvOrDefault("LOG_LEVEL", defaultLogLevel(production)),
		Database:    *loadDatabaseConfig(root),
		Server:      *loadServerConfig(production),
		Storage:     *loadStorageConfig(root),
		Report: ReportConfig{
			ConfigPath: getEnvOrDefault("REPORT_CONFIG_PATH", filepath.Join(root, "config", "report_config.json")),
		},
		Sheets: SheetsConfig{
			ServiceAccountFile: getEnvOrDefault("GOOGLE_SERVICE_ACCOUNT_FILE", "/run/secrets/google.json"),
			BaseURL:            getEnvOrDefault("SHEETS_BASE_URL", "https://sheets.googleapis.com/v4"),
			Timeout:            getEnvDurationOrDefault("SHEETS_TIMEOUT", 30*time.Second),
		},
		CORS: *loadCORSConfig(production),
	}

	authConfig, err := loadAuthConfig(production)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load auth configuration")
	}
	config.Auth = *authConfig

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func defaultLogLevel(production bool) string {
	if production {
		return "INFO"
	}
	return "DEBUG"
}

func loadDatabaseConfig(root string) *DatabaseConfig {
	path := getEnvOrDefault("DB_PATH", filepath.Join(root, "data", "database.db"))
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return &DatabaseConfig{
		Driver: getEnvOrDefault("DB_DRIVER", "sqlite3"),
		Path:   path,
		URL:    getEnvOrDefault("DATABASE_URL", ""),
	}
}

func loadAuthConfig(production bool) (*AuthConfig, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		if production {
			return nil, errors.ConfigInvalid("JWT_SECRET must be set in production")
		}
		log.Println("WARNING: JWT_SECRET not set, using insecure development secret")
		secret = devJWTSecret
	}

	return &AuthConfig{
		JWTSecret:       secret,
		TokenExpiration: time.Duration(getEnvIntOrDefault("JWT_EXPIRATION_HOURS", 24)) * time.Hour,
		Issuer:          getEnvOrDefault("JWT_ISSUER", "mrportal"),
	}, nil
}

func loadServerConfig(production bool) *ServerConfig {
	host := "0.0.0.0"
	mode := "debug"
	if production {
		host = "127.0.0.1"
		mode = "release"
	}
	return &ServerConfig{
		Host:    getEnvOrDefault("HOST", host),
		Port:    getEnvOrDefault("PORT", "5000"),
		GinMode: getEnvOrDefault("GIN_MODE", mode),
	}
}

func loadStorageConfig(root string) *StorageConfig {
	return &StorageConfig{
		RootDir:         root,
		SpreadsheetsDir: getEnvOrDefault("SPREADSHEETS_DIR", filepath.Join(root, "data", "spreadsheets")),
		ImagesDir:       getEnvOrDefault("IMAGES_DIR", filepath.Join(root, "assets", "images")),
	}
}

func loadCORSConfig(production bool) *CORSConfig {
	enabled := getEnvBoolOrDefault("ENABLE_CORS", !production)
	raw := getEnvOrDefault("CORS_ORIGINS", "*")

	var origins []string
	if raw != "*" {
		for _, origin := range strings.Split(raw, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				origins = append(origins, origin)
			}
		}
	}
	if len(origins) == 0 && enabled {
		origins = []string{"*"}
	}

	return &CORSConfig{Enabled: enabled, Origins: origins}
}

func validateConfig(config *Config) error {
	switch config.Database.Driver {
	case "sqlite3":
		if config.Database.Path == "" {
			return errors.ConfigInvalid("DB_PATH is required for sqlite3")
		}
	case "postgres":
		if config.Database.URL == "" {
			return errors.ConfigInvalid("DATABASE_URL is required for postgres")
		}
	default:
		return errors.ConfigInvalid("DB_DRIVER must be sqlite3 or postgres")
	}
	if config.Auth.TokenExpiration <= 0 {
		return errors.ConfigInvalid("JWT_EXPIRATION_HOURS must be positive")
	}
	return nil
}

// LoadReportConfig reads the JSON report configuration. A missing file is
// reported as CONFIG_INVALID so handlers can answer 500 with a clear message.
func LoadReportConfig(path string) (*models.ReportConfig, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigInvalid("report configuration not found: " + path)
		}
		return nil, errors.Wrap(err, "failed to read report configuration")
	}

	var cfg models.ReportConfig
	if err := json.Unmarshal(content, &cfg); err != nil {
		return nil, errors.WithCode(errors.CodeConfigInvalid, err)
	}
	return &cfg, nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
		switch strings.ToLower(value) {
		case "yes", "y", "on":
			return true
		case "no", "n", "off":
			return false
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
