package container

import (
	"context"
	"fmt"

	"mrportal/adapters/db"
	"mrportal/adapters/excel"
	"mrportal/adapters/sheets"
	"mrportal/app"
	"mrportal/internal"
	"mrportal/internal/auth"
	"mrportal/internal/config"
	"mrportal/internal/errors"
	"mrportal/internal/report"
	"mrportal/models"
	"mrportal/ports"

	"github.com/jmoiron/sqlx"
)

var logger = internal.DefaultLogger.With("Container")

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config

	// Infrastructure
	DB *sqlx.DB

	// Repositories (data access layer)
	UserRepo        ports.UserRepository
	ClientRepo      ports.ClientRepository
	SpreadsheetRepo ports.SpreadsheetRepository
	EnelRepo        ports.EnelSpreadsheetRepository

	// Adapters
	Reader ports.FileReader
	// Sheets is nil when no service-account key is configured.
	Sheets *sheets.Client
	Assets ports.AssetLocator
	Tokens *auth.TokenManager

	// Application services
	AuthService        *app.AuthService
	UserService        *app.UserService
	SpreadsheetService *app.SpreadsheetService
	EnelService        *app.EnelDataService
	RegionalService    *app.RegionalService
	ReportService      *app.ReportService
}

// New creates a new dependency injection container
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, errors.ConfigInvalid("config cannot be nil")
	}
	return &Container{Config: cfg}, nil
}

// InitWithDatabase initializes components that require database access
func (c *Container) InitWithDatabase(conn *sqlx.DB) error {
	if conn == nil {
		return errors.ConfigInvalid("database connection cannot be nil")
	}
	c.DB = conn

	if err := conn.Ping(); err != nil {
		return errors.Wrap(err, "database connection test failed")
	}

	c.initRepositories()
	c.initAdapters()
	c.initServices()

	logger.Info("container initialized (driver %s, remote sheets %t)", conn.DriverName(), c.Sheets != nil)
	return nil
}

func (c *Container) initRepositories() {
	c.UserRepo = db.NewUserRepository(c.DB)
	c.ClientRepo = db.NewClientRepository(c.DB)
	c.SpreadsheetRepo = db.NewSpreadsheetRepository(c.DB)
	c.EnelRepo = db.NewEnelSpreadsheetRepository(c.DB)
}

func (c *Container) initAdapters() {
	c.Reader = excel.FileReader{}
	c.Assets = report.NewDirLocator(c.Config.Storage.ImagesDir, c.Config.Storage.RootDir)
	c.Tokens = auth.NewTokenManager(c.Config.Auth.JWTSecret, c.Config.Auth.Issuer, c.Config.Auth.TokenExpiration)

	client, err := newSheetsClient(c.Config.Sheets)
	switch {
	case err == nil:
		c.Sheets = client
		logger.Info("remote sheets enabled for %s", client.ServiceAccountEmail())
	case errors.GetCode(err) == errors.CodeFileNotFound:
		logger.Info("no service account key at %s, remote sheets disabled", c.Config.Sheets.ServiceAccountFile)
	default:
		logger.Warn("remote sheets disabled: %v", err)
	}
}

func newSheetsClient(cfg config.SheetsConfig) (*sheets.Client, error) {
	creds, err := sheets.LoadCredentials(cfg.ServiceAccountFile)
	if err != nil {
		return nil, err
	}
	sheetsConfig := sheets.DefaultConfig()
	if cfg.BaseURL != "" {
		sheetsConfig.BaseURL = cfg.BaseURL
	}
	if cfg.Timeout > 0 {
		sheetsConfig.Timeout = cfg.Timeout
	}
	return sheets.NewClient(sheetsConfig, creds)
}

func (c *Container) initServices() {
	c.AuthService = app.NewAuthService(c.UserRepo, c.Tokens)
	c.UserService = app.NewUserService(c.UserRepo)
	c.SpreadsheetService = app.NewSpreadsheetService(c.Config.Storage.SpreadsheetsDir, c.SpreadsheetRepo, c.EnelRepo)
	c.EnelService = app.NewEnelDataService(c.EnelRepo, c.Reader)
	c.ReportService = app.NewReportService(c.ClientRepo, c.EnelService, c.Assets)

	// A nil *sheets.Client must not become a non-nil interface.
	var source ports.SheetSource
	if c.Sheets != nil {
		source = c.Sheets
	}
	c.RegionalService = app.NewRegionalService(c.loadReportConfig, c.SpreadsheetRepo, c.Reader, source)
}

// loadReportConfig rereads the report configuration on every call so edits
// apply without a restart.
func (c *Container) loadReportConfig() (*models.ReportConfig, error) {
	cfg, err := config.LoadReportConfig(c.Config.Report.ConfigPath)
	if err != nil {
		return nil, errors.Wrap(err, "Configuração de relatórios não encontrada")
	}
	return cfg, nil
}

// Shutdown gracefully shuts down all components
func (c *Container) Shutdown(ctx context.Context) error {
	if c.DB == nil {
		return nil
	}
	if err := c.DB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}
