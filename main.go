package main

import (
	"context"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"

	"mrportal/adapters/db"
	"mrportal/internal"
	"mrportal/internal/config"
	"mrportal/internal/container"
	"mrportal/internal/errors"
	"mrportal/internal/migration"
	"mrportal/ui"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
)

// initDatabase opens the configured database and brings the schema up to date
func initDatabase(ctx context.Context, appConfig *config.Config) (*sqlx.DB, error) {
	conn, err := db.Open(appConfig.Database.Driver, appConfig.Database.Path, appConfig.Database.URL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}

	migrator := migration.NewRunner()
	if err := migrator.Run(ctx, conn); err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "database migration failed")
	}
	return conn, nil
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	internal.DefaultLogger.SetLevel(internal.ParseLogLevel(appConfig.LogLevel))
	gin.SetMode(appConfig.Server.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := initDatabase(ctx, appConfig)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	appContainer, err := container.New(appConfig)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}
	defer appContainer.Shutdown(context.Background())

	if err := appContainer.InitWithDatabase(conn); err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}

	server := ui.NewServer(ui.Services{
		Auth:         appContainer.AuthService,
		Users:        appContainer.UserService,
		Clients:      appContainer.ClientRepo,
		Spreadsheets: appContainer.SpreadsheetService,
		Enel:         appContainer.EnelService,
		Regional:     appContainer.RegionalService,
		Reports:      appContainer.ReportService,
	}, ui.Options{
		CORSEnabled:    appConfig.CORS.Enabled,
		CORSOrigins:    appConfig.CORS.Origins,
		MaxUploadBytes: 32 << 20,
	})

	addr := net.JoinHostPort(appConfig.Server.Host, appConfig.Server.Port)
	log.Printf("MR reporting portal (%s) starting on %s", appConfig.Environment, addr)
	if err := server.Run(ctx, addr); err != nil {
		log.Printf("Server stopped with error: %v", err)
	}
}
