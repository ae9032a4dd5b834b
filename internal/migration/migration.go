package migration

import (
	"context"
	"fmt"

	"mrportal/internal/errors"

	"github.com/jmoiron/sqlx"
)

// MigrationRunner creates the portal schema. Every step is idempotent so the
// runner executes on each start.
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// dialect holds the DDL fragments that differ between drivers.
type dialect struct {
	serialPK  string
	timestamp string
}

func dialectFor(driverName string) (dialect, error) {
	switch driverName {
	case "sqlite3":
		return dialect{
			serialPK:  "INTEGER PRIMARY KEY AUTOINCREMENT",
			timestamp: "TIMESTAMP DEFAULT CURRENT_TIMESTAMP",
		}, nil
	case "postgres":
		return dialect{
			serialPK:  "SERIAL PRIMARY KEY",
			timestamp: "TIMESTAMP WITH TIME ZONE DEFAULT NOW()",
		}, nil
	default:
		return dialect{}, errors.ConfigInvalid(fmt.Sprintf("no migrations for driver %q", driverName))
	}
}

// Run executes all database migrations in the correct order
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	d, err := dialectFor(db.DriverName())
	if err != nil {
		return err
	}

	steps := []struct {
		name string
		run  func(context.Context, *sqlx.DB, dialect) error
	}{
		{"users table", r.createUsersTable},
		{"clients table", r.createClientsTable},
		{"spreadsheets table", r.createSpreadsheetsTable},
		{"enel_spreadsheets table", r.createEnelSpreadsheetsTable},
		{"default clients", r.insertDefaultClients},
	}
	for _, step := range steps {
		if err := step.run(ctx, db, d); err != nil {
			return errors.Wrapf(err, "failed to create %s", step.name)
		}
	}
	return nil
}

func (r *MigrationRunner) createUsersTable(ctx context.Context, db *sqlx.DB, d dialect) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			email TEXT PRIMARY KEY,
			nome TEXT NOT NULL,
			senha_hash TEXT NOT NULL,
			role TEXT NOT NULL,
			totp_secret TEXT NOT NULL,
			created_at `+d.timestamp+`
		)
	`)
	return err
}

func (r *MigrationRunner) createClientsTable(ctx context.Context, db *sqlx.DB, _ dialect) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS clients (
			id TEXT PRIMARY KEY,
			nome TEXT NOT NULL,
			logo_path TEXT NOT NULL
		)
	`)
	return err
}

func (r *MigrationRunner) createSpreadsheetsTable(ctx context.Context, db *sqlx.DB, d dialect) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS spreadsheets (
			id `+d.serialPK+`,
			regional TEXT NOT NULL UNIQUE,
			file_path TEXT NOT NULL,
			file_name TEXT NOT NULL,
			sheet_name TEXT,
			status_column TEXT,
			uploaded_at `+d.timestamp+`
		)
	`)
	return err
}

func (r *MigrationRunner) createEnelSpreadsheetsTable(ctx context.Context, db *sqlx.DB, d dialect) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS enel_spreadsheets (
			id `+d.serialPK+`,
			spreadsheet_name TEXT NOT NULL UNIQUE,
			file_path TEXT NOT NULL,
			file_name TEXT NOT NULL,
			sheet_name TEXT,
			status_column TEXT,
			uploaded_at `+d.timestamp+`
		)
	`)
	return err
}

func (r *MigrationRunner) insertDefaultClients(ctx context.Context, db *sqlx.DB, _ dialect) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO clients (id, nome, logo_path)
		VALUES ('enel', 'ENEL', 'images/enel-logo.png')
		ON CONFLICT (id) DO NOTHING
	`)
	return err
}
