// Package db holds the sqlx repositories. Queries are written with ?
// placeholders and rebound for the connected driver, so the same code runs on
// SQLite and PostgreSQL.
package db

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"

	"mrportal/internal/errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// SQLiteDSN enables WAL, a 5s busy timeout and foreign keys on every connection.
func SQLiteDSN(path string) string {
	return fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on", path)
}

// Open connects to the database and verifies the connection.
func Open(driver, path, url string) (*sqlx.DB, error) {
	var dsn string
	switch driver {
	case DriverSQLite:
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, errors.Wrap(err, "failed to create database directory")
		}
		dsn = SQLiteDSN(path)
	case DriverPostgres:
		dsn = url
	default:
		return nil, errors.ConfigInvalid(fmt.Sprintf("unsupported database driver %q", driver))
	}

	conn, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, errors.WithCode(errors.CodeDatabaseError, fmt.Errorf("failed to connect to %s: %w", driver, err))
	}
	return conn, nil
}

// isUniqueViolation reports a duplicate key on either driver.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if stderrors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	var pqErr *pq.Error
	if stderrors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}

func dbError(err error, action string) error {
	return errors.WithCode(errors.CodeDatabaseError, fmt.Errorf("failed to %s: %w", action, err))
}
