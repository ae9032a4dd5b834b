package db

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	"mrportal/internal/errors"
	"mrportal/models"
	"mrportal/ports"

	"github.com/jmoiron/sqlx"
)

// SpreadsheetRepository implements ports.SpreadsheetRepository with sqlx
type SpreadsheetRepository struct {
	db *sqlx.DB
}

// NewSpreadsheetRepository creates a repository over the spreadsheets table
func NewSpreadsheetRepository(db *sqlx.DB) ports.SpreadsheetRepository {
	return &SpreadsheetRepository{db: db}
}

const spreadsheetColumns = `id, regional, file_path, file_name, sheet_name, status_column, uploaded_at`

func (r *SpreadsheetRepository) Get(ctx context.Context, regional string) (*models.SpreadsheetFile, error) {
	var file models.SpreadsheetFile
	err := r.db.GetContext(ctx, &file,
		r.db.Rebind(`SELECT `+spreadsheetColumns+` FROM spreadsheets WHERE regional = ?`), regional)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NotFound("spreadsheet for regional " + regional)
	}
	if err != nil {
		return nil, dbError(err, "get spreadsheet")
	}
	return &file, nil
}

func (r *SpreadsheetRepository) List(ctx context.Context) ([]models.SpreadsheetFile, error) {
	files := []models.SpreadsheetFile{}
	err := r.db.SelectContext(ctx, &files, `SELECT `+spreadsheetColumns+` FROM spreadsheets ORDER BY regional`)
	if err != nil {
		return nil, dbError(err, "list spreadsheets")
	}
	return files, nil
}

func (r *SpreadsheetRepository) Upsert(ctx context.Context, file *models.SpreadsheetFile) error {
	if file.UploadedAt.IsZero() {
		file.UploadedAt = time.Now().UTC()
	}
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO spreadsheets (regional, file_path, file_name, sheet_name, status_column, uploaded_at)
		VALUES (:regional, :file_path, :file_name, :sheet_name, :status_column, :uploaded_at)
		ON CONFLICT (regional) DO UPDATE SET
			file_path = excluded.file_path,
			file_name = excluded.file_name,
			sheet_name = excluded.sheet_name,
			status_column = excluded.status_column,
			uploaded_at = excluded.uploaded_at
	`, file)
	if err != nil {
		return dbError(err, "save spreadsheet")
	}
	return nil
}

func (r *SpreadsheetRepository) Delete(ctx context.Context, regional string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM spreadsheets WHERE regional = ?`), regional)
	if err != nil {
		return dbError(err, "delete spreadsheet")
	}
	return requireAffected(res, "spreadsheet for regional "+regional)
}

// EnelSpreadsheetRepository implements ports.EnelSpreadsheetRepository with sqlx
type EnelSpreadsheetRepository struct {
	db *sqlx.DB
}

// NewEnelSpreadsheetRepository creates a repository over the enel_spreadsheets table
func NewEnelSpreadsheetRepository(db *sqlx.DB) ports.EnelSpreadsheetRepository {
	return &EnelSpreadsheetRepository{db: db}
}

const enelColumns = `id, spreadsheet_name, file_path, file_name, sheet_name, status_column, uploaded_at`

func (r *EnelSpreadsheetRepository) Get(ctx context.Context, name string) (*models.EnelSpreadsheet, error) {
	var sheet models.EnelSpreadsheet
	err := r.db.GetContext(ctx, &sheet,
		r.db.Rebind(`SELECT `+enelColumns+` FROM enel_spreadsheets WHERE spreadsheet_name = ?`), name)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NotFound("spreadsheet " + name)
	}
	if err != nil {
		return nil, dbError(err, "get enel spreadsheet")
	}
	return &sheet, nil
}

func (r *EnelSpreadsheetRepository) List(ctx context.Context) ([]models.EnelSpreadsheet, error) {
	sheets := []models.EnelSpreadsheet{}
	err := r.db.SelectContext(ctx, &sheets, `SELECT `+enelColumns+` FROM enel_spreadsheets ORDER BY spreadsheet_name`)
	if err != nil {
		return nil, dbError(err, "list enel spreadsheets")
	}
	return sheets, nil
}

func (r *EnelSpreadsheetRepository) Upsert(ctx context.Context, sheet *models.EnelSpreadsheet) error {
	if sheet.UploadedAt.IsZero() {
		sheet.UploadedAt = time.Now().UTC()
	}
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO enel_spreadsheets (spreadsheet_name, file_path, file_name, sheet_name, status_column, uploaded_at)
		VALUES (:spreadsheet_name, :file_path, :file_name, :sheet_name, :status_column, :uploaded_at)
		ON CONFLICT (spreadsheet_name) DO UPDATE SET
			file_path = excluded.file_path,
			file_name = excluded.file_name,
			sheet_name = excluded.sheet_name,
			status_column = excluded.status_column,
			uploaded_at = excluded.uploaded_at
	`, sheet)
	if err != nil {
		return dbError(err, "save enel spreadsheet")
	}
	return nil
}
