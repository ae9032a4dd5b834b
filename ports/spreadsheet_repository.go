package ports

import (
	"context"

	"mrportal/models"
)

// SpreadsheetRepository stores the file uploaded for each regional.
type SpreadsheetRepository interface {
	Get(ctx context.Context, regional string) (*models.SpreadsheetFile, error)
	List(ctx context.Context) ([]models.SpreadsheetFile, error)
	// Upsert inserts or replaces the row of file.Regional
	Upsert(ctx context.Context, file *models.SpreadsheetFile) error
	Delete(ctx context.Context, regional string) error
}

// EnelSpreadsheetRepository stores the file uploaded for each named ENEL spreadsheet.
type EnelSpreadsheetRepository interface {
	Get(ctx context.Context, name string) (*models.EnelSpreadsheet, error)
	List(ctx context.Context) ([]models.EnelSpreadsheet, error)
	Upsert(ctx context.Context, sheet *models.EnelSpreadsheet) error
}
