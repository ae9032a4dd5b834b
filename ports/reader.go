package ports

import (
	"context"

	"mrportal/domain/tabular"
)

// FileReader loads a local spreadsheet. An empty sheetName selects the
// first sheet.
type FileReader interface {
	ReadFile(path, sheetName string) (*tabular.Dataset, error)
}

// SheetSource loads a sheet from a remote spreadsheet service.
type SheetSource interface {
	FetchSheet(ctx context.Context, spreadsheetID, sheetName string) (*tabular.Dataset, error)
}

// AssetLocator resolves a named asset (e.g. a logo file name) to a path.
type AssetLocator interface {
	Locate(name string) (string, bool)
}
