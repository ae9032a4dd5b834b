package models

import "time"

// SpreadsheetFile is an uploaded file bound to a regional (CE, SP, RJ, ...).
type SpreadsheetFile struct {
	ID           int64     `json:"-" db:"id"`
	Regional     string    `json:"regional" db:"regional"`
	FilePath     string    `json:"file_path" db:"file_path"`
	FileName     string    `json:"file_name" db:"file_name"`
	SheetName    *string   `json:"sheet_name" db:"sheet_name"`
	StatusColumn *string   `json:"status_column" db:"status_column"`
	UploadedAt   time.Time `json:"uploaded_at" db:"uploaded_at"`
}

// EnelSpreadsheet is an uploaded file bound to one of the named ENEL spreadsheets.
type EnelSpreadsheet struct {
	ID              int64     `json:"-" db:"id"`
	SpreadsheetName string    `json:"spreadsheet_name" db:"spreadsheet_name"`
	FilePath        string    `json:"file_path" db:"file_path"`
	FileName        string    `json:"file_name" db:"file_name"`
	SheetName       *string   `json:"sheet_name" db:"sheet_name"`
	StatusColumn    *string   `json:"status_column" db:"status_column"`
	UploadedAt      time.Time `json:"uploaded_at" db:"uploaded_at"`
}

// EnelSpreadsheetStatus is a catalogue entry with its upload state.
type EnelSpreadsheetStatus struct {
	SpreadsheetName string     `json:"spreadsheet_name"`
	FileName        *string    `json:"file_name"`
	SheetName       *string    `json:"sheet_name"`
	StatusColumn    *string    `json:"status_column"`
	UploadedAt      *time.Time `json:"uploaded_at"`
	IsUploaded      bool       `json:"is_uploaded"`
}

// StringValue dereferences an optional string, returning "" for nil.
func StringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// OptionalString returns nil for a blank string.
func OptionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
