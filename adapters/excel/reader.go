package excel

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"mrportal/domain/tabular"
	"mrportal/internal"
	"mrportal/internal/errors"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DataReader handles reading Excel and CSV files
type DataReader struct {
	filePath string
	fileType string // "xlsx", "xls" or "csv"
	options  ReadOptions
	logger   *internal.Logger
}

// NewDataReader creates a reader for filePath; the format follows the extension.
func NewDataReader(filePath string, options ReadOptions) *DataReader {
	return &DataReader{
		filePath: filePath,
		fileType: strings.TrimPrefix(strings.ToLower(filepath.Ext(filePath)), "."),
		options:  options,
		logger:   internal.DefaultLogger.With("DataReader"),
	}
}

// ReadData reads the whole file into memory. A missing file is FILE_NOT_FOUND;
// anything that cannot be parsed is UNREADABLE_FILE.
func (r *DataReader) ReadData() (*tabular.Dataset, error) {
	r.logger.Debug("Starting to read %s file: %s", r.fileType, r.filePath)

	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, errors.FileNotFound(r.filePath)
	}

	var (
		rows      [][]string
		sheetName string
		err       error
	)
	start := time.Now()
	switch r.fileType {
	case "csv":
		rows, err = r.readCSVRows()
		sheetName = "Sheet1"
	case "xlsx":
		rows, sheetName, err = r.readExcelRows()
	case "xls":
		err = fmt.Errorf("legacy .xls workbooks are not supported, save the file as .xlsx")
	default:
		err = fmt.Errorf("unsupported file type: %s", r.fileType)
	}
	if err != nil {
		r.logger.Error("Failed to read %s: %v", r.filePath, err)
		return nil, errors.UnreadableFile(r.filePath, err)
	}

	ds := r.processRows(rows)
	ds.SheetName = sheetName
	r.logger.Info("%s file read in %.2fms (%d columns, %d rows)",
		strings.ToUpper(r.fileType), float64(time.Since(start).Nanoseconds())/1e6, len(ds.Headers), len(ds.Rows))
	return ds, nil
}

// readExcelRows reads the configured sheet, or the first one.
func (r *DataReader) readExcelRows() ([][]string, string, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheetName := r.options.SheetName
	if sheetName == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, "", fmt.Errorf("workbook has no sheets")
		}
		sheetName = sheets[0]
		r.logger.Debug("Using first sheet: %s", sheetName)
	} else if idx, err := f.GetSheetIndex(sheetName); err != nil || idx < 0 {
		return nil, "", fmt.Errorf("sheet %q not found; available sheets: %s", sheetName, strings.Join(f.GetSheetList(), ", "))
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read sheet %s: %w", sheetName, err)
	}
	return rows, sheetName, nil
}

// readCSVRows decodes the file as UTF-8, falling back to Latin-1, and splits
// on ';' or ',' depending on which one the header line uses.
func (r *DataReader) readCSVRows() ([][]string, error) {
	raw, err := os.ReadFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}

	raw = bytes.TrimPrefix(raw, utf8BOM)
	if !utf8.Valid(raw) {
		r.logger.Debug("CSV is not valid UTF-8, decoding as ISO-8859-1")
		decoded, _, err := transform.Bytes(charmap.ISO8859_1.NewDecoder(), raw)
		if err != nil {
			return nil, fmt.Errorf("failed to decode CSV file: %w", err)
		}
		raw = decoded
	}

	reader := csv.NewReader(bytes.NewReader(raw))
	reader.Comma = detectDelimiter(raw)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	return rows, nil
}

func detectDelimiter(raw []byte) rune {
	firstLine := raw
	if idx := bytes.IndexByte(raw, '\n'); idx >= 0 {
		firstLine = raw[:idx]
	}
	if bytes.Count(firstLine, []byte{';'}) > bytes.Count(firstLine, []byte{','}) {
		return ';'
	}
	return ','
}

// processRows splits raw rows into header and data, trimming every cell and
// dropping rows that are entirely blank.
func (r *DataReader) processRows(rows [][]string) *tabular.Dataset {
	ds := &tabular.Dataset{Headers: []string{}, Rows: [][]string{}}
	if r.options.HeaderRow < 0 || r.options.HeaderRow >= len(rows) {
		return ds
	}

	headerRow := rows[r.options.HeaderRow]
	ds.Headers = make([]string, len(headerRow))
	for i, header := range headerRow {
		ds.Headers[i] = strings.TrimSpace(header)
	}

	for _, row := range rows[r.options.HeaderRow+1:] {
		cells := make([]string, len(row))
		blank := true
		for j, cell := range row {
			cells[j] = strings.TrimSpace(cell)
			if cells[j] != "" {
				blank = false
			}
		}
		if blank {
			continue
		}
		ds.Rows = append(ds.Rows, cells)
	}
	return ds
}
