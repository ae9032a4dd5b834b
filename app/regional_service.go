package app

import (
	"context"
	"fmt"
	"strings"

	"mrportal/domain/aggregation"
	"mrportal/domain/tabular"
	"mrportal/internal"
	"mrportal/internal/errors"
	"mrportal/models"
	"mrportal/ports"
)

// Sources a regional summary can come from.
const (
	SourceUpload = "upload"
	SourceSheets = "sheets"
)

// ReportConfigLoader returns the current report configuration.
type ReportConfigLoader func() (*models.ReportConfig, error)

// RegionalConfigView is the slice of the report configuration echoed back
// with a regional summary.
type RegionalConfigView struct {
	Years              []int          `json:"years"`
	Columns            map[string]any `json:"columns"`
	OtherStatusesGroup string         `json:"other_statuses_group"`
}

// RegionalData is the status summary of one regional.
type RegionalData struct {
	Regional string             `json:"regional"`
	Source   string             `json:"source"`
	Years    []int              `json:"years"`
	Config   RegionalConfigView `json:"config"`
	*aggregation.StatusSummary
}

// RegionalService summarizes the legacy per-regional sheets, preferring an
// uploaded file over the remote sheet named in the report configuration.
type RegionalService struct {
	loadConfig ReportConfigLoader
	uploads    ports.SpreadsheetRepository
	reader     ports.FileReader
	sheets     ports.SheetSource
	logger     *internal.Logger
}

// NewRegionalService creates the service. sheets may be nil when no remote
// credentials are configured; only uploaded files are served then.
func NewRegionalService(loadConfig ReportConfigLoader, uploads ports.SpreadsheetRepository, reader ports.FileReader, sheets ports.SheetSource) *RegionalService {
	return &RegionalService{
		loadConfig: loadConfig,
		uploads:    uploads,
		reader:     reader,
		sheets:     sheets,
		logger:     internal.DefaultLogger.With("Regional"),
	}
}

// Summary loads and summarizes the sheet of a regional.
func (s *RegionalService) Summary(ctx context.Context, regional string, years []int) (*RegionalData, error) {
	regional = strings.ToUpper(strings.TrimSpace(regional))
	cfg, err := s.loadConfig()
	if err != nil {
		return nil, err
	}
	years = cfg.YearsOrDefault(years)

	ds, statusColumn, source, err := s.load(ctx, cfg, regional)
	if err != nil {
		return nil, err
	}

	summary, err := aggregation.SummarizeStatuses(ds, statusColumn, years, cfg.StatusConfig)
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, err)
	}
	s.logger.Debug("regional %s from %s: %d main, %d other statuses",
		regional, source, len(summary.MainStatuses), len(summary.OtherStatuses))

	return &RegionalData{
		Regional: regional,
		Source:   source,
		Years:    years,
		Config: RegionalConfigView{
			Years:              years,
			Columns:            cfg.Columns,
			OtherStatusesGroup: cfg.StatusConfig.GroupName(),
		},
		StatusSummary: summary,
	}, nil
}

func (s *RegionalService) load(ctx context.Context, cfg *models.ReportConfig, regional string) (*tabular.Dataset, string, string, error) {
	upload, err := s.uploads.Get(ctx, regional)
	switch {
	case err == nil:
		ds, err := s.reader.ReadFile(upload.FilePath, models.StringValue(upload.SheetName))
		if err != nil {
			return nil, "", "", err
		}
		statusColumn := models.StringValue(upload.StatusColumn)
		if statusColumn == "" {
			statusColumn = DefaultStatusColumn
		}
		return ds, statusColumn, SourceUpload, nil
	case errors.GetCode(err) != errors.CodeNotFound:
		return nil, "", "", err
	}

	sheet, ok := cfg.SheetFor(regional)
	if !ok {
		return nil, "", "", errors.New(errors.CodeNotFound, fmt.Sprintf("Configuração não encontrada para regional %s", regional))
	}
	if strings.TrimSpace(sheet.SpreadsheetID) == "" {
		return nil, "", "", errors.InvalidInput(fmt.Sprintf("ID da planilha não configurado para regional %s", regional))
	}
	if s.sheets == nil {
		return nil, "", "", errors.New(errors.CodeExternalService, "Google Sheets não configurado. Envie a planilha da regional.")
	}

	ds, err := s.sheets.FetchSheet(ctx, sheet.SpreadsheetID, sheet.SheetName)
	if err != nil {
		return nil, "", "", err
	}
	statusColumn := sheet.StatusColumn
	if statusColumn == "" {
		statusColumn = DefaultStatusColumn
	}
	return ds, statusColumn, SourceSheets, nil
}
