package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"mrportal/domain/aggregation"
	"mrportal/domain/tabular"
	"mrportal/internal"
	"mrportal/internal/errors"
	"mrportal/models"
	"mrportal/ports"
)

// FirstReportYear is the first year shown when a request names none.
const FirstReportYear = 2024

// AggregateRequest carries per-request overrides of a spreadsheet preset.
// Zero values keep the preset.
type AggregateRequest struct {
	Years          []int
	StatusColumn   string
	YearColumn     string
	YearMode       string
	FilterNatureza string
	ItemColumn     string
	ItemNotEquals  string
	StatusExclude  []string
	Completed      []string
	Canceled       []string
	Precision      *int
}

// EnelDataService aggregates the uploaded ENEL spreadsheets.
type EnelDataService struct {
	repo   ports.EnelSpreadsheetRepository
	reader ports.FileReader
	logger *internal.Logger
	now    func() time.Time
}

// NewEnelDataService creates the service.
func NewEnelDataService(repo ports.EnelSpreadsheetRepository, reader ports.FileReader) *EnelDataService {
	return &EnelDataService{
		repo:   repo,
		reader: reader,
		logger: internal.DefaultLogger.With("EnelData"),
		now:    time.Now,
	}
}

// DefaultYears is FirstReportYear through the current year.
func (s *EnelDataService) DefaultYears() []int {
	return YearRange(FirstReportYear, s.now().Year())
}

// YearRange returns from..to inclusive; an inverted range yields [from].
func YearRange(from, to int) []int {
	if to < from {
		return []int{from}
	}
	years := make([]int, 0, to-from+1)
	for y := from; y <= to; y++ {
		years = append(years, y)
	}
	return years
}

// Options merges preset, stored upload settings and request overrides.
func (s *EnelDataService) Options(name string, stored *models.EnelSpreadsheet, req AggregateRequest) (aggregation.Options, error) {
	preset := PresetFor(name)
	opts := aggregation.Options{
		StatusColumn: preset.StatusColumn,
		YearColumn:   preset.YearColumn,
		YearMode:     preset.YearMode,
		Years:        req.Years,
		Filters:      preset.Filters,
		Precision:    preset.Precision,
	}
	if stored != nil && models.StringValue(stored.StatusColumn) != "" {
		opts.StatusColumn = models.StringValue(stored.StatusColumn)
	}
	if len(opts.Years) == 0 {
		opts.Years = s.DefaultYears()
	}

	if req.StatusColumn != "" {
		opts.StatusColumn = req.StatusColumn
	}
	if req.YearColumn != "" {
		opts.YearColumn = req.YearColumn
	}
	if req.YearMode != "" {
		mode, err := aggregation.ParseYearMode(req.YearMode)
		if err != nil {
			return opts, errors.InvalidInput(err.Error())
		}
		opts.YearMode = mode
	}
	if req.FilterNatureza != "" {
		opts.Filters.Natureza = req.FilterNatureza
	}
	if req.ItemColumn != "" {
		opts.Filters.ItemColumn = req.ItemColumn
	}
	if req.ItemNotEquals != "" {
		opts.Filters.ItemNotEquals = req.ItemNotEquals
	}
	if len(req.StatusExclude) > 0 {
		opts.Filters.StatusExclude = req.StatusExclude
	}
	if req.Precision != nil {
		opts.Precision = *req.Precision
	}

	completed, canceled := preset.Completed, preset.Canceled
	if len(req.Completed) > 0 {
		completed = req.Completed
	}
	if len(req.Canceled) > 0 {
		canceled = req.Canceled
	}
	opts.Classifier = aggregation.NewClassifier(completed, canceled)
	return opts, nil
}

// Aggregate loads an uploaded spreadsheet and aggregates it. Column problems
// come back inside the result as a warning; a missing upload or unreadable
// file is an error.
func (s *EnelDataService) Aggregate(ctx context.Context, name string, req AggregateRequest) (*aggregation.Result, error) {
	stored, ds, err := s.load(ctx, name)
	if err != nil {
		return nil, err
	}
	opts, err := s.Options(name, stored, req)
	if err != nil {
		return nil, err
	}

	result := aggregation.Aggregate(ds, opts)
	if result.HasWarning() {
		s.logger.Warn("%s: %s", name, result.Warning)
	} else {
		s.logger.Debug("%s: aggregated %d rows into %d in-progress statuses",
			name, result.TotalDemandado.Total, len(result.EmAndamento.Subcategorias))
	}
	return result, nil
}

// Processes tabulates an uploaded spreadsheet by parent and child columns.
func (s *EnelDataService) Processes(ctx context.Context, name, parentColumn, childColumn string) ([]aggregation.ProcessGroup, error) {
	_, ds, err := s.load(ctx, name)
	if err != nil {
		return nil, err
	}
	groups, err := aggregation.TabulateHierarchy(ds, parentColumn, childColumn)
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, err)
	}
	return groups, nil
}

func (s *EnelDataService) load(ctx context.Context, name string) (*models.EnelSpreadsheet, *tabular.Dataset, error) {
	name = strings.TrimSpace(name)
	if !IsRequiredSpreadsheet(name) {
		return nil, nil, errors.New(errors.CodeNotFound, fmt.Sprintf("Planilha não encontrada: %s", name))
	}

	stored, err := s.repo.Get(ctx, name)
	if errors.GetCode(err) == errors.CodeNotFound {
		return nil, nil, errors.New(errors.CodeFileNotFound,
			fmt.Sprintf("A planilha '%s' ainda não foi enviada. Faça o upload e tente novamente.", name))
	}
	if err != nil {
		return nil, nil, err
	}

	ds, err := s.reader.ReadFile(stored.FilePath, models.StringValue(stored.SheetName))
	if err != nil {
		return nil, nil, err
	}
	return stored, ds, nil
}
