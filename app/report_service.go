package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"mrportal/internal"
	"mrportal/internal/errors"
	"mrportal/internal/report"
	"mrportal/models"
	"mrportal/ports"

	"golang.org/x/sync/errgroup"
)

// Default state lists of a report.
var (
	DefaultLegalizacao   = []string{"CE", "SP", "RJ"}
	DefaultRegularizacao = []string{"RJ", "SP", "CTEEP"}
	ValidEstados         = []string{"CE", "SP", "RJ"}
)

// ReportRequest selects the reference period and content of a report.
type ReportRequest struct {
	ClientID      string
	Month         int
	Year          int
	YearStart     int
	YearEnd       int
	Estados       []string
	Legalizacao   []string
	Regularizacao []string
	StatusNames   map[string]string
	Comments      []report.Comment
}

// Overview is the alvarás table of a client.
type Overview struct {
	Client  *models.Client `json:"client"`
	Years   []int          `json:"years"`
	Rows    []report.Row   `json:"table_data"`
	Warning string         `json:"warning,omitempty"`
}

// ReportService assembles report documents from the ENEL spreadsheets.
type ReportService struct {
	clients ports.ClientRepository
	enel    *EnelDataService
	assets  ports.AssetLocator
	logger  *internal.Logger
	now     func() time.Time
}

// NewReportService creates the service.
func NewReportService(clients ports.ClientRepository, enel *EnelDataService, assets ports.AssetLocator) *ReportService {
	return &ReportService{
		clients: clients,
		enel:    enel,
		assets:  assets,
		logger:  internal.DefaultLogger.With("Reports"),
		now:     time.Now,
	}
}

// Overview aggregates the alvarás spreadsheet for a client.
func (s *ReportService) Overview(ctx context.Context, clientID string, years []int, names map[string]string) (*Overview, error) {
	client, err := s.client(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if len(years) == 0 {
		years = s.enel.DefaultYears()
	}

	page := s.loadPage(ctx, report.PageAlvaras, SheetAlvarasCE, "", years, names)
	return &Overview{Client: client, Years: years, Rows: page.Rows, Warning: page.Warning}, nil
}

// Build assembles the document of a monthly report. Pages whose data cannot
// be loaded are kept with a warning instead of failing the report.
func (s *ReportService) Build(ctx context.Context, req ReportRequest) (*report.Document, error) {
	client, err := s.client(ctx, req.ClientID)
	if err != nil {
		return nil, err
	}

	years := YearRange(req.YearStart, req.YearEnd)
	doc := &report.Document{
		ClientID:      client.ID,
		ClientName:    client.Nome,
		Month:         req.Month,
		Year:          req.Year,
		Estados:       orDefault(req.Estados, ValidEstados),
		Legalizacao:   orDefault(req.Legalizacao, DefaultLegalizacao),
		Regularizacao: orDefault(req.Regularizacao, DefaultRegularizacao),
		Years:         years,
		GeneratedAt:   s.now(),
	}

	if contains(doc.Legalizacao, "CE") {
		alvarasComments, licencaComments := report.SplitComments(req.Comments)
		var alvaras, licenca *report.Page

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			alvaras = s.loadPage(gctx, report.PageAlvaras, SheetAlvarasCE, "", years, req.StatusNames)
			return nil
		})
		g.Go(func() error {
			licenca = s.loadPage(gctx, report.PageLicenca, SheetLegalizacaoCE, NaturezaLicencaSanitaria, years, req.StatusNames)
			return nil
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}

		alvaras.Comments = alvarasComments
		licenca.Comments = licencaComments
		doc.Pages = append(doc.Pages, alvaras, licenca)
	}

	if path, ok := s.assets.Locate(report.MRLogo); ok {
		doc.MRLogoPath = path
	} else {
		s.logger.Warn("logo %s not found", report.MRLogo)
	}
	if path, ok := s.assets.Locate(clientLogoName(client)); ok {
		doc.ClientLogo = path
	}

	s.logger.Info("built report for %s %s/%d with %d pages", client.ID, doc.MonthName(), doc.Year, len(doc.Pages))
	return doc, nil
}

func (s *ReportService) loadPage(ctx context.Context, title, sheet, natureza string, years []int, names map[string]string) *report.Page {
	page := &report.Page{Title: title}
	result, err := s.enel.Aggregate(ctx, sheet, AggregateRequest{Years: years, FilterNatureza: natureza})
	if err != nil {
		s.logger.Warn("page %q: %v", title, err)
		page.Warning = errors.Message(err)
		return page
	}
	if result.HasWarning() {
		page.Warning = result.Warning
		return page
	}
	page.Rows = report.BuildTable(result, years, names)
	return page
}

func (s *ReportService) client(ctx context.Context, id string) (*models.Client, error) {
	client, err := s.clients.GetByID(ctx, strings.TrimSpace(id))
	if errors.GetCode(err) == errors.CodeNotFound {
		return nil, errors.New(errors.CodeNotFound, fmt.Sprintf("Cliente não encontrado: %s", id))
	}
	return client, err
}

func clientLogoName(client *models.Client) string {
	if client.LogoPath != "" {
		return client.LogoPath
	}
	return client.ID + "-logo.png"
}

func orDefault(values, fallback []string) []string {
	if len(values) == 0 {
		return fallback
	}
	return values
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if strings.EqualFold(strings.TrimSpace(v), want) {
			return true
		}
	}
	return false
}
