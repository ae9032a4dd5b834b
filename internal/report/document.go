package report

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Page titles. Comments are routed to a page by these exact strings.
const (
	PageAlvaras = "Visão Geral - Alvarás de Funcionamento"
	PageLicenca = "Licença Sanitária - Renovação"
)

var monthNames = [12]string{
	"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

// MonthName returns the Portuguese name of a zero-based month.
func MonthName(month int) string {
	if month < 0 || month > 11 {
		return ""
	}
	return monthNames[month]
}

// Filename is the download name of a report, with a one-based month.
func Filename(clientID string, year, month int) string {
	return fmt.Sprintf("relatorio-%s-%d-%02d.pdf", clientID, year, month+1)
}

// Comment is a free-text note attached to a report page. Text may contain
// Markdown.
type Comment struct {
	Page  string `json:"page"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

// UnmarshalJSON also accepts a bare string, read as a comment without page.
func (c *Comment) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*c = Comment{Text: text}
		return nil
	}
	type plain Comment
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*c = Comment(p)
	return nil
}

// SplitComments routes comments to the alvarás page unless they name the
// licença-sanitária page. Comments naming any other page are dropped.
func SplitComments(comments []Comment) (alvaras, licenca []Comment) {
	for _, c := range comments {
		switch strings.TrimSpace(c.Page) {
		case PageLicenca:
			licenca = append(licenca, c)
		case "", PageAlvaras:
			alvaras = append(alvaras, c)
		}
	}
	return alvaras, licenca
}

// Page is one data page of the report. Rows is empty when the data could not
// be loaded; Warning then explains why.
type Page struct {
	Title    string
	Rows     []Row
	Comments []Comment
	Warning  string
}

// HasData reports whether the page has a table to show.
func (p *Page) HasData() bool {
	return p != nil && len(p.Rows) > 0
}

// Document is everything needed to render one monthly report.
type Document struct {
	ClientID      string
	ClientName    string
	Month         int
	Year          int
	Estados       []string
	Legalizacao   []string
	Regularizacao []string
	Years         []int
	Pages         []*Page
	MRLogoPath    string
	ClientLogo    string
	GeneratedAt   time.Time
}

// MonthName is the Portuguese name of the reference month.
func (d *Document) MonthName() string {
	return MonthName(d.Month)
}

// EstadosLabel joins the states for display, e.g. "CE | SP | RJ".
func (d *Document) EstadosLabel() string {
	return strings.Join(d.Estados, " | ")
}

// formatInt writes n the Brazilian way, with "." thousands separators.
func formatInt(n int) string {
	return message.NewPrinter(language.BrazilianPortuguese).Sprintf("%d", n)
}

// formatPercent writes p with one decimal and a comma, e.g. "33,3%".
func formatPercent(p float64) string {
	return message.NewPrinter(language.BrazilianPortuguese).Sprintf("%.1f%%", p)
}
