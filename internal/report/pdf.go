package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"mrportal/internal"
	"mrportal/internal/errors"

	"github.com/jung-kurt/gofpdf"
)

var logger = internal.DefaultLogger.With("Report")

var (
	brandColor    = [3]int{47, 132, 168}
	bodyTextColor = [3]int{51, 51, 51}
	totalFill     = [3]int{232, 242, 247}
	warningColor  = [3]int{169, 68, 66}
)

const (
	pageWidth       = 190.0
	indicadorWidth  = 70.0
	totalColWidth   = 22.0
	percentColWidth = 20.0
	rowHeight       = 7.0
)

// RenderPDF writes the report as an A4 PDF: a cover page and one page per
// data section, each with its table and comments.
func RenderPDF(w io.Writer, doc *Document) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr(fmt.Sprintf("Relatório %s - %s %d", doc.ClientName, doc.MonthName(), doc.Year)), false)
	pdf.SetAuthor("MR Consultoria", false)
	pdf.AliasNbPages("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 10, tr(fmt.Sprintf("%s - %s de %d", doc.ClientName, doc.MonthName(), doc.Year)), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 10, tr(fmt.Sprintf("Página %d/{nb}", pdf.PageNo())), "", 0, "R", false, 0, "")
	})

	writeCover(pdf, tr, doc)
	for _, page := range doc.Pages {
		writePage(pdf, tr, doc, page)
	}

	if err := pdf.Output(w); err != nil {
		return errors.Wrap(err, "failed to render PDF")
	}
	return nil
}

func writeCover(pdf *gofpdf.Fpdf, tr func(string) string, doc *Document) {
	pdf.AddPage()
	placeLogo(pdf, doc.MRLogoPath, 10, 12)
	placeLogo(pdf, doc.ClientLogo, 150, 12)

	pdf.SetY(90)
	pdf.SetFont("Arial", "B", 24)
	pdf.SetTextColor(brandColor[0], brandColor[1], brandColor[2])
	pdf.CellFormat(0, 14, tr("Relatório de Acompanhamento"), "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 16)
	pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
	pdf.CellFormat(0, 10, tr(doc.ClientName), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 10, tr(fmt.Sprintf("%s de %d", doc.MonthName(), doc.Year)), "", 1, "C", false, 0, "")

	pdf.Ln(6)
	pdf.SetFont("Arial", "", 11)
	if len(doc.Estados) > 0 {
		pdf.CellFormat(0, 7, tr("Estados: "+doc.EstadosLabel()), "", 1, "C", false, 0, "")
	}
	if len(doc.Legalizacao) > 0 {
		pdf.CellFormat(0, 7, tr("Legalização: "+strings.Join(doc.Legalizacao, ", ")), "", 1, "C", false, 0, "")
	}
	if len(doc.Regularizacao) > 0 {
		pdf.CellFormat(0, 7, tr("Regularização: "+strings.Join(doc.Regularizacao, ", ")), "", 1, "C", false, 0, "")
	}
}

func writePage(pdf *gofpdf.Fpdf, tr func(string) string, doc *Document, page *Page) {
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.SetTextColor(brandColor[0], brandColor[1], brandColor[2])
	pdf.Cell(0, 8, tr(page.Title))
	pdf.Ln(9)
	pdf.SetDrawColor(brandColor[0], brandColor[1], brandColor[2])
	pdf.Line(pdf.GetX(), pdf.GetY(), pdf.GetX()+pageWidth, pdf.GetY())
	pdf.Ln(5)

	if page.HasData() {
		writeTable(pdf, tr, doc.Years, page.Rows)
	} else {
		msg := page.Warning
		if msg == "" {
			msg = "Dados indisponíveis para esta página."
		}
		pdf.SetFont("Arial", "", 10)
		pdf.SetTextColor(warningColor[0], warningColor[1], warningColor[2])
		pdf.MultiCell(pageWidth, 5, tr(msg), "", "L", false)
	}

	for _, c := range page.Comments {
		pdf.Ln(6)
		if c.Title != "" {
			pdf.SetFont("Arial", "B", 11)
			pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
			pdf.Cell(0, 6, tr(c.Title))
			pdf.Ln(7)
		}
		pdf.SetFont("Arial", "", 10)
		pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
		pdf.MultiCell(pageWidth, 5, tr(MarkdownText(c.Text)), "", "L", false)
	}
}

func writeTable(pdf *gofpdf.Fpdf, tr func(string) string, years []int, rows []Row) {
	yearWidth := 0.0
	if len(years) > 0 {
		yearWidth = (pageWidth - indicadorWidth - totalColWidth - percentColWidth) / float64(len(years))
	}

	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(brandColor[0], brandColor[1], brandColor[2])
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(indicadorWidth, rowHeight, "Indicador", "1", 0, "L", true, 0, "")
	for _, year := range years {
		pdf.CellFormat(yearWidth, rowHeight, fmt.Sprintf("%d", year), "1", 0, "C", true, 0, "")
	}
	pdf.CellFormat(totalColWidth, rowHeight, "Total", "1", 0, "C", true, 0, "")
	pdf.CellFormat(percentColWidth, rowHeight, "%", "1", 1, "C", true, 0, "")

	pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
	pdf.SetFillColor(totalFill[0], totalFill[1], totalFill[2])
	for _, row := range rows {
		style := ""
		if row.IsMain {
			style = "B"
		}
		pdf.SetFont("Arial", style, 9)

		label := row.Indicador
		if row.Level > 0 {
			label = strings.Repeat("   ", row.Level) + label
		}
		pdf.CellFormat(indicadorWidth, rowHeight, tr(label), "1", 0, "L", row.IsTotal, 0, "")
		for _, year := range years {
			pdf.CellFormat(yearWidth, rowHeight, formatInt(row.YearValue(year)), "1", 0, "C", row.IsTotal, 0, "")
		}
		pdf.CellFormat(totalColWidth, rowHeight, formatInt(row.Total), "1", 0, "C", row.IsTotal, 0, "")
		pdf.CellFormat(percentColWidth, rowHeight, formatPercent(row.Percentual), "1", 1, "C", row.IsTotal, 0, "")
	}
}

// placeLogo draws a png/jpeg logo 40mm wide. Missing or unsupported files
// are skipped so a report never fails over a logo.
func placeLogo(pdf *gofpdf.Fpdf, path string, x, y float64) {
	if path == "" {
		return
	}
	imageType := ""
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		imageType = "PNG"
	case ".jpg", ".jpeg":
		imageType = "JPG"
	default:
		logger.Warn("unsupported logo format: %s", path)
		return
	}
	f, err := os.Open(path)
	if err != nil {
		logger.Warn("logo not readable: %s: %v", path, err)
		return
	}
	defer f.Close()

	opts := gofpdf.ImageOptions{ImageType: imageType, ReadDpi: true}
	info := pdf.RegisterImageOptionsReader(path, opts, f)
	if info == nil || !pdf.Ok() {
		logger.Warn("logo could not be decoded: %s: %v", path, pdf.Error())
		pdf.ClearError()
		return
	}
	pdf.ImageOptions(path, x, y, 40, 0, false, opts, 0, "")
}
