package ui

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"mrportal/app"
	"mrportal/internal/report"

	"github.com/gin-gonic/gin"
)

// Accepted range of every report year parameter.
const (
	minReportYear = 2020
	maxReportYear = 2100
)

func (s *Server) handleListClients(c *gin.Context) {
	clients, err := s.services.Clients.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"clients": clients})
}

func (s *Server) handleReportOverview(c *gin.Context) {
	years, err := parseYears(c.Query("years"))
	if err != nil {
		respondError(c, err)
		return
	}

	overview, err := s.services.Reports.Overview(c.Request.Context(), c.Param("client_id"), years, parseStatusNames(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

func (s *Server) handleRegionalData(c *gin.Context) {
	years, err := parseYears(c.Query("years"))
	if err != nil {
		respondError(c, err)
		return
	}

	data, err := s.services.Regional.Summary(c.Request.Context(), c.Param("regional"), years)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, data)
}

func (s *Server) handleReportPDF(c *gin.Context) {
	req := s.reportRequestFromQuery(c)
	doc, err := s.services.Reports.Build(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	var buf bytes.Buffer
	if strings.EqualFold(c.Query("format"), "html") {
		if err := report.RenderHTML(&buf, doc); err != nil {
			respondError(c, err)
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
		return
	}

	if err := report.RenderPDF(&buf, doc); err != nil {
		respondError(c, err)
		return
	}
	disposition := "attachment"
	if strings.EqualFold(c.Query("preview"), "true") {
		disposition = "inline"
	}
	filename := report.Filename(doc.ClientID, doc.Year, doc.Month)
	c.Header("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, filename))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// reportRequestFromQuery reads the report parameters. Invalid or missing
// values fall back to defaults instead of failing the request.
func (s *Server) reportRequestFromQuery(c *gin.Context) app.ReportRequest {
	now := s.now()

	month, ok := queryInt(c, "report_month", "mes")
	if !ok || month < 0 || month > 11 {
		month = int(now.Month()) - 1
	}
	year := reportYear(c, now.Year(), "report_year", "ano")
	yearStart := reportYear(c, app.FirstReportYear, "report_year_start")
	yearEnd := reportYear(c, now.Year(), "report_year_end")

	var estados []string
	for _, estado := range upperList(c.Query("estados"), "&") {
		for _, valid := range app.ValidEstados {
			if estado == valid {
				estados = append(estados, estado)
			}
		}
	}

	var comments []report.Comment
	if raw := c.Query("comments"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &comments); err != nil {
			logger.Warn("ignoring malformed comments: %v", err)
			comments = nil
		}
	}

	return app.ReportRequest{
		ClientID:      c.Param("client_id"),
		Month:         month,
		Year:          year,
		YearStart:     yearStart,
		YearEnd:       yearEnd,
		Estados:       estados,
		Legalizacao:   upperList(c.Query("legalizacao"), ","),
		Regularizacao: upperList(c.Query("regularizacao"), ","),
		StatusNames:   parseStatusNames(c),
		Comments:      comments,
	}
}

// reportYear reads a year parameter, using fallback when it is missing or
// outside minReportYear..maxReportYear.
func reportYear(c *gin.Context, fallback int, keys ...string) int {
	year, ok := queryInt(c, keys...)
	if !ok || year < minReportYear || year > maxReportYear {
		return fallback
	}
	return year
}

// parseStatusNames reads the JSON object of indicator display names.
func parseStatusNames(c *gin.Context) map[string]string {
	raw := c.Query("status_names")
	if raw == "" {
		return nil
	}
	var names map[string]string
	if err := json.Unmarshal([]byte(raw), &names); err != nil {
		logger.Warn("ignoring malformed status_names: %v", err)
		return nil
	}
	return names
}
