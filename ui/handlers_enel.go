package ui

import (
	"net/http"
	"strconv"
	"strings"

	"mrportal/app"
	"mrportal/internal/errors"

	"github.com/gin-gonic/gin"
)

// Default columns of the process tabulation.
const (
	DefaultParentColumn = "Macroprocesso"
	DefaultChildColumn  = "Microprocesso"
)

func (s *Server) handleUploadEnel(c *gin.Context) {
	req, done, err := s.uploadFromForm(c, "spreadsheet_name")
	if err != nil {
		respondError(c, err)
		return
	}
	defer done()

	result, err := s.services.Spreadsheets.UploadEnel(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":          "Planilha enviada com sucesso",
		"spreadsheet_name": result.Target,
		"file_name":        result.FileName,
		"file_path":        result.FilePath,
		"replaced":         result.Replaced,
	})
}

func (s *Server) handleListEnel(c *gin.Context) {
	statuses, err := s.services.Spreadsheets.ListEnel(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"spreadsheets": statuses})
}

func (s *Server) handleRequiredEnel(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"required_spreadsheets": app.RequiredSpreadsheets})
}

func (s *Server) handleEnelInfo(c *gin.Context) {
	sheet, err := s.services.Spreadsheets.GetEnel(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sheet)
}

func (s *Server) handleEnelData(c *gin.Context) {
	req, err := aggregateRequestFromQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := s.services.Enel.Aggregate(c.Request.Context(), c.Param("name"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleEnelProcesses(c *gin.Context) {
	name := c.Param("name")
	parent := c.DefaultQuery("parent", DefaultParentColumn)
	child := c.DefaultQuery("child", DefaultChildColumn)

	groups, err := s.services.Enel.Processes(c.Request.Context(), name, parent, child)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"spreadsheet_name": name,
		"parent_column":    parent,
		"child_column":     child,
		"processes":        groups,
	})
}

// aggregateRequestFromQuery maps the query overrides of the data route.
func aggregateRequestFromQuery(c *gin.Context) (app.AggregateRequest, error) {
	years, err := parseYears(c.Query("years"))
	if err != nil {
		return app.AggregateRequest{}, err
	}
	req := app.AggregateRequest{
		Years:          years,
		StatusColumn:   strings.TrimSpace(c.Query("status_column")),
		YearColumn:     strings.TrimSpace(c.Query("year_column")),
		YearMode:       strings.TrimSpace(c.Query("year_parse_mode")),
		FilterNatureza: strings.TrimSpace(c.Query("filter_natureza")),
		ItemColumn:     strings.TrimSpace(c.Query("item_column")),
		ItemNotEquals:  strings.TrimSpace(c.Query("item_not_equals")),
		StatusExclude:  splitList(c.Query("status_exclude"), ","),
		Completed:      splitList(c.Query("concluido_statuses"), ","),
		Canceled:       splitList(c.Query("cancelado_statuses"), ","),
	}
	if raw, ok := c.GetQuery("precision"); ok {
		precision, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil || precision < 0 {
			return app.AggregateRequest{}, errors.InvalidInput("Precisão inválida: " + raw)
		}
		req.Precision = &precision
	}
	return req, nil
}
