package ui

import (
	"net/http/httptest"
	"testing"
	"time"

	"mrportal/app"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestReportRequestYears(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s := &Server{now: func() time.Time { return time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC) }}

	tests := []struct {
		name      string
		query     string
		year      int
		yearStart int
		yearEnd   int
		month     int
	}{
		{"defaults", "", 2026, app.FirstReportYear, 2026, 2},
		{"explicit", "?report_year=2025&report_year_start=2023&report_year_end=2025&report_month=11", 2025, 2023, 2025, 11},
		{"legacy keys", "?ano=2024&mes=0", 2024, app.FirstReportYear, 2026, 0},
		{"start out of range", "?report_year_start=-1000000000", 2026, app.FirstReportYear, 2026, 2},
		{"end out of range", "?report_year_end=1000000000", 2026, app.FirstReportYear, 2026, 2},
		{"not numbers", "?report_year=abc&report_year_start=x&report_month=13", 2026, app.FirstReportYear, 2026, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest("GET", "/api/reports/enel/pdf"+tt.query, nil)

			req := s.reportRequestFromQuery(c)
			assert.Equal(t, tt.year, req.Year)
			assert.Equal(t, tt.yearStart, req.YearStart)
			assert.Equal(t, tt.yearEnd, req.YearEnd)
			assert.Equal(t, tt.month, req.Month)
			assert.LessOrEqual(t, len(app.YearRange(req.YearStart, req.YearEnd)), maxReportYear-minReportYear+1)
		})
	}
}
