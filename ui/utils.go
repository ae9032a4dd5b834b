package ui

import (
	"net/http"
	"strconv"
	"strings"

	"mrportal/internal/errors"

	"github.com/gin-gonic/gin"
)

// respondError writes err as {"error": message} with the status of its code.
// Internal failures are logged with their cause and answered generically
// unless they carry an application message.
func respondError(c *gin.Context, err error) {
	status := errors.HTTPStatus(err)
	message := errors.Message(err)
	if status >= http.StatusInternalServerError {
		logger.Error("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		if !errors.IsAppError(err) {
			message = "Erro interno do servidor"
		}
	}
	c.JSON(status, gin.H{"error": message})
}

// splitList splits s on sep, trimming blanks away.
func splitList(s, sep string) []string {
	var out []string
	for _, part := range strings.Split(s, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// upperList is splitList with every entry uppercased.
func upperList(s, sep string) []string {
	values := splitList(s, sep)
	for i, v := range values {
		values[i] = strings.ToUpper(v)
	}
	return values
}

// parseYears reads a comma-separated year list such as "2024,2025".
func parseYears(s string) ([]int, error) {
	var years []int
	for _, part := range splitList(s, ",") {
		year, err := strconv.Atoi(part)
		if err != nil {
			return nil, errors.InvalidInput("Ano inválido: " + part)
		}
		years = append(years, year)
	}
	return years, nil
}

// queryInt returns the first of keys that parses as an integer.
func queryInt(c *gin.Context, keys ...string) (int, bool) {
	for _, key := range keys {
		if raw, ok := c.GetQuery(key); ok {
			if n, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil {
				return n, true
			}
		}
	}
	return 0, false
}
