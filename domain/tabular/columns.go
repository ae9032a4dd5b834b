package tabular

import (
	"fmt"
	"strings"
)

// ColumnNotFoundError carries the requested header name and everything that
// was available, so callers can render a diagnostic instead of a bare failure.
type ColumnNotFoundError struct {
	Requested string
	Available []string
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("column %q not found; available columns: %s", e.Requested, strings.Join(e.Available, ", "))
}

// ResolveColumn returns the index of the first header equal to name after
// trimming and lowercasing both sides. There is no partial matching.
func ResolveColumn(headers []string, name string) (int, error) {
	want := NormalizeKey(name)
	if want != "" {
		for i, header := range headers {
			if NormalizeKey(header) == want {
				return i, nil
			}
		}
	}

	available := make([]string, len(headers))
	copy(available, headers)
	return -1, &ColumnNotFoundError{Requested: name, Available: available}
}

// ResolveColumn resolves name against the dataset headers.
func (d *Dataset) ResolveColumn(name string) (int, error) {
	return ResolveColumn(d.Headers, name)
}
