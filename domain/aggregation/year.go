package aggregation

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"mrportal/domain/tabular"
)

// YearMode selects how a year is read out of a cell.
type YearMode string

const (
	// YearModeDefault parses the cell as a number and truncates it ("2024.0" -> 2024).
	YearModeDefault YearMode = "default"
	// YearModeLast4 reads the last four characters, falling back to a 19xx/20xx search.
	YearModeLast4 YearMode = "last4"
	// YearModeExtract searches the whole cell for the first 19xx/20xx run.
	YearModeExtract YearMode = "extract_year"
)

var yearPattern = regexp.MustCompile(`(19|20)\d{2}`)

// notTriggered marks a row that was never triggered, so it has no year.
var notTriggered = tabular.NormalizeKey("não acionado")

// ParseYearMode validates a caller supplied mode. Empty means YearModeDefault.
func ParseYearMode(s string) (YearMode, error) {
	switch mode := YearMode(strings.TrimSpace(s)); mode {
	case "":
		return YearModeDefault, nil
	case YearModeDefault, YearModeLast4, YearModeExtract:
		return mode, nil
	default:
		return "", fmt.Errorf("unknown year parse mode %q (expected default, last4 or extract_year)", s)
	}
}

// ExtractYear reads an integer year from raw according to mode. The boolean is
// false when the cell holds no usable year.
func ExtractYear(raw string, mode YearMode) (int, bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return 0, false
	}

	switch mode {
	case YearModeLast4:
		if tabular.NormalizeKey(value) == notTriggered {
			return 0, false
		}
		runes := []rune(value)
		if len(runes) >= 4 {
			tail := string(runes[len(runes)-4:])
			if allDigits(tail) {
				year, err := strconv.Atoi(tail)
				if err == nil {
					return year, true
				}
			}
		}
		return searchYear(value)
	case YearModeExtract:
		return searchYear(value)
	default:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return int(math.Trunc(f)), true
	}
}

func searchYear(value string) (int, bool) {
	match := yearPattern.FindString(value)
	if match == "" {
		return 0, false
	}
	year, err := strconv.Atoi(match)
	if err != nil {
		return 0, false
	}
	return year, true
}

func allDigits(s string) bool {
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}
