package app

import (
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks removes combining accents after canonical decomposition.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// SecureFilename reduces an uploaded file name to ASCII letters, digits, dots,
// dashes and underscores. Accents are dropped, spaces become underscores and
// directory parts are discarded.
func SecureFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(strings.TrimSpace(name))
	if ascii, _, err := transform.String(stripMarks, name); err == nil {
		name = ascii
	}

	var b strings.Builder
	for _, r := range name {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)), r == '.', r == '-', r == '_':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune('_')
		}
	}
	return strings.Trim(b.String(), "._")
}

// storedName builds "<prefix>_<base><ext>" for a sanitized upload name.
func storedName(prefix, filename string) string {
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filename, ext)
	return prefix + "_" + base + ext
}

// enelFileID turns a spreadsheet name into a file-name fragment.
func enelFileID(name string) string {
	return strings.NewReplacer(" ", "_", "/", "_", "\\", "_").Replace(name)
}
