package report

import (
	"os"
	"path/filepath"
	"strings"
)

// MRLogo is the consultancy logo shown on every report.
const MRLogo = "mr-consultoria-logo.png"

// DirLocator finds assets in an ordered list of directories. A name is tried
// as given, then with its case and separator variants.
type DirLocator struct {
	Dirs []string
}

// NewDirLocator creates a locator over dirs, skipping blanks.
func NewDirLocator(dirs ...string) *DirLocator {
	l := &DirLocator{}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) != "" {
			l.Dirs = append(l.Dirs, dir)
		}
	}
	return l
}

// Locate returns the first existing file for name.
func (l *DirLocator) Locate(name string) (string, bool) {
	base := filepath.Base(strings.TrimSpace(name))
	if base == "." || base == "" {
		return "", false
	}
	for _, dir := range l.Dirs {
		for _, candidate := range nameVariants(base) {
			path := filepath.Join(dir, candidate)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path, true
			}
		}
	}
	return "", false
}

// nameVariants yields enel-logo.png, ENEL-logo.png, enel_logo.png, ...
func nameVariants(name string) []string {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	seen := map[string]bool{}
	var out []string
	add := func(s string) {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	add(name)
	for _, s := range []string{stem, strings.ReplaceAll(stem, "-", "_"), strings.ReplaceAll(stem, "_", "-")} {
		add(s + ext)
		if i := strings.IndexAny(s, "-_"); i > 0 {
			add(strings.ToUpper(s[:i]) + s[i:] + ext)
		}
	}
	return out
}
