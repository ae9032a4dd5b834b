package report

import (
	"bytes"
	"embed"
	"encoding/base64"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"strings"

	"mrportal/internal/errors"
)

//go:embed templates/*.html
var templateFS embed.FS

var htmlTemplates = template.Must(template.New("").Funcs(template.FuncMap{
	"markdown": MarkdownHTML,
	"number":   formatInt,
	"percent":  formatPercent,
}).ParseFS(templateFS, "templates/*.html"))

type htmlView struct {
	*Document
	MRLogoData     template.URL
	ClientLogoData template.URL
}

// RenderHTML writes the report as a standalone HTML page with logos inlined
// as data URIs.
func RenderHTML(w io.Writer, doc *Document) error {
	view := htmlView{
		Document:       doc,
		MRLogoData:     imageDataURI(doc.MRLogoPath),
		ClientLogoData: imageDataURI(doc.ClientLogo),
	}

	var buf bytes.Buffer
	if err := htmlTemplates.ExecuteTemplate(&buf, "report.html", view); err != nil {
		return errors.Wrap(err, "failed to render report template")
	}
	_, err := buf.WriteTo(w)
	return err
}

// imageDataURI reads a png or jpeg file into a data URI, "" when unreadable.
func imageDataURI(path string) template.URL {
	if path == "" {
		return ""
	}
	content, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("logo not readable: %s: %v", path, err)
		return ""
	}
	mime := "image/png"
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		mime = "image/jpeg"
	}
	return template.URL("data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(content))
}
