package export

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"

	"compliancecore/internal/mapper"
)

//go:embed templates/*.html
var templateFS embed.FS

var pdfTemplates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// pdfView is what the HTML templates render. GeneratedAt is stamped at
// render time in the Brazilian locale format the documents ship with.
type pdfView struct {
	mapper.Doc
	GeneratedAt string
}

// templateFor picks the layout for a standard. CBRR carries its own
// Portuguese layout; every other standard shares the JORC one.
func templateFor(standard mapper.Standard) string {
	if standard == mapper.CBRR {
		return "cbrr.html"
	}
	return "jorc_2012.html"
}

// renderHTML fills the standard's template with the document view. The
// result goes to the rasterizer for PDF conversion.
func renderHTML(standard mapper.Standard, doc mapper.Doc, now time.Time) ([]byte, error) {
	view := pdfView{
		Doc:         doc,
		GeneratedAt: now.Format("02/01/2006 15:04:05"),
	}
	var buf bytes.Buffer
	if err := pdfTemplates.ExecuteTemplate(&buf, templateFor(standard), view); err != nil {
		return nil, fmt.Errorf("render %s template: %w", standard, err)
	}
	return buf.Bytes(), nil
}
