// Package export renders a mapped report payload into a downloadable
// document and persists it through the storage port.
package export

import (
	"strings"

	dErrors "compliancecore/pkg/domain-errors"
)

// Format enumerates the supported output formats.
type Format string

const (
	PDF  Format = "PDF"
	DOCX Format = "DOCX"
	XLSX Format = "XLSX"
)

// Formats lists every supported format in display order.
func Formats() []Format {
	return []Format{PDF, DOCX, XLSX}
}

// ParseFormat validates a format identifier from the wire.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToUpper(strings.TrimSpace(s))) {
	case PDF:
		return PDF, nil
	case DOCX:
		return DOCX, nil
	case XLSX:
		return XLSX, nil
	default:
		return "", dErrors.Newf(dErrors.CodeBadRequest, "unsupported format: %q", s)
	}
}

// Extension returns the file extension used in storage keys.
func (f Format) Extension() string {
	switch f {
	case PDF:
		return "pdf"
	case DOCX:
		return "docx"
	case XLSX:
		return "xlsx"
	default:
		return ""
	}
}

// ContentType returns the MIME type stored alongside the object.
func (f Format) ContentType() string {
	switch f {
	case PDF:
		return "application/pdf"
	case DOCX:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case XLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/octet-stream"
	}
}
