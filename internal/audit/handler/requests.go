package handler

import (
	"time"

	"compliancecore/internal/audit"
	"compliancecore/internal/report"
	dErrors "compliancecore/pkg/domain-errors"
)

// RunRequest is the audit request body. Callers send either a fully
// normalized report or the parser's form shape plus the report title.
type RunRequest struct {
	Report     *report.Normalized `json:"report,omitempty"`
	ParsedForm *report.ParsedForm `json:"parsed_form,omitempty"`
	Title      string             `json:"title,omitempty"`
	CreatedAt  *time.Time         `json:"created_at,omitempty"`
	AuditType  string             `json:"audit_type,omitempty"`

	auditType audit.Type
}

func (r *RunRequest) Validate() error {
	if r.Report == nil && r.ParsedForm == nil {
		return dErrors.New(dErrors.CodeValidation, "report or parsed_form is required")
	}
	if r.Report != nil && r.ParsedForm != nil {
		return dErrors.New(dErrors.CodeValidation, "send either report or parsed_form, not both")
	}
	t, err := audit.ParseType(r.AuditType)
	if err != nil {
		return err
	}
	r.auditType = t
	return nil
}

// ParsedType returns the audit type resolved during validation.
func (r *RunRequest) ParsedType() audit.Type { return r.auditType }

// Normalized returns the report to audit, adapting the parsed form when
// that is what the caller sent.
func (r *RunRequest) Normalized() *report.Normalized {
	if r.Report != nil {
		return r.Report
	}
	return report.FromParsed(*r.ParsedForm, r.Title, r.CreatedAt)
}

// RunResponse wraps the audit result with its human-readable summary.
type RunResponse struct {
	audit.Result
	Summary string `json:"summary"`
}
