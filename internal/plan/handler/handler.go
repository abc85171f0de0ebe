package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"compliancecore/internal/audit"
	"compliancecore/internal/plan"
	"compliancecore/internal/report"
	"compliancecore/pkg/domain"
	dErrors "compliancecore/pkg/domain-errors"
	"compliancecore/pkg/platform/httputil"
	"compliancecore/pkg/requestcontext"
)

// Auditor runs the compliance audit the plan is derived from.
type Auditor interface {
	Audit(ctx context.Context, n *report.Normalized, typ audit.Type) audit.Result
}

// Handler wires the correction plan endpoint to the audit service and
// plan builder.
type Handler struct {
	auditor Auditor
	logger  *slog.Logger
}

// New constructs a plan handler with its dependencies.
func New(auditor Auditor, logger *slog.Logger) *Handler {
	return &Handler{
		auditor: auditor,
		logger:  logger,
	}
}

// Register mounts plan endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/reports/{reportID}/correction-plan/export", h.HandleExport)
}

// ExportRequest asks for the report's correction plan in one format.
type ExportRequest struct {
	Report    *report.Normalized `json:"report"`
	AuditType string             `json:"audit_type,omitempty"`
	Format    string             `json:"format"`

	auditType audit.Type
	format    plan.Format
}

func (r *ExportRequest) Validate() error {
	if r.Report == nil {
		return dErrors.New(dErrors.CodeValidation, "report is required")
	}
	t, err := audit.ParseType(r.AuditType)
	if err != nil {
		return err
	}
	r.auditType = t
	f, err := plan.ParseFormat(r.Format)
	if err != nil {
		return err
	}
	r.format = f
	return nil
}

// HandleExport handles POST /reports/{reportID}/correction-plan/export.
// The response body is the exported plan itself, with a download
// filename in Content-Disposition.
func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	reportID, err := domain.ParseReportID(chi.URLParam(r, "reportID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[ExportRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result := h.auditor.Audit(ctx, req.Report, req.auditType)
	p := plan.Build(reportID, result, requestcontext.Now(ctx))

	content, filename, err := plan.Export(p, req.format)
	if err != nil {
		h.logger.ErrorContext(ctx, "plan export failed",
			"request_id", requestID,
			"report_id", reportID.String(),
			"format", string(req.format),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "correction plan exported",
		"request_id", requestID,
		"report_id", reportID.String(),
		"format", string(req.format),
		"items", p.TotalIssues,
	)

	w.Header().Set("Content-Type", req.format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(content)
}
