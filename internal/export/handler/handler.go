package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"compliancecore/internal/report"
	"compliancecore/pkg/domain"
	dErrors "compliancecore/pkg/domain-errors"
	"compliancecore/pkg/platform/httputil"
	"compliancecore/pkg/requestcontext"
)

// Service defines the interface for export operations.
type Service interface {
	Export(ctx context.Context, tenantID domain.TenantID, reportID domain.ReportID, n *report.Normalized, standard, format string) (string, error)
}

// Handler wires export endpoints to the export service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs an export handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts export endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/reports/{reportID}/export", h.HandleExport)
}

// ExportRequest is the export request body.
type ExportRequest struct {
	TenantID string             `json:"tenant_id"`
	Report   *report.Normalized `json:"report"`
	Standard string             `json:"standard"`
	Format   string             `json:"format"`

	tenantID domain.TenantID
}

func (r *ExportRequest) Validate() error {
	tid, err := domain.ParseTenantID(r.TenantID)
	if err != nil {
		return err
	}
	r.tenantID = tid
	if r.Report == nil {
		return dErrors.New(dErrors.CodeValidation, "report is required")
	}
	if r.Standard == "" {
		return dErrors.New(dErrors.CodeValidation, "standard is required")
	}
	if r.Format == "" {
		return dErrors.New(dErrors.CodeValidation, "format is required")
	}
	return nil
}

// ExportResponse carries the URL of the stored document.
type ExportResponse struct {
	URL string `json:"url"`
}

// HandleExport handles POST /reports/{reportID}/export requests.
func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	reportID, err := domain.ParseReportID(chi.URLParam(r, "reportID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[ExportRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	url, err := h.service.Export(ctx, req.tenantID, reportID, req.Report, req.Standard, req.Format)
	if err != nil {
		h.logger.ErrorContext(ctx, "export failed",
			"request_id", requestID,
			"report_id", reportID.String(),
			"standard", req.Standard,
			"format", req.Format,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "export completed",
		"request_id", requestID,
		"report_id", reportID.String(),
		"standard", req.Standard,
		"format", req.Format,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, ExportResponse{URL: url})
}
