package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"compliancecore/internal/audit"
	"compliancecore/internal/report"
	"compliancecore/pkg/domain"
	"compliancecore/pkg/platform/httputil"
	"compliancecore/pkg/requestcontext"
)

// Service defines the interface for audit operations.
type Service interface {
	Audit(ctx context.Context, n *report.Normalized, typ audit.Type) audit.Result
}

// Handler wires audit endpoints to the audit service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs an audit handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts audit endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/reports/{reportID}/audit", h.HandleRun)
}

// HandleRun handles POST /reports/{reportID}/audit requests.
func (h *Handler) HandleRun(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	reportID, err := domain.ParseReportID(chi.URLParam(r, "reportID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[RunRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result := h.service.Audit(ctx, req.Normalized(), req.ParsedType())

	h.logger.InfoContext(ctx, "audit completed",
		"request_id", requestID,
		"report_id", reportID.String(),
		"audit_type", string(req.ParsedType()),
		"score", result.Score,
		"failed_rules", result.FailedRules,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, RunResponse{
		Result:  result,
		Summary: audit.Summary(result),
	})
}
