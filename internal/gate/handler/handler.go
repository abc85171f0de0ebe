package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"compliancecore/internal/gate"
	"compliancecore/pkg/domain"
	dErrors "compliancecore/pkg/domain-errors"
	"compliancecore/pkg/platform/httputil"
	"compliancecore/pkg/requestcontext"
)

// Service defines the interface for gate operations.
type Service interface {
	Validate(ctx context.Context, tenantID domain.TenantID, title string, exclude domain.ReportID) error
	Admit(ctx context.Context, tenantID domain.TenantID, reportID domain.ReportID, title string) error
	Quota(ctx context.Context, tenantID domain.TenantID) (gate.QuotaInfo, error)
}

// Handler wires gate endpoints to the gate service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a gate handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts gate endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/tenants/{tenantID}/reports:validate", h.HandleValidate)
	r.Post("/tenants/{tenantID}/reports/{reportID}/admit", h.HandleAdmit)
	r.Get("/tenants/{tenantID}/quota", h.HandleQuota)
}

// ValidateRequest is the pre-creation check request body.
type ValidateRequest struct {
	Title           string `json:"title"`
	ExcludeReportID string `json:"exclude_report_id,omitempty"`

	exclude domain.ReportID
}

func (r *ValidateRequest) Validate() error {
	if r.Title == "" {
		return dErrors.New(dErrors.CodeValidation, "title is required")
	}
	if r.ExcludeReportID != "" {
		id, err := domain.ParseReportID(r.ExcludeReportID)
		if err != nil {
			return err
		}
		r.exclude = id
	}
	return nil
}

// ValidateResponse reports that the tenant may create the report.
type ValidateResponse struct {
	Allowed bool `json:"allowed"`
}

// HandleValidate handles POST /tenants/{tenantID}/reports:validate requests.
func (h *Handler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	tenantID, err := domain.ParseTenantID(chi.URLParam(r, "tenantID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[ValidateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if err := h.service.Validate(ctx, tenantID, req.Title, req.exclude); err != nil {
		h.logger.WarnContext(ctx, "report validation rejected",
			"request_id", requestID,
			"tenant_id", tenantID.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, ValidateResponse{Allowed: true})
}

// AdmitRequest is the report admission request body.
type AdmitRequest struct {
	Title string `json:"title"`
}

func (r *AdmitRequest) Validate() error {
	if r.Title == "" {
		return dErrors.New(dErrors.CodeValidation, "title is required")
	}
	return nil
}

// AdmitResponse acknowledges the admitted report.
type AdmitResponse struct {
	Admitted bool `json:"admitted"`
}

// HandleAdmit handles POST /tenants/{tenantID}/reports/{reportID}/admit
// requests: validation, title registration, and quota consumption in one
// step.
func (h *Handler) HandleAdmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	tenantID, err := domain.ParseTenantID(chi.URLParam(r, "tenantID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	reportID, err := domain.ParseReportID(chi.URLParam(r, "reportID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[AdmitRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if err := h.service.Admit(ctx, tenantID, reportID, req.Title); err != nil {
		h.logger.WarnContext(ctx, "report admission rejected",
			"request_id", requestID,
			"tenant_id", tenantID.String(),
			"report_id", reportID.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, AdmitResponse{Admitted: true})
}

// HandleQuota handles GET /tenants/{tenantID}/quota requests.
func (h *Handler) HandleQuota(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	tenantID, err := domain.ParseTenantID(chi.URLParam(r, "tenantID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	info, err := h.service.Quota(ctx, tenantID)
	if err != nil {
		h.logger.WarnContext(ctx, "quota lookup failed",
			"request_id", requestID,
			"tenant_id", tenantID.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, info)
}
