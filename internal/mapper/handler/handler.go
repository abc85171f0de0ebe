package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"compliancecore/internal/mapper"
	"compliancecore/pkg/platform/httputil"
	"compliancecore/pkg/requestcontext"
)

// Handler serves the per-standard form schemas.
type Handler struct {
	logger *slog.Logger
}

// New constructs a mapper handler.
func New(logger *slog.Logger) *Handler {
	return &Handler{logger: logger}
}

// Register mounts mapper endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/standards/{standard}/fields", h.HandleFields)
}

// HandleFields handles GET /standards/{standard}/fields requests.
func (h *Handler) HandleFields(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	std, err := mapper.ParseStandard(chi.URLParam(r, "standard"))
	if err != nil {
		h.logger.WarnContext(ctx, "unknown standard requested",
			"request_id", requestID,
			"standard", chi.URLParam(r, "standard"),
		)
		httputil.WriteError(w, err)
		return
	}

	schema, err := mapper.DynamicFields(std)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, schema)
}
