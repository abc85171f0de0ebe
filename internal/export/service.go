package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/semaphore"

	"compliancecore/internal/export/metrics"
	"compliancecore/internal/export/storage"
	"compliancecore/internal/mapper"
	"compliancecore/internal/report"
	"compliancecore/internal/trail"
	"compliancecore/pkg/domain"
	dErrors "compliancecore/pkg/domain-errors"
	"compliancecore/pkg/requestcontext"
)

// DefaultMaxConcurrentRenders bounds how many renders run at once.
// Rendering is memory-heavy (rasterizer round-trips, workbook builds),
// so the pool protects the process under burst load.
const DefaultMaxConcurrentRenders = 4

// Service runs the export pipeline: map the normalized report to the
// standard's payload, render the requested format, persist the result.
type Service struct {
	mapper     *mapper.Registry
	store      storage.Store
	rasterizer Rasterizer
	sem        *semaphore.Weighted
	tracer     trace.Tracer
	metrics    *metrics.Metrics
	tr         *trail.Publisher
	logger     *slog.Logger
}

type Option func(*Service)

// WithRasterizer wires the PDF rasterizer. Without one, PDF exports are
// rejected as unavailable; DOCX and XLSX still work.
func WithRasterizer(r Rasterizer) Option {
	return func(s *Service) { s.rasterizer = r }
}

func WithMaxConcurrentRenders(n int64) Option {
	return func(s *Service) { s.sem = semaphore.NewWeighted(n) }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithTrail(tr *trail.Publisher) Option {
	return func(s *Service) { s.tr = tr }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func New(reg *mapper.Registry, store storage.Store, opts ...Option) (*Service, error) {
	if reg == nil {
		return nil, errors.New("mapper registry is required")
	}
	if store == nil {
		return nil, errors.New("storage is required")
	}
	s := &Service{
		mapper: reg,
		store:  store,
		sem:    semaphore.NewWeighted(DefaultMaxConcurrentRenders),
		tracer: otel.Tracer("compliancecore/export"),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Export renders the report in the given standard and format and
// returns the URL of the stored document. Standard and format are
// validated before any rendering or storage work happens.
func (s *Service) Export(ctx context.Context, tenantID domain.TenantID, reportID domain.ReportID, n *report.Normalized, standard, format string) (string, error) {
	std, err := mapper.ParseStandard(standard)
	if err != nil {
		return "", err
	}
	f, err := ParseFormat(format)
	if err != nil {
		return "", err
	}

	if err := s.sem.Acquire(ctx, 1); err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeUnavailable, "render pool unavailable")
	}
	defer s.sem.Release(1)

	ctx, span := s.tracer.Start(ctx, "export.pipeline", trace.WithAttributes(
		attribute.String("export.standard", string(std)),
		attribute.String("export.format", string(f)),
		attribute.String("report.id", reportID.String()),
	))
	defer span.End()

	start := time.Now()
	url, err := s.run(ctx, reportID, n, std, f)
	s.metrics.ObserveDuration(string(f), time.Since(start))
	if err != nil {
		span.RecordError(err)
		s.metrics.IncrementExport(string(std), string(f), "error")
		s.emit(ctx, trail.Event{
			TenantID: tenantID,
			ReportID: reportID,
			Action:   trail.ActionExportFailed,
			Details: map[string]any{
				"standard": string(std),
				"format":   string(f),
				"error":    err.Error(),
			},
		})
		return "", err
	}

	s.metrics.IncrementExport(string(std), string(f), "success")
	s.emit(ctx, trail.Event{
		TenantID: tenantID,
		ReportID: reportID,
		Action:   trail.ActionExportRendered,
		Details: map[string]any{
			"standard": string(std),
			"format":   string(f),
			"url":      url,
		},
	})
	s.logger.InfoContext(ctx, "report exported",
		"report_id", reportID.String(),
		"standard", string(std),
		"format", string(f),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return url, nil
}

// run does the map-render-store sequence. Render and storage failures
// propagate unmodified so callers see the collaborator's own error.
func (s *Service) run(ctx context.Context, reportID domain.ReportID, n *report.Normalized, std mapper.Standard, f Format) (string, error) {
	payload, err := s.mapper.Map(std, n)
	if err != nil {
		return "", err
	}
	doc := payload.Document()

	var data []byte
	switch f {
	case PDF:
		if s.rasterizer == nil {
			return "", dErrors.New(dErrors.CodeUnavailable, "pdf rendering is not configured")
		}
		html, err := renderHTML(std, doc, requestcontext.Now(ctx))
		if err != nil {
			return "", err
		}
		data, err = s.rasterizer.Render(ctx, html)
		if err != nil {
			return "", err
		}
	case DOCX:
		data, err = renderDOCX(doc)
		if err != nil {
			return "", err
		}
	case XLSX:
		data, err = renderXLSX(doc)
		if err != nil {
			return "", err
		}
	}

	key := fmt.Sprintf("reports/%s/exports/%s/report.%s", reportID, std, f.Extension())
	return s.store.Put(ctx, key, f.ContentType(), data)
}

func (s *Service) emit(ctx context.Context, event trail.Event) {
	if err := s.tr.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "trail emit failed", "action", event.Action, "error", err)
	}
}
