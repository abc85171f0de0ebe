package gate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"compliancecore/internal/trail"
	"compliancecore/pkg/domain"
	dErrors "compliancecore/pkg/domain-errors"
	"compliancecore/pkg/platform/sentinel"
	"compliancecore/pkg/requestcontext"
)

// LicenseStore persists tenant licenses.
type LicenseStore interface {
	FindByTenant(ctx context.Context, tenantID domain.TenantID) (*License, error)
	Save(ctx context.Context, license *License) error
	// IncrementUsage bumps the tenant's used-report counter atomically
	// and returns the updated license.
	IncrementUsage(ctx context.Context, tenantID domain.TenantID) (*License, error)
}

// TitleStore tracks report titles per tenant for duplicate detection.
type TitleStore interface {
	Exists(ctx context.Context, tenantID domain.TenantID, title string, exclude domain.ReportID) (bool, error)
	Register(ctx context.Context, tenantID domain.TenantID, reportID domain.ReportID, title string) error
	Release(ctx context.Context, reportID domain.ReportID) error
}

// TxRunner runs fn atomically. Postgres deployments supply a runner
// that opens a transaction and threads it through the context so the
// stores pick it up; without a runner fn runs against the bare stores.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service runs the pre-creation checks. Quota is checked before the
// duplicate title so a tenant over quota gets the quota denial even
// when the title would also collide.
type Service struct {
	licenses LicenseStore
	titles   TitleStore
	runner   TxRunner
	tr       *trail.Publisher
	logger   *slog.Logger
}

type Option func(*Service)

func WithTrail(tr *trail.Publisher) Option {
	return func(s *Service) { s.tr = tr }
}

func WithTxRunner(runner TxRunner) Option {
	return func(s *Service) { s.runner = runner }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func New(licenses LicenseStore, titles TitleStore, opts ...Option) (*Service, error) {
	if licenses == nil {
		return nil, errors.New("license store is required")
	}
	if titles == nil {
		return nil, errors.New("title store is required")
	}
	s := &Service{
		licenses: licenses,
		titles:   titles,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Validate checks whether the tenant may create (or retitle) a report.
// exclude names a report whose own title should not count as a
// duplicate, so updates do not collide with themselves.
func (s *Service) Validate(ctx context.Context, tenantID domain.TenantID, title string, exclude domain.ReportID) error {
	if tenantID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "tenant id is required")
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return dErrors.New(dErrors.CodeValidation, "report title is required")
	}

	if err := s.checkQuota(ctx, tenantID); err != nil {
		return err
	}

	exists, err := s.titles.Exists(ctx, tenantID, title, exclude)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "check duplicate title")
	}
	if exists {
		s.logger.WarnContext(ctx, "duplicate report title rejected",
			"tenant_id", tenantID.String(),
			"title", title,
		)
		s.emit(ctx, trail.Event{
			TenantID: tenantID,
			ReportID: exclude,
			Action:   trail.ActionDuplicateDenied,
			Details:  map[string]any{"title": title},
		})
		return dErrors.NewWithCause(dErrors.CodeConflict,
			fmt.Sprintf("a report titled %q already exists for this tenant", title),
			DuplicateTitleCause{Type: CauseDuplicateTitle, Title: title},
		)
	}
	return nil
}

func (s *Service) checkQuota(ctx context.Context, tenantID domain.TenantID) error {
	now := requestcontext.Now(ctx)

	lic, err := s.licenses.FindByTenant(ctx, tenantID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.denyQuota(ctx, tenantID, QuotaCause{Type: CauseQuotaExceeded})
			return dErrors.NewWithCause(dErrors.CodeForbidden,
				"no active license for tenant",
				QuotaCause{Type: CauseQuotaExceeded},
			)
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "load license")
	}

	cause := QuotaCause{
		Type:    CauseQuotaExceeded,
		Current: lic.ReportsUsed,
		Limit:   lic.ReportsLimit,
		Plan:    lic.Plan,
	}
	switch {
	case lic.Status != LicenseActive:
		s.denyQuota(ctx, tenantID, cause)
		return dErrors.NewWithCause(dErrors.CodeForbidden, "license is not active", cause)
	case lic.ExpiredAt(now):
		s.denyQuota(ctx, tenantID, cause)
		return dErrors.NewWithCause(dErrors.CodeForbidden, "license has expired", cause)
	case lic.Exhausted():
		s.denyQuota(ctx, tenantID, cause)
		return dErrors.NewWithCause(dErrors.CodeForbidden,
			fmt.Sprintf("report quota exceeded: %d of %d used on plan %s", lic.ReportsUsed, lic.ReportsLimit, lic.Plan),
			cause,
		)
	}
	return nil
}

func (s *Service) denyQuota(ctx context.Context, tenantID domain.TenantID, cause QuotaCause) {
	s.logger.WarnContext(ctx, "report creation denied by quota",
		"tenant_id", tenantID.String(),
		"used", cause.Current,
		"limit", cause.Limit,
		"plan", string(cause.Plan),
	)
	s.emit(ctx, trail.Event{
		TenantID: tenantID,
		Action:   trail.ActionQuotaDenied,
		Details: map[string]any{
			"current": cause.Current,
			"limit":   cause.Limit,
			"plan":    string(cause.Plan),
		},
	})
}

// Admit runs the full admission flow for a new report: validation,
// title registration, and quota consumption, atomically when a
// transaction runner is configured. A failure leaves no partial state.
func (s *Service) Admit(ctx context.Context, tenantID domain.TenantID, reportID domain.ReportID, title string) error {
	if reportID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "report id is required")
	}
	return s.inTx(ctx, func(ctx context.Context) error {
		if err := s.Validate(ctx, tenantID, title, reportID); err != nil {
			return err
		}
		if err := s.RegisterTitle(ctx, tenantID, reportID, title); err != nil {
			return err
		}
		return s.IncrementUsage(ctx, tenantID)
	})
}

func (s *Service) inTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.runner == nil {
		return fn(ctx)
	}
	return s.runner.RunInTx(ctx, fn)
}

// IncrementUsage consumes one report from the tenant's quota. Callers
// run it after the report is actually persisted.
func (s *Service) IncrementUsage(ctx context.Context, tenantID domain.TenantID) error {
	lic, err := s.licenses.IncrementUsage(ctx, tenantID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "license not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "increment report usage")
	}
	s.emit(ctx, trail.Event{
		TenantID: tenantID,
		Action:   trail.ActionUsageIncremented,
		Details: map[string]any{
			"used":  lic.ReportsUsed,
			"limit": lic.ReportsLimit,
		},
	})
	return nil
}

// RegisterTitle records the title of a newly created report so later
// duplicate checks see it.
func (s *Service) RegisterTitle(ctx context.Context, tenantID domain.TenantID, reportID domain.ReportID, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return dErrors.New(dErrors.CodeValidation, "report title is required")
	}
	if err := s.titles.Register(ctx, tenantID, reportID, title); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return dErrors.NewWithCause(dErrors.CodeConflict,
				fmt.Sprintf("a report titled %q already exists for this tenant", title),
				DuplicateTitleCause{Type: CauseDuplicateTitle, Title: title},
			)
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "register report title")
	}
	return nil
}

// ReleaseTitle frees a deleted report's title for reuse.
func (s *Service) ReleaseTitle(ctx context.Context, reportID domain.ReportID) error {
	if err := s.titles.Release(ctx, reportID); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "release report title")
	}
	return nil
}

// Quota returns the tenant's quota read model.
func (s *Service) Quota(ctx context.Context, tenantID domain.TenantID) (QuotaInfo, error) {
	lic, err := s.licenses.FindByTenant(ctx, tenantID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return QuotaInfo{}, dErrors.New(dErrors.CodeNotFound, "license not found")
		}
		return QuotaInfo{}, dErrors.Wrap(err, dErrors.CodeInternal, "load license")
	}
	return quotaInfo(lic, requestcontext.Now(ctx)), nil
}

func (s *Service) emit(ctx context.Context, event trail.Event) {
	if err := s.tr.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "trail emit failed", "action", event.Action, "error", err)
	}
}
