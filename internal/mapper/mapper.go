// Package mapper translates a Normalized Report into the field layout of one
// regulatory reporting standard. Mappers are pure: they never mutate their
// input, never fail on missing data (every absent field becomes a documented
// sentinel), and never validate. Validation belongs to the audit engine.
//
// Dispatch is a closed strategy table over the Standard enum. Adding a
// standard means adding a case to the table; requesting an unknown standard
// is a configuration error reported to the caller, never defaulted.
package mapper

import (
	"strings"
	"time"

	"compliancecore/internal/report"
	dErrors "compliancecore/pkg/domain-errors"
)

// Standard enumerates the supported regulatory reporting standards.
type Standard string

const (
	JORC2012 Standard = "JORC_2012"
	NI43101  Standard = "NI_43_101"
	PERC     Standard = "PERC"
	SAMREC   Standard = "SAMREC"
	ANM      Standard = "ANM"
	CBRR     Standard = "CBRR"
)

// Standards lists every supported standard in display order.
func Standards() []Standard {
	return []Standard{JORC2012, NI43101, PERC, SAMREC, ANM, CBRR}
}

// ParseStandard validates a standard identifier from the wire.
func ParseStandard(s string) (Standard, error) {
	switch Standard(strings.ToUpper(strings.TrimSpace(s))) {
	case JORC2012:
		return JORC2012, nil
	case NI43101:
		return NI43101, nil
	case PERC:
		return PERC, nil
	case SAMREC:
		return SAMREC, nil
	case ANM:
		return ANM, nil
	case CBRR:
		return CBRR, nil
	default:
		return "", dErrors.Newf(dErrors.CodeBadRequest, "unsupported standard: %q", s)
	}
}

// Payload is a mapped standard payload. Concrete types differ per standard;
// Document exposes the shared superset the renderers consume.
type Payload interface {
	StandardName() string
	Document() Doc
}

// Registry holds the closed mapper table. The clock is injected so the
// missing-date sentinel (today's date) stays reproducible under test.
type Registry struct {
	now func() time.Time
}

// Option configures a Registry.
type Option func(*Registry)

// WithClock overrides the registry clock.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

// New constructs the mapper registry.
func New(opts ...Option) *Registry {
	r := &Registry{now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Map translates n into the payload shape of the requested standard.
func (r *Registry) Map(s Standard, n *report.Normalized) (Payload, error) {
	switch s {
	case JORC2012:
		return r.jorc2012(n), nil
	case NI43101:
		return r.ni43101(n), nil
	case PERC:
		return r.perc(n), nil
	case SAMREC:
		return r.samrec(n), nil
	case ANM:
		return r.anm(n), nil
	case CBRR:
		return r.cbrr(n), nil
	default:
		return nil, dErrors.Newf(dErrors.CodeBadRequest, "unsupported standard: %q", s)
	}
}

// DynamicFields returns the manual-entry form schema for a standard, used
// when a tenant fills report data by hand instead of uploading a document.
func DynamicFields(s Standard) (FormSchema, error) {
	switch s {
	case JORC2012:
		return jorcFields(), nil
	case NI43101:
		return ni43101Fields(), nil
	case PERC:
		return percFields(), nil
	case SAMREC:
		return samrecFields(), nil
	case ANM:
		return anmFields(), nil
	case CBRR:
		return cbrrFields(), nil
	default:
		return FormSchema{}, dErrors.Newf(dErrors.CodeBadRequest, "unsupported standard: %q", s)
	}
}
