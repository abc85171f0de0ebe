// Package domain holds the typed identifiers shared across modules.
// Keeping them as distinct types prevents a tenant ID from being passed
// where a report ID is expected.
package domain

import (
	"strings"

	"github.com/google/uuid"

	dErrors "compliancecore/pkg/domain-errors"
)

// TenantID identifies a customer tenant.
type TenantID uuid.UUID

// ReportID identifies a technical report within a tenant.
type ReportID uuid.UUID

// NilReportID is the zero report ID, used when no report is excluded
// from a duplicate-title check.
var NilReportID = ReportID(uuid.Nil)

func (t TenantID) String() string { return uuid.UUID(t).String() }
func (t TenantID) IsNil() bool    { return uuid.UUID(t) == uuid.Nil }

func (r ReportID) String() string { return uuid.UUID(r).String() }
func (r ReportID) IsNil() bool    { return uuid.UUID(r) == uuid.Nil }

// The IDs serialize as their canonical UUID strings, not byte arrays.

func (t TenantID) MarshalText() ([]byte, error) { return []byte(t.String()), nil }
func (r ReportID) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

func (t *TenantID) UnmarshalText(data []byte) error {
	parsed, err := ParseTenantID(string(data))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (r *ReportID) UnmarshalText(data []byte) error {
	parsed, err := ParseReportID(string(data))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// ParseTenantID parses a tenant ID from its string form.
func ParseTenantID(s string) (TenantID, error) {
	u, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return TenantID{}, dErrors.New(dErrors.CodeValidation, "invalid tenant id")
	}
	return TenantID(u), nil
}

// ParseReportID parses a report ID from its string form.
func ParseReportID(s string) (ReportID, error) {
	u, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return ReportID{}, dErrors.New(dErrors.CodeValidation, "invalid report id")
	}
	return ReportID(u), nil
}

// NewTenantID returns a fresh random tenant ID.
func NewTenantID() TenantID { return TenantID(uuid.New()) }

// NewReportID returns a fresh random report ID.
func NewReportID() ReportID { return ReportID(uuid.New()) }
