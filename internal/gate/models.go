// Package gate enforces the business rules that must pass before a
// report is created or submitted: the tenant's license quota and the
// uniqueness of the report title within the tenant.
package gate

import (
	"time"

	"compliancecore/pkg/domain"
)

// Plan is a subscription tier. Each tier carries a report quota that is
// seeded into the license when it is issued.
type Plan string

const (
	PlanStart      Plan = "START"
	PlanPro        Plan = "PRO"
	PlanEnterprise Plan = "ENTERPRISE"
)

// ReportLimit returns the number of reports the plan allows. Unknown
// plans get no quota.
func (p Plan) ReportLimit() int {
	switch p {
	case PlanStart:
		return 1
	case PlanPro:
		return 5
	case PlanEnterprise:
		return 15
	default:
		return 0
	}
}

// LicenseStatus is the lifecycle state of a tenant's license.
type LicenseStatus string

const (
	LicenseActive    LicenseStatus = "active"
	LicenseSuspended LicenseStatus = "suspended"
)

// License is a tenant's subscription record. ValidUntil is nil for
// licenses that do not expire.
type License struct {
	TenantID     domain.TenantID
	Plan         Plan
	Status       LicenseStatus
	ReportsUsed  int
	ReportsLimit int
	ValidUntil   *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ExpiredAt reports whether the license has lapsed at the given time.
func (l *License) ExpiredAt(now time.Time) bool {
	return l.ValidUntil != nil && now.After(*l.ValidUntil)
}

// Exhausted reports whether the license has no remaining report quota.
func (l *License) Exhausted() bool {
	return l.ReportsUsed >= l.ReportsLimit
}

// NewLicense issues a license for the tenant on the given plan, with
// the plan's default quota.
func NewLicense(tenantID domain.TenantID, plan Plan, now time.Time) *License {
	return &License{
		TenantID:     tenantID,
		Plan:         plan,
		Status:       LicenseActive,
		ReportsLimit: plan.ReportLimit(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Quota statuses surfaced by the read model.
const (
	QuotaStatusOK        = "ok"
	QuotaStatusWarning   = "warning"
	QuotaStatusExhausted = "exhausted"
	QuotaStatusExpired   = "expired"
	QuotaStatusInactive  = "inactive"
)

// quotaWarningThreshold is the fraction of quota use at which the read
// model flips to warning.
const quotaWarningThreshold = 0.8

// QuotaInfo is the read model returned to callers that want to show a
// tenant its remaining quota.
type QuotaInfo struct {
	Plan        Plan    `json:"plan"`
	Used        int     `json:"used"`
	Limit       int     `json:"limit"`
	Remaining   int     `json:"remaining"`
	PercentUsed float64 `json:"percentUsed"`
	Status      string  `json:"status"`
}

func quotaInfo(l *License, now time.Time) QuotaInfo {
	info := QuotaInfo{
		Plan:  l.Plan,
		Used:  l.ReportsUsed,
		Limit: l.ReportsLimit,
	}
	if remaining := l.ReportsLimit - l.ReportsUsed; remaining > 0 {
		info.Remaining = remaining
	}
	if l.ReportsLimit > 0 {
		info.PercentUsed = float64(l.ReportsUsed) / float64(l.ReportsLimit) * 100
	}
	switch {
	case l.Status != LicenseActive:
		info.Status = QuotaStatusInactive
	case l.ExpiredAt(now):
		info.Status = QuotaStatusExpired
	case l.Exhausted():
		info.Status = QuotaStatusExhausted
	case info.PercentUsed >= quotaWarningThreshold*100:
		info.Status = QuotaStatusWarning
	default:
		info.Status = QuotaStatusOK
	}
	return info
}

// Cause payloads attached to gate denials so clients can render a
// precise message without parsing error text.
const (
	CauseQuotaExceeded  = "QUOTA_EXCEEDED"
	CauseDuplicateTitle = "DUPLICATE_TITLE"
)

// QuotaCause explains a quota denial.
type QuotaCause struct {
	Type    string `json:"type"`
	Current int    `json:"current"`
	Limit   int    `json:"limit"`
	Plan    Plan   `json:"plan,omitempty"`
}

// DuplicateTitleCause explains a duplicate-title denial.
type DuplicateTitleCause struct {
	Type  string `json:"type"`
	Title string `json:"title"`
}
