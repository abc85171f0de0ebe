// Package trail records compliance-relevant actions taken on reports.
// Events are emitted from domain logic and fanned out to sinks, so the
// services stay transport-agnostic.
package trail

import (
	"context"
	"time"

	"github.com/google/uuid"

	"compliancecore/pkg/domain"
)

// Event captures a single action taken against a report or tenant.
type Event struct {
	ID        uuid.UUID       `json:"id"`
	Timestamp time.Time       `json:"timestamp"`
	TenantID  domain.TenantID `json:"tenantId"`
	ReportID  domain.ReportID `json:"reportId,omitempty"`
	Action    string          `json:"action"`
	Details   map[string]any  `json:"details,omitempty"`
}

// Actions recorded by the services.
const (
	ActionAuditCompleted   = "audit_completed"
	ActionQuotaDenied      = "quota_denied"
	ActionDuplicateDenied  = "duplicate_title_denied"
	ActionUsageIncremented = "usage_incremented"
	ActionExportRendered   = "export_rendered"
	ActionExportFailed     = "export_failed"
	ActionPlanExported     = "correction_plan_exported"
)

// Sink persists or forwards events. Implementations must be safe for
// concurrent use.
type Sink interface {
	Append(ctx context.Context, event Event) error
}
