// Package plan turns an audit result into an actionable correction
// plan: one work item per finding, enriched with per-rule remediation
// metadata and partitioned by urgency.
package plan

import (
	"time"

	"compliancecore/internal/audit"
	"compliancecore/pkg/domain"
)

// Item is one correction work item derived from a single finding.
type Item struct {
	RuleCode         string         `json:"ruleCode"`
	Category         string         `json:"category"`
	Section          string         `json:"section"`
	Issue            string         `json:"issue"`
	Severity         audit.Severity `json:"severity"`
	Weight           int            `json:"weight"`
	Priority         int            `json:"priority"`
	EstimatedTime    int            `json:"estimatedTime"`
	SuggestedFix     string         `json:"suggestedFix"`
	AutoFixAvailable bool           `json:"autoFixAvailable"`
	Steps            []string       `json:"steps"`
}

// Plan is the full correction plan for one report. Corrections holds
// every item in priority order; QuickWins, MustFix and CanDefer
// partition the same items by urgency.
type Plan struct {
	ReportID           domain.ReportID `json:"reportId"`
	AuditScore         int             `json:"auditScore"`
	TotalIssues        int             `json:"totalIssues"`
	CriticalIssues     int             `json:"criticalIssues"`
	HighIssues         int             `json:"highIssues"`
	MediumIssues       int             `json:"mediumIssues"`
	LowIssues          int             `json:"lowIssues"`
	EstimatedTotalTime int             `json:"estimatedTotalTime"`
	Priority           audit.Severity  `json:"priority"`
	Corrections        []Item          `json:"corrections"`
	QuickWins          []Item          `json:"quickWins"`
	MustFix            []Item          `json:"mustFix"`
	CanDefer           []Item          `json:"canDefer"`
	Summary            string          `json:"summary"`
	CreatedAt          time.Time       `json:"createdAt"`
}
