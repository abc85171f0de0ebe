// Package audit implements the KRCI compliance engine: a versioned table of
// weighted rules evaluated against a normalized report, producing a 0-100
// score, the list of identified KRCIs (Key Regulatory Compliance Issues) and
// prioritized recommendations.
package audit

import (
	"strings"
	"time"

	dErrors "compliancecore/pkg/domain-errors"
)

// Severity grades how badly a violated rule compromises compliance.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// Rank orders severities for sorting, critical first.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityHigh:
		return 1
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 3
	default:
		return 4
	}
}

// Type selects which slice of the rule table runs. A partial audit skips
// low-severity rules, trading completeness for speed on draft reports.
type Type string

const (
	TypeFull    Type = "full"
	TypePartial Type = "partial"
)

// ParseType validates an audit type from the wire, defaulting empty to full.
func ParseType(s string) (Type, error) {
	switch Type(strings.ToLower(strings.TrimSpace(s))) {
	case TypeFull, "":
		return TypeFull, nil
	case TypePartial:
		return TypePartial, nil
	default:
		return "", dErrors.Newf(dErrors.CodeBadRequest, "unsupported audit type: %q", s)
	}
}

// KRCI is one identified compliance issue.
type KRCI struct {
	Code           string   `json:"code"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Severity       Severity `json:"severity"`
	Weight         int      `json:"weight"`
	Recommendation string   `json:"recommendation"`
}

// Result is the outcome of one audit run.
type Result struct {
	Score               int              `json:"score"`
	TotalRules          int              `json:"totalRules"`
	PassedRules         int              `json:"passedRules"`
	FailedRules         int              `json:"failedRules"`
	KRCIs               []KRCI           `json:"krcis"`
	Recommendations     []string         `json:"recommendations"`
	BreakdownBySeverity map[Severity]int `json:"breakdownBySeverity"`
	Type                Type             `json:"auditType"`
	RuleSetVersion      string           `json:"ruleSetVersion"`
	GeneratedAt         time.Time        `json:"generatedAt"`
}
