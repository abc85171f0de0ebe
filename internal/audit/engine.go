package audit

import (
	"fmt"
	"time"

	"compliancecore/internal/report"
)

// Run evaluates the rule table against a normalized report. It is pure:
// the same report, type and clock always produce the same result. CBRR
// addendum rules run only for reports declaring the CBRR standard; a partial
// audit skips low-severity rules entirely (they neither pass nor fail).
func Run(n *report.Normalized, typ Type, now time.Time) Result {
	res := Result{
		Type:           typ,
		RuleSetVersion: RuleSetVersion,
		GeneratedAt:    now,
		KRCIs:          []KRCI{},
		BreakdownBySeverity: map[Severity]int{
			SeverityCritical: 0,
			SeverityHigh:     0,
			SeverityMedium:   0,
			SeverityLow:      0,
		},
	}

	cbrr := isCBRR(n)
	penalty := 0

	for _, r := range rules() {
		if r.cbrrOnly && !cbrr {
			continue
		}
		if typ == TypePartial && r.severity == SeverityLow {
			continue
		}
		res.TotalRules++
		if !r.check(n, now) {
			res.PassedRules++
			continue
		}
		res.FailedRules++
		penalty += r.weight
		res.BreakdownBySeverity[r.severity]++
		res.KRCIs = append(res.KRCIs, KRCI{
			Code:           r.code,
			Title:          r.title,
			Description:    r.description,
			Severity:       r.severity,
			Weight:         r.weight,
			Recommendation: r.recommendation,
		})
	}

	res.Score = 100 - penalty
	if res.Score < 0 {
		res.Score = 0
	}
	res.Recommendations = recommendations(res.KRCIs)
	return res
}

func isCBRR(n *report.Normalized) bool {
	return n.Metadata.Standard == "CBRR"
}

// recommendations renders one severity-labelled recommendation per KRCI, or
// a single confirmation line for a clean report.
func recommendations(krcis []KRCI) []string {
	if len(krcis) == 0 {
		return []string{"Report meets all automated compliance checks."}
	}
	out := make([]string, 0, len(krcis))
	for _, k := range krcis {
		out = append(out, fmt.Sprintf("[%s] %s", k.Severity, k.Recommendation))
	}
	return out
}
