package plan

import (
	_ "embed"
	"fmt"
	"sort"
	"time"

	"github.com/goccy/go-yaml"

	"compliancecore/internal/audit"
	"compliancecore/pkg/domain"
)

// quickWinMinutes is the cutoff below which a non-urgent item counts as
// a quick win.
const quickWinMinutes = 15

//go:embed rules.yaml
var rulesYAML []byte

type ruleMeta struct {
	Category         string   `yaml:"category"`
	Section          string   `yaml:"section"`
	EstimatedMinutes int      `yaml:"estimatedMinutes"`
	SuggestedFix     string   `yaml:"suggestedFix"`
	AutoFix          bool     `yaml:"autoFix"`
	Steps            []string `yaml:"steps"`
}

type ruleTable struct {
	Defaults ruleMeta            `yaml:"defaults"`
	Rules    map[string]ruleMeta `yaml:"rules"`
}

var remediation = loadRuleTable()

func loadRuleTable() ruleTable {
	var table ruleTable
	if err := yaml.Unmarshal(rulesYAML, &table); err != nil {
		panic(fmt.Sprintf("plan: invalid embedded rules.yaml: %v", err))
	}
	return table
}

// metaFor returns the remediation metadata for a rule code, falling
// back to the defaults for codes the table does not know.
func metaFor(code string) ruleMeta {
	meta, ok := remediation.Rules[code]
	if !ok {
		return remediation.Defaults
	}
	if meta.Category == "" {
		meta.Category = remediation.Defaults.Category
	}
	if meta.Section == "" {
		meta.Section = remediation.Defaults.Section
	}
	if meta.EstimatedMinutes == 0 {
		meta.EstimatedMinutes = remediation.Defaults.EstimatedMinutes
	}
	if meta.SuggestedFix == "" {
		meta.SuggestedFix = remediation.Defaults.SuggestedFix
	}
	return meta
}

// Build derives the correction plan from an audit result. Items are
// ordered by severity (critical first) then weight, and the priority
// field numbers that order from 1.
func Build(reportID domain.ReportID, result audit.Result, now time.Time) Plan {
	items := make([]Item, 0, len(result.KRCIs))
	for _, finding := range result.KRCIs {
		meta := metaFor(finding.Code)
		fix := meta.SuggestedFix
		if fix == "" {
			fix = finding.Recommendation
		}
		items = append(items, Item{
			RuleCode:         finding.Code,
			Category:         meta.Category,
			Section:          meta.Section,
			Issue:            finding.Title,
			Severity:         finding.Severity,
			Weight:           finding.Weight,
			EstimatedTime:    meta.EstimatedMinutes,
			SuggestedFix:     fix,
			AutoFixAvailable: meta.AutoFix,
			Steps:            meta.Steps,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Severity.Rank() != items[j].Severity.Rank() {
			return items[i].Severity.Rank() < items[j].Severity.Rank()
		}
		if items[i].Weight != items[j].Weight {
			return items[i].Weight > items[j].Weight
		}
		return items[i].RuleCode < items[j].RuleCode
	})
	for i := range items {
		items[i].Priority = i + 1
	}

	p := Plan{
		ReportID:    reportID,
		AuditScore:  result.Score,
		TotalIssues: len(items),
		Priority:    audit.SeverityLow,
		Corrections: items,
		QuickWins:   []Item{},
		MustFix:     []Item{},
		CanDefer:    []Item{},
		CreatedAt:   now,
	}
	if len(items) > 0 {
		p.Priority = items[0].Severity
	}

	for _, item := range items {
		switch item.Severity {
		case audit.SeverityCritical:
			p.CriticalIssues++
		case audit.SeverityHigh:
			p.HighIssues++
		case audit.SeverityMedium:
			p.MediumIssues++
		case audit.SeverityLow:
			p.LowIssues++
		}
		p.EstimatedTotalTime += item.EstimatedTime

		switch {
		case item.Severity == audit.SeverityCritical || item.Severity == audit.SeverityHigh:
			p.MustFix = append(p.MustFix, item)
		case item.EstimatedTime <= quickWinMinutes:
			p.QuickWins = append(p.QuickWins, item)
		default:
			p.CanDefer = append(p.CanDefer, item)
		}
	}

	p.Summary = summarize(p)
	return p
}

func summarize(p Plan) string {
	if p.TotalIssues == 0 {
		return "Nenhuma correção necessária. O relatório passou em todas as verificações."
	}
	return fmt.Sprintf(
		"Plano de correção com %d itens: %d críticos, %d altos, %d médios, %d baixos. Tempo total estimado: %dh %dmin.",
		p.TotalIssues, p.CriticalIssues, p.HighIssues, p.MediumIssues, p.LowIssues,
		p.EstimatedTotalTime/60, p.EstimatedTotalTime%60,
	)
}
