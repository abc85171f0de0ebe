package plan

import (
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"compliancecore/internal/audit"
	"compliancecore/pkg/domain"
)

type PlanSuite struct {
	suite.Suite
	now      time.Time
	reportID domain.ReportID
}

func TestPlanSuite(t *testing.T) {
	suite.Run(t, new(PlanSuite))
}

func (s *PlanSuite) SetupTest() {
	s.now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	s.reportID = domain.NewReportID()
}

func (s *PlanSuite) result(krcis ...audit.KRCI) audit.Result {
	return audit.Result{
		Score:       60,
		TotalRules:  22,
		PassedRules: 22 - len(krcis),
		FailedRules: len(krcis),
		KRCIs:       krcis,
	}
}

func (s *PlanSuite) TestBuild() {
	result := s.result(
		audit.KRCI{Code: "KRCI-009", Title: "Missing project name", Severity: audit.SeverityMedium, Weight: 5},
		audit.KRCI{Code: "KRCI-001", Title: "No competent person", Severity: audit.SeverityCritical, Weight: 20},
		audit.KRCI{Code: "KRCI-003", Title: "Missing effective date", Severity: audit.SeverityHigh, Weight: 10},
		audit.KRCI{Code: "KRCI-022", Title: "Short title", Severity: audit.SeverityLow, Weight: 2},
	)

	p := Build(s.reportID, result, s.now)

	s.Run("orders by severity then weight", func() {
		s.Require().Len(p.Corrections, 4)
		codes := []string{
			p.Corrections[0].RuleCode,
			p.Corrections[1].RuleCode,
			p.Corrections[2].RuleCode,
			p.Corrections[3].RuleCode,
		}
		s.Equal([]string{"KRCI-001", "KRCI-003", "KRCI-009", "KRCI-022"}, codes)
		for i, item := range p.Corrections {
			s.Equal(i+1, item.Priority)
		}
	})

	s.Run("totals and priority", func() {
		s.Equal(4, p.TotalIssues)
		s.Equal(1, p.CriticalIssues)
		s.Equal(1, p.HighIssues)
		s.Equal(1, p.MediumIssues)
		s.Equal(1, p.LowIssues)
		s.Equal(audit.SeverityCritical, p.Priority)
		s.Equal(60, p.AuditScore)
		s.Equal(s.now, p.CreatedAt)
	})

	s.Run("remediation metadata is attached", func() {
		first := p.Corrections[0]
		s.Equal("Competent Person", first.Category)
		s.Equal(120, first.EstimatedTime)
		s.NotEmpty(first.SuggestedFix)
		s.NotEmpty(first.Steps)
	})

	s.Run("estimated total time sums all items", func() {
		// 120 + 10 + 5 + 5 from the metadata table
		s.Equal(140, p.EstimatedTotalTime)
	})
}

func (s *PlanSuite) TestPartition() {
	result := s.result(
		audit.KRCI{Code: "KRCI-001", Title: "No competent person", Severity: audit.SeverityCritical, Weight: 20},
		audit.KRCI{Code: "KRCI-014", Title: "No standard", Severity: audit.SeverityHigh, Weight: 10},
		audit.KRCI{Code: "KRCI-009", Title: "Missing project name", Severity: audit.SeverityMedium, Weight: 5},
		audit.KRCI{Code: "KRCI-016", Title: "Missing geology section", Severity: audit.SeverityMedium, Weight: 5},
		audit.KRCI{Code: "KRCI-022", Title: "Short title", Severity: audit.SeverityLow, Weight: 2},
	)

	p := Build(s.reportID, result, s.now)

	s.Run("urgent severities go to mustFix", func() {
		s.Require().Len(p.MustFix, 2)
		s.Equal("KRCI-001", p.MustFix[0].RuleCode)
		s.Equal("KRCI-014", p.MustFix[1].RuleCode)
	})

	s.Run("cheap remainder goes to quickWins", func() {
		// KRCI-009 (5 min) and KRCI-022 (5 min) are quick; KRCI-016 (120 min) defers.
		codes := make([]string, 0, len(p.QuickWins))
		for _, item := range p.QuickWins {
			codes = append(codes, item.RuleCode)
		}
		s.ElementsMatch([]string{"KRCI-009", "KRCI-022"}, codes)

		s.Require().Len(p.CanDefer, 1)
		s.Equal("KRCI-016", p.CanDefer[0].RuleCode)
	})

	s.Run("partition is exact", func() {
		s.Equal(len(p.Corrections), len(p.MustFix)+len(p.QuickWins)+len(p.CanDefer))
		seen := make(map[string]int)
		for _, group := range [][]Item{p.MustFix, p.QuickWins, p.CanDefer} {
			for _, item := range group {
				seen[item.RuleCode]++
			}
		}
		for _, item := range p.Corrections {
			s.Equal(1, seen[item.RuleCode], "item %s appears in exactly one group", item.RuleCode)
		}
	})
}

func (s *PlanSuite) TestPartitionAcrossSeverities() {
	// Every severity at both cheap and expensive estimated times.
	result := s.result(
		audit.KRCI{Code: "KRCI-001", Severity: audit.SeverityCritical, Weight: 20},
		audit.KRCI{Code: "KRCI-003", Severity: audit.SeverityHigh, Weight: 10},
		audit.KRCI{Code: "KRCI-007", Severity: audit.SeverityHigh, Weight: 10},
		audit.KRCI{Code: "KRCI-011", Severity: audit.SeverityMedium, Weight: 5},
		audit.KRCI{Code: "KRCI-018", Severity: audit.SeverityMedium, Weight: 5},
		audit.KRCI{Code: "KRCI-021", Severity: audit.SeverityLow, Weight: 2},
		audit.KRCI{Code: "KRCI-022", Severity: audit.SeverityLow, Weight: 2},
	)

	p := Build(s.reportID, result, s.now)

	for _, item := range p.MustFix {
		s.Contains([]audit.Severity{audit.SeverityCritical, audit.SeverityHigh}, item.Severity)
	}
	for _, item := range p.QuickWins {
		s.NotContains([]audit.Severity{audit.SeverityCritical, audit.SeverityHigh}, item.Severity)
		s.LessOrEqual(item.EstimatedTime, quickWinMinutes)
	}
	for _, item := range p.CanDefer {
		s.NotContains([]audit.Severity{audit.SeverityCritical, audit.SeverityHigh}, item.Severity)
		s.Greater(item.EstimatedTime, quickWinMinutes)
	}
	s.Equal(len(p.Corrections), len(p.MustFix)+len(p.QuickWins)+len(p.CanDefer))
}

func (s *PlanSuite) TestEmptyResult() {
	p := Build(s.reportID, s.result(), s.now)

	s.Equal(0, p.TotalIssues)
	s.Equal(audit.SeverityLow, p.Priority)
	s.Empty(p.Corrections)
	s.Empty(p.MustFix)
	s.Contains(p.Summary, "Nenhuma correção necessária")
}

func (s *PlanSuite) TestUnknownRuleFallsBack() {
	p := Build(s.reportID, s.result(
		audit.KRCI{Code: "KRCI-999", Title: "Future rule", Severity: audit.SeverityMedium, Weight: 5},
	), s.now)

	s.Require().Len(p.Corrections, 1)
	item := p.Corrections[0]
	s.Equal("General", item.Category)
	s.Equal(30, item.EstimatedTime)
	s.NotEmpty(item.SuggestedFix)
}

func (s *PlanSuite) TestExportJSON() {
	p := Build(s.reportID, s.result(
		audit.KRCI{Code: "KRCI-001", Title: "No competent person", Severity: audit.SeverityCritical, Weight: 20},
	), s.now)

	content, filename, err := Export(p, FormatJSON)
	s.Require().NoError(err)
	s.Equal("correction-plan-"+s.reportID.String()+".json", filename)

	var decoded Plan
	s.Require().NoError(json.Unmarshal(content, &decoded))
	s.Equal(p.ReportID, decoded.ReportID)
	s.Equal(p.TotalIssues, decoded.TotalIssues)
	s.Equal(p.Corrections[0].RuleCode, decoded.Corrections[0].RuleCode)
}

func (s *PlanSuite) TestExportMarkdown() {
	p := Build(s.reportID, s.result(
		audit.KRCI{Code: "KRCI-001", Title: "No competent person", Severity: audit.SeverityCritical, Weight: 20},
		audit.KRCI{Code: "KRCI-009", Title: "Missing project name", Severity: audit.SeverityMedium, Weight: 5},
	), s.now)

	content, filename, err := Export(p, FormatMarkdown)
	s.Require().NoError(err)
	s.Equal("correction-plan-"+s.reportID.String()+".md", filename)

	md := string(content)
	s.Contains(md, "# Plano de Correção - KRCI")
	s.Contains(md, "### 1. KRCI-001 - No competent person")
	s.Contains(md, "### 2. KRCI-009 - Missing project name")
	s.Contains(md, "- **Severidade**: critical")
}

func (s *PlanSuite) TestExportCSV() {
	p := Build(s.reportID, s.result(
		audit.KRCI{Code: "KRCI-001", Title: `Report lacks a "competent person", per standard`, Severity: audit.SeverityCritical, Weight: 20},
	), s.now)

	content, filename, err := Export(p, FormatCSV)
	s.Require().NoError(err)
	s.Equal("correction-plan-"+s.reportID.String()+".csv", filename)

	records, err := csv.NewReader(strings.NewReader(string(content))).ReadAll()
	s.Require().NoError(err)
	s.Require().Len(records, 2)
	s.Equal([]string{"Code", "Category", "Severity", "Priority", "Time", "Issue", "Suggestion"}, records[0])
	s.Equal("KRCI-001", records[1][0])
	s.Equal(`Report lacks a "competent person", per standard`, records[1][5],
		"quotes and commas survive the round trip")
}

func (s *PlanSuite) TestParseFormat() {
	for input, want := range map[string]Format{
		"json":     FormatJSON,
		"markdown": FormatMarkdown,
		"md":       FormatMarkdown,
		"CSV":      FormatCSV,
	} {
		got, err := ParseFormat(input)
		s.Require().NoError(err)
		s.Equal(want, got)
	}

	_, err := ParseFormat("xml")
	s.Error(err)
}
