package audit

import (
	"strings"
	"time"

	"compliancecore/internal/report"
)

// RuleSetVersion identifies the rule table baked into this build. Results
// carry the version so stored audits can be traced to the rules that
// produced them.
const RuleSetVersion = "2024.2"

// minSamplingMethodLen is the shortest sampling method description accepted
// as detailed enough (KRCI-021).
const minSamplingMethodLen = 15

// minTitleLen is the shortest report title not flagged as generic (KRCI-022).
const minTitleLen = 20

// maxReportAge flags reports whose effective date is older than 24 months
// (KRCI-008).
const maxReportAgeMonths = 24

// rule is one entry of the KRCI table. check returns true when the rule is
// VIOLATED. cbrrOnly rules run only for reports declaring the CBRR standard.
type rule struct {
	code           string
	title          string
	description    string
	recommendation string
	severity       Severity
	weight         int
	cbrrOnly       bool
	check          func(n *report.Normalized, now time.Time) bool
}

// never is the check for reserved rule slots kept for numbering stability.
func never(*report.Normalized, time.Time) bool { return false }

func rules() []rule {
	return []rule{
		{
			code:           "KRCI-001",
			title:          "Missing competent person",
			description:    "The report declares no competent or qualified person.",
			recommendation: "Add at least one competent person with name, qualification and organization.",
			severity:       SeverityCritical,
			weight:         20,
			check: func(n *report.Normalized, _ time.Time) bool {
				return len(n.CompetentPersons) == 0
			},
		},
		{
			code:           "KRCI-002",
			title:          "Missing resource estimates",
			description:    "The report contains no mineral resource estimate rows.",
			recommendation: "Include a classified mineral resource table with tonnage and grade.",
			severity:       SeverityCritical,
			weight:         18,
			check: func(n *report.Normalized, _ time.Time) bool {
				return len(n.ResourceEstimates) == 0
			},
		},
		{
			code:           "KRCI-003",
			title:          "Missing effective date",
			description:    "No effective date is declared for the estimates.",
			recommendation: "Declare the effective date of the mineral resource and reserve estimates.",
			severity:       SeverityHigh,
			weight:         10,
			check: func(n *report.Normalized, _ time.Time) bool {
				return strings.TrimSpace(n.Metadata.EffectiveDate) == ""
			},
		},
		{
			code:           "KRCI-004",
			title:          "Missing QA/QC sampling method",
			description:    "The report does not document its sampling methodology.",
			recommendation: "Document the sampling method and quality control procedures.",
			severity:       SeverityHigh,
			weight:         10,
			check: func(n *report.Normalized, _ time.Time) bool {
				return n.QAQC == nil || strings.TrimSpace(n.QAQC.SamplingMethod) == ""
			},
		},
		{
			code:           "KRCI-005",
			title:          "Missing cost assumptions",
			description:    "No capital or operating cost assumptions are declared.",
			recommendation: "State the CAPEX and OPEX assumptions supporting the economic analysis.",
			severity:       SeverityHigh,
			weight:         10,
			check: func(n *report.Normalized, _ time.Time) bool {
				return n.Economics == nil || (!n.Economics.Has("capex") && !n.Economics.Has("opex"))
			},
		},
		{
			code:           "KRCI-006",
			title:          "Resource row missing cut-off grade",
			description:    "One or more resource rows omit the cut-off grade.",
			recommendation: "Report the cut-off grade applied to each resource classification.",
			severity:       SeverityMedium,
			weight:         5,
			check: func(n *report.Normalized, _ time.Time) bool {
				for _, e := range n.ResourceEstimates {
					if len(e.CutoffGrade) == 0 {
						return true
					}
				}
				return false
			},
		},
		{
			code:           "KRCI-007",
			title:          "Competent person missing qualification",
			description:    "A declared competent person has no professional qualification.",
			recommendation: "State the professional qualification of every competent person.",
			severity:       SeverityHigh,
			weight:         10,
			check: func(n *report.Normalized, _ time.Time) bool {
				for _, p := range n.CompetentPersons {
					if strings.TrimSpace(p.Qualification) == "" {
						return true
					}
				}
				return false
			},
		},
		{
			code:           "KRCI-008",
			title:          "Outdated report",
			description:    "The effective date is older than 24 months.",
			recommendation: "Update the estimates or justify the continued validity of the report.",
			severity:       SeverityHigh,
			weight:         10,
			check: func(n *report.Normalized, now time.Time) bool {
				t, ok := report.ParseDate(n.Metadata.EffectiveDate)
				if !ok {
					return false
				}
				return t.Before(now.AddDate(0, -maxReportAgeMonths, 0))
			},
		},
		{
			code:           "KRCI-009",
			title:          "Missing project name",
			description:    "The report metadata declares no project name.",
			recommendation: "Identify the project on the report cover page.",
			severity:       SeverityMedium,
			weight:         5,
			check: func(n *report.Normalized, _ time.Time) bool {
				return strings.TrimSpace(n.Metadata.ProjectName) == ""
			},
		},
		{
			code:           "KRCI-010",
			title:          "Insufficient sections",
			description:    "The report has fewer than five sections.",
			recommendation: "Structure the report into the standard chapter set.",
			severity:       SeverityLow,
			weight:         2,
			check: func(n *report.Normalized, _ time.Time) bool {
				return len(n.Sections) < 5
			},
		},
		{
			code:           "KRCI-011",
			title:          "Resource row missing classification",
			description:    "One or more resource rows omit the classification category.",
			recommendation: "Classify every resource row as Measured, Indicated or Inferred.",
			severity:       SeverityMedium,
			weight:         5,
			check: func(n *report.Normalized, _ time.Time) bool {
				for _, e := range n.ResourceEstimates {
					if strings.TrimSpace(e.Category) == "" {
						return true
					}
				}
				return false
			},
		},
		{
			code:           "KRCI-012",
			title:          "Missing recovery rate",
			description:    "Economic assumptions are declared without a recovery rate.",
			recommendation: "State the metallurgical recovery rate used in the economic analysis.",
			severity:       SeverityMedium,
			weight:         5,
			check: func(n *report.Normalized, _ time.Time) bool {
				return n.Economics != nil && !n.Economics.Has("recovery")
			},
		},
		{
			code:           "KRCI-013",
			title:          "Competent person missing organization",
			description:    "A declared competent person has no organization.",
			recommendation: "State the employer or consultancy of every competent person.",
			severity:       SeverityMedium,
			weight:         5,
			check: func(n *report.Normalized, _ time.Time) bool {
				for _, p := range n.CompetentPersons {
					if strings.TrimSpace(p.Organization) == "" {
						return true
					}
				}
				return false
			},
		},
		{
			code:           "KRCI-014",
			title:          "Missing reporting standard",
			description:    "The report does not declare which standard it follows.",
			recommendation: "Declare the reporting standard (JORC, NI 43-101, PERC, SAMREC, ANM or CBRR).",
			severity:       SeverityHigh,
			weight:         10,
			check: func(n *report.Normalized, _ time.Time) bool {
				return strings.TrimSpace(n.Metadata.Standard) == ""
			},
		},
		{
			code:           "KRCI-015",
			title:          "Missing executive summary",
			description:    "No executive summary section was found.",
			recommendation: "Add an executive summary section.",
			severity:       SeverityMedium,
			weight:         5,
			check: func(n *report.Normalized, _ time.Time) bool {
				return !n.HasSection("executive summary")
			},
		},
		{
			code:           "KRCI-016",
			title:          "Missing geology section",
			description:    "No geology section was found.",
			recommendation: "Add a geology and mineralisation section.",
			severity:       SeverityMedium,
			weight:         5,
			check: func(n *report.Normalized, _ time.Time) bool {
				return !n.HasSection("geology")
			},
		},
		{
			code:           "KRCI-017",
			title:          "Geology detail review",
			description:    "Manual review item, not automatically enforced.",
			recommendation: "Review geology detail during manual assessment.",
			severity:       SeverityMedium,
			weight:         5,
			check:          never,
		},
		{
			code:           "KRCI-018",
			title:          "Missing sampling section",
			description:    "No sampling section was found.",
			recommendation: "Add a sampling and analysis section.",
			severity:       SeverityMedium,
			weight:         5,
			check: func(n *report.Normalized, _ time.Time) bool {
				return !n.HasSection("sampling")
			},
		},
		{
			code:           "KRCI-019",
			title:          "Non-positive tonnage",
			description:    "One or more resource rows declare zero or negative tonnage.",
			recommendation: "Verify the tonnage of every resource row.",
			severity:       SeverityHigh,
			weight:         10,
			check: func(n *report.Normalized, _ time.Time) bool {
				for _, e := range n.ResourceEstimates {
					if e.Tonnage <= 0 {
						return true
					}
				}
				return false
			},
		},
		{
			code:           "KRCI-020",
			title:          "Resource row missing grade",
			description:    "One or more resource rows omit the grade.",
			recommendation: "Report the grade of every resource row.",
			severity:       SeverityHigh,
			weight:         10,
			check: func(n *report.Normalized, _ time.Time) bool {
				for _, e := range n.ResourceEstimates {
					if len(e.Grade) == 0 {
						return true
					}
				}
				return false
			},
		},
		{
			code:           "KRCI-021",
			title:          "Undetailed sampling method",
			description:    "The sampling method description is too short to assess.",
			recommendation: "Expand the sampling method description.",
			severity:       SeverityLow,
			weight:         2,
			check: func(n *report.Normalized, _ time.Time) bool {
				if n.QAQC == nil {
					return false
				}
				m := strings.TrimSpace(n.QAQC.SamplingMethod)
				return m != "" && len(m) < minSamplingMethodLen
			},
		},
		{
			code:           "KRCI-022",
			title:          "Short or generic title",
			description:    "The report title is missing or too generic.",
			recommendation: "Use a descriptive title naming the project and standard.",
			severity:       SeverityLow,
			weight:         2,
			check: func(n *report.Normalized, _ time.Time) bool {
				return len(strings.TrimSpace(n.Metadata.Title)) < minTitleLen
			},
		},

		// CBRR addendum, evaluated only when metadata declares CBRR.
		{
			code:           "KRCI-CBRR-001",
			title:          "Missing CREA registration",
			description:    "A competent person has no CREA registration number.",
			recommendation: "Inform the CREA registration of every competent person.",
			severity:       SeverityCritical,
			weight:         20,
			cbrrOnly:       true,
			check: func(n *report.Normalized, _ time.Time) bool {
				for _, p := range n.CompetentPersons {
					if strings.TrimSpace(p.CREANumber) == "" {
						return true
					}
				}
				return false
			},
		},
		{
			code:           "KRCI-CBRR-002",
			title:          "Missing ANM process",
			description:    "The report does not declare the ANM process number.",
			recommendation: "Inform the ANM process number of the mineral right.",
			severity:       SeverityHigh,
			weight:         10,
			cbrrOnly:       true,
			check: func(n *report.Normalized, _ time.Time) bool {
				return strings.TrimSpace(n.Metadata.ANMProcess) == ""
			},
		},
		{
			code:           "KRCI-CBRR-003",
			title:          "Missing environmental license",
			description:    "No environmental license is declared.",
			recommendation: "Declare the environmental license type and number.",
			severity:       SeverityHigh,
			weight:         10,
			cbrrOnly:       true,
			check: func(n *report.Normalized, _ time.Time) bool {
				if n.Environmental == nil {
					return true
				}
				return strings.TrimSpace(n.Environmental.License) == "" &&
					strings.TrimSpace(n.Environmental.LicenseNumber) == ""
			},
		},
		{
			code:           "KRCI-CBRR-004",
			title:          "Missing CPF",
			description:    "A competent person has no CPF.",
			recommendation: "Inform the CPF of every competent person.",
			severity:       SeverityMedium,
			weight:         5,
			cbrrOnly:       true,
			check: func(n *report.Normalized, _ time.Time) bool {
				for _, p := range n.CompetentPersons {
					if strings.TrimSpace(p.CPF) == "" {
						return true
					}
				}
				return false
			},
		},
		{
			code:           "KRCI-CBRR-005",
			title:          "Missing issuing agency",
			description:    "The environmental license declares no issuing agency.",
			recommendation: "Inform the agency that issued the environmental license.",
			severity:       SeverityMedium,
			weight:         5,
			cbrrOnly:       true,
			check: func(n *report.Normalized, _ time.Time) bool {
				return n.Environmental != nil && strings.TrimSpace(n.Environmental.IssuingAgency) == ""
			},
		},
		{
			code:           "KRCI-CBRR-006",
			title:          "Missing royalty assumptions",
			description:    "No royalty or CFEM assumptions are declared.",
			recommendation: "State the royalty and CFEM rates applied.",
			severity:       SeverityHigh,
			weight:         10,
			cbrrOnly:       true,
			check: func(n *report.Normalized, _ time.Time) bool {
				return !n.Economics.Has("royalt") && !n.Economics.Has("cfem")
			},
		},
		{
			code:           "KRCI-CBRR-007",
			title:          "International nomenclature",
			description:    "Resource classifications use international terms instead of Portuguese.",
			recommendation: "Classify resources as Medido, Indicado or Inferido.",
			severity:       SeverityMedium,
			weight:         5,
			cbrrOnly:       true,
			check: func(n *report.Normalized, _ time.Time) bool {
				for _, e := range n.ResourceEstimates {
					switch e.Category {
					case "Measured", "Indicated", "Inferred":
						return true
					}
				}
				return false
			},
		},
		{
			code:           "KRCI-CBRR-008",
			title:          "DNPM legacy code",
			description:    "Legacy DNPM code check, not automatically enforced.",
			recommendation: "Verify legacy DNPM references during manual assessment.",
			severity:       SeverityMedium,
			weight:         5,
			cbrrOnly:       true,
			check:          never,
		},
		{
			code:           "KRCI-CBRR-010",
			title:          "Missing conclusions section",
			description:    "No conclusions section was found.",
			recommendation: "Add a conclusions and recommendations section.",
			severity:       SeverityMedium,
			weight:         5,
			cbrrOnly:       true,
			check: func(n *report.Normalized, _ time.Time) bool {
				return !n.HasSection("conclus")
			},
		},
	}
}
