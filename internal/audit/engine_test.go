package audit

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"compliancecore/internal/report"
)

type EngineSuite struct {
	suite.Suite
	now time.Time
}

func (s *EngineSuite) SetupTest() {
	s.now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

// validReport mirrors a fully compliant JORC filing.
func (s *EngineSuite) validReport() *report.Normalized {
	return &report.Normalized{
		Metadata: report.Metadata{
			Title:         "Technical Report - Gold Project",
			ProjectName:   "Golden Mine",
			EffectiveDate: "2025-06-01",
			Standard:      "JORC",
			ANMProcess:    "800.123/2024",
		},
		Sections: []report.Section{
			{Title: "Executive Summary", ContentText: "Summary content"},
			{Title: "Introduction", ContentText: "Introduction content"},
			{Title: "Geology", ContentText: "Geological description"},
			{Title: "Sampling and Analysis", ContentText: "Sampling methods"},
			{Title: "Mineral Resource Estimate", ContentText: "Resource estimates"},
		},
		ResourceEstimates: []report.Estimate{
			{Category: "Measured", Tonnage: 1000000, Grade: map[string]float64{"Au": 2.5}, CutoffGrade: map[string]float64{"Au": 0.5}},
			{Category: "Indicated", Tonnage: 5000000, Grade: map[string]float64{"Au": 2.0}, CutoffGrade: map[string]float64{"Au": 0.5}},
		},
		CompetentPersons: []report.Person{
			{
				Name:          "John Doe",
				Qualification: "Geologist FAusIMM",
				Organization:  "ABC Mining Consultants",
				CREANumber:    "CREA-MG-12345",
				CPF:           "123.456.789-00",
			},
		},
		Economics: &report.Economics{Assumptions: []report.Assumption{
			{Parameter: "CAPEX", Value: 50000000},
			{Parameter: "OPEX", Value: 25000000},
			{Parameter: "Recovery rate", Value: 0.95},
			{Parameter: "Royalties", Value: 0.015},
			{Parameter: "CFEM rate", Value: 0.015},
		}},
		QAQC: &report.QAQC{
			SamplingMethod: "Diamond drilling",
			QualityControl: "Certified reference materials",
		},
		Environmental: &report.Environmental{
			License:       "LO",
			LicenseNumber: "LO-123/2024",
			IssuingAgency: "IBAMA",
		},
	}
}

func (s *EngineSuite) incompleteReport() *report.Normalized {
	return &report.Normalized{
		Metadata: report.Metadata{Title: "Incomplete Report"},
	}
}

func (s *EngineSuite) cbrrReport() *report.Normalized {
	n := s.validReport()
	n.Metadata.Standard = "CBRR"
	n.Metadata.Title = "Relatório Técnico CBRR - Projeto Ouro"
	n.ResourceEstimates = []report.Estimate{
		{Category: "Medido", Tonnage: 1000000, Grade: map[string]float64{"Au": 2.5}, CutoffGrade: map[string]float64{"Au": 0.5}},
	}
	n.Sections = append(n.Sections, report.Section{Title: "Conclusões", ContentText: "Conclusões finais"})
	return n
}

func (s *EngineSuite) krciCodes(r Result) []string {
	codes := make([]string, 0, len(r.KRCIs))
	for _, k := range r.KRCIs {
		codes = append(codes, k.Code)
	}
	return codes
}

// TestFullAudit verifies overall scoring behavior for complete and empty
// reports.
func (s *EngineSuite) TestFullAudit() {
	s.Run("fully compliant report scores high", func() {
		r := Run(s.validReport(), TypeFull, s.now)
		s.GreaterOrEqual(r.Score, 95)
		s.LessOrEqual(r.FailedRules, 2)
		s.Greater(r.TotalRules, 20)
	})

	s.Run("incomplete report accumulates violations", func() {
		r := Run(s.incompleteReport(), TypeFull, s.now)
		s.Less(r.Score, 50)
		s.Greater(r.FailedRules, 10)
		s.Greater(len(r.KRCIs), 10)
	})

	s.Run("passed plus failed equals total", func() {
		for _, n := range []*report.Normalized{s.validReport(), s.incompleteReport()} {
			r := Run(n, TypeFull, s.now)
			s.Equal(r.TotalRules, r.PassedRules+r.FailedRules)
		}
	})

	s.Run("score is clamped to zero", func() {
		r := Run(&report.Normalized{Metadata: report.Metadata{Standard: "CBRR"}}, TypeFull, s.now)
		s.Equal(0, r.Score)
	})

	s.Run("result carries rule set version and clock", func() {
		r := Run(s.validReport(), TypeFull, s.now)
		s.Equal(RuleSetVersion, r.RuleSetVersion)
		s.Equal(s.now, r.GeneratedAt)
	})
}

func (s *EngineSuite) TestPartialAudit() {
	s.Run("skips low severity rules", func() {
		full := Run(s.incompleteReport(), TypeFull, s.now)
		partial := Run(s.incompleteReport(), TypePartial, s.now)
		s.Less(partial.TotalRules, full.TotalRules)
		s.LessOrEqual(partial.FailedRules, full.FailedRules)
	})

	s.Run("never reports low severity KRCIs", func() {
		r := Run(s.incompleteReport(), TypePartial, s.now)
		for _, k := range r.KRCIs {
			s.NotEqual(SeverityLow, k.Severity, k.Code)
		}
	})
}

// TestRuleDetection exercises each rule against a targeted mutation of the
// compliant fixture.
func (s *EngineSuite) TestRuleDetection() {
	fire := func(mutate func(n *report.Normalized)) []string {
		n := s.validReport()
		mutate(n)
		return s.krciCodes(Run(n, TypeFull, s.now))
	}

	s.Run("KRCI-001 missing competent person is critical", func() {
		n := s.validReport()
		n.CompetentPersons = nil
		r := Run(n, TypeFull, s.now)
		var found *KRCI
		for i := range r.KRCIs {
			if r.KRCIs[i].Code == "KRCI-001" {
				found = &r.KRCIs[i]
			}
		}
		s.Require().NotNil(found)
		s.Equal(SeverityCritical, found.Severity)
		s.Equal(20, found.Weight)
	})

	s.Run("KRCI-002 missing resource estimates", func() {
		s.Contains(fire(func(n *report.Normalized) { n.ResourceEstimates = nil }), "KRCI-002")
	})

	s.Run("KRCI-003 missing effective date", func() {
		s.Contains(fire(func(n *report.Normalized) { n.Metadata.EffectiveDate = "" }), "KRCI-003")
	})

	s.Run("KRCI-004 missing sampling method", func() {
		s.Contains(fire(func(n *report.Normalized) { n.QAQC = nil }), "KRCI-004")
		s.Contains(fire(func(n *report.Normalized) { n.QAQC.SamplingMethod = "" }), "KRCI-004")
	})

	s.Run("KRCI-005 missing cost assumptions", func() {
		s.Contains(fire(func(n *report.Normalized) { n.Economics = nil }), "KRCI-005")
		s.Contains(fire(func(n *report.Normalized) {
			n.Economics = &report.Economics{Assumptions: []report.Assumption{{Parameter: "Recovery rate", Value: 0.9}}}
		}), "KRCI-005")
	})

	s.Run("KRCI-006 row missing cut-off grade", func() {
		s.Contains(fire(func(n *report.Normalized) { n.ResourceEstimates[0].CutoffGrade = nil }), "KRCI-006")
	})

	s.Run("KRCI-007 person missing qualification", func() {
		s.Contains(fire(func(n *report.Normalized) { n.CompetentPersons[0].Qualification = "" }), "KRCI-007")
	})

	s.Run("KRCI-008 fires only for parseable old dates", func() {
		s.Contains(fire(func(n *report.Normalized) { n.Metadata.EffectiveDate = "2022-01-01" }), "KRCI-008")
		s.NotContains(fire(func(n *report.Normalized) { n.Metadata.EffectiveDate = "not-a-date" }), "KRCI-008")
		s.NotContains(fire(func(n *report.Normalized) { n.Metadata.EffectiveDate = "2024-01-01" }), "KRCI-008")
	})

	s.Run("KRCI-009 missing project name", func() {
		s.Contains(fire(func(n *report.Normalized) { n.Metadata.ProjectName = "" }), "KRCI-009")
	})

	s.Run("KRCI-010 fewer than five sections", func() {
		s.Contains(fire(func(n *report.Normalized) { n.Sections = n.Sections[:4] }), "KRCI-010")
	})

	s.Run("KRCI-011 row missing classification", func() {
		s.Contains(fire(func(n *report.Normalized) { n.ResourceEstimates[1].Category = "" }), "KRCI-011")
	})

	s.Run("KRCI-012 economics without recovery rate", func() {
		s.Contains(fire(func(n *report.Normalized) {
			n.Economics = &report.Economics{Assumptions: []report.Assumption{
				{Parameter: "CAPEX", Value: 1},
				{Parameter: "OPEX", Value: 1},
			}}
		}), "KRCI-012")
	})

	s.Run("KRCI-013 person missing organization", func() {
		s.Contains(fire(func(n *report.Normalized) { n.CompetentPersons[0].Organization = "" }), "KRCI-013")
	})

	s.Run("KRCI-014 missing standard", func() {
		s.Contains(fire(func(n *report.Normalized) { n.Metadata.Standard = "" }), "KRCI-014")
	})

	s.Run("KRCI-015 016 018 section lookups", func() {
		codes := fire(func(n *report.Normalized) {
			n.Sections = []report.Section{
				{Title: "Chapter One", ContentText: "text"},
				{Title: "Chapter Two", ContentText: "text"},
				{Title: "Chapter Three", ContentText: "text"},
				{Title: "Chapter Four", ContentText: "text"},
				{Title: "Chapter Five", ContentText: "text"},
			}
		})
		s.Contains(codes, "KRCI-015")
		s.Contains(codes, "KRCI-016")
		s.Contains(codes, "KRCI-018")
	})

	s.Run("KRCI-017 is never enforced", func() {
		s.NotContains(s.krciCodes(Run(s.incompleteReport(), TypeFull, s.now)), "KRCI-017")
	})

	s.Run("KRCI-019 non-positive tonnage", func() {
		s.Contains(fire(func(n *report.Normalized) { n.ResourceEstimates[0].Tonnage = 0 }), "KRCI-019")
	})

	s.Run("KRCI-020 row missing grade", func() {
		s.Contains(fire(func(n *report.Normalized) { n.ResourceEstimates[0].Grade = nil }), "KRCI-020")
	})

	s.Run("KRCI-021 short sampling method fires, detailed passes", func() {
		s.Contains(fire(func(n *report.Normalized) { n.QAQC.SamplingMethod = "drilling" }), "KRCI-021")
		s.NotContains(s.krciCodes(Run(s.validReport(), TypeFull, s.now)), "KRCI-021")
	})

	s.Run("KRCI-022 short or generic title", func() {
		s.Contains(fire(func(n *report.Normalized) { n.Metadata.Title = "Gold Report" }), "KRCI-022")
		s.Contains(fire(func(n *report.Normalized) { n.Metadata.Title = "" }), "KRCI-022")
	})
}

func (s *EngineSuite) TestCBRRRules() {
	fire := func(mutate func(n *report.Normalized)) []string {
		n := s.cbrrReport()
		mutate(n)
		return s.krciCodes(Run(n, TypeFull, s.now))
	}

	s.Run("CBRR rules are gated on the declared standard", func() {
		r := Run(s.validReport(), TypeFull, s.now)
		for _, k := range r.KRCIs {
			s.NotContains(k.Code, "CBRR")
		}
		cbrr := Run(s.cbrrReport(), TypeFull, s.now)
		s.Greater(cbrr.TotalRules, r.TotalRules)
	})

	s.Run("KRCI-CBRR-001 missing CREA registration", func() {
		s.Contains(fire(func(n *report.Normalized) { n.CompetentPersons[0].CREANumber = "" }), "KRCI-CBRR-001")
	})

	s.Run("KRCI-CBRR-002 missing ANM process", func() {
		s.Contains(fire(func(n *report.Normalized) { n.Metadata.ANMProcess = "" }), "KRCI-CBRR-002")
	})

	s.Run("KRCI-CBRR-003 missing environmental license", func() {
		s.Contains(fire(func(n *report.Normalized) { n.Environmental = nil }), "KRCI-CBRR-003")
		s.Contains(fire(func(n *report.Normalized) {
			n.Environmental.License = ""
			n.Environmental.LicenseNumber = ""
		}), "KRCI-CBRR-003")
	})

	s.Run("KRCI-CBRR-004 missing CPF", func() {
		s.Contains(fire(func(n *report.Normalized) { n.CompetentPersons[0].CPF = "" }), "KRCI-CBRR-004")
	})

	s.Run("KRCI-CBRR-005 missing issuing agency", func() {
		s.Contains(fire(func(n *report.Normalized) { n.Environmental.IssuingAgency = "" }), "KRCI-CBRR-005")
	})

	s.Run("KRCI-CBRR-006 missing royalty assumptions", func() {
		s.Contains(fire(func(n *report.Normalized) {
			n.Economics = &report.Economics{Assumptions: []report.Assumption{
				{Parameter: "CAPEX", Value: 1},
				{Parameter: "OPEX", Value: 1},
				{Parameter: "Recovery rate", Value: 0.9},
			}}
		}), "KRCI-CBRR-006")
	})

	s.Run("KRCI-CBRR-007 international nomenclature", func() {
		s.Contains(fire(func(n *report.Normalized) { n.ResourceEstimates[0].Category = "Measured" }), "KRCI-CBRR-007")
	})

	s.Run("KRCI-CBRR-008 is never enforced", func() {
		n := s.cbrrReport()
		n.Metadata.DNPMCode = ""
		s.NotContains(s.krciCodes(Run(n, TypeFull, s.now)), "KRCI-CBRR-008")
	})

	s.Run("KRCI-CBRR-010 missing conclusions section", func() {
		s.Contains(fire(func(n *report.Normalized) { n.Sections = n.Sections[:5] }), "KRCI-CBRR-010")
	})
}

func (s *EngineSuite) TestRecommendations() {
	s.Run("labels each recommendation with its severity", func() {
		r := Run(s.incompleteReport(), TypeFull, s.now)
		s.Require().NotEmpty(r.Recommendations)
		for _, rec := range r.Recommendations {
			s.Regexp(`^\[(critical|high|medium|low)\] `, rec)
		}
	})

	s.Run("near-perfect report yields at most two", func() {
		r := Run(s.validReport(), TypeFull, s.now)
		s.LessOrEqual(len(r.Recommendations), 2)
	})
}

func (s *EngineSuite) TestBreakdownBySeverity() {
	r := Run(s.incompleteReport(), TypeFull, s.now)
	total := 0
	for _, v := range r.BreakdownBySeverity {
		total += v
	}
	s.Equal(r.FailedRules, total)
	s.Equal(2, r.BreakdownBySeverity[SeverityCritical])
}

func (s *EngineSuite) TestSummary() {
	s.Run("renders the full audit banner with score and counts", func() {
		r := Run(s.incompleteReport(), TypeFull, s.now)
		text := Summary(r)
		s.Contains(text, "Auditoria KRCI Completa")
		s.Contains(text, "Pontuação: 0%")
		s.Contains(text, "Regras Verificadas: 22")
		s.Contains(text, "KRCI Identificados")
		for _, k := range r.KRCIs {
			s.Contains(text, k.Code)
			s.Contains(text, string(k.Severity))
		}
	})

	s.Run("clean report reports no findings", func() {
		r := Run(s.validReport(), TypeFull, s.now)
		if r.FailedRules == 0 {
			s.Contains(Summary(r), "Nenhum KRCI identificado")
		}
	})

	s.Run("partial audit uses the partial banner", func() {
		r := Run(s.validReport(), TypePartial, s.now)
		s.Contains(Summary(r), "Auditoria KRCI Parcial")
	})
}

func (s *EngineSuite) TestParseType() {
	s.Run("defaults empty to full", func() {
		typ, err := ParseType("")
		s.Require().NoError(err)
		s.Equal(TypeFull, typ)
	})

	s.Run("accepts mixed case", func() {
		typ, err := ParseType("Partial")
		s.Require().NoError(err)
		s.Equal(TypePartial, typ)
	})

	s.Run("rejects unknown types", func() {
		_, err := ParseType("quick")
		s.Error(err)
	})
}

func (s *EngineSuite) TestFingerprint() {
	s.Run("identical structure shares a key", func() {
		a := Fingerprint(s.validReport(), TypeFull)
		b := Fingerprint(s.validReport(), TypeFull)
		s.Equal(a, b)
	})

	s.Run("content-only edits share a key", func() {
		n := s.validReport()
		n.Sections[0].ContentText = strings.Repeat("different ", 10)
		s.Equal(Fingerprint(s.validReport(), TypeFull), Fingerprint(n, TypeFull))
	})

	s.Run("structural changes produce a new key", func() {
		n := s.validReport()
		n.Sections = n.Sections[:3]
		s.NotEqual(Fingerprint(s.validReport(), TypeFull), Fingerprint(n, TypeFull))
	})

	s.Run("audit type is part of the key", func() {
		s.NotEqual(Fingerprint(s.validReport(), TypeFull), Fingerprint(s.validReport(), TypePartial))
	})
}
