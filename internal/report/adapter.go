package report

import (
	"strings"
	"time"
)

// ParsedForm is the differently-keyed shape produced by the upstream parsing
// pipeline. It flattens grades to scalars and keeps economic assumptions as a
// raw parameter list. FromParsed reshapes it into the Normalized form the
// audit engine expects.
type ParsedForm struct {
	DetectedStandard string `json:"detected_standard,omitempty"`

	Sections []ParsedSection `json:"sections,omitempty"`

	ResourceEstimates []ParsedEstimate `json:"resource_estimates,omitempty"`

	CompetentPersons []ParsedPerson `json:"competent_persons,omitempty"`

	EconomicAssumptions []ParsedAssumption `json:"economic_assumptions,omitempty"`
}

// ParsedSection mirrors Section but keys content differently.
type ParsedSection struct {
	Title       string `json:"title"`
	ContentText string `json:"contentText"`
}

// ParsedEstimate carries scalar grade values for a single primary commodity.
type ParsedEstimate struct {
	Category    string  `json:"category,omitempty"`
	Tonnage     float64 `json:"tonnage,omitempty"`
	Grade       float64 `json:"grade,omitempty"`
	CutoffGrade float64 `json:"cutoffGrade,omitempty"`
}

// ParsedPerson mirrors Person with the parser's field subset.
type ParsedPerson struct {
	Name          string `json:"name,omitempty"`
	Qualification string `json:"qualification,omitempty"`
	Organization  string `json:"organization,omitempty"`
}

// ParsedAssumption is one raw parameter/value pair.
type ParsedAssumption struct {
	Parameter string  `json:"parameter"`
	Value     float64 `json:"value,omitempty"`
	Text      string  `json:"text,omitempty"`
}

// FromParsed adapts a parsed form into the Normalized shape. It is a
// field-by-field copy with two lookups the parser cannot do itself:
// economic parameters are matched by substring (capex, opex, recovery,
// royalty/cfem) and QA/QC content is pulled from sampling/quality sections.
// Title and creation time come from the report record, not the parse.
func FromParsed(p ParsedForm, title string, createdAt *time.Time) *Normalized {
	n := &Normalized{
		Metadata: Metadata{
			Title:    title,
			Standard: p.DetectedStandard,
		},
	}
	if createdAt != nil {
		n.Metadata.EffectiveDate = createdAt.Format(DateLayout)
	}

	for _, s := range p.Sections {
		n.Sections = append(n.Sections, Section{
			Title:       s.Title,
			ContentText: s.ContentText,
		})
	}

	for _, r := range p.ResourceEstimates {
		est := Estimate{
			Category: r.Category,
			Tonnage:  r.Tonnage,
		}
		if r.Grade != 0 {
			est.Grade = map[string]float64{"main": r.Grade}
		}
		if r.CutoffGrade != 0 {
			est.CutoffGrade = map[string]float64{"main": r.CutoffGrade}
		}
		n.ResourceEstimates = append(n.ResourceEstimates, est)
	}

	for _, cp := range p.CompetentPersons {
		n.CompetentPersons = append(n.CompetentPersons, Person{
			Name:          cp.Name,
			Qualification: cp.Qualification,
			Organization:  cp.Organization,
		})
	}

	if len(p.EconomicAssumptions) > 0 {
		eco := &Economics{}
		for _, a := range p.EconomicAssumptions {
			eco.Assumptions = append(eco.Assumptions, Assumption{
				Parameter: a.Parameter,
				Value:     a.Value,
				Text:      a.Text,
			})
		}
		n.Economics = eco
	}

	qaqc := QAQC{
		SamplingMethod: parsedSectionContent(p.Sections, "sampling", "qa"),
		QualityControl: parsedSectionContent(p.Sections, "qc", "quality"),
	}
	if qaqc.SamplingMethod != "" || qaqc.QualityControl != "" {
		n.QAQC = &qaqc
	}

	return n
}

// parsedSectionContent returns the content of the first section whose title
// contains any of the given substrings, case-insensitive.
func parsedSectionContent(sections []ParsedSection, subs ...string) string {
	for _, s := range sections {
		title := strings.ToLower(s.Title)
		for _, sub := range subs {
			if strings.Contains(title, sub) {
				return s.ContentText
			}
		}
	}
	return ""
}
