package mapper

import (
	"strconv"

	"compliancecore/internal/report"
)

// TableRow is one row of a mapped resource or reserve table. Rows map 1:1
// from the input estimates, preserving order; no re-sorting or aggregation.
type TableRow struct {
	Category       string             `json:"category"`
	Tonnage        float64            `json:"tonnage"`
	Grades         map[string]float64 `json:"grades"`
	Cutoff         map[string]float64 `json:"cutoff,omitempty"`
	ContainedMetal map[string]float64 `json:"contained_metal"`
}

// PersonEntry is a mapped competent/qualified person.
type PersonEntry struct {
	Name            string `json:"name"`
	Qualification   string `json:"qualification"`
	Organization    string `json:"organization"`
	Affiliation     string `json:"affiliation"`
	Role            string `json:"role"`
	ExperienceYears int    `json:"experience_years,omitempty"`
	Responsibility  string `json:"responsibility,omitempty"`
	Contact         string `json:"contact,omitempty"`
	Signature       string `json:"signature,omitempty"`
	SignatureDate   string `json:"signature_date,omitempty"`
}

// SectionRef is a mapped reference to a source report chapter. A missing
// chapter maps to the empty sentinel {title:"", content_text:""}.
type SectionRef struct {
	Title       string `json:"title"`
	ContentText string `json:"content_text"`
}

// KV is one display key/value pair in a rendered economics block.
type KV struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// BrandInfo carries tenant white-labeling into the rendered document.
type BrandInfo struct {
	LogoKey        string `json:"logo_key,omitempty"`
	CompanyDisplay string `json:"company_display"`
}

// Doc is the renderer view shared by every payload: the superset of fields
// the PDF, DOCX, and XLSX builders need, regardless of standard.
type Doc struct {
	Standard      string
	Title         string
	ProjectName   string
	Company       string
	Location      string
	Country       string
	ReportDate    string
	EffectiveDate string
	Persons       []PersonEntry
	Resources     []TableRow
	Reserves      []TableRow
	Economics     []KV
	Brand         BrandInfo
}

// sectionRef converts a model section into its payload form, preserving the
// empty sentinel.
func sectionRef(s report.Section) SectionRef {
	return SectionRef{Title: s.Title, ContentText: s.ContentText}
}

// mapEstimates converts estimate rows 1:1 into payload table rows.
func mapEstimates(estimates []report.Estimate, withCutoff bool) []TableRow {
	rows := make([]TableRow, 0, len(estimates))
	for _, e := range estimates {
		row := TableRow{
			Category:       report.OrDash(e.Category),
			Tonnage:        e.Tonnage,
			Grades:         report.GradeOr(e.Grade),
			ContainedMetal: report.GradeOr(e.ContainedMetal),
		}
		if withCutoff {
			row.Cutoff = report.GradeOr(e.CutoffGrade)
		}
		rows = append(rows, row)
	}
	return rows
}

// mapPersons converts competent persons with standard-specific defaults for
// affiliation and role.
func mapPersons(persons []report.Person, defaultAffiliation, defaultRole string) []PersonEntry {
	out := make([]PersonEntry, 0, len(persons))
	for _, p := range persons {
		out = append(out, PersonEntry{
			Name:          report.OrDash(p.Name),
			Qualification: report.OrDash(p.Qualification),
			Organization:  report.OrDash(p.Organization),
			Affiliation:   report.FirstOr(p.Affiliation, defaultAffiliation),
			Role:          report.FirstOr(p.Role, defaultRole),
		})
	}
	return out
}

// brandInfo maps the brand block with the company name as display fallback.
func brandInfo(n *report.Normalized) BrandInfo {
	b := n.Brand
	if b == nil {
		b = &report.Brand{}
	}
	return BrandInfo{
		LogoKey:        b.LogoKey,
		CompanyDisplay: report.FirstOr(b.CompanyDisplay, n.Metadata.Company),
	}
}

// economicsKV renders the free-form assumptions as ordered key/value pairs.
func economicsKV(e *report.Economics) []KV {
	if e == nil {
		return []KV{}
	}
	out := make([]KV, 0, len(e.Assumptions))
	for _, a := range e.Assumptions {
		v := a.Text
		if v == "" {
			v = trimFloat(a.Value)
			if a.Unit != "" {
				v += " " + a.Unit
			}
		}
		out = append(out, KV{Key: a.Parameter, Value: v})
	}
	return out
}

// trimFloat formats a number without trailing zeros, matching how the
// payloads render tonnages and grades.
func trimFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// drillingOr returns the drilling block, never nil.
func drillingOr(n *report.Normalized) report.Drilling {
	if n.Drilling == nil {
		return report.Drilling{}
	}
	return *n.Drilling
}

// samplingOr returns the sampling block, never nil.
func samplingOr(n *report.Normalized) report.Sampling {
	if n.Sampling == nil {
		return report.Sampling{}
	}
	return *n.Sampling
}

// propertyOr returns the property block, never nil.
func propertyOr(n *report.Normalized) report.Property {
	if n.Property == nil {
		return report.Property{}
	}
	return *n.Property
}
