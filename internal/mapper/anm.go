package mapper

import (
	"fmt"

	"compliancecore/internal/report"
)

// ANMPayload is the Brazilian ANM (Agência Nacional de Mineração) layout.
type ANMPayload struct {
	Standard            string        `json:"standard"`
	ProjectName         string        `json:"project_name"`
	Company             string        `json:"company"`
	Location            string        `json:"location"`
	Country             string        `json:"country"`
	ReportDate          string        `json:"report_date"`
	EffectiveDate       string        `json:"effective_date"`
	CompetentPersons    []PersonEntry `json:"competent_persons"`
	Property            anmTenure     `json:"property"`
	Geology             geoSummary    `json:"geology"`
	Drilling            drillSummary  `json:"drilling"`
	Sampling            sampleSummary `json:"sampling"`
	MineralResources    resourceBlock `json:"mineral_resources"`
	MineralReserves     *reserveBlock `json:"mineral_reserves"`
	EconomicAssumptions []KV          `json:"economic_assumptions"`
	Sections            anmSections   `json:"sections"`
	ResourcesTable      []TableRow    `json:"resources_table"`
	Brand               BrandInfo     `json:"_brand"`
}

type anmTenure struct {
	LicenseNumber string  `json:"license_number"`
	LicenseType   string  `json:"license_type"`
	LicenseArea   float64 `json:"license_area"`
	LicenseHolder string  `json:"license_holder"`
}

type anmSections struct {
	Section1 SectionRef `json:"section1"`
	Section2 SectionRef `json:"section2"`
	Section3 SectionRef `json:"section3"`
}

func (p *ANMPayload) StandardName() string { return p.Standard }

func (p *ANMPayload) Document() Doc {
	return Doc{
		Standard:      p.Standard,
		Title:         fmt.Sprintf("Relatório Técnico ANM - %s", p.ProjectName),
		ProjectName:   p.ProjectName,
		Company:       p.Company,
		Location:      p.Location,
		Country:       p.Country,
		ReportDate:    p.ReportDate,
		EffectiveDate: p.EffectiveDate,
		Persons:       p.CompetentPersons,
		Resources:     p.MineralResources.Table,
		Reserves:      reserveRows(p.MineralReserves),
		Economics:     p.EconomicAssumptions,
		Brand:         p.Brand,
	}
}

func (r *Registry) anm(n *report.Normalized) Payload {
	now := r.now()
	prop := propertyOr(n)
	resources := resourceBlockOf(n)
	return &ANMPayload{
		Standard:         "ANM",
		ProjectName:      report.OrDash(n.Metadata.ProjectName),
		Company:          report.OrDash(n.Metadata.Company),
		Location:         report.OrDash(n.Metadata.Location),
		Country:          report.OrDash(n.Metadata.Country),
		ReportDate:       report.DateOr(n.Metadata.ReportDate, now),
		EffectiveDate:    report.DateOr(n.Metadata.EffectiveDate, now),
		CompetentPersons: mapPersons(n.CompetentPersons, "Independent", "Competent Person (ANM)"),
		Property: anmTenure{
			LicenseNumber: report.OrDash(prop.LicenseNumber),
			LicenseType:   report.OrDash(prop.LicenseType),
			LicenseArea:   prop.LicenseArea,
			LicenseHolder: report.FirstOr(prop.LicenseHolder, n.Metadata.Company),
		},
		Geology:             geoSummaryOf(n),
		Drilling:            drillSummaryOf(n),
		Sampling:            sampleSummaryOf(n),
		MineralResources:    resources,
		MineralReserves:     reserveBlockOf(n),
		EconomicAssumptions: economicsKV(n.Economics),
		Sections: anmSections{
			Section1: sectionRef(n.FindSection("section 1")),
			Section2: sectionRef(n.FindSection("section 2")),
			Section3: sectionRef(n.FindSection("section 3")),
		},
		ResourcesTable: resources.Table,
		Brand:          brandInfo(n),
	}
}

func anmFields() FormSchema {
	return FormSchema{
		Standard: string(ANM),
		Sections: []FormSection{
			{
				ID:    "basic",
				Title: "Basic Information",
				Fields: []FormField{
					{Name: "project_name", Label: "Project Name", Type: "text", Required: true},
					{Name: "location", Label: "Location", Type: "text", Required: true},
					{Name: "company", Label: "Company", Type: "text", Required: true},
					{Name: "report_date", Label: "Report Date", Type: "date", Required: true},
					{Name: "effective_date", Label: "Effective Date", Type: "date", Required: true},
				},
			},
			{
				ID:         "competent_person",
				Title:      "Competent Person",
				Repeatable: true,
				Fields: []FormField{
					{Name: "name", Label: "Name", Type: "text", Required: true},
					{Name: "qualification", Label: "Qualification", Type: "text", Required: true},
					{Name: "organization", Label: "Organization", Type: "text", Required: true},
				},
			},
			{
				ID:    "property",
				Title: "Property",
				Fields: []FormField{
					{Name: "license_number", Label: "License Number", Type: "text", Required: true},
					{Name: "license_area", Label: "Area (hectares)", Type: "number", Required: true},
				},
			},
			{
				ID:         "resources",
				Title:      "Mineral Resources",
				Repeatable: true,
				Fields: []FormField{
					{Name: "category", Label: "Classification", Type: "select", Options: []string{"Measured", "Indicated", "Inferred"}, Required: true},
					{Name: "tonnage", Label: "Tonnage (Mt)", Type: "number", Required: true},
					{Name: "grade", Label: "Grade", Type: "number", Required: true},
				},
			},
		},
	}
}
