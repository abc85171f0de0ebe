package mapper

import (
	"fmt"

	"compliancecore/internal/report"
)

// PERCPayload is the European PERC Reporting Standard layout. Structurally it
// follows the CRIRSCO template family; sections reference the standard summary
// chapters instead of numbered items.
type PERCPayload struct {
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
	Sections            percSections  `json:"sections"`
	ResourcesTable      []TableRow    `json:"resources_table"`
	Brand               BrandInfo     `json:"_brand"`
}

type percSections struct {
	Summary    SectionRef `json:"summary"`
	Geology    SectionRef `json:"geology"`
	Estimation SectionRef `json:"estimation"`
}

func (p *PERCPayload) StandardName() string { return p.Standard }

func (p *PERCPayload) Document() Doc {
	return Doc{
		Standard:      p.Standard,
		Title:         fmt.Sprintf("PERC Technical Report for %s", p.ProjectName),
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

func (r *Registry) perc(n *report.Normalized) Payload {
	now := r.now()
	prop := propertyOr(n)
	resources := resourceBlockOf(n)
	return &PERCPayload{
		Standard:         "PERC",
		ProjectName:      report.OrDash(n.Metadata.ProjectName),
		Company:          report.OrDash(n.Metadata.Company),
		Location:         report.OrDash(n.Metadata.Location),
		Country:          report.OrDash(n.Metadata.Country),
		ReportDate:       report.DateOr(n.Metadata.ReportDate, now),
		EffectiveDate:    report.DateOr(n.Metadata.EffectiveDate, now),
		CompetentPersons: mapPersons(n.CompetentPersons, "Independent Consultant", "Competent Person (PERC)"),
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
		Sections: percSections{
			Summary:    sectionRef(n.FindSection("summary")),
			Geology:    sectionRef(n.FindSection("geology")),
			Estimation: sectionRef(n.FindSection("estimation")),
		},
		ResourcesTable: resources.Table,
		Brand:          brandInfo(n),
	}
}

func percFields() FormSchema {
	return FormSchema{
		Standard: string(PERC),
		Sections: []FormSection{
			{
				ID:    "basic",
				Title: "Basic Information",
				Fields: []FormField{
					{Name: "project_name", Label: "Project Name", Type: "text", Required: true},
					{Name: "location", Label: "Location", Type: "text", Required: true},
					{Name: "country", Label: "Country", Type: "text", Required: true},
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
					{Name: "qualification", Label: "Professional Qualification", Type: "text", Required: true},
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
