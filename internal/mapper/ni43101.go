package mapper

import (
	"fmt"

	"compliancecore/internal/report"
)

// Blocks shared by the structured-payload standards (NI 43-101, ANM, PERC,
// SAMREC, CBRR). JORC 2012 keeps its own long-form layout.

type geoSummary struct {
	Regional    string `json:"regional"`
	Local       string `json:"local"`
	DepositType string `json:"deposit_type"`
}

type drillSummary struct {
	TotalHoles  int     `json:"total_holes"`
	TotalMeters float64 `json:"total_meters"`
	DrillType   string  `json:"drill_type"`
}

type sampleSummary struct {
	Method     string `json:"method"`
	Laboratory string `json:"laboratory"`
	QAQC       string `json:"qaqc"`
}

type resourceBlock struct {
	Table            []TableRow `json:"table"`
	EstimationMethod string     `json:"estimation_method"`
}

type reserveBlock struct {
	Table []TableRow `json:"table"`
}

func geoSummaryOf(n *report.Normalized) geoSummary {
	g := n.GeologyData()
	return geoSummary{
		Regional:    report.OrDash(g.Regional),
		Local:       report.OrDash(g.Local),
		DepositType: report.OrDash(g.DepositType),
	}
}

func drillSummaryOf(n *report.Normalized) drillSummary {
	d := drillingOr(n)
	return drillSummary{
		TotalHoles:  d.TotalHoles,
		TotalMeters: d.TotalMeters,
		DrillType:   report.OrDash(d.DrillType),
	}
}

func sampleSummaryOf(n *report.Normalized) sampleSummary {
	s := samplingOr(n)
	return sampleSummary{
		Method:     report.OrDash(s.Method),
		Laboratory: report.OrDash(s.Laboratory),
		QAQC:       n.QAQC.Summary(),
	}
}

func resourceBlockOf(n *report.Normalized) resourceBlock {
	return resourceBlock{
		Table:            mapEstimates(n.ResourceEstimates, true),
		EstimationMethod: "Kriging",
	}
}

// reserveBlockOf returns nil when no reserves are declared; the block is
// omitted entirely rather than rendered empty.
func reserveBlockOf(n *report.Normalized) *reserveBlock {
	if len(n.ReserveEstimates) == 0 {
		return nil
	}
	return &reserveBlock{Table: mapEstimates(n.ReserveEstimates, false)}
}

// NI43101Payload is the Canadian NI 43-101 layout. Item references follow the
// Form 43-101F1 numbering.
type NI43101Payload struct {
	Standard            string         `json:"standard"`
	ProjectName         string         `json:"project_name"`
	Company             string         `json:"company"`
	Location            string         `json:"location"`
	Country             string         `json:"country"`
	ReportDate          string         `json:"report_date"`
	EffectiveDate       string         `json:"effective_date"`
	QualifiedPersons    []PersonEntry  `json:"qualified_persons"`
	Property            ni43101Tenure  `json:"property"`
	Geology             geoSummary     `json:"geology"`
	Drilling            drillSummary   `json:"drilling"`
	Sampling            sampleSummary  `json:"sampling"`
	MineralResources    resourceBlock  `json:"mineral_resources"`
	MineralReserves     *reserveBlock  `json:"mineral_reserves"`
	EconomicAssumptions []KV           `json:"economic_assumptions"`
	Items               ni43101Items   `json:"items"`
	ResourcesTable      []TableRow     `json:"resources_table"`
	Brand               BrandInfo      `json:"_brand"`
}

type ni43101Tenure struct {
	Location      string  `json:"location"`
	MineralTenure string  `json:"mineral_tenure"`
	TenureType    string  `json:"tenure_type"`
	Area          float64 `json:"area"`
	Holder        string  `json:"holder"`
}

type ni43101Items struct {
	Item2  SectionRef `json:"item2"`
	Item14 SectionRef `json:"item14"`
	Item27 SectionRef `json:"item27"`
}

func (p *NI43101Payload) StandardName() string { return p.Standard }

func (p *NI43101Payload) Document() Doc {
	return Doc{
		Standard:      p.Standard,
		Title:         fmt.Sprintf("NI 43-101 Technical Report for %s", p.ProjectName),
		ProjectName:   p.ProjectName,
		Company:       p.Company,
		Location:      p.Location,
		Country:       p.Country,
		ReportDate:    p.ReportDate,
		EffectiveDate: p.EffectiveDate,
		Persons:       p.QualifiedPersons,
		Resources:     p.MineralResources.Table,
		Reserves:      reserveRows(p.MineralReserves),
		Economics:     p.EconomicAssumptions,
		Brand:         p.Brand,
	}
}

func reserveRows(b *reserveBlock) []TableRow {
	if b == nil {
		return nil
	}
	return b.Table
}

func (r *Registry) ni43101(n *report.Normalized) Payload {
	now := r.now()
	prop := propertyOr(n)
	resources := resourceBlockOf(n)
	return &NI43101Payload{
		Standard:         "NI 43-101",
		ProjectName:      report.OrDash(n.Metadata.ProjectName),
		Company:          report.OrDash(n.Metadata.Company),
		Location:         report.OrDash(n.Metadata.Location),
		Country:          report.FirstOr(n.Metadata.Country, "Canada"),
		ReportDate:       report.DateOr(n.Metadata.ReportDate, now),
		EffectiveDate:    report.DateOr(n.Metadata.EffectiveDate, now),
		QualifiedPersons: mapPersons(n.CompetentPersons, "Independent", "Qualified Person (NI 43-101)"),
		Property: ni43101Tenure{
			Location:      report.OrDash(n.Metadata.Location),
			MineralTenure: report.OrDash(prop.LicenseNumber),
			TenureType:    report.OrDash(prop.LicenseType),
			Area:          prop.LicenseArea,
			Holder:        report.FirstOr(prop.LicenseHolder, n.Metadata.Company),
		},
		Geology:             geoSummaryOf(n),
		Drilling:            drillSummaryOf(n),
		Sampling:            sampleSummaryOf(n),
		MineralResources:    resources,
		MineralReserves:     reserveBlockOf(n),
		EconomicAssumptions: economicsKV(n.Economics),
		Items: ni43101Items{
			Item2:  sectionRef(n.FindSection("item 2")),
			Item14: sectionRef(n.FindSection("item 14")),
			Item27: sectionRef(n.FindSection("item 27")),
		},
		ResourcesTable: resources.Table,
		Brand:          brandInfo(n),
	}
}

func ni43101Fields() FormSchema {
	return FormSchema{
		Standard: string(NI43101),
		Sections: []FormSection{
			{
				ID:    "basic",
				Title: "Basic Information",
				Fields: []FormField{
					{Name: "project_name", Label: "Project Name", Type: "text", Required: true},
					{Name: "location", Label: "Location", Type: "text", Required: true},
					{Name: "company", Label: "Issuer", Type: "text", Required: true},
					{Name: "report_date", Label: "Report Date", Type: "date", Required: true},
					{Name: "effective_date", Label: "Effective Date", Type: "date", Required: true},
				},
			},
			{
				ID:         "qualified_person",
				Title:      "Qualified Person",
				Repeatable: true,
				Fields: []FormField{
					{Name: "name", Label: "Name", Type: "text", Required: true},
					{Name: "qualification", Label: "Professional Designation", Type: "text", Required: true},
					{Name: "organization", Label: "Organization", Type: "text", Required: true},
				},
			},
			{
				ID:    "property",
				Title: "Property",
				Fields: []FormField{
					{Name: "mineral_tenure", Label: "Mineral Tenure", Type: "text", Required: true},
					{Name: "area", Label: "Area (hectares)", Type: "number", Required: true},
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
