package mapper

import (
	"fmt"

	"compliancecore/internal/report"
)

// jorcRow mirrors TableRow but keys the category column "classification",
// the column heading JORC tables use.
type jorcRow struct {
	Classification string             `json:"classification"`
	Tonnage        float64            `json:"tonnage"`
	Grades         map[string]float64 `json:"grades"`
	Cutoff         map[string]float64 `json:"cutoff,omitempty"`
	ContainedMetal map[string]float64 `json:"contained_metal"`
}

func jorcRows(rows []TableRow) []jorcRow {
	out := make([]jorcRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, jorcRow{
			Classification: r.Category,
			Tonnage:        r.Tonnage,
			Grades:         r.Grades,
			Cutoff:         r.Cutoff,
			ContainedMetal: r.ContainedMetal,
		})
	}
	return out
}

// JORCPayload is the long-form JORC 2012 layout: cover page, executive
// summary, Table 1 checklist sections and the full chapter set.
type JORCPayload struct {
	Standard string `json:"standard"`

	Title         string `json:"title"`
	ProjectName   string `json:"project_name"`
	Location      string `json:"location"`
	Country       string `json:"country"`
	Coordinates   string `json:"coordinates"`
	ReportDate    string `json:"report_date"`
	EffectiveDate string `json:"effective_date"`
	Company       string `json:"company"`

	CompetentPersons []PersonEntry `json:"competent_persons"`

	ExecutiveSummary jorcExecutiveSummary `json:"executive_summary"`
	Property         jorcProperty         `json:"property"`
	Geology          jorcGeology          `json:"geology"`
	Drilling         jorcDrilling         `json:"drilling"`
	Sampling         jorcSampling         `json:"sampling"`

	MineralResources jorcResources `json:"mineral_resources"`
	OreReserves      *jorcReserves `json:"ore_reserves"`

	EconomicAssumptions []KV          `json:"economic_assumptions"`
	Economic            *jorcEconomic `json:"economic"`

	QAQC string `json:"qa_qc"`

	Table1   jorcTable1   `json:"table1"`
	Sections jorcSections `json:"sections"`

	ResourcesTable []jorcRow `json:"resources_table"`
	Brand          BrandInfo `json:"_brand"`
}

type jorcExecutiveSummary struct {
	PropertyDescription  string `json:"property_description"`
	History              string `json:"history"`
	GeologyMineralistion string `json:"geology_mineralisation"`
	DepositTypes         string `json:"deposit_types"`
	Drilling             string `json:"drilling"`
	Sampling             string `json:"sampling"`
	DataVerification     string `json:"data_verification"`
	MineralProcessing    string `json:"mineral_processing"`
	ResourceEstimation   string `json:"resource_estimation"`
	EconomicProspects    string `json:"economic_prospects"`
	Conclusions          string `json:"conclusions"`
	Recommendations      string `json:"recommendations"`
}

type jorcProperty struct {
	LicenseDetails         string  `json:"license_details"`
	LicenseType            string  `json:"license_type"`
	LicenseArea            float64 `json:"license_area"`
	LicenseHolder          string  `json:"license_holder"`
	LicenseExpiry          string  `json:"license_expiry"`
	RegulatoryRequirements string  `json:"regulatory_requirements"`
	Royalties              float64 `json:"royalties"`
	Encumbrances           string  `json:"encumbrances"`
}

type jorcGeology struct {
	RegionalGeology     string `json:"regional_geology"`
	LocalGeology        string `json:"local_geology"`
	Lithology           string `json:"lithology"`
	Structure           string `json:"structure"`
	Alteration          string `json:"alteration"`
	MineralisationStyle string `json:"mineralisation_style"`
	DepositType         string `json:"deposit_type"`
}

type jorcDrilling struct {
	DrillType    string  `json:"drill_type"`
	TotalHoles   int     `json:"total_holes"`
	TotalMeters  float64 `json:"total_meters"`
	DrillSpacing string  `json:"drill_spacing"`
	CoreRecovery float64 `json:"core_recovery"`
	Description  string  `json:"description"`
}

type jorcSampling struct {
	Method            string   `json:"method"`
	Interval          string   `json:"interval"`
	SampleSize        string   `json:"sample_size"`
	Laboratory        string   `json:"laboratory"`
	AnalyticalMethods []string `json:"analytical_methods"`
	QAQCProcedures    string   `json:"qaqc_procedures"`
	Description       string   `json:"description"`
}

type jorcResources struct {
	Table                  []jorcRow `json:"table"`
	EstimationMethod       string    `json:"estimation_method"`
	ClassificationCriteria string    `json:"classification_criteria"`
	Description            string    `json:"description"`
}

type jorcReserves struct {
	Table                []jorcRow `json:"table"`
	MiningFactors        string    `json:"mining_factors"`
	MetallurgicalFactors string    `json:"metallurgical_factors"`
	Description          string    `json:"description"`
}

type jorcEconomic struct {
	MiningMethod     string  `json:"mining_method"`
	ProcessingMethod string  `json:"processing_method"`
	RecoveryRate     float64 `json:"recovery_rate"`
	OperatingCosts   float64 `json:"operating_costs"`
	CapitalCosts     float64 `json:"capital_costs"`
	CommodityPrice   float64 `json:"commodity_price"`
	NPV              float64 `json:"npv"`
	IRR              float64 `json:"irr"`
}

type jorcTable1 struct {
	Section1Sampling    string `json:"section1_sampling"`
	Section2Exploration string `json:"section2_exploration"`
	Section3Resources   string `json:"section3_resources"`
	Section4Reserves    string `json:"section4_reserves"`
}

type jorcSections struct {
	Table1Section1     SectionRef `json:"table1_section1"`
	Table1Section2     SectionRef `json:"table1_section2"`
	Table1Section3     SectionRef `json:"table1_section3"`
	Table1Section4     SectionRef `json:"table1_section4"`
	Introduction       string     `json:"introduction"`
	TermsOfReference   string     `json:"terms_of_reference"`
	Limitations        string     `json:"limitations"`
	Accessibility      string     `json:"accessibility"`
	Climate            string     `json:"climate"`
	Infrastructure     string     `json:"infrastructure"`
	Environmental      string     `json:"environmental"`
	SocialImpact       string     `json:"social_impact"`
	AdjacentProperties string     `json:"adjacent_properties"`
	OtherData          string     `json:"other_data"`
	References         string     `json:"references"`
}

func (p *JORCPayload) StandardName() string { return p.Standard }

func (p *JORCPayload) Document() Doc {
	return Doc{
		Standard:      p.Standard,
		Title:         p.Title,
		ProjectName:   p.ProjectName,
		Company:       p.Company,
		Location:      p.Location,
		Country:       p.Country,
		ReportDate:    p.ReportDate,
		EffectiveDate: p.EffectiveDate,
		Persons:       p.CompetentPersons,
		Resources:     jorcDocRows(p.MineralResources.Table),
		Reserves:      jorcReserveRows(p.OreReserves),
		Economics:     p.EconomicAssumptions,
		Brand:         p.Brand,
	}
}

func jorcDocRows(rows []jorcRow) []TableRow {
	out := make([]TableRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, TableRow{
			Category:       r.Classification,
			Tonnage:        r.Tonnage,
			Grades:         r.Grades,
			Cutoff:         r.Cutoff,
			ContainedMetal: r.ContainedMetal,
		})
	}
	return out
}

func jorcReserveRows(b *jorcReserves) []TableRow {
	if b == nil {
		return nil
	}
	return jorcDocRows(b.Table)
}

func (r *Registry) jorc2012(n *report.Normalized) Payload {
	now := r.now()
	geo := n.GeologyData()
	drill := drillingOr(n)
	samp := samplingOr(n)
	prop := propertyOr(n)

	persons := make([]PersonEntry, 0, len(n.CompetentPersons))
	for _, p := range n.CompetentPersons {
		exp := p.ExperienceYears
		if exp == 0 {
			exp = 5
		}
		persons = append(persons, PersonEntry{
			Name:            report.OrDash(p.Name),
			Qualification:   report.OrDash(p.Qualification),
			Organization:    report.OrDash(p.Organization),
			Affiliation:     report.FirstOr(p.Affiliation, "Independent Consultant"),
			Role:            report.FirstOr(p.Role, "Competent Person (JORC 2012)"),
			ExperienceYears: exp,
			Responsibility:  report.FirstOr(p.Responsibility, "QP, all sections"),
			Contact:         report.OrDash(p.Contact),
			Signature:       p.Signature,
			SignatureDate:   report.DateOr(p.SignatureDate, now),
		})
	}

	resources := jorcRows(mapEstimates(n.ResourceEstimates, true))

	var reserves *jorcReserves
	if len(n.ReserveEstimates) > 0 {
		reserves = &jorcReserves{
			Table:                jorcRows(mapEstimates(n.ReserveEstimates, false)),
			MiningFactors:        report.FirstOr(n.Economics.Textual("mining method")),
			MetallurgicalFactors: report.FirstOr(n.Economics.Textual("processing method")),
			Description:          report.FirstOr(n.FindSection("ore reserve").ContentText),
		}
	}

	var economic *jorcEconomic
	if n.Economics != nil {
		economic = &jorcEconomic{
			MiningMethod:     report.FirstOr(n.Economics.Textual("mining method")),
			ProcessingMethod: report.FirstOr(n.Economics.Textual("processing method")),
			RecoveryRate:     n.Economics.Number("recovery"),
			OperatingCosts:   n.Economics.Number("mining cost") + n.Economics.Number("processing cost"),
			CapitalCosts:     n.Economics.Number("capital"),
			CommodityPrice:   n.Economics.Number("price"),
			NPV:              n.Economics.Number("npv"),
			IRR:              n.Economics.Number("irr"),
		}
	}

	qaqc := n.QAQC.Summary()
	if qaqc == report.Dash {
		qaqc = "Not specified"
	}

	find := func(sub string) string {
		return report.FirstOr(n.FindSection(sub).ContentText)
	}

	return &JORCPayload{
		Standard: "JORC 2012",

		Title:         fmt.Sprintf("JORC 2012 Technical Report for %s", report.FirstOr(n.Metadata.ProjectName, "Project")),
		ProjectName:   report.OrDash(n.Metadata.ProjectName),
		Location:      report.OrDash(n.Metadata.Location),
		Country:       report.OrDash(n.Metadata.Country),
		Coordinates:   report.OrDash(n.Metadata.Coordinates),
		ReportDate:    report.DateOr(n.Metadata.ReportDate, now),
		EffectiveDate: report.DateOr(n.Metadata.EffectiveDate, now),
		Company:       report.OrDash(n.Metadata.Company),

		CompetentPersons: persons,

		ExecutiveSummary: jorcExecutiveSummary{
			PropertyDescription:  find("property description"),
			History:              find("history"),
			GeologyMineralistion: report.FirstOr(n.FindSection("geology").ContentText, geo.Regional),
			DepositTypes:         report.OrDash(geo.DepositType),
			Drilling:             fmt.Sprintf("%d holes, %s meters total", drill.TotalHoles, trimFloat(drill.TotalMeters)),
			Sampling:             report.FirstOr(n.FindSection("sampling").ContentText, samp.Method),
			DataVerification:     find("data verification"),
			MineralProcessing:    find("mineral processing"),
			ResourceEstimation:   find("resource estimation"),
			EconomicProspects:    find("economic"),
			Conclusions:          find("conclusions"),
			Recommendations:      find("recommendations"),
		},

		Property: jorcProperty{
			LicenseDetails:         report.OrDash(prop.LicenseNumber),
			LicenseType:            report.OrDash(prop.LicenseType),
			LicenseArea:            prop.LicenseArea,
			LicenseHolder:          report.FirstOr(prop.LicenseHolder, n.Metadata.Company),
			LicenseExpiry:          report.OrDash(prop.LicenseExpiry),
			RegulatoryRequirements: report.OrDash(prop.RegulatoryAuthority),
			Royalties:              prop.Royalties,
			Encumbrances:           report.FirstOr(prop.Encumbrances, "None"),
		},

		Geology: jorcGeology{
			RegionalGeology:     report.FirstOr(geo.Regional, n.FindSection("regional geology").ContentText),
			LocalGeology:        report.FirstOr(geo.Local, n.FindSection("local geology").ContentText),
			Lithology:           report.OrDash(geo.Lithology),
			Structure:           report.OrDash(geo.Structure),
			Alteration:          report.OrDash(geo.Alteration),
			MineralisationStyle: report.OrDash(geo.MineralisationStyle),
			DepositType:         report.OrDash(geo.DepositType),
		},

		Drilling: jorcDrilling{
			DrillType:    report.OrDash(drill.DrillType),
			TotalHoles:   drill.TotalHoles,
			TotalMeters:  drill.TotalMeters,
			DrillSpacing: report.OrDash(drill.DrillSpacing),
			CoreRecovery: drill.CoreRecovery,
			Description:  find("drilling"),
		},

		Sampling: jorcSampling{
			Method:            report.OrDash(samp.Method),
			Interval:          report.OrDash(samp.Interval),
			SampleSize:        report.OrDash(samp.SampleSize),
			Laboratory:        report.OrDash(samp.Laboratory),
			AnalyticalMethods: analyticalMethodsOr(samp.AnalyticalMethods),
			QAQCProcedures:    report.FirstOr(samp.QAQCProcedures, n.QAQC.Summary()),
			Description:       find("sampling"),
		},

		MineralResources: jorcResources{
			Table:                  resources,
			EstimationMethod:       report.FirstOr(n.FindSection("estimation method").ContentText, "Kriging"),
			ClassificationCriteria: find("classification"),
			Description:            find("resource estimate"),
		},

		OreReserves: reserves,

		EconomicAssumptions: economicsKV(n.Economics),
		Economic:            economic,

		QAQC: qaqc,

		Table1: jorcTable1{
			Section1Sampling:    find("table 1 section 1"),
			Section2Exploration: find("table 1 section 2"),
			Section3Resources:   find("table 1 section 3"),
			Section4Reserves:    find("table 1 section 4"),
		},

		Sections: jorcSections{
			Table1Section1:     sectionRef(n.FindSection("section 1")),
			Table1Section2:     sectionRef(n.FindSection("section 2")),
			Table1Section3:     sectionRef(n.FindSection("section 3")),
			Table1Section4:     sectionRef(n.FindSection("section 4")),
			Introduction:       find("introduction"),
			TermsOfReference:   find("terms of reference"),
			Limitations:        find("limitations"),
			Accessibility:      find("accessibility"),
			Climate:            find("climate"),
			Infrastructure:     find("infrastructure"),
			Environmental:      find("environmental"),
			SocialImpact:       find("social"),
			AdjacentProperties: find("adjacent"),
			OtherData:          find("other"),
			References:         find("references"),
		},

		ResourcesTable: resources,
		Brand:          brandInfo(n),
	}
}

func analyticalMethodsOr(m []string) []string {
	if m == nil {
		return []string{}
	}
	return m
}

func jorcFields() FormSchema {
	return FormSchema{
		Standard: string(JORC2012),
		Sections: []FormSection{
			{
				ID:    "cover",
				Title: "Cover Page",
				Fields: []FormField{
					{Name: "project_name", Label: "Project Name", Type: "text", Required: true},
					{Name: "location", Label: "Location", Type: "text", Required: true},
					{Name: "country", Label: "Country", Type: "text", Required: true},
					{Name: "coordinates", Label: "Coordinates", Type: "text", Required: false},
					{Name: "report_date", Label: "Report Date", Type: "date", Required: true},
					{Name: "effective_date", Label: "Effective Date", Type: "date", Required: true},
					{Name: "company", Label: "Client Company", Type: "text", Required: true},
				},
			},
			{
				ID:         "competent_person",
				Title:      "Competent Person",
				Repeatable: true,
				Fields: []FormField{
					{Name: "name", Label: "Name", Type: "text", Required: true},
					{Name: "qualification", Label: "Qualifications (e.g., MSc, PhD)", Type: "text", Required: true},
					{Name: "organization", Label: "Organization", Type: "text", Required: true},
					{Name: "affiliation", Label: "Affiliation", Type: "select", Options: []string{"Independent Consultant", "Employee", "Other"}, Required: true},
					{Name: "experience_years", Label: "Years of Experience", Type: "number", Required: true},
					{Name: "responsibility", Label: "Responsibility", Type: "text", Required: true},
					{Name: "contact", Label: "Contact Information", Type: "email", Required: true},
				},
			},
			{
				ID:    "property",
				Title: "Property Description",
				Fields: []FormField{
					{Name: "license_number", Label: "License Number", Type: "text", Required: true},
					{Name: "license_type", Label: "License Type", Type: "text", Required: true},
					{Name: "license_area", Label: "License Area (hectares)", Type: "number", Required: true},
					{Name: "license_holder", Label: "License Holder", Type: "text", Required: true},
					{Name: "license_expiry", Label: "License Expiry Date", Type: "date", Required: false},
					{Name: "regulatory_authority", Label: "Regulatory Authority", Type: "text", Required: true},
					{Name: "royalties", Label: "Royalties (%)", Type: "number", Required: false},
					{Name: "encumbrances", Label: "Encumbrances", Type: "textarea", Required: false},
				},
			},
			{
				ID:    "geology",
				Title: "Geology and Mineralisation",
				Fields: []FormField{
					{Name: "regional_geology", Label: "Regional Geology", Type: "textarea", Required: true},
					{Name: "local_geology", Label: "Local Geology", Type: "textarea", Required: true},
					{Name: "lithology", Label: "Lithology", Type: "text", Required: true},
					{Name: "structure", Label: "Structure", Type: "text", Required: false},
					{Name: "alteration", Label: "Alteration", Type: "text", Required: false},
					{Name: "mineralisation_style", Label: "Mineralisation Style", Type: "text", Required: true},
					{Name: "deposit_type", Label: "Deposit Type", Type: "text", Required: true},
				},
			},
			{
				ID:    "drilling",
				Title: "Drilling",
				Fields: []FormField{
					{Name: "drill_type", Label: "Drill Type", Type: "select", Options: []string{"Diamond", "RC", "RAB", "Aircore", "Other"}, Required: true},
					{Name: "total_holes", Label: "Total Number of Holes", Type: "number", Required: true},
					{Name: "total_meters", Label: "Total Meters Drilled", Type: "number", Required: true},
					{Name: "drill_spacing", Label: "Drill Spacing", Type: "text", Required: false},
					{Name: "core_recovery", Label: "Core Recovery (%)", Type: "number", Required: false},
				},
			},
			{
				ID:    "sampling",
				Title: "Sampling and Analysis",
				Fields: []FormField{
					{Name: "method", Label: "Sampling Method", Type: "text", Required: true},
					{Name: "interval", Label: "Sample Interval", Type: "text", Required: true},
					{Name: "sample_size", Label: "Sample Size", Type: "text", Required: false},
					{Name: "laboratory", Label: "Laboratory", Type: "text", Required: true},
					{Name: "analytical_methods", Label: "Analytical Methods", Type: "textarea", Required: true},
					{Name: "qaqc_procedures", Label: "QA/QC Procedures", Type: "textarea", Required: true},
				},
			},
			{
				ID:         "resources",
				Title:      "Mineral Resource Estimate",
				Repeatable: true,
				Fields: []FormField{
					{Name: "category", Label: "Classification", Type: "select", Options: []string{"Measured", "Indicated", "Inferred"}, Required: true},
					{Name: "tonnage", Label: "Tonnage (Mt)", Type: "number", Required: true},
					{Name: "grade", Label: "Grade (g/t or %)", Type: "number", Required: true},
					{Name: "cutoff_grade", Label: "Cut-off Grade", Type: "number", Required: true},
					{Name: "contained_metal", Label: "Contained Metal (oz or kg)", Type: "number", Required: false},
				},
			},
		},
	}
}
