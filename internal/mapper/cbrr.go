package mapper

import (
	"fmt"

	"compliancecore/internal/report"
)

// CBRRPayload is the Brazilian CBRR (Comissão Brasileira de Recursos e
// Reservas) layout. It extends the ANM shape with the declarations CBRR
// requires: CREA registration and CPF per competent person, the ANM process
// number, and the environmental licensing block.
type CBRRPayload struct {
	Standard            string            `json:"standard"`
	ProjectName         string            `json:"project_name"`
	Company             string            `json:"company"`
	Location            string            `json:"location"`
	Country             string            `json:"country"`
	ReportDate          string            `json:"report_date"`
	EffectiveDate       string            `json:"effective_date"`
	ANMProcess          string            `json:"anm_process"`
	CompetentPersons    []cbrrPerson      `json:"competent_persons"`
	Property            anmTenure         `json:"property"`
	Environmental       cbrrEnvironmental `json:"environmental"`
	Geology             geoSummary        `json:"geology"`
	Drilling            drillSummary      `json:"drilling"`
	Sampling            sampleSummary     `json:"sampling"`
	MineralResources    resourceBlock     `json:"mineral_resources"`
	MineralReserves     *reserveBlock     `json:"mineral_reserves"`
	EconomicAssumptions []KV              `json:"economic_assumptions"`
	Sections            cbrrSections      `json:"sections"`
	ResourcesTable      []TableRow        `json:"resources_table"`
	Brand               BrandInfo         `json:"_brand"`
}

type cbrrPerson struct {
	Name          string `json:"name"`
	Qualification string `json:"qualification"`
	Organization  string `json:"organization"`
	Affiliation   string `json:"affiliation"`
	Role          string `json:"role"`
	CREANumber    string `json:"crea_number"`
	CPF           string `json:"cpf"`
}

type cbrrEnvironmental struct {
	License       string `json:"license"`
	LicenseNumber string `json:"license_number"`
	IssuingAgency string `json:"issuing_agency"`
}

type cbrrSections struct {
	ResumoExecutivo SectionRef `json:"resumo_executivo"`
	Geologia        SectionRef `json:"geologia"`
	Conclusoes      SectionRef `json:"conclusoes"`
}

func (p *CBRRPayload) StandardName() string { return p.Standard }

func (p *CBRRPayload) Document() Doc {
	persons := make([]PersonEntry, 0, len(p.CompetentPersons))
	for _, cp := range p.CompetentPersons {
		persons = append(persons, PersonEntry{
			Name:          cp.Name,
			Qualification: cp.Qualification,
			Organization:  cp.Organization,
			Affiliation:   cp.Affiliation,
			Role:          cp.Role,
		})
	}
	return Doc{
		Standard:      p.Standard,
		Title:         fmt.Sprintf("Relatório Técnico CBRR - %s", p.ProjectName),
		ProjectName:   p.ProjectName,
		Company:       p.Company,
		Location:      p.Location,
		Country:       p.Country,
		ReportDate:    p.ReportDate,
		EffectiveDate: p.EffectiveDate,
		Persons:       persons,
		Resources:     p.MineralResources.Table,
		Reserves:      reserveRows(p.MineralReserves),
		Economics:     p.EconomicAssumptions,
		Brand:         p.Brand,
	}
}

func (r *Registry) cbrr(n *report.Normalized) Payload {
	now := r.now()
	prop := propertyOr(n)
	resources := resourceBlockOf(n)

	persons := make([]cbrrPerson, 0, len(n.CompetentPersons))
	for _, p := range n.CompetentPersons {
		persons = append(persons, cbrrPerson{
			Name:          report.OrDash(p.Name),
			Qualification: report.OrDash(p.Qualification),
			Organization:  report.OrDash(p.Organization),
			Affiliation:   report.FirstOr(p.Affiliation, "Independente"),
			Role:          report.FirstOr(p.Role, "Pessoa Competente (CBRR)"),
			CREANumber:    report.OrDash(p.CREANumber),
			CPF:           report.OrDash(p.CPF),
		})
	}

	var env cbrrEnvironmental
	if n.Environmental != nil {
		env = cbrrEnvironmental{
			License:       report.OrDash(n.Environmental.License),
			LicenseNumber: report.OrDash(n.Environmental.LicenseNumber),
			IssuingAgency: report.OrDash(n.Environmental.IssuingAgency),
		}
	} else {
		env = cbrrEnvironmental{License: report.Dash, LicenseNumber: report.Dash, IssuingAgency: report.Dash}
	}

	return &CBRRPayload{
		Standard:         "CBRR",
		ProjectName:      report.OrDash(n.Metadata.ProjectName),
		Company:          report.OrDash(n.Metadata.Company),
		Location:         report.OrDash(n.Metadata.Location),
		Country:          report.FirstOr(n.Metadata.Country, "Brasil"),
		ReportDate:       report.DateOr(n.Metadata.ReportDate, now),
		EffectiveDate:    report.DateOr(n.Metadata.EffectiveDate, now),
		ANMProcess:       report.FirstOr(n.Metadata.ANMProcess, n.Metadata.DNPMCode),
		CompetentPersons: persons,
		Property: anmTenure{
			LicenseNumber: report.OrDash(prop.LicenseNumber),
			LicenseType:   report.OrDash(prop.LicenseType),
			LicenseArea:   prop.LicenseArea,
			LicenseHolder: report.FirstOr(prop.LicenseHolder, n.Metadata.Company),
		},
		Environmental:       env,
		Geology:             geoSummaryOf(n),
		Drilling:            drillSummaryOf(n),
		Sampling:            sampleSummaryOf(n),
		MineralResources:    resources,
		MineralReserves:     reserveBlockOf(n),
		EconomicAssumptions: economicsKV(n.Economics),
		Sections: cbrrSections{
			ResumoExecutivo: sectionRef(n.FindSection("resumo")),
			Geologia:        sectionRef(n.FindSection("geolog")),
			Conclusoes:      sectionRef(n.FindSection("conclus")),
		},
		ResourcesTable: resources.Table,
		Brand:          brandInfo(n),
	}
}

func cbrrFields() FormSchema {
	return FormSchema{
		Standard: string(CBRR),
		Sections: []FormSection{
			{
				ID:    "basic",
				Title: "Informações Básicas",
				Fields: []FormField{
					{Name: "project_name", Label: "Nome do Projeto", Type: "text", Required: true},
					{Name: "location", Label: "Localização", Type: "text", Required: true},
					{Name: "company", Label: "Empresa", Type: "text", Required: true},
					{Name: "anm_process", Label: "Processo ANM", Type: "text", Required: true},
					{Name: "report_date", Label: "Data do Relatório", Type: "date", Required: true},
					{Name: "effective_date", Label: "Data Efetiva", Type: "date", Required: true},
				},
			},
			{
				ID:         "competent_person",
				Title:      "Pessoa Competente",
				Repeatable: true,
				Fields: []FormField{
					{Name: "name", Label: "Nome", Type: "text", Required: true},
					{Name: "qualification", Label: "Qualificação", Type: "text", Required: true},
					{Name: "organization", Label: "Organização", Type: "text", Required: true},
					{Name: "crea_number", Label: "Registro CREA", Type: "text", Required: true},
					{Name: "cpf", Label: "CPF", Type: "text", Required: true},
				},
			},
			{
				ID:    "environmental",
				Title: "Licenciamento Ambiental",
				Fields: []FormField{
					{Name: "license", Label: "Tipo de Licença", Type: "select", Options: []string{"LP", "LI", "LO"}, Required: true},
					{Name: "license_number", Label: "Número da Licença", Type: "text", Required: true},
					{Name: "issuing_agency", Label: "Órgão Emissor", Type: "text", Required: true},
				},
			},
			{
				ID:    "property",
				Title: "Propriedade",
				Fields: []FormField{
					{Name: "license_number", Label: "Número do Título", Type: "text", Required: true},
					{Name: "license_area", Label: "Área (hectares)", Type: "number", Required: true},
				},
			},
			{
				ID:         "resources",
				Title:      "Recursos Minerais",
				Repeatable: true,
				Fields: []FormField{
					{Name: "category", Label: "Classificação", Type: "select", Options: []string{"Medido", "Indicado", "Inferido"}, Required: true},
					{Name: "tonnage", Label: "Tonelagem (Mt)", Type: "number", Required: true},
					{Name: "grade", Label: "Teor", Type: "number", Required: true},
				},
			},
		},
	}
}
