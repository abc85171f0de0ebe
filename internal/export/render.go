package export

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"compliancecore/internal/export/docx"
	"compliancecore/internal/mapper"
)

// renderDOCX lays the document view out as headings, key/value tables
// and the estimate tables.
func renderDOCX(doc mapper.Doc) ([]byte, error) {
	b := docx.NewBuilder()
	b.Heading(doc.Title, 1)
	b.Paragraph(fmt.Sprintf("%s | %s", doc.Standard, doc.Brand.CompanyDisplay))

	b.Heading("Project", 2)
	b.Table([]string{"Field", "Value"}, [][]string{
		{"Project", doc.ProjectName},
		{"Company", doc.Company},
		{"Location", doc.Location + ", " + doc.Country},
		{"Report date", doc.ReportDate},
		{"Effective date", doc.EffectiveDate},
	})

	b.Heading("Mineral Resource Estimates", 2)
	resourceRows := make([][]string, 0, len(doc.Resources))
	for _, r := range doc.Resources {
		resourceRows = append(resourceRows, []string{
			r.Category,
			trimFloat(r.Tonnage),
			formatGrades(r.Grades),
			formatGrades(r.Cutoff),
		})
	}
	b.Table([]string{"Category", "Tonnage (t)", "Grades", "Cut-off"}, resourceRows)

	if len(doc.Reserves) > 0 {
		b.Heading("Ore Reserve Estimates", 2)
		reserveRows := make([][]string, 0, len(doc.Reserves))
		for _, r := range doc.Reserves {
			reserveRows = append(reserveRows, []string{
				r.Category,
				trimFloat(r.Tonnage),
				formatGrades(r.Grades),
			})
		}
		b.Table([]string{"Category", "Tonnage (t)", "Grades"}, reserveRows)
	}

	b.Heading("Competent Persons", 2)
	personRows := make([][]string, 0, len(doc.Persons))
	for _, p := range doc.Persons {
		personRows = append(personRows, []string{p.Name, p.Qualification, p.Organization, p.Role})
	}
	b.Table([]string{"Name", "Qualification", "Organization", "Role"}, personRows)

	if len(doc.Economics) > 0 {
		b.Heading("Economic Assumptions", 2)
		economicRows := make([][]string, 0, len(doc.Economics))
		for _, kv := range doc.Economics {
			economicRows = append(economicRows, []string{kv.Key, kv.Value})
		}
		b.Table([]string{"Assumption", "Value"}, economicRows)
	}

	return b.Bytes()
}

// Worksheet names in the XLSX export.
const (
	sheetMetadata = "Metadata"
	sheetResource = "Resources"
	sheetPersons  = "Competent Persons"
)

// renderXLSX writes the three-worksheet workbook. Grade and cutoff maps
// are serialized as JSON in their cells, matching the established file
// layout downstream tooling parses.
func renderXLSX(doc mapper.Doc) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetMetadata); err != nil {
		return nil, fmt.Errorf("rename metadata sheet: %w", err)
	}
	metadata := [][]any{
		{"Padrão", doc.Standard},
		{"Projeto", doc.ProjectName},
		{"Empresa", doc.Company},
		{"Data Efetiva", doc.EffectiveDate},
	}
	for i, row := range metadata {
		if err := f.SetSheetRow(sheetMetadata, fmt.Sprintf("A%d", i+1), &row); err != nil {
			return nil, fmt.Errorf("write metadata row: %w", err)
		}
	}

	if _, err := f.NewSheet(sheetResource); err != nil {
		return nil, fmt.Errorf("create resources sheet: %w", err)
	}
	resourceRows := [][]any{{"Categoria", "Tonnage", "Grades", "Cutoff"}}
	for _, r := range doc.Resources {
		resourceRows = append(resourceRows, []any{
			r.Category, r.Tonnage, jsonCell(r.Grades), jsonCell(r.Cutoff),
		})
	}
	for i, row := range resourceRows {
		if err := f.SetSheetRow(sheetResource, fmt.Sprintf("A%d", i+1), &row); err != nil {
			return nil, fmt.Errorf("write resources row: %w", err)
		}
	}

	if _, err := f.NewSheet(sheetPersons); err != nil {
		return nil, fmt.Errorf("create persons sheet: %w", err)
	}
	personRows := [][]any{{"Nome", "Qualificação", "Organização"}}
	for _, p := range doc.Persons {
		personRows = append(personRows, []any{p.Name, p.Qualification, p.Organization})
	}
	for i, row := range personRows {
		if err := f.SetSheetRow(sheetPersons, fmt.Sprintf("A%d", i+1), &row); err != nil {
			return nil, fmt.Errorf("write persons row: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func formatGrades(grades map[string]float64) string {
	if len(grades) == 0 {
		return "-"
	}
	keys := make([]string, 0, len(grades))
	for k := range grades {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, trimFloat(grades[k])))
	}
	return strings.Join(parts, "; ")
}

func jsonCell(v map[string]float64) string {
	if len(v) == 0 {
		return "{}"
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(data)
}

func trimFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
