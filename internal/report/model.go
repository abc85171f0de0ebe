// Package report defines the Normalized Report: the canonical,
// standard-agnostic representation of a mining technical report that the
// mapper, audit, and export stages all consume. Consumers never mutate it;
// every stage produces new derived objects.
//
// Ingestion is imperfect, so every field is optional. Consumers read through
// the sentinel helpers (OrDash, DateOr, FindSection) instead of checking
// presence ad hoc: "-" for missing strings, 0 for missing numbers, empty maps
// for missing grade tables.
package report

import (
	"encoding/json"
	"strings"
	"time"
)

// Dash is the sentinel substituted for absent string fields.
const Dash = "-"

// DateLayout is the wire format for report and effective dates.
const DateLayout = "2006-01-02"

// Normalized is the canonical report shape.
type Normalized struct {
	Metadata          Metadata         `json:"metadata"`
	Sections          []Section        `json:"sections,omitempty"`
	ResourceEstimates []Estimate       `json:"resource_estimates,omitempty"`
	ReserveEstimates  []Estimate       `json:"reserve_estimates,omitempty"`
	CompetentPersons  []Person         `json:"competent_persons,omitempty"`
	Economics         *Economics       `json:"economic_assumptions,omitempty"`
	QAQC              *QAQC            `json:"qa_qc,omitempty"`
	Geology           *Geology         `json:"geology,omitempty"`
	Drilling          *Drilling        `json:"drilling,omitempty"`
	Sampling          *Sampling        `json:"sampling,omitempty"`
	Property          *Property        `json:"property,omitempty"`
	Environmental     *Environmental   `json:"environmental,omitempty"`
	Brand             *Brand           `json:"brand,omitempty"`
}

// Metadata holds report-level facts extracted from the cover pages.
type Metadata struct {
	Title         string `json:"title,omitempty"`
	ProjectName   string `json:"project_name,omitempty"`
	Company       string `json:"company,omitempty"`
	Location      string `json:"location,omitempty"`
	Country       string `json:"country,omitempty"`
	Coordinates   string `json:"coordinates,omitempty"`
	ReportDate    string `json:"report_date,omitempty"`
	EffectiveDate string `json:"effective_date,omitempty"`
	// Standard is the detected source standard hint (JORC, NI 43-101, CBRR...).
	Standard   string `json:"standard,omitempty"`
	ANMProcess string `json:"anm_process,omitempty"`
	DNPMCode   string `json:"dnpm_code,omitempty"`
}

// Section is one free-text chapter of the report. Consumers locate sections
// by case-insensitive substring search over Title, never by ID.
type Section struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"title"`
	ContentText string `json:"content_text"`
	Uncertain   bool   `json:"uncertain,omitempty"`
	Hint        string `json:"hint,omitempty"`
}

// Estimate is one row of a resource or reserve table. Grade maps are keyed
// by commodity symbol ("Au", "Cu").
type Estimate struct {
	Category       string             `json:"category,omitempty"`
	Tonnage        float64            `json:"tonnage,omitempty"`
	Grade          map[string]float64 `json:"grade,omitempty"`
	CutoffGrade    map[string]float64 `json:"cutoff_grade,omitempty"`
	ContainedMetal map[string]float64 `json:"contained_metal,omitempty"`
}

// Person is a competent/qualified person declaration.
type Person struct {
	Name            string `json:"name,omitempty"`
	Qualification   string `json:"qualification,omitempty"`
	Organization    string `json:"organization,omitempty"`
	Affiliation     string `json:"affiliation,omitempty"`
	Role            string `json:"role,omitempty"`
	ExperienceYears int    `json:"experience_years,omitempty"`
	Responsibility  string `json:"responsibility,omitempty"`
	Contact         string `json:"contact,omitempty"`
	Signature       string `json:"signature,omitempty"`
	SignatureDate   string `json:"signature_date,omitempty"`
	CREANumber      string `json:"crea_number,omitempty"`
	CPF             string `json:"cpf,omitempty"`
}

// Assumption is one free-form economic parameter. Numeric parameters carry
// Value; textual ones (mining method) carry Text.
type Assumption struct {
	Parameter string  `json:"parameter"`
	Value     float64 `json:"value,omitempty"`
	Text      string  `json:"text,omitempty"`
	Unit      string  `json:"unit,omitempty"`
}

// Economics is the set of extracted economic assumptions. Parameters are
// looked up by case-insensitive substring match on the parameter name, not
// by fixed key, because extraction produces names like "CAPEX (initial)" or
// "Recovery rate Au".
type Economics struct {
	Assumptions []Assumption `json:"assumptions,omitempty"`
}

// Lookup returns the first assumption whose parameter name contains sub
// (case-insensitive), in input order.
func (e *Economics) Lookup(sub string) (Assumption, bool) {
	if e == nil {
		return Assumption{}, false
	}
	sub = strings.ToLower(sub)
	for _, a := range e.Assumptions {
		if strings.Contains(strings.ToLower(a.Parameter), sub) {
			return a, true
		}
	}
	return Assumption{}, false
}

// Number returns the numeric value of the first matching assumption, or 0.
func (e *Economics) Number(sub string) float64 {
	a, ok := e.Lookup(sub)
	if !ok {
		return 0
	}
	return a.Value
}

// Textual returns the text value of the first matching assumption, or "".
func (e *Economics) Textual(sub string) string {
	a, ok := e.Lookup(sub)
	if !ok {
		return ""
	}
	return a.Text
}

// Has reports whether any assumption matches sub.
func (e *Economics) Has(sub string) bool {
	_, ok := e.Lookup(sub)
	return ok
}

// QAQC documents sampling methodology and quality control.
type QAQC struct {
	SamplingMethod string `json:"sampling_method,omitempty"`
	QualityControl string `json:"quality_control,omitempty"`
}

// Summary flattens the QA/QC block into one display string.
func (q *QAQC) Summary() string {
	if q == nil {
		return Dash
	}
	parts := make([]string, 0, 2)
	if q.SamplingMethod != "" {
		parts = append(parts, q.SamplingMethod)
	}
	if q.QualityControl != "" {
		parts = append(parts, q.QualityControl)
	}
	if len(parts) == 0 {
		return Dash
	}
	return strings.Join(parts, "; ")
}

// Geology describes regional and local geology. Ingestion sometimes emits
// the whole block as a single prose string; UnmarshalJSON folds that form
// into Regional so consumers see one shape.
type Geology struct {
	Regional            string `json:"regional,omitempty"`
	Local               string `json:"local,omitempty"`
	Lithology           string `json:"lithology,omitempty"`
	Structure           string `json:"structure,omitempty"`
	Alteration          string `json:"alteration,omitempty"`
	MineralisationStyle string `json:"mineralisation_style,omitempty"`
	DepositType         string `json:"deposit_type,omitempty"`
}

func (g *Geology) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*g = Geology{Regional: s}
		return nil
	}
	type plain Geology
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*g = Geology(p)
	return nil
}

// Drilling summarises the drilling campaign.
type Drilling struct {
	TotalHoles   int     `json:"total_holes,omitempty"`
	TotalMeters  float64 `json:"total_meters,omitempty"`
	DrillType    string  `json:"drill_type,omitempty"`
	DrillSpacing string  `json:"drill_spacing,omitempty"`
	CoreRecovery float64 `json:"core_recovery,omitempty"`
}

// Sampling summarises sampling and assay methodology.
type Sampling struct {
	Method            string   `json:"method,omitempty"`
	Interval          string   `json:"interval,omitempty"`
	SampleSize        string   `json:"sample_size,omitempty"`
	Laboratory        string   `json:"laboratory,omitempty"`
	AnalyticalMethods []string `json:"analytical_methods,omitempty"`
	QAQCProcedures    string   `json:"qaqc_procedures,omitempty"`
}

// Property describes mineral tenure.
type Property struct {
	LicenseNumber       string  `json:"license_number,omitempty"`
	LicenseType         string  `json:"license_type,omitempty"`
	LicenseArea         float64 `json:"license_area,omitempty"`
	LicenseHolder       string  `json:"license_holder,omitempty"`
	LicenseExpiry       string  `json:"license_expiry,omitempty"`
	RegulatoryAuthority string  `json:"regulatory_authority,omitempty"`
	Royalties           float64 `json:"royalties,omitempty"`
	Encumbrances        string  `json:"encumbrances,omitempty"`
}

// Environmental describes environmental licensing, required by CBRR.
type Environmental struct {
	License       string `json:"license,omitempty"`
	LicenseNumber string `json:"license_number,omitempty"`
	IssuingAgency string `json:"issuing_agency,omitempty"`
}

// Brand carries tenant white-labeling applied to exported documents.
type Brand struct {
	LogoKey        string `json:"logo_key,omitempty"`
	CompanyDisplay string `json:"company_display,omitempty"`
}

// FindSection returns the first section whose title contains sub
// (case-insensitive), in array order. If none match it returns an empty
// sentinel section rather than failing; downstream consumers render the
// sentinel as an absent chapter.
func (n *Normalized) FindSection(sub string) Section {
	sub = strings.ToLower(sub)
	for _, s := range n.Sections {
		if strings.Contains(strings.ToLower(s.Title), sub) {
			return s
		}
	}
	return Section{}
}

// HasSection reports whether any section title contains sub.
func (n *Normalized) HasSection(sub string) bool {
	sub = strings.ToLower(sub)
	for _, s := range n.Sections {
		if strings.Contains(strings.ToLower(s.Title), sub) {
			return true
		}
	}
	return false
}

// GeologyData returns the geology block, never nil.
func (n *Normalized) GeologyData() Geology {
	if n.Geology == nil {
		return Geology{}
	}
	return *n.Geology
}

// OrDash substitutes the string sentinel for empty values.
func OrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return Dash
	}
	return s
}

// FirstOr returns s unless empty, then each fallback in turn, then Dash.
func FirstOr(s string, fallbacks ...string) string {
	if strings.TrimSpace(s) != "" {
		return s
	}
	for _, f := range fallbacks {
		if strings.TrimSpace(f) != "" {
			return f
		}
	}
	return Dash
}

// DateOr returns the date string unless empty, in which case now is
// formatted as the sentinel. Mappers receive now from an injected clock so
// output stays reproducible under test.
func DateOr(date string, now time.Time) string {
	if strings.TrimSpace(date) == "" {
		return now.Format(DateLayout)
	}
	return date
}

// ParseDate parses a wire-format date, trying RFC 3339 as a fallback since
// some ingestion paths emit full timestamps.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// GradeOr returns the grade map, never nil.
func GradeOr(m map[string]float64) map[string]float64 {
	if m == nil {
		return map[string]float64{}
	}
	return m
}
