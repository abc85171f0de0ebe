package audit

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"compliancecore/internal/report"
)

// fingerprintFields is the shape hashed into a cache key. It deliberately
// captures structural facts (counts, presence flags) rather than full
// content: two reports with identical structure share a cache entry, which
// trades a small false-hit chance inside the TTL window for a key that is
// cheap to compute on every request.
type fingerprintFields struct {
	Standard               string `json:"standard"`
	EffectiveDate          string `json:"effectiveDate"`
	ProjectName            string `json:"projectName"`
	SectionsCount          int    `json:"sectionsCount"`
	ResourceEstimatesCount int    `json:"resourceEstimatesCount"`
	CompetentPersonsCount  int    `json:"competentPersonsCount"`
	QAQCPresent            bool   `json:"qaQcPresent"`
	EconomicsPresent       bool   `json:"economicAssumptionsPresent"`
	Type                   Type   `json:"auditType"`
}

// Fingerprint derives the deterministic cache key for one report and audit
// type.
func Fingerprint(n *report.Normalized, typ Type) string {
	f := fingerprintFields{
		Standard:               n.Metadata.Standard,
		EffectiveDate:          n.Metadata.EffectiveDate,
		ProjectName:            n.Metadata.ProjectName,
		SectionsCount:          len(n.Sections),
		ResourceEstimatesCount: len(n.ResourceEstimates),
		CompetentPersonsCount:  len(n.CompetentPersons),
		QAQCPresent:            n.QAQC != nil,
		EconomicsPresent:       n.Economics != nil,
		Type:                   typ,
	}
	raw, _ := json.Marshal(f)
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}
