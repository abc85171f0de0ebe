package audit

import (
	"fmt"
	"strings"
)

// Summary renders a result as the human-readable Portuguese text block shown
// to tenants alongside the structured payload.
func Summary(r Result) string {
	var b strings.Builder

	if r.Type == TypePartial {
		b.WriteString("Auditoria KRCI Parcial\n")
	} else {
		b.WriteString("Auditoria KRCI Completa\n")
	}
	fmt.Fprintf(&b, "Pontuação: %d%%\n", r.Score)
	fmt.Fprintf(&b, "Regras Verificadas: %d\n", r.TotalRules)
	fmt.Fprintf(&b, "Aprovadas: %d | Reprovadas: %d\n", r.PassedRules, r.FailedRules)

	if len(r.KRCIs) == 0 {
		b.WriteString("\nNenhum KRCI identificado.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "\nKRCI Identificados (%d):\n", len(r.KRCIs))
	for _, k := range r.KRCIs {
		fmt.Fprintf(&b, "- [%s] %s: %s\n", k.Severity, k.Code, k.Title)
	}

	b.WriteString("\nRecomendações:\n")
	for _, rec := range r.Recommendations {
		fmt.Fprintf(&b, "- %s\n", rec)
	}
	return b.String()
}
