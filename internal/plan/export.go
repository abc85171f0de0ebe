package plan

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	dErrors "compliancecore/pkg/domain-errors"
)

// Format enumerates the correction plan export formats.
type Format string

const (
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatCSV      Format = "csv"
)

// ParseFormat validates a plan export format from the wire.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatJSON:
		return FormatJSON, nil
	case FormatMarkdown, "md":
		return FormatMarkdown, nil
	case FormatCSV:
		return FormatCSV, nil
	default:
		return "", dErrors.Newf(dErrors.CodeBadRequest, "unsupported plan format: %q", s)
	}
}

func (f Format) extension() string {
	if f == FormatMarkdown {
		return "md"
	}
	return string(f)
}

// ContentType returns the MIME type for the exported plan.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatMarkdown:
		return "text/markdown"
	case FormatCSV:
		return "text/csv"
	default:
		return "text/plain"
	}
}

// Export serializes the plan and returns the content plus the download
// filename, correction-plan-{reportId}.{ext}.
func Export(p Plan, f Format) ([]byte, string, error) {
	filename := fmt.Sprintf("correction-plan-%s.%s", p.ReportID, f.extension())
	switch f {
	case FormatJSON:
		content, err := json.MarshalIndent(p, "", "  ")
		if err != nil {
			return nil, "", fmt.Errorf("marshal plan: %w", err)
		}
		return content, filename, nil
	case FormatMarkdown:
		return exportMarkdown(p), filename, nil
	case FormatCSV:
		content, err := exportCSV(p)
		if err != nil {
			return nil, "", err
		}
		return content, filename, nil
	default:
		return nil, "", dErrors.Newf(dErrors.CodeBadRequest, "unsupported plan format: %q", f)
	}
}

func exportMarkdown(p Plan) []byte {
	var b strings.Builder
	b.WriteString("# Plano de Correção - KRCI\n\n")
	b.WriteString(p.Summary + "\n\n")
	b.WriteString("## Resumo\n\n")
	fmt.Fprintf(&b, "- **Score KRCI**: %d%%\n", p.AuditScore)
	fmt.Fprintf(&b, "- **Total de Issues**: %d\n", p.TotalIssues)
	fmt.Fprintf(&b, "- **Tempo Estimado**: %dh %dm\n\n", p.EstimatedTotalTime/60, p.EstimatedTotalTime%60)
	b.WriteString("## Correções\n\n")
	for i, item := range p.Corrections {
		fmt.Fprintf(&b, "### %d. %s - %s\n", i+1, item.RuleCode, item.Issue)
		fmt.Fprintf(&b, "- **Categoria**: %s\n", item.Category)
		fmt.Fprintf(&b, "- **Severidade**: %s\n", item.Severity)
		fmt.Fprintf(&b, "- **Prioridade**: %d\n", item.Priority)
		fmt.Fprintf(&b, "- **Tempo Estimado**: %d min\n", item.EstimatedTime)
		fmt.Fprintf(&b, "- **Sugestão**: %s\n\n", item.SuggestedFix)
	}
	return []byte(b.String())
}

func exportCSV(p Plan) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"Code", "Category", "Severity", "Priority", "Time", "Issue", "Suggestion"}); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, item := range p.Corrections {
		record := []string{
			item.RuleCode,
			item.Category,
			string(item.Severity),
			strconv.Itoa(item.Priority),
			strconv.Itoa(item.EstimatedTime),
			item.Issue,
			item.SuggestedFix,
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
