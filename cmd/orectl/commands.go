package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"compliancecore/internal/audit"
	"compliancecore/internal/mapper"
	"compliancecore/internal/plan"
	"compliancecore/internal/report"
	"compliancecore/pkg/domain"
	"compliancecore/pkg/requestcontext"
)

// loadReport reads a normalized report JSON file.
func loadReport(path string) (*report.Normalized, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report file: %w", err)
	}
	var n report.Normalized
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("parse report file: %w", err)
	}
	return &n, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newAuditCmd() *cobra.Command {
	var (
		partial bool
		asJSON  bool
	)
	cmd := &cobra.Command{
		Use:   "audit <normalized.json>",
		Short: "Run the compliance audit on a normalized report file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := loadReport(args[0])
			if err != nil {
				return err
			}
			typ := audit.TypeFull
			if partial {
				typ = audit.TypePartial
			}
			result := audit.New().Audit(cmd.Context(), n, typ)
			if asJSON {
				return printJSON(cmd, result)
			}
			fmt.Fprintln(cmd.OutOrStdout(), audit.Summary(result))
			return nil
		},
	}
	cmd.Flags().BoolVar(&partial, "partial", false, "run the partial audit (skips low-severity rules)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full result as JSON")
	return cmd
}

func newMapCmd() *cobra.Command {
	var standard string
	cmd := &cobra.Command{
		Use:   "map <normalized.json>",
		Short: "Map a normalized report to a standard's payload",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := loadReport(args[0])
			if err != nil {
				return err
			}
			std, err := mapper.ParseStandard(standard)
			if err != nil {
				return err
			}
			payload, err := mapper.New().Map(std, n)
			if err != nil {
				return err
			}
			return printJSON(cmd, payload)
		},
	}
	cmd.Flags().StringVarP(&standard, "standard", "s", "", "target standard (JORC_2012, NI_43_101, PERC, SAMREC, ANM, CBRR)")
	_ = cmd.MarkFlagRequired("standard")
	return cmd
}

func newPlanCmd() *cobra.Command {
	var (
		format  string
		partial bool
	)
	cmd := &cobra.Command{
		Use:   "plan <normalized.json>",
		Short: "Audit a report and emit its correction plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := loadReport(args[0])
			if err != nil {
				return err
			}
			f, err := plan.ParseFormat(format)
			if err != nil {
				return err
			}
			typ := audit.TypeFull
			if partial {
				typ = audit.TypePartial
			}
			ctx := cmd.Context()
			result := audit.New().Audit(ctx, n, typ)
			p := plan.Build(domain.NewReportID(), result, requestcontext.Now(ctx))
			content, _, err := plan.Export(p, f)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(content)
			return err
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format (json, markdown, csv)")
	cmd.Flags().BoolVar(&partial, "partial", false, "derive the plan from a partial audit")
	return cmd
}

func newFieldsCmd() *cobra.Command {
	var standard string
	cmd := &cobra.Command{
		Use:   "fields",
		Short: "Print the manual-entry form schema for a standard",
		RunE: func(cmd *cobra.Command, args []string) error {
			std, err := mapper.ParseStandard(standard)
			if err != nil {
				return err
			}
			schema, err := mapper.DynamicFields(std)
			if err != nil {
				return err
			}
			return printJSON(cmd, schema)
		},
	}
	cmd.Flags().StringVarP(&standard, "standard", "s", "", "target standard")
	_ = cmd.MarkFlagRequired("standard")
	return cmd
}
