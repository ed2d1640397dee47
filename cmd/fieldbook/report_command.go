package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"fieldbook/internal/report"
	"fieldbook/internal/store"
)

func newReportCommand(ctx *commandContext) *cobra.Command {
	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Evidence report generation",
	}

	reportCmd.AddCommand(newReportGenerateCommand(ctx))

	return reportCmd
}

func newReportGenerateCommand(ctx *commandContext) *cobra.Command {
	var number, name, output string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the next evidence report for an item",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withEnv(func(env *appEnv) error {
				key := store.ItemKey{Number: number, Name: name}

				dest := strings.TrimSpace(output)
				if dest == "" {
					dest = filepath.Join(env.cfg.Paths.ReportDir, defaultReportName(key))
				}

				writer := report.NewXLSXWriter(env.cfg)
				doc, err := env.assembler().Generate(cmd.Context(), key, writer, dest)
				if err != nil {
					if errors.Is(err, report.ErrNothingToReport) {
						fmt.Fprintf(cmd.OutOrStdout(), "Nothing to report for item %s.\n", key.String())
						return nil
					}
					return err
				}

				evidence := len(doc.EvidenceRowIndexes())
				fmt.Fprintf(cmd.OutOrStdout(),
					"Wrote %s (%d evidence sections, %d testing sections)\n",
					dest, evidence, len(doc.Sections)-evidence)
				return nil
			})
		},
	}

	itemKeyFlags(cmd, &number, &name)
	cmd.Flags().StringVarP(&output, "output", "o", "", "Destination path for the XLSX report")
	return cmd
}

// defaultReportName builds a filesystem-safe name from the item number and
// today's date.
func defaultReportName(key store.ItemKey) string {
	number := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ' ':
			return '-'
		}
		return r
	}, key.Number)
	return fmt.Sprintf("report_%s_%s.xlsx", number, time.Now().Format("2006-01-02"))
}
