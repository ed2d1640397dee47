package main

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"fieldbook/internal/store"
)

func newEvidenceCommand(ctx *commandContext) *cobra.Command {
	evidenceCmd := &cobra.Command{
		Use:   "evidence",
		Short: "Photo evidence for a construction item",
	}

	evidenceCmd.AddCommand(newEvidenceShowCommand(ctx))
	evidenceCmd.AddCommand(newEvidenceApplyCommand(ctx))

	return evidenceCmd
}

func newEvidenceShowCommand(ctx *commandContext) *cobra.Command {
	var number, name string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the stored evidence snapshot for an item",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withEnv(func(env *appEnv) error {
				key := store.ItemKey{Number: number, Name: name}
				out := cmd.OutOrStdout()

				snapshot, err := env.store.ConstructionSnapshot(cmd.Context(), key)
				if err != nil {
					return err
				}
				if len(snapshot) == 0 {
					fmt.Fprintf(out, "No construction evidence for item %s.\n", key.String())
				} else {
					indexes := make([]int, 0, len(snapshot))
					for index := range snapshot {
						indexes = append(indexes, index)
					}
					sort.Ints(indexes)
					rows := make([][]string, 0, len(snapshot))
					for _, index := range indexes {
						row := snapshot[index]
						rows = append(rows, []string{
							strconv.Itoa(row.RowIndex),
							row.ImageBefore,
							row.ImageDuring,
							row.ImageAfter,
							row.StationLimits,
							yesNo(row.ReportGenerated),
							row.UploadDate,
						})
					}
					fmt.Fprintln(out, renderTable(
						[]string{"Row", "Before", "During", "After", "Station Limits", "Reported", "Uploaded"},
						rows,
						[]columnAlignment{alignRight},
					))
				}

				groups, err := env.store.AllTestingRows(cmd.Context(), key)
				if err != nil {
					return err
				}
				if len(groups) == 0 {
					fmt.Fprintf(out, "No testing evidence for item %s.\n", key.String())
					return nil
				}
				testRows := make([][]string, 0, len(groups))
				for _, group := range groups {
					for i, image := range group.Images {
						label := group.Name
						if i > 0 {
							label = ""
						}
						testRows = append(testRows, []string{label, image})
					}
				}
				fmt.Fprintln(out, renderTable([]string{"Test", "Image"}, testRows, nil))
				return nil
			})
		},
	}

	itemKeyFlags(cmd, &number, &name)
	return cmd
}

func newEvidenceApplyCommand(ctx *commandContext) *cobra.Command {
	var number, name, file string

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply an edited evidence snapshot from a TOML submission file",
		RunE: func(cmd *cobra.Command, args []string) error {
			sub, err := loadSubmission(file)
			if err != nil {
				return err
			}
			return ctx.withEnv(func(env *appEnv) error {
				key := store.ItemKey{Number: number, Name: name}

				item, err := env.store.GetItem(cmd.Context(), key)
				if err != nil {
					return err
				}
				if item == nil {
					env.logger.Warn("item not registered in selected items", "item", key.String())
				}

				result, err := env.engine().Reconcile(cmd.Context(), key, sub)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(),
					"Reconciled item %s: %d construction rows, %d testing images, %d files copied, %d released\n",
					key.String(), result.ConstructionRows, result.TestingImages, result.FilesCopied, result.FilesReleased)
				return nil
			})
		},
	}

	itemKeyFlags(cmd, &number, &name)
	cmd.Flags().StringVarP(&file, "file", "f", "", "Path to the TOML submission file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
