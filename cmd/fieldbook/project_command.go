package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"fieldbook/internal/store"
)

func newProjectCommand(ctx *commandContext) *cobra.Command {
	projectCmd := &cobra.Command{
		Use:   "project",
		Short: "Project information used in report headers",
	}

	projectCmd.AddCommand(newProjectShowCommand(ctx))
	projectCmd.AddCommand(newProjectSetCommand(ctx))

	return projectCmd
}

func newProjectShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the active project information",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withEnv(func(env *appEnv) error {
				project, err := env.store.LatestProject(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if project == nil {
					fmt.Fprintln(out, "No project information recorded. Use `fieldbook project set` first.")
					return nil
				}
				rows := [][]string{
					{"Project ID", project.ProjectID},
					{"Project Name", project.ProjectName},
					{"Location", project.Location},
					{"Contractor", project.ContractorName},
					{"Project Type", project.ProjectType},
				}
				fmt.Fprintln(out, renderTable([]string{"Field", "Value"}, rows, nil))
				return nil
			})
		},
	}
}

func newProjectSetCommand(ctx *commandContext) *cobra.Command {
	var project store.Project

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Create or update the project information record",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(project.ProjectID) == "" || strings.TrimSpace(project.ProjectName) == "" {
				return fmt.Errorf("--id and --name are required")
			}
			return ctx.withEnv(func(env *appEnv) error {
				if err := env.store.SaveProject(cmd.Context(), project); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Saved project %s\n", project.ProjectID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&project.ProjectID, "id", "", "Project identifier")
	cmd.Flags().StringVar(&project.ProjectName, "name", "", "Project name")
	cmd.Flags().StringVar(&project.Location, "location", "", "Project location")
	cmd.Flags().StringVar(&project.ContractorName, "contractor", "", "Contractor name")
	cmd.Flags().StringVar(&project.ProjectType, "type", "", "Project type")
	return cmd
}
