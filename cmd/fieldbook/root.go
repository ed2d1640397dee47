package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string

	ctx := newCommandContext(&configFlag)

	rootCmd := &cobra.Command{
		Use:           "fieldbook",
		Short:         "Construction photo evidence and report workspace",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	rootCmd.AddCommand(newConfigCommand())
	rootCmd.AddCommand(newProjectCommand(ctx))
	rootCmd.AddCommand(newItemsCommand(ctx))
	rootCmd.AddCommand(newEvidenceCommand(ctx))
	rootCmd.AddCommand(newReportCommand(ctx))

	return rootCmd
}

// itemKeyFlags registers the required item identity flags shared by the
// evidence and report commands.
func itemKeyFlags(cmd *cobra.Command, number, name *string) {
	cmd.Flags().StringVar(number, "item-number", "", "Construction item number")
	cmd.Flags().StringVar(name, "item-name", "", "Construction item name")
	_ = cmd.MarkFlagRequired("item-number")
	_ = cmd.MarkFlagRequired("item-name")
}
