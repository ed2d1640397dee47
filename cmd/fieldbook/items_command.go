package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"fieldbook/internal/store"
)

func newItemsCommand(ctx *commandContext) *cobra.Command {
	itemsCmd := &cobra.Command{
		Use:   "items",
		Short: "Selected construction work items",
	}

	itemsCmd.AddCommand(newItemsAddCommand(ctx))
	itemsCmd.AddCommand(newItemsListCommand(ctx))

	return itemsCmd
}

func newItemsAddCommand(ctx *commandContext) *cobra.Command {
	var item store.Item

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a construction item",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(item.Number) == "" || strings.TrimSpace(item.Name) == "" {
				return fmt.Errorf("--number and --name are required")
			}
			return ctx.withEnv(func(env *appEnv) error {
				if err := env.store.AddItems(cmd.Context(), []store.Item{item}); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Registered item %s %s\n", item.Number, item.Name)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&item.Number, "number", "", "Item number")
	cmd.Flags().StringVar(&item.Name, "name", "", "Item name")
	cmd.Flags().Float64Var(&item.Quantity, "quantity", 0, "Item quantity")
	cmd.Flags().StringVar(&item.Unit, "unit", "", "Quantity unit")
	return cmd
}

func newItemsListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered construction items",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withEnv(func(env *appEnv) error {
				items, err := env.store.ListItems(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(items) == 0 {
					fmt.Fprintln(out, "No items registered.")
					return nil
				}
				rows := make([][]string, 0, len(items))
				for _, item := range items {
					rows = append(rows, []string{
						item.Number,
						item.Name,
						strconv.FormatFloat(item.Quantity, 'f', -1, 64),
						item.Unit,
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Number", "Name", "Quantity", "Unit"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft},
				))
				return nil
			})
		},
	}
}
