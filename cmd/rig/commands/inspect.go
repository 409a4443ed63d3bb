package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/rig/internal/app"
)

func (c *CLI) newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show how the library differs from the lock",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Status(cmd.Context(), options(cmd))
		},
	}
}

func (c *CLI) newRecoverCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recover",
		Short: "Repair a library left behind by an interrupted run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Recover(cmd.Context(), options(cmd))
		},
	}
}

func (c *CLI) newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent runs for the project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			return c.app.History(cmd.Context(), options(cmd), limit)
		},
	}
	cmd.Flags().IntP("limit", "n", app.DefaultHistoryLimit, "Number of runs to show, 0 for all")
	return cmd
}
