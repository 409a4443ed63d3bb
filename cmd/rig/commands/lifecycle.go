package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Install the declared dependencies and write the lock",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Init(cmd.Context(), options(cmd))
		},
	}
}

func (c *CLI) newSnapshotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Record the installed dependencies into the lock",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := options(cmd)
			opts.Force, _ = cmd.Flags().GetBool("force")
			return c.app.Snapshot(cmd.Context(), opts)
		},
	}
	cmd.Flags().BoolP("force", "f", false, "Write the lock even when declared packages are not installed")
	return cmd
}

func (c *CLI) newRestoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "restore",
		Short: "Make the library match the lock",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := options(cmd)
			if cmd.Flags().Changed("overwrite-dirty") {
				overwrite, _ := cmd.Flags().GetBool("overwrite-dirty")
				opts.OverwriteDirty = &overwrite
			}
			return c.app.Restore(cmd.Context(), opts)
		},
	}
	cmd.Flags().Bool("overwrite-dirty", false, "Replace locally modified packages")
	return cmd
}

func (c *CLI) newCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Remove packages that are neither declared nor locked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Clean(cmd.Context(), options(cmd))
		},
	}
}
