// Package commands implements the CLI commands for rig.
package commands

import (
	"context"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/rig/internal/app"
	"go.trai.ch/rig/internal/build"
)

// CLI represents the command line interface for rig.
type CLI struct {
	app     *app.App
	rootCmd *cobra.Command
}

// New creates a new CLI instance with the given app.
func New(a *app.App) *CLI {
	rootCmd := &cobra.Command{
		Use:           "rig",
		Short:         "Per-project package libraries with a lock file",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.PersistentFlags().StringP("project", "C", "", "Run as if rig was started in this directory")
	rootCmd.PersistentFlags().BoolP("yes", "y", false, "Apply destructive changes without asking")
	rootCmd.PersistentFlags().Bool("json", false, "Write reports and logs as JSON")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		jsonMode, _ := cmd.Flags().GetBool("json")
		verbose, _ := cmd.Flags().GetBool("verbose")
		c.app.Configure(jsonMode, verbose)
	}

	rootCmd.AddCommand(c.newInitCmd())
	rootCmd.AddCommand(c.newSnapshotCmd())
	rootCmd.AddCommand(c.newRestoreCmd())
	rootCmd.AddCommand(c.newCleanCmd())
	rootCmd.AddCommand(c.newStatusCmd())
	rootCmd.AddCommand(c.newRecoverCmd())
	rootCmd.AddCommand(c.newHistoryCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput redirects command output. Used for testing.
func (c *CLI) SetOutput(w io.Writer) {
	c.rootCmd.SetOut(w)
	c.rootCmd.SetErr(w)
}

// options reads the persistent flags shared by every command.
func options(cmd *cobra.Command) app.Options {
	dir, _ := cmd.Flags().GetString("project")
	yes, _ := cmd.Flags().GetBool("yes")
	return app.Options{Dir: dir, Yes: yes}
}
