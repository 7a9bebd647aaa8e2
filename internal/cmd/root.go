// Package cmd defines the ttytap command tree.
package cmd

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root cobra command with all subcommands.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ttytap",
		Short: "Record terminal sessions and filter ANSI escape sequences",
		Long: "ttytap records a program's raw pty output byte for byte and filters\n" +
			"ANSI/VT escape sequences out of recordings (or any stream) so a\n" +
			"session can be replayed or read as plain text.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newRecordCmd(),
		newFilterCmd(),
		newVersionCmd(),
	)

	return rootCmd
}
