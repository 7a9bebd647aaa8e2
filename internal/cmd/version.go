package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"ttytap/internal/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the ttytap version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "ttytap v"+version.Version)
		},
	}
}
