package cmd

import (
	"fmt"

	"github.com/jtyocum/groupstool/cmd/groupstool/internal/config"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the CLI version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if outputFormat(cmd) == config.OutputJSON {
				return printJSON(cmd.OutOrStdout(), map[string]string{
					"version": version,
					"commit":  commit,
				})
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "groupstool version %s (commit: %s)\n", version, commit)
			return nil
		},
	}
}
