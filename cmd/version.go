package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version and commit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			annotations := cmd.Root().Annotations
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "zcash-rcli %s (%s)\n", annotations["version"], annotations["commit"])
			return err
		},
	}
}
