package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"goxmv"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the goxmv version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "goxmv", goxmv.Version)
		},
	}
}
