package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var version = "0.2.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the quarry version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "quarry %s\n", version)
	},
}
