package main

import (
	"github.com/spf13/cobra"

	"github.com/quarrydb/quarry/config"
)

var (
	configPath string
	cfg        config.Config
)

var rootCmd = &cobra.Command{
	Use:   "quarry",
	Short: "Quarry relational query runtime",
	Long: `quarry runs relational queries over in-memory tables using a
pull-based operator pipeline.

Examples:
  quarry join users.csv orders.csv --left-field 0 --right-field 1
  quarry join a.csv b.csv --op "<" --limit 20`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.AddCommand(joinCmd)
	rootCmd.AddCommand(versionCmd)
}
