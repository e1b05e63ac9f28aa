// Package cli wires the anid commands.
package cli

import (
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "anid",
	Short: "Affection engine for a conversational companion",
	Long: "anid hosts the relationship-progression engine: every user message " +
		"is classified into an affection delta that drives tiers, XP/levels, " +
		"and the unlock gate.",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(versionCmd)
}
