package main

import (
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "intake",
	Short: "CaseFlow universal intake service",
	Long: `intake is the universal intake and routing service of the CaseFlow
platform. It accepts heterogeneous inbound items, classifies them with
an AI-assisted analyzer, gates them through the trust authority, and
emits a routing decision plus an ordered action plan, all captured in
an immutable audit record.`,
	Version: "0.1.0",
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")
	rootCmd.AddCommand(serveCmd)
}
