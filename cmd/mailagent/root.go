package main

import (
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "mailagent",
	Short: "AI-assisted triage for unread email",
	Long: `mailagent pulls unread messages from your inbox, classifies each one by
whether it needs a reply, summarizes it, optionally drafts a reply, and
records every decision in an append-only audit log.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "path to the configuration file")
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(logsCmd)
}
