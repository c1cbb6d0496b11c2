// Package main provides netgains-brief, a command-line client for the daily
// training brief. It computes briefs against the database, a local workout
// log or a running server, and can expose a remote server to MCP clients over
// stdio.
package main

import (
	"fmt"
	"os"
	_ "time/tzdata"

	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:   "netgains-brief",
		Short: "Daily training brief tools",
		Long: `netgains-brief computes the daily training brief outside the HTTP server.

Briefs can be generated from the configured database, from an exported
workout log, or fetched from a running NetGains server.`,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	cmd.AddCommand(showCmd(&logLevel))
	cmd.AddCommand(invalidateCmd(&logLevel))
	cmd.AddCommand(mcpCmd(&logLevel))
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "netgains-brief version %s\n", Version)
		},
	})

	return cmd
}
