// Package main is the entry point for the scoutline CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set via ldflags during build.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scoutline",
		Short: "Scoutline candidate protection engine",
		Long:  `Scoutline tracks employer-candidate introductions, enforces protection windows with scheduled check-ins, and drives circumvention flags and placement fees to resolution.`,
	}

	cmd.AddCommand(serveCmd())
	cmd.AddCommand(runCmd())
	cmd.AddCommand(versionCmd())

	return cmd
}
