package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for Sponge.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sponge",
		Short: "Download matching files from a website",
		Long: `Sponge crawls a website starting at one URI and downloads every resource
matching the requested file extensions or MIME types.

Only links on the same site are followed, and pages are expanded up to a
fixed depth. Every URI is fetched at most once per run.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
