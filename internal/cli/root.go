// Package cli holds the linkdeck command line.
package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "linkdeck",
	Short: "Start page link registry and search redirector",
	Long: `linkdeck serves a curated collection of links.

Each link is one YAML or JSON file in the links directory, checked against
the link schema (title, href, optional icon, section, order). Valid links are
listed by section and reachable from a search box; invalid files are
reported with every field problem.

Commands:
  serve   - Run the HTTP server
  check   - Validate a links directory and report every problem
  version - Print build information

Examples:
  linkdeck serve                  # Configured through LINKDECK_* variables
  linkdeck check content/links    # Exit status 1 if any file is rejected
  linkdeck check --json links     # Machine readable report`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits with status 1 on failure.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		rootCmd.PrintErrln("Error:", err)
		os.Exit(1)
	}
}
