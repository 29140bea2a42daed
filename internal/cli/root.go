// Package cli wires the cobra commands around the processing core.
package cli

import (
	"github.com/spf13/cobra"
)

// Execute builds and runs the CLI.
func Execute() error {
	var (
		cfgFile  string
		logLevel string
	)

	rootCmd := &cobra.Command{
		Use:   "kelora",
		Short: "A log normalization and viewing tool",
		Long: `kelora reads structured log text (logfmt, JSON Lines, BSD syslog),
normalizes every line into a uniform event and re-renders it through
selectable filters and output formats, accumulating run statistics.

Input comes from stdin or files (doublestar globs, optional follow mode);
output goes to stdout or a rotated file. Malformed lines are counted and
skipped, never fatal.`,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ./kelora.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		NewRunCmd(&cfgFile, &logLevel),
		NewValidateCmd(&cfgFile),
		NewVersionCmd(),
	)

	return rootCmd.Execute()
}
