package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"spyglass/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "spyglass",
	Short: "Value dumps, stack traces and crash reports for Go programs",
	Long: `spyglass renders values, call stacks, panics and runtime faults on a terminal
or as HTML. The demo command exercises the engine end to end.`,
	SilenceUsage: true,
}

// main registers the subcommands and persistent flags, then executes the
// root command. Errors exit with status 1.
func main() {
	rootCmd.Version = version.Resolved()

	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(paletteCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)

	addRootFlags(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// addRootFlags registers the flags every subcommand inherits.
func addRootFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.String("color", "auto", "colorize output (auto|on|off)")
	flags.String("trace", "", "engine event log output (- for stderr, or a file path)")
	flags.String("trace-level", "", "engine event log level (off|error|state|render|debug)")
	flags.String("trace-mode", "stream", "engine event log storage (stream|ring|both)")
}

// isTerminal reports whether f is an interactive terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
