package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"spyglass/internal/version"
)

var (
	versionJSON bool
	versionFull bool
)

func init() {
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "print build metadata as JSON")
	versionCmd.Flags().BoolVar(&versionFull, "full", false, "include commit and build date")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show spyglass build metadata",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		info := version.Current()
		if versionJSON {
			return json.NewEncoder(cmd.OutOrStdout()).Encode(info)
		}
		if _, err := useColor(cmd); err != nil {
			return err
		}
		printVersion(cmd.OutOrStdout(), version.Colored(), info, versionFull)
		return nil
	},
}

// printVersion writes the one-line version, then commit and date with full.
func printVersion(out io.Writer, colored string, info version.Info, full bool) {
	fmt.Fprintf(out, "spyglass %s\n", colored)
	if !full {
		return
	}
	fmt.Fprintf(out, "commit %s\n", valueOrUnknown(info.Commit))
	fmt.Fprintf(out, "built  %s\n", valueOrUnknown(info.Date))
}

func valueOrUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
