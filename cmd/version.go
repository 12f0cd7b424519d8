package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Build metadata, injected with -ldflags at release time.
var (
	version = "dev"
	commit  = ""
	date    = ""
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version and build information",
	Run: func(cmd *cobra.Command, args []string) {
		out := "ytsubs v" + version
		if commit != "" {
			out += fmt.Sprintf(" (commit %s, built %s)", commit, date)
		}
		fmt.Println(out)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
