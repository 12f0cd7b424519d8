package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var pathsCmd = &cobra.Command{
	Use:   "paths",
	Short: "Print the directories used for config, data, and cache",
	Run: func(cmd *cobra.Command, args []string) {
		for _, p := range []struct {
			label string
			dir   string
		}{
			{"Config", config.ConfigDir},
			{"Data", config.DataDir},
			{"Cache", config.CacheDir},
		} {
			fmt.Printf("%s directory: %s\n", p.label, p.dir)
		}
	},
}

func init() {
	rootCmd.AddCommand(pathsCmd)
}
