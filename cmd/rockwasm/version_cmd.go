package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("output")
		switch format {
		case "json":
			return printJSON(cmd.OutOrStdout(), map[string]string{
				"version": version,
				"commit":  commit,
				"date":    date,
			})
		case "text", "":
			fmt.Fprintf(cmd.OutOrStdout(), "rockwasm %s (commit %s, built %s)\n", version, commit, date)
			return nil
		default:
			return fmt.Errorf("unknown output format: %s", format)
		}
	},
}

func init() {
	versionCmd.Flags().StringP("output", "o", "text", "output format (json or text)")
}
