package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "0.3.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  `Display the current version of the tradebook CLI.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "tradebook version %s\n", version)
		fmt.Fprintln(cmd.OutOrStdout(), "A personal trading journal with a running equity curve")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
