package main

import (
	"fmt"

	"github.com/aretw0/iiifanno"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of iiifanno",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "iiifanno version %s\n", iiifanno.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
