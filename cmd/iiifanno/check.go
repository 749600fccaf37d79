package main

import (
	"github.com/aretw0/iiifanno/pkg/adapters/fs"
	"github.com/aretw0/iiifanno/pkg/core"
	"github.com/spf13/cobra"
)

var (
	checkFormat string
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Print information about the annotations in a manifest",
	Long: `Check reads a manifest, resolves its inline and referenced annotations and
prints the number of annotations per canvas and in total.

References that cannot be loaded are logged and counted as empty.
Local manifests may be given as a glob pattern ("manifests/**/*.json").`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if inputManifest == "" {
			return &core.MissingArgumentError{Command: "check", Flag: "input-manifest"}
		}
		serializer, err := fs.ReportSerializerFor(stringFlag(cmd, "format", checkFormat, cfg.Format))
		if err != nil {
			return err
		}
		locations, err := fs.ExpandInputs(inputManifest)
		if err != nil {
			return err
		}

		svc, comps := components()
		reports := make([]*core.Report, 0, len(locations))
		for _, loc := range locations {
			report, err := svc.Check(cmd.Context(), loc)
			if err != nil {
				return err
			}
			reports = append(reports, report)
		}
		logState(comps)

		return serializer.Serialize(cmd.OutOrStdout(), reports)
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringVar(&checkFormat, "format", "text", "Report format (text, json, yaml)")
}
