package main

import (
	"context"
	"fmt"

	"github.com/aretw0/iiifanno/pkg/core"
	"github.com/spf13/cobra"
)

var (
	outputFile   string
	extractWatch bool
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract the annotations of a manifest into one annotation document",
	Long: `Extract collects the annotations of all canvases, inline or referenced, and
writes them to one sc:AnnotationList (V2) or AnnotationPage (V3) file.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		req := core.ExtractRequest{
			Manifest:   inputManifest,
			OutputFile: outputFile,
			URLPrefix:  stringFlag(cmd, "url-prefix", urlPrefix, cfg.URLPrefix),
		}
		if err := req.Validate(); err != nil {
			return err
		}

		svc, comps := components()
		run := func(ctx context.Context) error {
			res, err := svc.Extract(ctx, req)
			if err != nil {
				return err
			}
			logState(comps)
			fmt.Fprintf(cmd.OutOrStdout(), "Extracted %d annotations to %s\n", res.Annotations, res.OutputFile)
			return nil
		}
		if !extractWatch {
			return run(cmd.Context())
		}
		return watch(cmd.Context(), []string{req.Manifest}, run)
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().StringVar(&outputFile, "output-file", "", "Output AnnotationPage/List file (JSON), short -of")
	extractCmd.Flags().StringVar(&urlPrefix, "url-prefix", "", "URL prefix for the AnnotationPage/List id")
	extractCmd.Flags().BoolVar(&extractWatch, "watch", false, "Extract again whenever the input manifest changes")
}
