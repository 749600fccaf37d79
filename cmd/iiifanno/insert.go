package main

import (
	"context"
	"fmt"

	"github.com/aretw0/iiifanno/pkg/core"
	"github.com/spf13/cobra"
)

var (
	inputFile       string
	outputManifest  string
	outputDirectory string
	referenceMode   string
	nameScheme      string
	urlPrefix       string
	insertWatch     bool
)

var insertCmd = &cobra.Command{
	Use:   "insert",
	Short: "Insert annotations into a manifest and write a new manifest",
	Long: `Insert reads an annotation document, places every annotation on the canvas it
targets and writes a new manifest.

In reference mode the annotations are written to new AnnotationPage/List files
(one per canvas or one per sequence) that the manifest links to; in inline
mode they are embedded in the manifest. Canvases without new annotations are
left untouched.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		req := core.InsertRequest{
			Manifest:       inputManifest,
			InputFile:      inputFile,
			OutputManifest: outputManifest,
			OutputDir:      stringFlag(cmd, "output-directory", outputDirectory, cfg.OutputDirectory),
			ReferenceMode:  core.ReferenceMode(stringFlag(cmd, "reference-mode", referenceMode, cfg.ReferenceMode)),
			NameScheme:     core.NameScheme(stringFlag(cmd, "annolist-name-scheme", nameScheme, cfg.AnnolistNameScheme)),
			URLPrefix:      stringFlag(cmd, "url-prefix", urlPrefix, cfg.URLPrefix),
		}
		if err := req.Validate(); err != nil {
			return err
		}

		svc, comps := components()
		run := func(ctx context.Context) error {
			res, err := svc.Insert(ctx, req)
			if err != nil {
				return err
			}
			logState(comps)
			fmt.Fprintf(cmd.OutOrStdout(), "Inserted %d annotations on %d canvases into %s (%d files written, %d skipped)\n",
				res.Inserted, res.Canvases, res.OutputManifest, len(res.Files)+1, res.Skipped)
			return nil
		}
		if !insertWatch {
			return run(cmd.Context())
		}
		return watch(cmd.Context(), []string{req.Manifest, req.InputFile}, run)
	},
}

func init() {
	rootCmd.AddCommand(insertCmd)
	insertCmd.Flags().StringVar(&inputFile, "input-file", "", "Input AnnotationPage/List file or URL (JSON), short -if")
	insertCmd.Flags().StringVar(&outputManifest, "output-manifest", "", "Output manifest file (JSON), short -om")
	insertCmd.Flags().StringVar(&outputDirectory, "output-directory", "", "Output directory for AnnotationPage/List files, short -od (default: directory of the output manifest)")
	insertCmd.Flags().StringVar(&referenceMode, "reference-mode", string(core.ReferenceModeReference), "Mode of storing annotations in the manifest (inline, reference)")
	insertCmd.Flags().StringVar(&urlPrefix, "url-prefix", "", "URL prefix for AnnotationPage/List references and the manifest id")
	insertCmd.Flags().StringVar(&nameScheme, "annolist-name-scheme", string(core.NameSchemeSequence), "Naming scheme for generated AnnotationPage/List files (canvas, sequence)")
	insertCmd.Flags().BoolVar(&insertWatch, "watch", false, "Insert again whenever the input manifest or annotation file changes")
}
