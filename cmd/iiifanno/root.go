package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/iiifanno"
	"github.com/aretw0/iiifanno/internal/platform"
	"github.com/aretw0/iiifanno/pkg/adapters/fs"
	"github.com/aretw0/introspection"
	"github.com/spf13/cobra"
)

var (
	inputManifest string
	logLevel      string
	configPath    string

	cfg    = &platform.Config{}
	logger = slog.Default()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "iiifanno",
	Short: "Manipulate annotations in IIIF manifests",
	Long: `iiifanno reads IIIF Presentation API V2 and V3 manifests and works on the
annotations of their canvases: check counts them, extract writes them to one
annotation document, insert merges an annotation document into a new manifest.`,
	Version:       iiifanno.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := checkRequired(cmd); err != nil {
			return err
		}

		path := configPath
		if path == "" {
			path = platform.DefaultConfigFile
		}
		c, err := platform.LoadConfig(path, cmd.Flags().Changed("config"))
		if err != nil {
			return err
		}
		cfg = c

		name := logLevel
		if !cmd.Flags().Changed("log") && cfg.Log != "" {
			name = cfg.Log
		}
		level, err := platform.ParseLevel(name)
		if err != nil {
			return err
		}
		logger = platform.NewLogger(os.Stderr, level)
		slog.SetDefault(logger)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.SetArgs(normalizeArgs(os.Args[1:]))
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fatal("Error", err)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&inputManifest, "input-manifest", "i", "", "Input manifest file or URL (JSON)")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log", "l", "INFO", "Log level (DEBUG, INFO, WARN, ERROR)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML file with flag defaults (default "+platform.DefaultConfigFile+" if present)")
	rootCmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")
}

// components builds the service with explicit adapters so their state can
// be reported at debug level.
func components() (*iiifanno.Service, []introspection.Component) {
	loader := fs.NewLoader(fs.LoaderConfig{
		UserAgent: iiifanno.UserAgent(),
		Logger:    logger,
	})
	sink := fs.NewSink(fs.SinkConfig{
		Logger: logger,
		Indent: "  ",
	})
	svc := iiifanno.New(
		iiifanno.WithLogger(logger),
		iiifanno.WithFetcher(loader),
		iiifanno.WithSink(sink),
	)
	return svc, []introspection.Component{svc, loader, sink}
}

// logState dumps component state at debug level.
func logState(comps []introspection.Component) {
	for _, c := range comps {
		if in, ok := c.(introspection.Introspectable); ok {
			logger.Debug("component state", "component", c.ComponentType(), "state", fmt.Sprintf("%+v", in.State()))
		}
	}
}

// stringFlag returns the flag value, or the config fallback when the flag
// was not given explicitly.
func stringFlag(cmd *cobra.Command, name, value, fallback string) string {
	if cmd.Flags().Changed(name) || fallback == "" {
		return value
	}
	return fallback
}
