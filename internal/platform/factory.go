package platform

import (
	"log/slog"

	"github.com/aretw0/iiifanno/pkg/adapters/fs"
	"github.com/aretw0/iiifanno/pkg/adapters/presentation"
	"github.com/aretw0/iiifanno/pkg/core"
)

// New wires a core.Service from the options. Ports that are not injected
// get the default adapters: fs.Loader, fs.Sink and presentation.Registry.
//
//	svc := platform.New(platform.WithLogger(logger))
//	report, err := svc.Check(ctx, "manifest.json")
func New(opts ...Option) *core.Service {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	logger := o.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	fetcher := o.fetcher
	if fetcher == nil {
		fetcher = fs.NewLoader(fs.LoaderConfig{
			Client:    o.httpClient,
			UserAgent: o.userAgent,
			Logger:    logger,
		})
	}

	sink := o.sink
	if sink == nil {
		sink = fs.NewSink(fs.SinkConfig{
			Logger: logger,
			Indent: o.indent,
		})
	}

	registry := o.registry
	if registry == nil {
		registry = presentation.NewRegistry()
	}

	return core.NewService(fetcher, sink, registry, logger)
}
