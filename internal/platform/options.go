package platform

import (
	"log/slog"
	"net/http"

	"github.com/aretw0/iiifanno/pkg/core"
)

// options holds the internal configuration for the service.
type options struct {
	logger     *slog.Logger
	httpClient *http.Client
	userAgent  string
	fetcher    core.Fetcher
	sink       core.Sink
	registry   core.Registry
	indent     string
}

// Option defines a functional option for configuring the service.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		indent: "  ",
	}
}

// WithLogger sets the logger for the service and its adapters.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithHTTPClient sets the client used for remote manifests and annotation
// documents. Defaults to http.DefaultClient.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithUserAgent sets the User-Agent header of HTTP requests.
func WithUserAgent(ua string) Option {
	return func(o *options) {
		o.userAgent = ua
	}
}

// WithFetcher replaces the default file/HTTP loader (e.g. with a mock).
func WithFetcher(f core.Fetcher) Option {
	return func(o *options) {
		o.fetcher = f
	}
}

// WithSink replaces the default filesystem sink.
func WithSink(s core.Sink) Option {
	return func(o *options) {
		o.sink = s
	}
}

// WithRegistry replaces the default V2/V3 adapter registry.
func WithRegistry(r core.Registry) Option {
	return func(o *options) {
		o.registry = r
	}
}

// WithIndent sets the JSON indentation of written files.
// An empty string writes compact JSON.
func WithIndent(indent string) Option {
	return func(o *options) {
		o.indent = indent
	}
}
