package iiifanno

import (
	"log/slog"
	"net/http"

	"github.com/aretw0/iiifanno/internal/platform"
	"github.com/aretw0/iiifanno/pkg/core"
)

// --- Types ---

// Service runs check, extract and insert.
type Service = core.Service

// Report is the result of a check.
type Report = core.Report

// ExtractRequest describes an extract run.
type ExtractRequest = core.ExtractRequest

// InsertRequest describes an insert run.
type InsertRequest = core.InsertRequest

// ReferenceMode selects inline or reference storage on insert.
type ReferenceMode = core.ReferenceMode

// NameScheme selects how generated annotation documents are named.
type NameScheme = core.NameScheme

const (
	ReferenceModeInline    = core.ReferenceModeInline
	ReferenceModeReference = core.ReferenceModeReference
	NameSchemeCanvas       = core.NameSchemeCanvas
	NameSchemeSequence     = core.NameSchemeSequence
)

// --- Configuration ---

// Option defines a functional option for configuring the service.
type Option = platform.Option

// WithLogger sets the logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithHTTPClient sets the HTTP client used for remote documents.
func WithHTTPClient(client *http.Client) Option {
	return platform.WithHTTPClient(client)
}

// WithUserAgent sets the User-Agent of HTTP requests.
func WithUserAgent(ua string) Option {
	return platform.WithUserAgent(ua)
}

// WithFetcher allows injecting a custom document loader.
func WithFetcher(f core.Fetcher) Option {
	return platform.WithFetcher(f)
}

// WithSink allows injecting a custom output sink.
func WithSink(s core.Sink) Option {
	return platform.WithSink(s)
}

// WithIndent sets the JSON indentation of written files.
func WithIndent(indent string) Option {
	return platform.WithIndent(indent)
}

// --- Factory ---

// New creates a new Service. HTTP requests identify as UserAgent() unless
// WithUserAgent is given.
func New(opts ...Option) *Service {
	opts = append([]Option{platform.WithUserAgent(UserAgent())}, opts...)
	return platform.New(opts...)
}

// UserAgent is the default User-Agent of HTTP requests.
func UserAgent() string {
	return "iiifanno/" + Version
}
