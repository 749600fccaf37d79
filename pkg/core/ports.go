package core

import "context"

// Fetcher loads JSON documents from local paths or URLs.
// Adhering to this interface keeps the core independent of the transport.
type Fetcher interface {
	// Fetch reads and decodes the JSON object at location.
	// It returns a *NotFoundError or a *ParseError on failure.
	Fetch(ctx context.Context, location string) (JSON, error)

	// Resolve resolves a reference found in the document at base.
	Resolve(base, ref string) string
}

// Sink persists output documents.
type Sink interface {
	// Begin starts a unit of work; nothing is written before Commit.
	Begin(ctx context.Context) (Transaction, error)
}

// Transaction stages output documents and writes them together.
type Transaction interface {
	// Put stages v to be written as JSON at path.
	Put(ctx context.Context, path string, v any) error

	// Commit writes all staged documents.
	Commit(ctx context.Context) error

	// Rollback discards all staged documents.
	Rollback(ctx context.Context) error
}

// Adapter is the version specific view of a manifest and its annotation
// documents. One implementation exists per IIIF version; the Service picks
// one once, after detection.
type Adapter interface {
	Version() Version

	// ParseManifest extracts id, label and canvases (with located containers).
	ParseManifest(raw JSON) (*Manifest, error)

	// Locate finds the annotation containers of a raw canvas object.
	Locate(canvas JSON) []Container

	// ContainerType is the type name of a standalone annotation document.
	ContainerType() string

	// ParseDocument reads a standalone annotation document.
	ParseDocument(raw JSON) (*Document, error)

	// ParseAnnotation extracts the target canvas of a raw annotation.
	ParseAnnotation(raw JSON) (Annotation, error)

	// MakeDocument builds an annotation document holding annos. Standalone
	// documents carry the JSON-LD context.
	MakeDocument(id, within string, annos []Annotation, standalone bool) JSON

	// EmbedInline replaces the canvas container with the embedded doc.
	EmbedInline(c *Canvas, doc JSON)

	// EmbedReference replaces the canvas container with a link to uri.
	EmbedReference(c *Canvas, uri string)

	// SetID changes the manifest id.
	SetID(m *Manifest, id string)
}

// Registry selects adapters by inspecting documents.
type Registry interface {
	// Detect returns the adapter for a manifest.
	Detect(location string, raw JSON) (Adapter, error)

	// ForDocument returns the adapter for a standalone annotation document.
	ForDocument(location string, raw JSON) (Adapter, error)
}
