// Package iiifanno inspects, extracts and inserts annotations in IIIF
// Presentation API manifests (versions 2 and 3).
//
// A manifest keeps its annotations on each canvas, either embedded inline
// or as links to external annotation documents (sc:AnnotationList in V2,
// AnnotationPage in V3). The package offers three operations:
//
//   - Check counts the annotations of every canvas.
//   - Extract gathers all annotations into one standalone document.
//   - Insert merges an annotation document into a manifest, embedding the
//     annotations inline or writing per canvas (or per sequence) documents
//     and linking them.
//
// Usage:
//
//	svc := iiifanno.New(iiifanno.WithLogger(logger))
//
//	report, err := svc.Check(ctx, "https://example.org/iiif/book1/manifest")
//
//	_, err = svc.Insert(ctx, iiifanno.InsertRequest{
//		Manifest:       "manifest.json",
//		InputFile:      "annotations.json",
//		OutputManifest: "out/manifest.json",
//		ReferenceMode:  iiifanno.ReferenceModeReference,
//		NameScheme:     iiifanno.NameSchemeCanvas,
//	})
package iiifanno
