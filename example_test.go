package iiifanno_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/iiifanno"
)

const exampleManifest = `{
  "@context": "http://iiif.io/api/presentation/2/context.json",
  "@id": "http://example.org/iiif/book1/manifest",
  "@type": "sc:Manifest",
  "label": "Book 1",
  "sequences": [{
    "canvases": [
      {"@id": "http://example.org/iiif/book1/canvas/p1", "label": "p. 1"},
      {"@id": "http://example.org/iiif/book1/canvas/p2", "label": "p. 2"}
    ]
  }]
}`

const exampleList = `{
  "@context": "http://iiif.io/api/presentation/2/context.json",
  "@id": "http://example.org/iiif/book1/list/all",
  "@type": "sc:AnnotationList",
  "resources": [
    {"@type": "oa:Annotation", "motivation": "oa:commenting", "on": "http://example.org/iiif/book1/canvas/p2#xywh=10,10,50,50"}
  ]
}`

func Example() {
	dir, err := os.MkdirTemp("", "iiifanno-example")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(dir)

	manifest := filepath.Join(dir, "manifest.json")
	annotations := filepath.Join(dir, "annotations.json")
	_ = os.WriteFile(manifest, []byte(exampleManifest), 0644)
	_ = os.WriteFile(annotations, []byte(exampleList), 0644)

	svc := iiifanno.New()
	ctx := context.Background()

	// Write the annotations to a list next to a new manifest.
	res, err := svc.Insert(ctx, iiifanno.InsertRequest{
		Manifest:       manifest,
		InputFile:      annotations,
		OutputManifest: filepath.Join(dir, "out", "manifest.json"),
		ReferenceMode:  iiifanno.ReferenceModeReference,
		NameScheme:     iiifanno.NameSchemeCanvas,
	})
	if err != nil {
		panic(err)
	}
	for _, f := range res.Files {
		rel, _ := filepath.Rel(dir, f)
		fmt.Println("wrote", filepath.ToSlash(rel))
	}

	// Count them again through the new manifest.
	report, err := svc.Check(ctx, res.OutputManifest)
	if err != nil {
		panic(err)
	}
	for _, c := range report.Canvases {
		fmt.Printf("%s: %d\n", c.Label, c.Count)
	}
	fmt.Println("total:", report.Total)

	// Output:
	// wrote out/p2-annolist.json
	// p. 1: 0
	// p. 2: 1
	// total: 1
}
