package presentation

import (
	"github.com/aretw0/iiifanno/pkg/core"
)

// V3Adapter reads and writes IIIF Presentation API 3.0 manifests.
// Canvases are the manifest items, annotations live in the canvas
// annotations list of AnnotationPages.
type V3Adapter struct {
	dialect
}

// NewV3 creates the V3 adapter.
func NewV3() *V3Adapter {
	return &V3Adapter{dialect{
		version:      core.V3,
		context:      ContextV3,
		idKey:        "id",
		typeKey:      "type",
		targetKey:    "target",
		sourceKeys:   []string{"source"},
		containerKey: "annotations",
		itemsKey:     "items",
		docTypes:     []string{"AnnotationPage"},
		withinKey:    "partOf",
		within: func(id string) any {
			return []any{core.JSON{"id": id, "type": "Manifest"}}
		},
	}}
}

// ParseManifest implements core.Adapter. Items that declare a type other
// than Canvas are ignored.
func (a *V3Adapter) ParseManifest(raw core.JSON) (*core.Manifest, error) {
	m, err := a.manifest(raw)
	if err != nil {
		return nil, err
	}
	items, err := list(raw, "items", "manifest")
	if err != nil {
		return nil, err
	}
	position := 0
	for _, item := range items {
		if obj, ok := item.(core.JSON); ok {
			if t := str(obj["type"]); t != "" && t != "Canvas" {
				continue
			}
		}
		position++
		c, err := a.canvas(item, position, 1)
		if err != nil {
			return nil, err
		}
		m.Canvases = append(m.Canvases, c)
	}
	return m, nil
}

var _ core.Adapter = (*V3Adapter)(nil)
