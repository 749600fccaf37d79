package presentation

import (
	"fmt"

	"github.com/aretw0/iiifanno/pkg/core"
)

// V2Adapter reads and writes IIIF Presentation API 2.x manifests.
// Canvases live in sequences[].canvases[], annotations in otherContent
// entries of type sc:AnnotationList holding a resources array.
type V2Adapter struct {
	dialect
}

// NewV2 creates the V2 adapter.
func NewV2() *V2Adapter {
	return &V2Adapter{dialect{
		version:      core.V2,
		context:      ContextV2,
		idKey:        "@id",
		typeKey:      "@type",
		targetKey:    "on",
		sourceKeys:   []string{"full"},
		containerKey: "otherContent",
		itemsKey:     "resources",
		docTypes:     []string{"sc:AnnotationList", "oa:AnnotationList"},
		withinKey:    "within",
		within:       func(id string) any { return id },
	}}
}

// ParseManifest implements core.Adapter. Canvases of all sequences are
// returned in order; a manifest without sequences has no canvases.
func (a *V2Adapter) ParseManifest(raw core.JSON) (*core.Manifest, error) {
	m, err := a.manifest(raw)
	if err != nil {
		return nil, err
	}
	sequences, err := list(raw, "sequences", "manifest")
	if err != nil {
		return nil, err
	}
	position := 0
	for i, seq := range sequences {
		obj, ok := seq.(core.JSON)
		if !ok {
			return nil, &core.ParseError{Reason: fmt.Sprintf("sequence %d is not an object", i+1)}
		}
		canvases, err := list(obj, "canvases", fmt.Sprintf("sequence %d", i+1))
		if err != nil {
			return nil, err
		}
		for _, raw := range canvases {
			position++
			c, err := a.canvas(raw, position, i+1)
			if err != nil {
				return nil, err
			}
			m.Canvases = append(m.Canvases, c)
		}
	}
	return m, nil
}

var _ core.Adapter = (*V2Adapter)(nil)
