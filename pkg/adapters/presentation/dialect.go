package presentation

import (
	"fmt"
	"slices"

	"github.com/aretw0/iiifanno/pkg/core"
)

// dialect holds the field names that differ between the API versions.
// The V2 and V3 adapters embed it and add what cannot be expressed by
// names alone: canvas enumeration and the document back link.
type dialect struct {
	version      core.Version
	context      string
	idKey        string
	typeKey      string
	targetKey    string
	sourceKeys   []string // target object fields naming the canvas
	containerKey string
	itemsKey     string
	docTypes     []string // the first one is written
	withinKey    string
	within       func(manifestID string) any
}

func (d *dialect) Version() core.Version { return d.version }

func (d *dialect) ContainerType() string { return d.docTypes[0] }

func (d *dialect) isDocumentType(t string) bool {
	return t != "" && slices.Contains(d.docTypes, t)
}

// Locate implements core.Adapter. The container field may hold one entry or
// a list; entries are link strings, link objects or embedded documents.
func (d *dialect) Locate(canvas core.JSON) []core.Container {
	var out []core.Container
	for _, entry := range asList(canvas[d.containerKey]) {
		switch e := entry.(type) {
		case string:
			if e != "" {
				out = append(out, core.Container{Kind: core.ContainerReference, URI: e})
			}
		case core.JSON:
			if items, ok := e[d.itemsKey].([]any); ok {
				annos, _ := objects(items)
				out = append(out, core.Container{Kind: core.ContainerInline, URI: str(e[d.idKey]), Annotations: annos})
				continue
			}
			if id := str(e[d.idKey]); id != "" {
				out = append(out, core.Container{Kind: core.ContainerReference, URI: id})
			}
		}
	}
	return out
}

// ParseDocument implements core.Adapter. Items stays nil when the document
// has no items field, which marks it as a bare link.
func (d *dialect) ParseDocument(raw core.JSON) (*core.Document, error) {
	id := str(raw[d.idKey])
	if t := str(raw[d.typeKey]); !d.isDocumentType(t) {
		return nil, &core.ParseError{Location: id, Reason: fmt.Sprintf("not of type %s (got %q)", d.ContainerType(), t)}
	}

	doc := &core.Document{Version: d.version, ID: id}
	v, ok := raw[d.itemsKey]
	if !ok || v == nil {
		return doc, nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil, &core.ParseError{Location: id, Reason: fmt.Sprintf("%s is not an array", d.itemsKey)}
	}
	items, ok := objects(list)
	if !ok {
		return nil, &core.ParseError{Location: id, Reason: fmt.Sprintf("%s contains non-object entries", d.itemsKey)}
	}
	doc.Items = items
	return doc, nil
}

// ParseAnnotation implements core.Adapter.
func (d *dialect) ParseAnnotation(raw core.JSON) (core.Annotation, error) {
	anno := core.Annotation{
		ID:         str(raw[d.idKey]),
		Motivation: motivation(raw["motivation"]),
		Raw:        raw,
	}
	t, ok := raw[d.targetKey]
	if !ok || t == nil {
		return anno, &core.UnresolvableTargetError{Annotation: anno.ID, Reason: fmt.Sprintf("no %q target", d.targetKey)}
	}
	anno.Target = d.targetID(t)
	if anno.Target == "" {
		return anno, &core.UnresolvableTargetError{Annotation: anno.ID, Reason: "target names no canvas"}
	}
	return anno, nil
}

// targetID finds the canvas id in a target: a URI with an optional
// fragment, a specific resource pointing at its source, or a list of those.
func (d *dialect) targetID(v any) string {
	switch t := v.(type) {
	case string:
		return stripFragment(t)
	case []any:
		for _, item := range t {
			if id := d.targetID(item); id != "" {
				return id
			}
		}
	case core.JSON:
		for _, k := range d.sourceKeys {
			if id := d.targetID(t[k]); id != "" {
				return id
			}
		}
		if id := str(t[d.idKey]); id != "" {
			return stripFragment(id)
		}
	}
	return ""
}

// MakeDocument implements core.Adapter.
func (d *dialect) MakeDocument(id, within string, annos []core.Annotation, standalone bool) core.JSON {
	doc := core.JSON{
		d.typeKey:  d.ContainerType(),
		d.idKey:    id,
		d.itemsKey: annotationItems(annos),
	}
	if within != "" {
		doc[d.withinKey] = d.within(within)
	}
	if standalone {
		doc["@context"] = d.context
	}
	return doc
}

// EmbedInline implements core.Adapter.
func (d *dialect) EmbedInline(c *core.Canvas, doc core.JSON) {
	c.Raw[d.containerKey] = []any{doc}
	c.Containers = d.Locate(c.Raw)
}

// EmbedReference implements core.Adapter.
func (d *dialect) EmbedReference(c *core.Canvas, uri string) {
	c.Raw[d.containerKey] = []any{core.JSON{
		d.idKey:   uri,
		d.typeKey: d.ContainerType(),
	}}
	c.Containers = d.Locate(c.Raw)
}

// SetID implements core.Adapter.
func (d *dialect) SetID(m *core.Manifest, id string) {
	m.Raw[d.idKey] = id
	m.ID = id
}

// canvas builds a core.Canvas from a raw canvas object.
func (d *dialect) canvas(raw any, position, sequence int) (*core.Canvas, error) {
	obj, ok := raw.(core.JSON)
	if !ok {
		return nil, &core.ParseError{Reason: fmt.Sprintf("canvas %d is not an object", position)}
	}
	id := str(obj[d.idKey])
	if id == "" {
		return nil, &core.ParseError{Reason: fmt.Sprintf("canvas %d has no %s", position, d.idKey)}
	}
	return &core.Canvas{
		ID:         id,
		Label:      textValue(obj["label"]),
		Position:   position,
		Sequence:   sequence,
		Raw:        obj,
		Containers: d.Locate(obj),
	}, nil
}

// manifest checks the manifest id and fills the common fields.
func (d *dialect) manifest(raw core.JSON) (*core.Manifest, error) {
	id := str(raw[d.idKey])
	if id == "" {
		return nil, &core.ParseError{Reason: fmt.Sprintf("manifest has no %s", d.idKey)}
	}
	return &core.Manifest{
		Version: d.version,
		ID:      id,
		Label:   textValue(raw["label"]),
		Raw:     raw,
	}, nil
}

// list reads an optional array field; a missing field is an empty list.
func list(obj core.JSON, key, owner string) ([]any, error) {
	v, ok := obj[key]
	if !ok || v == nil {
		return nil, nil
	}
	l, ok := v.([]any)
	if !ok {
		return nil, &core.ParseError{Reason: fmt.Sprintf("%s %s is not an array", owner, key)}
	}
	return l, nil
}
