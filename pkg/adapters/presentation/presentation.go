// Package presentation implements the IIIF Presentation API V2 and V3
// variants of core.Adapter and detects which one a document needs.
package presentation

import (
	"sort"
	"strings"

	"github.com/aretw0/iiifanno/pkg/core"
)

// JSON-LD contexts of the presentation API versions.
const (
	ContextV2 = "http://iiif.io/api/presentation/2/context.json"
	ContextV3 = "http://iiif.io/api/presentation/3/context.json"
)

// Registry implements core.Registry for V2 and V3.
type Registry struct {
	v2 *V2Adapter
	v3 *V3Adapter
}

// NewRegistry creates a registry holding both adapters.
func NewRegistry() *Registry {
	return &Registry{v2: NewV2(), v3: NewV3()}
}

// Adapter returns the adapter of a version.
func (r *Registry) Adapter(v core.Version) (core.Adapter, bool) {
	switch v {
	case core.V2:
		return r.v2, true
	case core.V3:
		return r.v3, true
	}
	return nil, false
}

// Detect selects the adapter of a manifest from its @context, falling back
// to its type marker.
func (r *Registry) Detect(location string, raw core.JSON) (core.Adapter, error) {
	v := contextVersion(raw["@context"])
	if v == core.VersionUnknown {
		switch {
		case str(raw["@type"]) == "sc:Manifest":
			v = core.V2
		case str(raw["type"]) == "Manifest":
			v = core.V3
		}
	}
	if a, ok := r.Adapter(v); ok {
		return a, nil
	}
	return nil, &core.UnsupportedVersionError{Location: location}
}

// ForDocument selects the adapter of a standalone annotation document from
// its type marker, falling back to its @context.
func (r *Registry) ForDocument(location string, raw core.JSON) (core.Adapter, error) {
	v := core.VersionUnknown
	switch {
	case r.v2.isDocumentType(str(raw["@type"])):
		v = core.V2
	case r.v3.isDocumentType(str(raw["type"])):
		v = core.V3
	default:
		v = contextVersion(raw["@context"])
	}
	if a, ok := r.Adapter(v); ok {
		return a, nil
	}
	return nil, &core.UnsupportedVersionError{Location: location}
}

// contextVersion inspects a @context value, which may be a string or a list.
func contextVersion(ctx any) core.Version {
	for _, c := range asList(ctx) {
		switch str(c) {
		case ContextV3:
			return core.V3
		case ContextV2:
			return core.V2
		}
	}
	return core.VersionUnknown
}

// str returns v if it is a string, "" otherwise.
func str(v any) string {
	s, _ := v.(string)
	return s
}

// asList normalizes a singular or array valued field.
func asList(v any) []any {
	switch t := v.(type) {
	case nil:
		return nil
	case []any:
		return t
	default:
		return []any{t}
	}
}

// objects returns the JSON objects of a list, reporting whether every
// element was an object.
func objects(list []any) ([]core.JSON, bool) {
	out := make([]core.JSON, 0, len(list))
	ok := true
	for _, item := range list {
		obj, isObj := item.(core.JSON)
		if !isObj {
			ok = false
			continue
		}
		out = append(out, obj)
	}
	return out, ok
}

// stripFragment removes a media fragment (#xywh=...) from a target URI.
func stripFragment(uri string) string {
	before, _, _ := strings.Cut(uri, "#")
	return before
}

// textValue renders a label or motivation as plain text. It understands
// plain strings, V2 value objects and lists, and V3 language maps.
func textValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			if s := textValue(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, "; ")
	case core.JSON:
		if val, ok := t["@value"]; ok {
			return textValue(val)
		}
		for _, lang := range []string{"en", "none"} {
			if val, ok := t[lang]; ok {
				return textValue(val)
			}
		}
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		if len(keys) > 0 {
			return textValue(t[keys[0]])
		}
	}
	return ""
}

// motivation renders a motivation field: a single value as is, several
// values joined with commas.
func motivation(v any) string {
	list := asList(v)
	parts := make([]string, 0, len(list))
	for _, item := range list {
		if s := str(item); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

// annotationItems copies the raw annotations into a JSON array.
func annotationItems(annos []core.Annotation) []any {
	items := make([]any, 0, len(annos))
	for _, a := range annos {
		items = append(items, a.Raw)
	}
	return items
}

var _ core.Registry = (*Registry)(nil)
