// Package core holds the IIIF annotation domain: manifests, canvases, annotation
// containers and documents, plus the ports the adapters implement.
package core

import "fmt"

// Version is the IIIF Presentation API major version of a manifest or document.
type Version int

const (
	VersionUnknown Version = 0
	V2             Version = 2
	V3             Version = 3
)

func (v Version) String() string {
	switch v {
	case V2, V3:
		return fmt.Sprintf("V%d", int(v))
	default:
		return "unknown"
	}
}

// JSON is a decoded JSON object. Numbers are kept as json.Number.
type JSON = map[string]any

// ContainerKind tags how a canvas holds its annotations.
type ContainerKind string

const (
	ContainerAbsent    ContainerKind = "absent"
	ContainerInline    ContainerKind = "inline"
	ContainerReference ContainerKind = "reference"
)

// Container is one annotation container found on a canvas.
// Inline containers carry the raw annotation objects, references carry a URI.
type Container struct {
	Kind        ContainerKind
	URI         string
	Annotations []JSON
}

// Canvas is a single view of a manifest.
type Canvas struct {
	ID         string
	Label      string
	Position   int // 1-based, across all sequences
	Sequence   int // 1-based; V3 manifests have one implicit sequence
	Raw        JSON
	Containers []Container
}

// Kind summarises the canvas containers: Absent when there are none,
// otherwise the kind of the first one.
func (c *Canvas) Kind() ContainerKind {
	if len(c.Containers) == 0 {
		return ContainerAbsent
	}
	return c.Containers[0].Kind
}

// Manifest is a parsed manifest. Raw is the full tree; canvases point into it,
// so changes made through Canvas.Raw are visible when Raw is serialized.
type Manifest struct {
	Version  Version
	ID       string
	Label    string
	Location string
	Raw      JSON
	Canvases []*Canvas
}

// Canvas returns the canvas with the given id.
func (m *Manifest) Canvas(id string) (*Canvas, bool) {
	for _, c := range m.Canvases {
		if c.ID == id {
			return c, true
		}
	}
	return nil, false
}

// Annotation is an annotation reduced to what is needed to place it.
// Raw is passed through untouched.
type Annotation struct {
	ID         string
	Target     string
	Motivation string
	Raw        JSON
}

// Document is a standalone annotation document: an sc:AnnotationList (V2)
// or an AnnotationPage (V3). Items is nil when the document is only a link.
type Document struct {
	Version Version
	ID      string
	Items   []JSON
}

// ReferenceMode selects how insert stores annotations in the manifest.
type ReferenceMode string

const (
	ReferenceModeInline    ReferenceMode = "inline"
	ReferenceModeReference ReferenceMode = "reference"
)

// ParseReferenceMode validates a reference mode name.
func ParseReferenceMode(s string) (ReferenceMode, error) {
	switch m := ReferenceMode(s); m {
	case ReferenceModeInline, ReferenceModeReference:
		return m, nil
	case "":
		return ReferenceModeReference, nil
	}
	return "", fmt.Errorf("invalid reference mode %q (want inline or reference)", s)
}

// NameScheme selects how generated annotation document files are named.
type NameScheme string

const (
	NameSchemeCanvas   NameScheme = "canvas"
	NameSchemeSequence NameScheme = "sequence"
)

// ParseNameScheme validates a naming scheme name.
func ParseNameScheme(s string) (NameScheme, error) {
	switch n := NameScheme(s); n {
	case NameSchemeCanvas, NameSchemeSequence:
		return n, nil
	case "":
		return NameSchemeSequence, nil
	}
	return "", fmt.Errorf("invalid annotation list name scheme %q (want canvas or sequence)", s)
}
