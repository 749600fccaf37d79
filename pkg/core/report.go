package core

// CanvasReport is the annotation count of one canvas.
type CanvasReport struct {
	ID    string `json:"id" yaml:"id"`
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
	Count int    `json:"count" yaml:"count"`
}

// Report is the result of a check.
type Report struct {
	Manifest    string         `json:"manifest" yaml:"manifest"`
	Location    string         `json:"location" yaml:"location"`
	Label       string         `json:"label,omitempty" yaml:"label,omitempty"`
	Version     int            `json:"version" yaml:"version"`
	Canvases    []CanvasReport `json:"canvases" yaml:"canvases"`
	Total       int            `json:"total" yaml:"total"`
	// Unmatched counts annotations whose target is missing or outside the manifest.
	Unmatched   int            `json:"unmatched" yaml:"unmatched"`
	Motivations []string       `json:"motivations,omitempty" yaml:"motivations,omitempty"`
	Unresolved  []string       `json:"unresolved,omitempty" yaml:"unresolved,omitempty"`
}

// AnnotatedCanvases returns the number of canvases with at least one annotation.
func (r *Report) AnnotatedCanvases() int {
	n := 0
	for _, c := range r.Canvases {
		if c.Count > 0 {
			n++
		}
	}
	return n
}
