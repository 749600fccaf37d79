package core

import (
	"fmt"
	"strings"
)

// canvasNamer derives annotation document file names from canvas ids.
type canvasNamer struct {
	used map[string]bool
}

func newCanvasNamer() *canvasNamer {
	return &canvasNamer{used: make(map[string]bool)}
}

// name returns "<last id segment>-annolist.json", falling back to the canvas
// position when the segment is empty or already taken.
func (n *canvasNamer) name(c *Canvas) string {
	seg := lastSegment(c.ID)
	if seg == "" || n.used[seg] {
		seg = fmt.Sprintf("canvas-%d", c.Position)
	}
	n.used[seg] = true
	return seg + "-annolist.json"
}

func lastSegment(id string) string {
	if i := strings.IndexAny(id, "#?"); i >= 0 {
		id = id[:i]
	}
	id = strings.TrimRight(id, "/")
	if i := strings.LastIndex(id, "/"); i >= 0 {
		id = id[i+1:]
	}
	id = strings.TrimSuffix(id, ".json")

	var b strings.Builder
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return strings.Trim(b.String(), ".")
}
