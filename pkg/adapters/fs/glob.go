package fs

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/iiifanno/pkg/core"
	"github.com/bmatcuk/doublestar/v4"
)

// ExpandInputs turns a manifest argument into the list of locations to read.
// URLs and plain paths are returned as is; local patterns such as
// "manifests/**/*.json" are expanded and sorted.
func ExpandInputs(pattern string) ([]string, error) {
	if IsURL(pattern) || !IsPattern(pattern) {
		return []string{pattern}, nil
	}
	local := LocalPath(pattern)
	if !doublestar.ValidatePathPattern(local) {
		return nil, fmt.Errorf("invalid input pattern %q", pattern)
	}
	matches, err := doublestar.FilepathGlob(local, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("failed to expand %q: %w", pattern, err)
	}
	if len(matches) == 0 {
		return nil, &core.NotFoundError{Location: pattern, Err: errors.New("no files match")}
	}
	sort.Strings(matches)
	return matches, nil
}

// IsPattern reports whether location contains glob meta characters.
func IsPattern(location string) bool {
	return strings.ContainsAny(location, "*?[{")
}
