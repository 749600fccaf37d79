package iiifanno

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var rawVersion string

// Version is the release version of iiifanno.
var Version = strings.TrimSpace(rawVersion)
