package fs

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/aretw0/iiifanno/pkg/core"
	"gopkg.in/yaml.v3"
)

// ReportSerializer renders check reports.
type ReportSerializer interface {
	Serialize(w io.Writer, reports []*core.Report) error
}

// DefaultReportSerializers returns the report formats by name.
func DefaultReportSerializers() map[string]ReportSerializer {
	return map[string]ReportSerializer{
		"text": TextReportSerializer{},
		"json": JSONReportSerializer{},
		"yaml": YAMLReportSerializer{},
	}
}

// ReportFormats lists the names of the default report serializers.
func ReportFormats() []string {
	names := make([]string, 0, 3)
	for name := range DefaultReportSerializers() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ReportSerializerFor looks up a report serializer by name.
func ReportSerializerFor(format string) (ReportSerializer, error) {
	if format == "" {
		format = "text"
	}
	s, ok := DefaultReportSerializers()[strings.ToLower(format)]
	if !ok {
		return nil, fmt.Errorf("unknown report format %q (want one of %s)", format, strings.Join(ReportFormats(), ", "))
	}
	return s, nil
}

// --- Text ---

// TextReportSerializer prints one "canvas<TAB>count" line per canvas and a
// closing "total<TAB>N" line. Several reports are separated by a
// "# location" header.
type TextReportSerializer struct{}

func (TextReportSerializer) Serialize(w io.Writer, reports []*core.Report) error {
	for i, r := range reports {
		if len(reports) > 1 {
			if i > 0 {
				if _, err := fmt.Fprintln(w); err != nil {
					return err
				}
			}
			if _, err := fmt.Fprintf(w, "# %s\n", r.Location); err != nil {
				return err
			}
		}
		for _, c := range r.Canvases {
			if _, err := fmt.Fprintf(w, "%s\t%d\n", c.ID, c.Count); err != nil {
				return err
			}
		}
		if r.Unmatched > 0 {
			if _, err := fmt.Fprintf(w, "unmatched\t%d\n", r.Unmatched); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "total\t%d\n", r.Total); err != nil {
			return err
		}
	}
	return nil
}

// --- JSON ---

// JSONReportSerializer writes one object, or an array for several reports.
type JSONReportSerializer struct{}

func (JSONReportSerializer) Serialize(w io.Writer, reports []*core.Report) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	if len(reports) == 1 {
		return encoder.Encode(reports[0])
	}
	return encoder.Encode(reports)
}

// --- YAML ---

// YAMLReportSerializer writes one YAML document per report.
type YAMLReportSerializer struct{}

func (YAMLReportSerializer) Serialize(w io.Writer, reports []*core.Report) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	for _, r := range reports {
		if err := encoder.Encode(r); err != nil {
			return err
		}
	}
	return encoder.Close()
}
