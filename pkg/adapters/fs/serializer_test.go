package fs

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/aretw0/iiifanno/pkg/core"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleReport() *core.Report {
	return &core.Report{
		Manifest: "http://example.org/m",
		Location: "m.json",
		Label:    "Book",
		Version:  2,
		Canvases: []core.CanvasReport{
			{ID: "http://example.org/c1", Label: "p. 1", Count: 2},
			{ID: "http://example.org/c2", Label: "p. 2", Count: 0},
		},
		Total:       3,
		Unmatched:   1,
		Motivations: []string{"oa:commenting"},
	}
}

func TestTextReportSerializer(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, TextReportSerializer{}.Serialize(&buf, []*core.Report{sampleReport()}))

	want := "http://example.org/c1\t2\n" +
		"http://example.org/c2\t0\n" +
		"unmatched\t1\n" +
		"total\t3\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("text report mismatch (-want +got):\n%s", diff)
	}
}

func TestTextReportSerializer_Several(t *testing.T) {
	a := sampleReport()
	b := &core.Report{Location: "n.json", Canvases: []core.CanvasReport{{ID: "c", Count: 0}}}

	var buf bytes.Buffer
	require.NoError(t, TextReportSerializer{}.Serialize(&buf, []*core.Report{a, b}))

	want := "# m.json\n" +
		"http://example.org/c1\t2\n" +
		"http://example.org/c2\t0\n" +
		"unmatched\t1\n" +
		"total\t3\n" +
		"\n" +
		"# n.json\n" +
		"c\t0\n" +
		"total\t0\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("text report mismatch (-want +got):\n%s", diff)
	}
}

func TestJSONReportSerializer(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSONReportSerializer{}.Serialize(&buf, []*core.Report{sampleReport()}))

	var got core.Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	if diff := cmp.Diff(*sampleReport(), got); diff != "" {
		t.Errorf("json report mismatch (-want +got):\n%s", diff)
	}

	buf.Reset()
	require.NoError(t, JSONReportSerializer{}.Serialize(&buf, []*core.Report{sampleReport(), sampleReport()}))
	var list []core.Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &list))
	assert.Len(t, list, 2)
}

func TestYAMLReportSerializer(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, YAMLReportSerializer{}.Serialize(&buf, []*core.Report{sampleReport()}))

	assert.Contains(t, buf.String(), "total: 3")
	var got core.Report
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, 2, got.Canvases[0].Count)
	assert.Equal(t, "http://example.org/m", got.Manifest)
}

func TestReportSerializerFor(t *testing.T) {
	s, err := ReportSerializerFor("")
	require.NoError(t, err)
	assert.IsType(t, TextReportSerializer{}, s)

	s, err = ReportSerializerFor("YAML")
	require.NoError(t, err)
	assert.IsType(t, YAMLReportSerializer{}, s)

	_, err = ReportSerializerFor("csv")
	assert.ErrorContains(t, err, "json, text, yaml")
}
