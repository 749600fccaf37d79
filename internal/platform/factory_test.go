package platform

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/iiifanno/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const manifestV3 = `{
  "@context": "http://iiif.io/api/presentation/3/context.json",
  "id": "http://example.org/m",
  "type": "Manifest",
  "items": [
    {
      "id": "http://example.org/c1",
      "type": "Canvas",
      "annotations": [{"id": "page.json", "type": "AnnotationPage"}]
    }
  ]
}`

const pageV3 = `{
  "id": "http://example.org/page",
  "type": "AnnotationPage",
  "items": [{"id": "a1", "type": "Annotation", "target": "http://example.org/c1"}]
}`

func TestNew_Defaults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "manifest.json"), []byte(manifestV3), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "page.json"), []byte(pageV3), 0644))

	svc := New()
	ctx := context.Background()

	report, err := svc.Check(ctx, filepath.Join(dir, "manifest.json"))
	require.NoError(t, err)
	assert.Equal(t, 1, report.Total)

	out := filepath.Join(dir, "out", "annotations.json")
	_, err = svc.Extract(ctx, core.ExtractRequest{Manifest: filepath.Join(dir, "manifest.json"), OutputFile: out})
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  \"items\": [", "written with the default indent")
}

func TestNew_HTTPOptions(t *testing.T) {
	var agents []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		agents = append(agents, r.Header.Get("User-Agent"))
		switch r.URL.Path {
		case "/iiif/manifest.json":
			_, _ = w.Write([]byte(manifestV3))
		case "/iiif/page.json":
			_, _ = w.Write([]byte(pageV3))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	svc := New(WithHTTPClient(srv.Client()), WithUserAgent("iiifanno/test"))
	report, err := svc.Check(context.Background(), srv.URL+"/iiif/manifest.json")
	require.NoError(t, err)

	assert.Equal(t, 1, report.Total, "relative references resolve against the manifest URL")
	assert.Equal(t, []string{"iiifanno/test", "iiifanno/test"}, agents)
}

func TestNew_CompactIndent(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "manifest.json"), []byte(manifestV3), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "page.json"), []byte(pageV3), 0644))

	out := filepath.Join(dir, "annotations.json")
	_, err := New(WithIndent("")).Extract(context.Background(), core.ExtractRequest{
		Manifest:   filepath.Join(dir, "manifest.json"),
		OutputFile: out,
	})
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "\n  ")
}

func TestNew_InsertFailureLeavesNoOutput(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "manifest.json"), []byte(manifestV3), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "page.json"), []byte(pageV3), 0644))
	out := filepath.Join(dir, "out")
	require.NoError(t, os.MkdirAll(filepath.Join(out, "manifest.json"), 0755))

	_, err := New().Insert(context.Background(), core.InsertRequest{
		Manifest:       filepath.Join(dir, "manifest.json"),
		InputFile:      filepath.Join(dir, "page.json"),
		OutputManifest: filepath.Join(out, "manifest.json"),
		ReferenceMode:  core.ReferenceModeReference,
		NameScheme:     core.NameSchemeCanvas,
	})
	require.ErrorContains(t, err, "is a directory")

	lists, err := filepath.Glob(filepath.Join(out, "*-annolist.json"))
	require.NoError(t, err)
	assert.Empty(t, lists)
	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
