package core_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path"
	"strings"
	"sync"
	"testing"

	"github.com/aretw0/iiifanno/pkg/adapters/presentation"
	"github.com/aretw0/iiifanno/pkg/core"
	"github.com/stretchr/testify/require"
)

// MockStore implements core.Fetcher and core.Sink in memory, so documents
// written by one run can be read by the next.
type MockStore struct {
	mu         sync.Mutex
	files      map[string][]byte
	fetched    []string
	failCommit error
}

func NewMockStore() *MockStore {
	return &MockStore{files: make(map[string][]byte)}
}

func (s *MockStore) Fetch(ctx context.Context, location string) (core.JSON, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetched = append(s.fetched, location)

	data, ok := s.files[location]
	if !ok {
		return nil, &core.NotFoundError{Location: location, Err: os.ErrNotExist}
	}
	d := json.NewDecoder(bytes.NewReader(data))
	d.UseNumber()
	var v core.JSON
	if err := d.Decode(&v); err != nil {
		return nil, &core.ParseError{Location: location, Err: err}
	}
	return v, nil
}

func (s *MockStore) Resolve(base, ref string) string {
	if strings.Contains(ref, "://") || strings.HasPrefix(ref, "/") {
		return ref
	}
	if strings.Contains(base, "://") {
		return base[:strings.LastIndex(base, "/")+1] + ref
	}
	return path.Join(path.Dir(base), ref)
}

func (s *MockStore) Begin(ctx context.Context) (core.Transaction, error) {
	return &mockTx{store: s, staged: make(map[string][]byte)}, nil
}

// Put stores v as JSON at location.
func (s *MockStore) Put(t *testing.T, location string, v any) {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[location] = data
}

// JSON decodes a stored document.
func (s *MockStore) JSON(t *testing.T, location string) core.JSON {
	t.Helper()
	raw, err := s.Fetch(context.Background(), location)
	require.NoError(t, err)
	return raw
}

func (s *MockStore) Has(location string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.files[location]
	return ok
}

// Fetches counts the reads of location.
func (s *MockStore) Fetches(location string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, l := range s.fetched {
		if l == location {
			n++
		}
	}
	return n
}

type mockTx struct {
	store  *MockStore
	staged map[string][]byte
}

func (tx *mockTx) Put(ctx context.Context, location string, v any) error {
	if tx.staged == nil {
		return errors.New("transaction closed")
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	tx.staged[location] = data
	return nil
}

func (tx *mockTx) Commit(ctx context.Context) error {
	if tx.store.failCommit != nil {
		return tx.store.failCommit
	}
	tx.store.mu.Lock()
	defer tx.store.mu.Unlock()
	for k, v := range tx.staged {
		tx.store.files[k] = v
	}
	tx.staged = nil
	return nil
}

func (tx *mockTx) Rollback(ctx context.Context) error {
	tx.staged = nil
	return nil
}

func newService(store *MockStore) *core.Service {
	return core.NewService(store, store, presentation.NewRegistry(), nil)
}

// --- fixtures ---

const base = "http://example.org/iiif/book1"

func canvasID(n int) string {
	return fmt.Sprintf("%s/canvas/p%d", base, n)
}

func v2Canvas(n int, otherContent ...any) core.JSON {
	c := core.JSON{
		"@id":    canvasID(n),
		"@type":  "sc:Canvas",
		"label":  fmt.Sprintf("p. %d", n),
		"height": 1000,
		"width":  800,
	}
	if len(otherContent) > 0 {
		c["otherContent"] = otherContent
	}
	return c
}

func v2Manifest(sequences ...[]any) core.JSON {
	seqs := []any{}
	for _, canvases := range sequences {
		seqs = append(seqs, core.JSON{"@type": "sc:Sequence", "canvases": canvases})
	}
	return core.JSON{
		"@context":  presentation.ContextV2,
		"@id":       base + "/manifest",
		"@type":     "sc:Manifest",
		"label":     "Book 1",
		"sequences": seqs,
	}
}

func v2Anno(id string, canvas int) core.JSON {
	return core.JSON{
		"@id":        id,
		"@type":      "oa:Annotation",
		"motivation": "oa:commenting",
		"resource":   core.JSON{"@type": "dctypes:Text", "chars": "note " + id},
		"on":         canvasID(canvas) + "#xywh=0,0,10,10",
	}
}

func v2List(id string, annos ...any) core.JSON {
	return core.JSON{
		"@context":  presentation.ContextV2,
		"@id":       id,
		"@type":     "sc:AnnotationList",
		"resources": annos,
	}
}

func v2Ref(id string) core.JSON {
	return core.JSON{"@id": id, "@type": "sc:AnnotationList"}
}

func v3Canvas(n int, annotations ...any) core.JSON {
	c := core.JSON{
		"id":    canvasID(n),
		"type":  "Canvas",
		"label": core.JSON{"none": []any{fmt.Sprintf("p. %d", n)}},
	}
	if len(annotations) > 0 {
		c["annotations"] = annotations
	}
	return c
}

func v3Manifest(canvases ...any) core.JSON {
	return core.JSON{
		"@context": presentation.ContextV3,
		"id":       base + "/manifest",
		"type":     "Manifest",
		"label":    core.JSON{"en": []any{"Book 1"}},
		"items":    canvases,
	}
}

func v3Anno(id string, canvas int) core.JSON {
	return core.JSON{
		"id":         id,
		"type":       "Annotation",
		"motivation": "commenting",
		"body":       core.JSON{"type": "TextualBody", "value": "note " + id},
		"target": core.JSON{
			"type":     "SpecificResource",
			"source":   core.JSON{"id": canvasID(canvas), "type": "Canvas"},
			"selector": core.JSON{"type": "FragmentSelector", "value": "xywh=0,0,10,10"},
		},
	}
}

func v3Page(id string, annos ...any) core.JSON {
	return core.JSON{
		"@context": presentation.ContextV3,
		"id":       id,
		"type":     "AnnotationPage",
		"items":    annos,
	}
}

// ids returns the annotation ids of a resources/items array.
func ids(t *testing.T, v any) []string {
	t.Helper()
	list, ok := v.([]any)
	require.True(t, ok, "expected an array, got %T", v)
	out := make([]string, 0, len(list))
	for _, item := range list {
		obj := item.(core.JSON)
		if id, ok := obj["@id"].(string); ok {
			out = append(out, id)
			continue
		}
		out = append(out, obj["id"].(string))
	}
	return out
}

// counts returns the per canvas counts of a report.
func counts(r *core.Report) []int {
	out := make([]int, 0, len(r.Canvases))
	for _, c := range r.Canvases {
		out = append(out, c.Count)
	}
	return out
}
