package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/aretw0/iiifanno/pkg/core"
)

// SinkConfig holds the configuration for the Sink.
type SinkConfig struct {
	Logger *slog.Logger
	// Perm is the mode of written files. Zero means 0644.
	Perm os.FileMode
	// Indent is the JSON indentation. Empty writes compact JSON.
	Indent string
}

// Sink implements core.Sink on the local filesystem.
type Sink struct {
	config SinkConfig

	mu          sync.RWMutex
	written     int
	overwritten int
	open        int
}

// NewSink creates a new Sink.
func NewSink(config SinkConfig) *Sink {
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	if config.Perm == 0 {
		config.Perm = 0o644
	}
	return &Sink{config: config}
}

// Begin implements core.Sink.
func (s *Sink) Begin(ctx context.Context) (core.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.open++
	s.mu.Unlock()
	return &Transaction{sink: s, staged: make(map[string][]byte)}, nil
}

// Transaction stages encoded documents in memory. Nothing touches the disk
// before Commit, so a run that fails while building its outputs leaves no
// partial results behind.
type Transaction struct {
	sink   *Sink
	staged map[string][]byte
	order  []string
	mu     sync.Mutex
	closed bool
}

// Put implements core.Transaction. The document is encoded immediately.
func (t *Transaction) Put(ctx context.Context, path string, v any) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return fmt.Errorf("transaction closed")
	}
	if path == "" {
		return fmt.Errorf("output path cannot be empty")
	}

	data, err := t.sink.encode(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if _, ok := t.staged[path]; !ok {
		t.order = append(t.order, path)
	}
	t.staged[path] = data
	return nil
}

// Commit implements core.Transaction. It runs in two phases: every target
// is checked and written to a temp file, then all temp files are renamed
// into place. A failure in either phase restores the previous state, so
// either all staged files are written or none.
func (t *Transaction) Commit(ctx context.Context) (err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return fmt.Errorf("transaction already closed")
	}
	defer t.close()

	pending := make([]*pendingFile, 0, len(t.order))
	defer func() {
		for _, p := range pending {
			if err != nil {
				p.restore()
			}
			p.discard()
		}
	}()

	for _, path := range t.order {
		if err := ctx.Err(); err != nil {
			return err
		}
		p, err := prepareFile(path, t.staged[path], t.sink.config.Perm)
		if err != nil {
			return err
		}
		pending = append(pending, p)
	}

	for _, p := range pending {
		if err := p.commit(); err != nil {
			return err
		}
	}

	for _, p := range pending {
		t.sink.config.Logger.Info("writing file", "path", p.target)
		if p.replaced {
			t.sink.config.Logger.Warn("file was overwritten", "path", p.target)
		}
		t.sink.record(p.replaced)
	}
	return nil
}

// Rollback implements core.Transaction.
func (t *Transaction) Rollback(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}
	t.close()
	return nil
}

func (t *Transaction) close() {
	t.closed = true
	t.staged = nil
	t.order = nil
	t.sink.mu.Lock()
	t.sink.open--
	t.sink.mu.Unlock()
}

func (s *Sink) encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	if s.config.Indent != "" {
		encoder.SetIndent("", s.config.Indent)
	}
	if err := encoder.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *Sink) record(replaced bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.written++
	if replaced {
		s.overwritten++
	}
}

var _ core.Sink = (*Sink)(nil)
var _ core.Transaction = (*Transaction)(nil)
