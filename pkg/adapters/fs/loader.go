package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/aretw0/iiifanno/pkg/core"
)

// DefaultUserAgent is sent with every HTTP request unless configured otherwise.
const DefaultUserAgent = "iiifanno"

// LoaderConfig holds the configuration for the Loader.
type LoaderConfig struct {
	Client    *http.Client
	UserAgent string
	Logger    *slog.Logger
}

// Loader implements core.Fetcher for local files, file:// URLs and HTTP(S).
// Every location is read with a single attempt.
type Loader struct {
	client    *http.Client
	userAgent string
	logger    *slog.Logger

	mu    sync.RWMutex
	files int
	http  int
}

// NewLoader creates a new Loader.
func NewLoader(config LoaderConfig) *Loader {
	l := &Loader{
		client:    config.Client,
		userAgent: config.UserAgent,
		logger:    config.Logger,
	}
	if l.client == nil {
		l.client = http.DefaultClient
	}
	if l.userAgent == "" {
		l.userAgent = DefaultUserAgent
	}
	if l.logger == nil {
		l.logger = slog.New(slog.DiscardHandler)
	}
	return l
}

// Fetch implements core.Fetcher.
func (l *Loader) Fetch(ctx context.Context, location string) (core.JSON, error) {
	var (
		data []byte
		err  error
	)
	if IsURL(location) {
		data, err = l.get(ctx, location)
	} else {
		data, err = l.readFile(location)
	}
	if err != nil {
		return nil, err
	}
	return Decode(location, data)
}

func (l *Loader) readFile(location string) ([]byte, error) {
	path := LocalPath(location)
	l.logger.Debug("loading resource from file", "path", path)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &core.NotFoundError{Location: location, Err: err}
	}
	l.mu.Lock()
	l.files++
	l.mu.Unlock()
	return data, nil
}

func (l *Loader) get(ctx context.Context, location string) ([]byte, error) {
	l.logger.Debug("loading resource from URL", "url", location)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, &core.NotFoundError{Location: location, Err: err}
	}
	req.Header.Set("Accept", "application/ld+json, application/json;q=0.9, */*;q=0.1")
	req.Header.Set("User-Agent", l.userAgent)

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, &core.NotFoundError{Location: location, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &core.NotFoundError{Location: location, Err: fmt.Errorf("http status %s", resp.Status)}
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &core.NotFoundError{Location: location, Err: err}
	}
	l.mu.Lock()
	l.http++
	l.mu.Unlock()
	return data, nil
}

// Decode parses data as a single JSON object, keeping numbers as json.Number.
func Decode(location string, data []byte) (core.JSON, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	var payload any
	if err := decoder.Decode(&payload); err != nil {
		return nil, &core.ParseError{Location: location, Reason: "invalid json", Err: err}
	}
	if err := decoder.Decode(new(any)); !errors.Is(err, io.EOF) {
		return nil, &core.ParseError{Location: location, Reason: "invalid json: trailing data after top-level value"}
	}
	obj, ok := payload.(map[string]any)
	if !ok {
		return nil, &core.ParseError{Location: location, Reason: "top-level value is not a JSON object"}
	}
	return obj, nil
}

// Resolve implements core.Fetcher. Absolute URLs are returned unchanged;
// relative references resolve against a URL base per RFC 3986, or against
// the directory of a file base.
func (l *Loader) Resolve(base, ref string) string {
	if ref == "" || IsURL(ref) || strings.HasPrefix(ref, "file://") {
		return ref
	}
	if IsURL(base) {
		b, err := url.Parse(base)
		if err != nil {
			return ref
		}
		r, err := url.Parse(ref)
		if err != nil {
			return ref
		}
		return b.ResolveReference(r).String()
	}
	if base == "" || filepath.IsAbs(ref) {
		return ref
	}
	return filepath.Join(filepath.Dir(LocalPath(base)), filepath.FromSlash(ref))
}

// IsURL reports whether location is an http or https URL.
func IsURL(location string) bool {
	lower := strings.ToLower(location)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// LocalPath strips a file:// scheme from location.
func LocalPath(location string) string {
	return strings.TrimPrefix(location, "file://")
}

var _ core.Fetcher = (*Loader)(nil)
