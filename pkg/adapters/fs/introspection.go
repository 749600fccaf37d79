package fs

import (
	"github.com/aretw0/introspection"
)

// LoaderState exposes the Loader counters for observability.
type LoaderState struct {
	UserAgent    string `json:"user_agent"`
	FilesRead    int    `json:"files_read"`
	HTTPRequests int    `json:"http_requests"`
}

// State implements introspection.Introspectable.
func (l *Loader) State() any {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return LoaderState{
		UserAgent:    l.userAgent,
		FilesRead:    l.files,
		HTTPRequests: l.http,
	}
}

// ComponentType implements introspection.Component.
func (l *Loader) ComponentType() string {
	return "loader"
}

// SinkState exposes the Sink counters for observability.
type SinkState struct {
	FilesWritten     int `json:"files_written"`
	FilesOverwritten int `json:"files_overwritten"`
	OpenTransactions int `json:"open_transactions"`
}

// State implements introspection.Introspectable.
func (s *Sink) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return SinkState{
		FilesWritten:     s.written,
		FilesOverwritten: s.overwritten,
		OpenTransactions: s.open,
	}
}

// ComponentType implements introspection.Component.
func (s *Sink) ComponentType() string {
	return "sink"
}

var _ introspection.Introspectable = (*Loader)(nil)
var _ introspection.Component = (*Loader)(nil)
var _ introspection.Introspectable = (*Sink)(nil)
var _ introspection.Component = (*Sink)(nil)
