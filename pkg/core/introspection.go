package core

import (
	"github.com/aretw0/introspection"
)

// ServiceState exposes run counters for observability.
type ServiceState struct {
	ManifestsLoaded      int `json:"manifests_loaded"`
	ReferencesFetched    int `json:"references_fetched"`
	ReferencesUnresolved int `json:"references_unresolved"`
	DocumentsWritten     int `json:"documents_written"`
}

// State implements introspection.Introspectable.
func (s *Service) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}

// ComponentType implements introspection.Component.
func (s *Service) ComponentType() string {
	return "service"
}

var _ introspection.Introspectable = (*Service)(nil)
var _ introspection.Component = (*Service)(nil)
