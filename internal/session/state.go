// Package session holds the current query/result pair a page shares from and
// persists it between CLI runs and web requests.
package session

import (
	"sync"

	"github.com/ppiankov/factview/internal/model"
)

// State is the single "current" slot: the last recognized result and the query
// that produced it. It is empty until the first recognized render.
type State struct {
	mu     sync.RWMutex
	query  string
	result *model.QueryResult
}

// Remember replaces the current slot. It satisfies view.ResultSink.
func (s *State) Remember(query string, r model.QueryResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = query
	s.result = &r
}

// Snapshot returns the current query and result; result is nil when nothing
// has been rendered yet
func (s *State) Snapshot() (string, *model.QueryResult) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.result == nil {
		return s.query, nil
	}
	r := *s.result
	return s.query, &r
}

// Empty reports whether the slot is unusable for sharing
func (s *State) Empty() bool {
	query, r := s.Snapshot()
	return query == "" || r == nil
}
