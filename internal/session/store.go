package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ppiankov/factview/internal/cache"
	"github.com/ppiankov/factview/internal/result"
)

// ErrNotFound is returned by Load when no state is stored under an id
var ErrNotFound = errors.New("session not found")

const namespace = "session"

// record is the persisted form. The payload is kept raw and reclassified on load.
type record struct {
	Query   string          `json:"query"`
	Result  json.RawMessage `json:"result"`
	SavedAt time.Time       `json:"saved_at"`
}

// Store persists session state in a cache
type Store struct {
	cache cache.Cache
	ttl   time.Duration
}

// NewStore creates a store over c. Entries expire after ttl; zero uses the cache default.
func NewStore(c cache.Cache, ttl time.Duration) *Store {
	return &Store{cache: c, ttl: ttl}
}

// Load returns the state saved under id
func (s *Store) Load(id string) (*State, error) {
	data, ok := s.cache.Get(cache.Key(namespace, id))
	if !ok {
		return nil, ErrNotFound
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}

	st := &State{}
	if len(rec.Result) > 0 {
		st.Remember(rec.Query, result.Classify(rec.Result))
	}
	return st, nil
}

// LoadOrNew returns the saved state, or an empty one when none exists
func (s *Store) LoadOrNew(id string) (*State, error) {
	st, err := s.Load(id)
	if errors.Is(err, ErrNotFound) {
		return &State{}, nil
	}
	return st, err
}

// Save stores st under id. An empty slot deletes the entry.
func (s *Store) Save(id string, st *State) error {
	query, r := st.Snapshot()
	if r == nil {
		return s.cache.Delete(cache.Key(namespace, id))
	}

	data, err := json.Marshal(record{
		Query:   query,
		Result:  r.Raw,
		SavedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	if err := s.cache.Set(cache.Key(namespace, id), data, s.ttl); err != nil {
		return fmt.Errorf("save session %s: %w", id, err)
	}
	return nil
}
