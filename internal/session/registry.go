package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// ErrNotFound is returned for an unknown session id.
var ErrNotFound = errors.New("session not found")

type Registry struct {
	deps Deps

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewRegistry(deps Deps) *Registry {
	return &Registry{deps: deps, sessions: make(map[string]*Session)}
}

// Create starts a new session. userID may be empty; trend records are only
// saved for sessions that carry one.
func (r *Registry) Create(userID string) *Session {
	s := newSession(uuid.NewString(), userID, r.deps, nil)
	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()
	return s
}

// Get returns the session for id, restoring it from the history mirror when
// it is not in memory.
func (r *Registry) Get(ctx context.Context, id string) (*Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}

	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if ok {
		return s, nil
	}
	if r.deps.Mirror == nil {
		return nil, ErrNotFound
	}

	found, err := r.deps.Mirror.Exists(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("restore session %s: %w", id, err)
	}
	if !found {
		return nil, ErrNotFound
	}
	entries, err := r.deps.Mirror.Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("restore session %s: %w", id, err)
	}
	if len(entries) == 0 {
		return nil, ErrNotFound
	}
	userID, err := r.deps.Mirror.Owner(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("restore session %s: %w", id, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok {
		return s, nil
	}
	s = newSession(id, userID, r.deps, entries)
	s.draft = entries[0].Vitals.Clone()
	r.sessions[id] = s
	r.deps.Log.Info().Str("session_id", id).Int("entries", len(entries)).Msg("session restored")
	return s, nil
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Wait blocks until every session's background work has finished.
func (r *Registry) Wait() {
	r.mu.RLock()
	all := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		all = append(all, s)
	}
	r.mu.RUnlock()
	for _, s := range all {
		s.Wait()
	}
}
