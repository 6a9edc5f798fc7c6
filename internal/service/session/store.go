package session

import (
	"context"
	"errors"
	"sync"

	model "github.com/hzhao-dev/triagecare/backend/internal/model/triage"
)

var (
	// ErrSessionNotFound is returned for unknown session ids.
	ErrSessionNotFound = errors.New("session not found")
	// ErrVersionConflict signals a concurrent writer won the read-modify-write
	// race; the caller may retry.
	ErrVersionConflict = errors.New("session version conflict")
)

// Store is the session persistence boundary. Put enforces optimistic
// concurrency: it succeeds only when the stored version still matches the
// session's version, then bumps it. This gives the single-writer-per-session
// guarantee without shared process state.
type Store interface {
	Create(ctx context.Context, sess *model.DiagnosticSession) error
	Get(ctx context.Context, id string) (*model.DiagnosticSession, error)
	Put(ctx context.Context, sess *model.DiagnosticSession) error
}

// MemoryStore keeps sessions in a mutex-guarded map, suitable for tests and
// single-instance deployments.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*model.DiagnosticSession
}

// NewMemoryStore bootstraps an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*model.DiagnosticSession)}
}

// Create stores a fresh session at version 1.
func (s *MemoryStore) Create(_ context.Context, sess *model.DiagnosticSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess.Version = 1
	s.sessions[sess.ID] = sess.Clone()
	return nil
}

// Get returns a deep copy of the stored session.
func (s *MemoryStore) Get(_ context.Context, id string) (*model.DiagnosticSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return stored.Clone(), nil
}

// Put replaces the stored session iff the caller's version is current.
func (s *MemoryStore) Put(_ context.Context, sess *model.DiagnosticSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.sessions[sess.ID]
	if !ok {
		return ErrSessionNotFound
	}
	if stored.Version != sess.Version {
		return ErrVersionConflict
	}

	updated := sess.Clone()
	updated.Version = sess.Version + 1
	s.sessions[sess.ID] = updated
	sess.Version = updated.Version
	return nil
}
