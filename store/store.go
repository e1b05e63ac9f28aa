// Package store provides persistence backends for affection engine
// state. The host runtime loads a session's snapshot before each turn
// and saves the successor after; the engine itself never does I/O.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	affection "github.com/glusyy/grok-ani-affection-system"
)

// StateStore persists opaque engine state blobs keyed by session ID.
// Load returns (nil, nil) when no snapshot exists: the caller starts the
// session from defaults.
type StateStore interface {
	Load(ctx context.Context, sessionID string) (*affection.State, error)
	Save(ctx context.Context, sessionID string, state affection.State) error
	Delete(ctx context.Context, sessionID string) error
	Close() error
}

// encodeState serializes a snapshot. All backends store the same JSON
// blob so sessions can migrate between them.
func encodeState(state affection.State) ([]byte, error) {
	data, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("encode state: %w", err)
	}
	return data, nil
}

func decodeState(data []byte) (*affection.State, error) {
	var state affection.State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("decode state: %w", err)
	}
	return &state, nil
}

// MemoryStore is a thread-safe in-memory StateStore for development and
// tests. Data is lost on restart.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte)}
}

func (s *MemoryStore) Load(_ context.Context, sessionID string) (*affection.State, error) {
	s.mu.RLock()
	data, ok := s.blobs[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return decodeState(data)
}

func (s *MemoryStore) Save(_ context.Context, sessionID string, state affection.State) error {
	data, err := encodeState(state)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.blobs[sessionID] = data
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.blobs, sessionID)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Close() error { return nil }
