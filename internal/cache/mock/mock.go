// Package mock provides an in-memory implementation of the cache interfaces for testing.
package mock

import (
	"context"
	"sync"

	"github.com/kozaktomas/face-sorter/internal/cache"
)

type entry struct {
	key   cache.Key
	faces []cache.StoredFace
}

// FaceStore is an in-memory implementation of cache.FaceStore.
type FaceStore struct {
	mu      sync.RWMutex
	entries map[string]entry

	// Error injection
	GetError error
	PutError error

	// Call counters
	Hits   int
	Misses int
	Puts   int
}

// NewFaceStore creates a new in-memory face store.
func NewFaceStore() *FaceStore {
	return &FaceStore{
		entries: make(map[string]entry),
	}
}

// GetFaces retrieves the cached faces for an image version.
func (m *FaceStore) GetFaces(ctx context.Context, key cache.Key) ([]cache.StoredFace, bool, error) {
	if m.GetError != nil {
		return nil, false, m.GetError
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key.Path]
	if !ok || e.key.Size != key.Size || !e.key.ModTime.Equal(key.ModTime) {
		m.Misses++
		return nil, false, nil
	}
	m.Hits++

	faces := make([]cache.StoredFace, len(e.faces))
	copy(faces, e.faces)
	return faces, true, nil
}

// PutFaces stores the faces for an image version.
func (m *FaceStore) PutFaces(ctx context.Context, key cache.Key, faces []cache.StoredFace) error {
	if m.PutError != nil {
		return m.PutError
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := make([]cache.StoredFace, len(faces))
	copy(stored, faces)
	m.entries[key.Path] = entry{key: key, faces: stored}
	m.Puts++
	return nil
}

// Count returns the number of distinct images with a cache entry.
func (m *FaceStore) Count(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries), nil
}
