package cache

import "context"

// FaceStore provides access to cached face detections and embeddings.
// Implementations must be safe for concurrent use.
type FaceStore interface {
	// GetFaces retrieves the cached faces for an image version.
	// The second return value reports whether a valid entry was found;
	// a found entry may legitimately contain zero faces.
	GetFaces(ctx context.Context, key Key) ([]StoredFace, bool, error)

	// PutFaces stores the faces for an image version, replacing any entry
	// for the same path (including stale entries for older versions).
	PutFaces(ctx context.Context, key Key, faces []StoredFace) error

	// Count returns the number of distinct images with a cache entry.
	Count(ctx context.Context) (int, error)
}
