// Package cache provides an optional persistent cache of face detections and
// embeddings, keyed by source image identity. Caching avoids re-running the
// face service over unchanged labeled and raw images between invocations.
package cache

import "time"

// Key identifies one source image version. A cache entry is valid only while
// the file at Path still has the same size and modification time.
type Key struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// StoredFace is one cached face detection with its embedding.
type StoredFace struct {
	Path      string
	FaceIndex int
	BBox      []float64 // [x1, y1, x2, y2] in raw pixel coordinates
	DetScore  float64
	Embedding []float32
	Dim       int
	CreatedAt time.Time
}
