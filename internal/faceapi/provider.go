// Package faceapi talks to the external face service that provides the two
// model capabilities the classifier core consumes: face detection and face
// embedding extraction. The service is treated as a stateless black box.
package faceapi

import "context"

// Detection is a single detected face region in an image.
// BBox is [x1, y1, x2, y2] in raw pixel coordinates.
type Detection struct {
	FaceIndex int       `json:"face_index"`
	BBox      []float64 `json:"bbox"`
	DetScore  float64   `json:"det_score"`
}

// Face is a detected face region together with its identity embedding.
type Face struct {
	Index     int
	BBox      []float64
	DetScore  float64
	Embedding []float32
}

// Provider defines the two model capabilities used by the classification core.
// Implementations must be safe for concurrent use.
type Provider interface {
	// DetectFaces locates all faces in an image, returning zero or more detections.
	DetectFaces(ctx context.Context, imageData []byte) ([]Detection, error)
	// ComputeFaceEmbedding maps a single-face crop to a fixed-dimensionality vector.
	ComputeFaceEmbedding(ctx context.Context, cropData []byte) ([]float32, error)
}
