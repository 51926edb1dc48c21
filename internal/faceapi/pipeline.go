package faceapi

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/kozaktomas/face-sorter/internal/cache"
	"github.com/kozaktomas/face-sorter/internal/imaging"
)

// Pipeline runs detection and embedding over whole images, producing one Face
// per detected region. When a cache store is configured, unchanged files are
// served from the cache instead of the face service.
type Pipeline struct {
	provider Provider
	store    cache.FaceStore // nil disables caching
}

// NewPipeline creates a pipeline around a provider with an optional cache store.
func NewPipeline(provider Provider, store cache.FaceStore) *Pipeline {
	return &Pipeline{provider: provider, store: store}
}

// Provider returns the underlying face service provider.
func (p *Pipeline) Provider() Provider {
	return p.provider
}

// FacesFromFile detects and embeds all faces in one image file.
// Cached results are used while the file's size and mtime are unchanged.
func (p *Pipeline) FacesFromFile(ctx context.Context, path string) ([]Face, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	key := cache.Key{Path: path, Size: info.Size(), ModTime: info.ModTime()}

	if p.store != nil {
		stored, ok, err := p.store.GetFaces(ctx, key)
		if err == nil && ok {
			return storedToFaces(stored), nil
		}
		// Lookup errors fall through to recomputation; the cache is an
		// optimization, never a correctness dependency.
	}

	data, err := os.ReadFile(path) //nolint:gosec // caller controls the folder being processed
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	faces, err := p.Faces(ctx, data)
	if err != nil {
		return nil, err
	}

	if p.store != nil {
		if err := p.store.PutFaces(ctx, key, facesToStored(path, faces)); err != nil {
			log.Printf("warning: failed to cache faces for %s: %v", path, err)
		}
	}

	return faces, nil
}

// Faces detects all faces in raw image data and embeds each one.
func (p *Pipeline) Faces(ctx context.Context, data []byte) ([]Face, error) {
	detections, err := p.provider.DetectFaces(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("detect faces: %w", err)
	}
	if len(detections) == 0 {
		return nil, nil
	}

	img, err := imaging.Decode(data)
	if err != nil {
		return nil, err
	}

	faces := make([]Face, 0, len(detections))
	for _, det := range detections {
		crop, err := imaging.CropRegion(img, det.BBox)
		if err != nil {
			return nil, fmt.Errorf("crop face %d: %w", det.FaceIndex, err)
		}

		cropData, err := imaging.EncodePNG(crop)
		if err != nil {
			return nil, fmt.Errorf("encode face crop %d: %w", det.FaceIndex, err)
		}

		emb, err := p.provider.ComputeFaceEmbedding(ctx, cropData)
		if err != nil {
			return nil, fmt.Errorf("embed face %d: %w", det.FaceIndex, err)
		}

		faces = append(faces, Face{
			Index:     det.FaceIndex,
			BBox:      det.BBox,
			DetScore:  det.DetScore,
			Embedding: emb,
		})
	}

	return faces, nil
}

func storedToFaces(stored []cache.StoredFace) []Face {
	faces := make([]Face, 0, len(stored))
	for _, s := range stored {
		faces = append(faces, Face{
			Index:     s.FaceIndex,
			BBox:      s.BBox,
			DetScore:  s.DetScore,
			Embedding: s.Embedding,
		})
	}
	return faces
}

func facesToStored(path string, faces []Face) []cache.StoredFace {
	stored := make([]cache.StoredFace, 0, len(faces))
	for _, f := range faces {
		stored = append(stored, cache.StoredFace{
			Path:      path,
			FaceIndex: f.Index,
			BBox:      f.BBox,
			DetScore:  f.DetScore,
			Embedding: f.Embedding,
			Dim:       len(f.Embedding),
		})
	}
	return stored
}
