// Package classifier turns per-face match decisions into per-image label sets
// and orchestrates the batch export of raw images into per-person folders.
package classifier

import (
	"context"
	"sort"

	"github.com/kozaktomas/face-sorter/internal/faceapi"
	"github.com/kozaktomas/face-sorter/internal/gallery"
)

// Classifier assigns person-of-interest labels to whole images by matching
// each detected face against an immutable gallery.
type Classifier struct {
	pipe      *faceapi.Pipeline
	gallery   *gallery.Gallery
	threshold float64
}

// New creates a classifier over a built gallery.
func New(pipe *faceapi.Pipeline, g *gallery.Gallery, threshold float64) *Classifier {
	if threshold <= 0 {
		threshold = gallery.DefaultThreshold
	}
	return &Classifier{pipe: pipe, gallery: g, threshold: threshold}
}

// Gallery returns the gallery the classifier matches against.
func (c *Classifier) Gallery() *gallery.Gallery {
	return c.gallery
}

// decide matches every face independently.
func (c *Classifier) decide(faces []faceapi.Face) []gallery.MatchDecision {
	decisions := make([]gallery.MatchDecision, len(faces))
	for i, face := range faces {
		decisions[i] = c.gallery.Match(face.Embedding, c.threshold)
	}
	return decisions
}

// labelSet unions matched labels into a sorted, deduplicated label list.
// Excluded and unmatched faces contribute nothing.
func labelSet(decisions []gallery.MatchDecision) []string {
	set := make(map[string]bool)
	for _, d := range decisions {
		if d.Kind == gallery.DecisionMatched {
			set[d.Label] = true
		}
	}

	labels := make([]string, 0, len(set))
	for label := range set {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// ClassifyFile returns the person-of-interest labels present in one image
// file. An image with zero detected faces yields an empty set, not an error.
func (c *Classifier) ClassifyFile(ctx context.Context, path string) ([]string, error) {
	faces, err := c.pipe.FacesFromFile(ctx, path)
	if err != nil {
		return nil, err
	}
	return labelSet(c.decide(faces)), nil
}

// Classify returns the person-of-interest labels present in raw image data.
func (c *Classifier) Classify(ctx context.Context, data []byte) ([]string, error) {
	faces, err := c.pipe.Faces(ctx, data)
	if err != nil {
		return nil, err
	}
	return labelSet(c.decide(faces)), nil
}

// ClassifyFileDetailed returns the detected faces alongside their individual
// match decisions, for callers that need per-face results (annotation,
// diagnostics) in addition to the label set.
func (c *Classifier) ClassifyFileDetailed(ctx context.Context, path string) ([]faceapi.Face, []gallery.MatchDecision, error) {
	faces, err := c.pipe.FacesFromFile(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	return faces, c.decide(faces), nil
}

// Recognise builds a gallery from the labeled folder and returns the
// person-of-interest labels matched in a single image. The returned labels
// are sorted, making repeated calls over identical inputs deterministic.
func Recognise(ctx context.Context, imagePath, labeledDir string, pipe *faceapi.Pipeline, threshold float64, policy gallery.Policy) ([]string, error) {
	g, err := gallery.Build(ctx, labeledDir, pipe, gallery.BuildOptions{Policy: policy})
	if err != nil {
		return nil, err
	}
	return New(pipe, g, threshold).ClassifyFile(ctx, imagePath)
}
