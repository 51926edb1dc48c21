package classifier

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/kozaktomas/face-sorter/internal/faceapi"
	"github.com/kozaktomas/face-sorter/internal/gallery"
	"github.com/kozaktomas/face-sorter/internal/imaging"
)

// AddNone detects every face in the image and appends each crop to the
// labeled folder as a new exclusion-class example (none_<k>.png). Indices
// continue from the highest existing none_<k> file and are never reused, so
// repeated runs create disjoint file sets. The source image content is not
// deduplicated against previously stored crops; duplicates cost gallery size,
// not correctness.
//
// Returns the created filenames. An image with no detectable faces creates
// nothing and is not an error.
func AddNone(ctx context.Context, imagePath, labeledDir string, provider faceapi.Provider) ([]string, error) {
	data, err := os.ReadFile(imagePath) //nolint:gosec // caller-provided source image
	if err != nil {
		return nil, &gallery.UnreadableImageError{Path: imagePath, Err: err}
	}

	detections, err := provider.DetectFaces(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("detect faces in %s: %w", imagePath, err)
	}
	if len(detections) == 0 {
		return nil, nil
	}

	img, err := imaging.Decode(data)
	if err != nil {
		return nil, &gallery.UnreadableImageError{Path: imagePath, Err: err}
	}

	next, err := nextNoneIndex(labeledDir)
	if err != nil {
		return nil, err
	}

	var created []string
	for _, det := range detections {
		crop, err := imaging.CropRegion(img, det.BBox)
		if err != nil {
			return created, fmt.Errorf("crop face %d from %s: %w", det.FaceIndex, imagePath, err)
		}

		cropData, err := imaging.EncodePNG(crop)
		if err != nil {
			return created, fmt.Errorf("encode face %d from %s: %w", det.FaceIndex, imagePath, err)
		}

		name := fmt.Sprintf("%s_%d.png", gallery.NoneLabel, next)
		next++

		if err := os.WriteFile(filepath.Join(labeledDir, name), cropData, 0640); err != nil { //nolint:gosec // labeled examples are not secrets
			return created, fmt.Errorf("write exclusion example %s: %w", name, err)
		}
		created = append(created, name)
	}

	return created, nil
}

// nextNoneIndex returns one past the highest <k> among existing none_<k>.<ext>
// files, starting at 1 for an empty folder. Non-numeric suffixes are ignored.
func nextNoneIndex(labeledDir string) (int, error) {
	entries, err := os.ReadDir(labeledDir)
	if err != nil {
		return 0, fmt.Errorf("read labeled folder %s: %w", labeledDir, err)
	}

	maxIndex := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		label, ok := gallery.ParseLabel(e.Name())
		if !ok || label != gallery.NoneLabel {
			continue
		}

		ext := filepath.Ext(e.Name())
		stem := strings.TrimSuffix(e.Name(), ext)
		suffix := stem[strings.Index(stem, "_")+1:]
		if k, err := strconv.Atoi(suffix); err == nil && k > maxIndex {
			maxIndex = k
		}
	}

	return maxIndex + 1, nil
}
