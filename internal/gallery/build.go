package gallery

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/kozaktomas/face-sorter/internal/faceapi"
)

// BuildOptions controls gallery construction.
type BuildOptions struct {
	Policy  Policy // how labeled-folder violations are handled
	Workers int    // parallel workers for detection/embedding (default 8)
}

// scanResult is the outcome of processing one labeled file.
type scanResult struct {
	path  string
	name  string
	label string
	faces []faceapi.Face
	err   error // violation or read error, nil when the file is valid
}

// listLabeledFiles returns the regular files in the labeled folder in sorted
// name order. Hidden files are skipped.
func listLabeledFiles(labeledDir string) ([]string, error) {
	entries, err := os.ReadDir(labeledDir)
	if err != nil {
		return nil, fmt.Errorf("read labeled folder %s: %w", labeledDir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// scanLabeled processes every file in the labeled folder: parses its label,
// runs detection and embedding, and records a violation error for files that
// break the naming convention or the exactly-one-face invariant. Results come
// back in sorted filename order regardless of worker scheduling.
func scanLabeled(ctx context.Context, labeledDir string, pipe *faceapi.Pipeline, workers int) ([]scanResult, error) {
	names, err := listLabeledFiles(labeledDir)
	if err != nil {
		return nil, err
	}

	if workers <= 0 {
		workers = 8
	}

	results := make([]scanResult, len(names))
	semaphore := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for i, name := range names {
		wg.Add(1)
		go func(idx int, name string) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			path := filepath.Join(labeledDir, name)
			res := scanResult{path: path, name: name}

			label, ok := ParseLabel(name)
			if !ok {
				res.err = &NamingViolationError{Path: path}
				results[idx] = res
				return
			}
			res.label = label

			if ctx.Err() != nil {
				res.err = ctx.Err()
				results[idx] = res
				return
			}

			faces, err := pipe.FacesFromFile(ctx, path)
			if err != nil {
				res.err = &UnreadableImageError{Path: path, Err: err}
				results[idx] = res
				return
			}
			if len(faces) != 1 {
				res.err = &FaceCountViolationError{Path: path, Faces: len(faces)}
				results[idx] = res
				return
			}

			res.faces = faces
			results[idx] = res
		}(i, name)
	}
	wg.Wait()

	return results, nil
}

// Build constructs a gallery from the labeled folder. Every valid labeled
// image contributes exactly one labeled example under the label parsed from
// its filename. Violating images are handled per the policy: skipped under
// ignore, skipped with a diagnostic under warn, and fatal under raise (the
// first violation in filename order aborts construction).
//
// Returns ErrEmptyGallery when no labeled example survives at all.
func Build(ctx context.Context, labeledDir string, pipe *faceapi.Pipeline, opts BuildOptions) (*Gallery, error) {
	results, err := scanLabeled(ctx, labeledDir, pipe, opts.Workers)
	if err != nil {
		return nil, err
	}

	g := New()
	for _, res := range results {
		if res.err != nil {
			if err := opts.Policy.handle(res.err); err != nil {
				return nil, err
			}
			continue
		}
		g.Add(LabeledExample{
			Label:     res.label,
			Source:    res.name,
			Embedding: res.faces[0].Embedding,
		})
	}

	if g.Size() == 0 {
		return nil, ErrEmptyGallery
	}

	return g, nil
}
