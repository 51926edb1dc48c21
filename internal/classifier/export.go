package classifier

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"

	"github.com/kozaktomas/face-sorter/internal/faceapi"
	"github.com/kozaktomas/face-sorter/internal/gallery"
	"github.com/kozaktomas/face-sorter/internal/imaging"
)

// ExportOptions controls a batch export run.
type ExportOptions struct {
	Threshold float64        // match distance threshold (default 1.0)
	Policy    gallery.Policy // labeled-folder violation policy
	Workers   int            // parallel workers (default 8)
	DrawBoxes bool           // annotate exported copies with face boxes and names
	Progress  bool           // render a terminal progress bar
}

// ExportResult summarizes a batch export run.
type ExportResult struct {
	Processed int     // raw images classified
	Exported  int     // (image, label) pairs written
	Skipped   int     // (image, label) pairs already present from a previous run
	Errors    []error // per-image failures, never fatal for the batch
}

// Exporter materializes classified raw images into per-person subfolders of
// the write folder.
type Exporter struct {
	pipe *faceapi.Pipeline
}

// NewExporter creates an exporter around a face pipeline.
func NewExporter(pipe *faceapi.Pipeline) *Exporter {
	return &Exporter{pipe: pipe}
}

// DetectAndExport builds a gallery from the labeled folder, classifies every
// supported image in the raw folder, and copies each image into the write
// subfolder of every person it matches. One image matching N persons is
// written N times. Re-running over unchanged folders is idempotent per
// (image, label) pair: destinations that already exist are skipped.
//
// The raw and labeled folders must be distinct; an unusable gallery and a
// same-folder configuration are the only fatal errors. Failures on individual
// raw images are collected into the result and logged.
func (e *Exporter) DetectAndExport(ctx context.Context, rawDir, labeledDir, writeDir string, opts ExportOptions) (*ExportResult, error) {
	if err := checkDistinct(rawDir, labeledDir); err != nil {
		return nil, err
	}

	g, err := gallery.Build(ctx, labeledDir, e.pipe, gallery.BuildOptions{
		Policy:  opts.Policy,
		Workers: opts.Workers,
	})
	if err != nil {
		return nil, err
	}

	cls := New(e.pipe, g, opts.Threshold)

	names, err := listRawImages(rawDir)
	if err != nil {
		return nil, err
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = 8
	}

	var bar *progressbar.ProgressBar
	if opts.Progress {
		bar = progressbar.NewOptions(len(names),
			progressbar.OptionSetDescription(fmt.Sprintf("Exporting (%d workers)", workers)),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("images"),
			progressbar.OptionShowElapsedTimeOnFinish(),
			progressbar.OptionSetPredictTime(true),
			progressbar.OptionFullWidth(),
		)
	}

	result := &ExportResult{}
	var mu sync.Mutex
	semaphore := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for _, name := range names {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			exported, skipped, err := e.exportOne(ctx, cls, rawDir, writeDir, name, opts)

			mu.Lock()
			result.Processed++
			result.Exported += exported
			result.Skipped += skipped
			if err != nil {
				result.Errors = append(result.Errors, err)
				log.Printf("warning: %v", err)
			}
			mu.Unlock()

			if bar != nil {
				bar.Add(1) //nolint:errcheck // progress output only
			}
		}(name)
	}
	wg.Wait()

	return result, nil
}

// exportOne classifies one raw image and writes it under every matched label.
func (e *Exporter) exportOne(ctx context.Context, cls *Classifier, rawDir, writeDir, name string, opts ExportOptions) (exported, skipped int, err error) {
	path := filepath.Join(rawDir, name)

	faces, decisions, err := cls.ClassifyFileDetailed(ctx, path)
	if err != nil {
		return 0, 0, fmt.Errorf("classify %s: %w", path, err)
	}

	labels := labelSet(decisions)
	if len(labels) == 0 {
		return 0, 0, nil
	}

	// All destination folders share the same file content; annotate once.
	data, err := e.exportContent(path, faces, decisions, opts)
	if err != nil {
		return 0, 0, fmt.Errorf("prepare export of %s: %w", path, err)
	}

	for _, label := range labels {
		dest := filepath.Join(writeDir, label, name)
		wrote, err := writeIfAbsent(dest, data)
		if err != nil {
			return exported, skipped, fmt.Errorf("export %s to %s: %w", path, dest, err)
		}
		if wrote {
			exported++
		} else {
			skipped++
		}
	}
	return exported, skipped, nil
}

// exportContent returns the bytes to materialize for one raw image: the
// original content, or a copy annotated with face boxes and matched names.
// Annotation failures fall back to the plain copy.
func (e *Exporter) exportContent(path string, faces []faceapi.Face, decisions []gallery.MatchDecision, opts ExportOptions) ([]byte, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from listing the raw folder
	if err != nil {
		return nil, err
	}

	if !opts.DrawBoxes || len(faces) == 0 {
		return data, nil
	}

	annotated, err := annotate(data, path, faces, decisions)
	if err != nil {
		log.Printf("warning: failed to annotate %s, exporting plain copy: %v", path, err)
		return data, nil
	}
	return annotated, nil
}

// annotate draws face boxes with matched names onto the image, re-encoding it
// in its original format.
func annotate(data []byte, path string, faces []faceapi.Face, decisions []gallery.MatchDecision) ([]byte, error) {
	img, err := imaging.Decode(data)
	if err != nil {
		return nil, err
	}

	annotations := make([]imaging.Annotation, len(faces))
	for i, face := range faces {
		name := "unknown"
		if decisions[i].Kind == gallery.DecisionMatched {
			name = decisions[i].Label
		}
		annotations[i] = imaging.Annotation{BBox: face.BBox, Name: name}
	}
	out := imaging.DrawAnnotations(img, annotations)

	if strings.EqualFold(filepath.Ext(path), ".png") {
		return imaging.EncodePNG(out)
	}
	return imaging.EncodeJPEG(out, 90)
}

// writeIfAbsent writes data to dest unless the destination already exists,
// creating the parent folder if needed. The write is atomic: a temporary file
// is renamed into place, so concurrent workers exporting into the same label
// folder never observe partial files.
func writeIfAbsent(dest string, data []byte) (bool, error) {
	if err := os.MkdirAll(filepath.Dir(dest), 0750); err != nil {
		return false, fmt.Errorf("create label folder: %w", err)
	}

	if _, err := os.Stat(dest); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat destination: %w", err)
	}

	tmp := dest + "." + uuid.NewString() + ".tmp"
	if err := os.WriteFile(tmp, data, 0640); err != nil { //nolint:gosec // exported images are not secrets
		return false, fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, dest); err != nil {
		os.Remove(tmp) //nolint:errcheck // best-effort cleanup
		return false, fmt.Errorf("rename into place: %w", err)
	}
	return true, nil
}

// listRawImages returns the supported image files in the raw folder in sorted
// name order. Unsupported files are skipped silently.
func listRawImages(rawDir string) ([]string, error) {
	entries, err := os.ReadDir(rawDir)
	if err != nil {
		return nil, fmt.Errorf("read raw folder %s: %w", rawDir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if gallery.SupportedImage(e.Name()) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// checkDistinct verifies the raw and labeled folders resolve to different
// locations. The write folder may coincide with either.
func checkDistinct(rawDir, labeledDir string) error {
	rawAbs, err := filepath.Abs(rawDir)
	if err != nil {
		return fmt.Errorf("resolve raw folder: %w", err)
	}
	labeledAbs, err := filepath.Abs(labeledDir)
	if err != nil {
		return fmt.Errorf("resolve labeled folder: %w", err)
	}
	if rawAbs == labeledAbs {
		return &gallery.DistinctFolderError{Folder: rawAbs}
	}
	return nil
}
