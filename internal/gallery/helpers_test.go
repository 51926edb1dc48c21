package gallery

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/kozaktomas/face-sorter/internal/faceapi"
)

// The test provider treats images as rows of 2x2 uniformly colored blocks:
// every block is one "face" whose embedding is its color scaled to [0, 1].
// This makes detection counts and embedding distances fully controllable
// from test image content, with no model in the loop.

type fakeProvider struct{}

func (fakeProvider) DetectFaces(ctx context.Context, imageData []byte) ([]faceapi.Detection, error) {
	img, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("decode test image: %w", err)
	}

	var detections []faceapi.Detection
	for i := 0; i < img.Bounds().Dx()/2; i++ {
		detections = append(detections, faceapi.Detection{
			FaceIndex: i,
			BBox:      []float64{float64(2 * i), 0, float64(2*i + 2), 2},
			DetScore:  0.99,
		})
	}
	return detections, nil
}

func (fakeProvider) ComputeFaceEmbedding(ctx context.Context, cropData []byte) ([]float32, error) {
	img, _, err := image.Decode(bytes.NewReader(cropData))
	if err != nil {
		return nil, fmt.Errorf("decode test crop: %w", err)
	}
	r, g, b, _ := img.At(img.Bounds().Min.X, img.Bounds().Min.Y).RGBA()
	return []float32{float32(r) / 65535, float32(g) / 65535, float32(b) / 65535}, nil
}

// faceImage encodes a PNG with one 2x2 block per color, each detected as one face.
func faceImage(t *testing.T, colors ...color.RGBA) []byte {
	t.Helper()

	width := 2 * len(colors)
	if width == 0 {
		width = 1 // no full 2x2 block means zero detected faces
	}
	img := image.NewRGBA(image.Rect(0, 0, width, 2))
	for i, c := range colors {
		for x := 2 * i; x < 2*i+2; x++ {
			for y := 0; y < 2; y++ {
				img.Set(x, y, c)
			}
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode test image: %v", err)
	}
	return buf.Bytes()
}

// writeLabeled writes a labeled test image into dir.
func writeLabeled(t *testing.T, dir, name string, colors ...color.RGBA) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), faceImage(t, colors...), 0640); err != nil {
		t.Fatalf("write labeled image %s: %v", name, err)
	}
}

func testPipeline() *faceapi.Pipeline {
	return faceapi.NewPipeline(fakeProvider{}, nil)
}

var (
	red   = color.RGBA{255, 0, 0, 255}
	green = color.RGBA{0, 255, 0, 255}
	blue  = color.RGBA{0, 0, 255, 255}
)
