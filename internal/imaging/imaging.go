// Package imaging provides the small amount of pixel-level work the classifier
// needs: decoding, face-region cropping, and drawing match annotations on
// exported copies.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
)

// Decode decodes PNG or JPEG image data.
func Decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// CropRegion extracts the face region given by bbox [x1, y1, x2, y2] in pixel
// coordinates, clamped to the image bounds. Returns an error when the clamped
// region is empty.
func CropRegion(img image.Image, bbox []float64) (image.Image, error) {
	if len(bbox) != 4 {
		return nil, fmt.Errorf("invalid bbox: expected 4 values, got %d", len(bbox))
	}

	bounds := img.Bounds()
	x1 := clamp(int(bbox[0]), bounds.Min.X, bounds.Max.X)
	y1 := clamp(int(bbox[1]), bounds.Min.Y, bounds.Max.Y)
	x2 := clamp(int(bbox[2]), bounds.Min.X, bounds.Max.X)
	y2 := clamp(int(bbox[3]), bounds.Min.Y, bounds.Max.Y)

	if x2 <= x1 || y2 <= y1 {
		return nil, fmt.Errorf("bbox %v outside image bounds %v", bbox, bounds)
	}

	rect := image.Rect(x1, y1, x2, y2)
	dst := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(dst, dst.Bounds(), img, rect.Min, draw.Src)
	return dst, nil
}

// EncodePNG encodes an image as PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodeJPEG encodes an image as JPEG with the given quality.
func EncodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// Resize scales an image to fit within maxSize while maintaining aspect ratio.
func Resize(img image.Image, maxSize int) image.Image {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	var newWidth, newHeight int
	if width > height {
		if width <= maxSize {
			return img
		}
		newWidth = maxSize
		newHeight = height * maxSize / width
	} else {
		if height <= maxSize {
			return img
		}
		newHeight = maxSize
		newWidth = width * maxSize / height
	}

	dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
