package imaging

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Annotation is one face box with the name to render above it.
// BBox is [x1, y1, x2, y2] in pixel coordinates.
type Annotation struct {
	BBox []float64
	Name string
}

// DrawAnnotations draws face bounding boxes and names onto a copy of the image.
func DrawAnnotations(img image.Image, annotations []Annotation) image.Image {
	bounds := img.Bounds()
	dst := image.NewRGBA(bounds)
	draw.Draw(dst, bounds, img, bounds.Min, draw.Src)

	green := color.RGBA{0, 255, 0, 255}
	for _, a := range annotations {
		if len(a.BBox) != 4 {
			continue
		}
		drawBox(dst, a.BBox, 3, green)
		if a.Name != "" {
			drawLabel(dst, int(a.BBox[0]), int(a.BBox[1])-5, a.Name, green)
		}
	}
	return dst
}

// drawHLine draws a horizontal line on the image.
func drawHLine(dst *image.RGBA, x1, x2, y int, c color.RGBA) {
	bounds := dst.Bounds()
	if y < bounds.Min.Y || y >= bounds.Max.Y {
		return
	}
	for x := x1; x <= x2; x++ {
		if x >= bounds.Min.X && x < bounds.Max.X {
			dst.Set(x, y, c)
		}
	}
}

// drawVLine draws a vertical line on the image.
func drawVLine(dst *image.RGBA, y1, y2, x int, c color.RGBA) {
	bounds := dst.Bounds()
	if x < bounds.Min.X || x >= bounds.Max.X {
		return
	}
	for y := y1; y <= y2; y++ {
		if y >= bounds.Min.Y && y < bounds.Max.Y {
			dst.Set(x, y, c)
		}
	}
}

// drawBox draws a rectangle with the given line width.
func drawBox(dst *image.RGBA, bbox []float64, lineWidth int, c color.RGBA) {
	x1, y1 := int(bbox[0]), int(bbox[1])
	x2, y2 := int(bbox[2]), int(bbox[3])

	for w := 0; w < lineWidth; w++ {
		drawHLine(dst, x1, x2, y1+w, c)
		drawHLine(dst, x1, x2, y2-w, c)
		drawVLine(dst, y1, y2, x1+w, c)
		drawVLine(dst, y1, y2, x2-w, c)
	}
}

// drawLabel renders text at the given baseline position using the built-in
// bitmap font. Text that would start above the image is pushed down.
func drawLabel(dst *image.RGBA, x, y int, text string, c color.RGBA) {
	if y < dst.Bounds().Min.Y+basicfont.Face7x13.Height {
		y = dst.Bounds().Min.Y + basicfont.Face7x13.Height
	}

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}
