package imgio

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"
	"slices"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/vp8l"
	_ "golang.org/x/image/webp"
)

func Load(path string) (image.Image, string, error) {
	inFile, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("could not open image %q: %w", path, err)
	}
	defer func() {
		if closeErr := inFile.Close(); closeErr != nil {
			slog.Error("could not close image", "name", path, "error", closeErr)
		}
	}()

	img, format, err := image.Decode(inFile)
	if err != nil {
		return nil, "", fmt.Errorf("could not decode image %q: %w", path, err)
	}
	return img, format, nil
}

// ToNRGBA returns img as an 8-bit non-premultiplied grid. An *image.NRGBA is
// returned as is; anything else is converted into a new grid.
func ToNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok {
		return n
	}

	b := img.Bounds()
	dest := image.NewNRGBA(b)
	draw.Draw(dest, b, img, b.Min, draw.Src)
	return dest
}

func Clone(img *image.NRGBA) *image.NRGBA {
	c := *img
	c.Pix = slices.Clone(img.Pix)
	return &c
}

// ParseRect reads a rectangle written as x0,y0,x1,y1.
func ParseRect(s string) (image.Rectangle, error) {
	var x0, y0, x1, y1 int
	n, err := fmt.Sscanf(s, "%d,%d,%d,%d", &x0, &y0, &x1, &y1)
	if err != nil {
		return image.Rectangle{}, fmt.Errorf("could not read region %q: %w", s, err)
	} else if n < 4 {
		return image.Rectangle{}, fmt.Errorf("insufficient region fields: %d", n)
	}

	r := image.Rect(x0, y0, x1, y1)
	if r.Empty() {
		return image.Rectangle{}, fmt.Errorf("empty region %q", s)
	}
	return r, nil
}

// Region resolves an optional region flag against the image bounds.
func Region(s string, bounds image.Rectangle) (image.Rectangle, error) {
	if s == "" {
		return bounds, nil
	}

	r, err := ParseRect(s)
	if err != nil {
		return image.Rectangle{}, err
	}
	if !r.In(bounds) {
		return image.Rectangle{}, fmt.Errorf("region %v outside image bounds %v", r, bounds)
	}
	return r, nil
}
