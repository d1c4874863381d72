package stego

import (
	"context"
	"image"
)

// pass is the logical render pass over which the pixel counter runs. Tiles
// of the same pass derive their counters from their position, so they can be
// rendered in any order.
type pass struct {
	rect    image.Rectangle
	modulus int
	offset  int
}

func newPass(rect image.Rectangle, modulus, offset int) pass {
	return pass{rect: rect.Canon(), modulus: modulus, offset: offset}
}

func (p pass) counter(x, y int) int {
	return p.offset + (y-p.rect.Min.Y)*p.rect.Dx() + (x - p.rect.Min.X)
}

// carriersBefore counts the carrier counters in [offset, c).
func (p pass) carriersBefore(c int) int {
	return ceilDiv(c, p.modulus) - ceilDiv(p.offset, p.modulus)
}

func (p pass) carriers() int {
	return p.carriersBefore(p.offset + p.rect.Dx()*p.rect.Dy())
}

// visitFunc is called for every pixel of a tile. slot is the carrier
// occurrence index within the pass, or -1 for pixels that carry nothing.
// Returning false stops the walk.
type visitFunc func(x, y, slot int) bool

// walk visits tile, clipped to the pass, in row-major order. The context is
// checked once per row; it reports whether the walk was cancelled.
func (p pass) walk(ctx context.Context, tile image.Rectangle, visit visitFunc) (cancelled bool) {
	tile = tile.Intersect(p.rect)
	for y := tile.Min.Y; y < tile.Max.Y; y++ {
		if ctx.Err() != nil {
			return true
		}

		c := p.counter(tile.Min.X, y)
		slot := p.carriersBefore(c)
		for x := tile.Min.X; x < tile.Max.X; x++ {
			s := -1
			if c%p.modulus == 0 {
				s = slot
				slot++
			}
			if !visit(x, y, s) {
				return false
			}
			c++
		}
	}
	return false
}

// Tiles splits rect into disjoint tiles of at most size x size pixels, in
// row-major order. A size below 1 yields rect itself.
func Tiles(rect image.Rectangle, size int) []image.Rectangle {
	rect = rect.Canon()
	if rect.Empty() {
		return nil
	}
	if size < 1 {
		return []image.Rectangle{rect}
	}

	var tiles []image.Rectangle
	for y := rect.Min.Y; y < rect.Max.Y; y += size {
		for x := rect.Min.X; x < rect.Max.X; x += size {
			tiles = append(tiles, image.Rect(x, y, min(x+size, rect.Max.X), min(y+size, rect.Max.Y)))
		}
	}
	return tiles
}

// Capacity returns how many whole characters a pass over rect can carry.
func Capacity(rect image.Rectangle, modulus, offset int) int {
	if modulus < 1 || offset < 0 {
		return 0
	}
	return newPass(rect, modulus, offset).carriers() / 2
}

func ceilDiv(a, b int) int {
	q := a / b
	if a%b != 0 {
		q++
	}
	return q
}
