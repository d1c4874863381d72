// Package stego hides text in the low bits of an image's red and blue
// channels and reads it back.
//
// Every character takes two carrier pixels. The first holds bits 0-1 in red
// bits 0-1 and bits 2-3 in blue bits 2-3; the second holds bits 4-5 in red
// bits 4-5 and bits 6-7 in blue bits 6-7. Green and alpha are never touched.
package stego

import (
	"context"
	"image"
	"image/color"
	"sync/atomic"

	"hidetext/parallel"
)

const (
	lowRedMask   = 0x03
	lowBlueMask  = 0x0C
	highRedMask  = 0x30
	highBlueMask = 0xC0
)

// Source is a read view over 8-bit non-premultiplied pixels.
type Source interface {
	NRGBAAt(x, y int) color.NRGBA
}

// Dest is a write view over 8-bit non-premultiplied pixels. It may be the
// same grid as the Source.
type Dest interface {
	SetNRGBA(x, y int, c color.NRGBA)
}

var (
	_ Source = (*image.NRGBA)(nil)
	_ Dest   = (*image.NRGBA)(nil)
)

// Report summarises one encoding pass.
type Report struct {
	// Capacity is the number of whole characters the pass can carry.
	Capacity int
	// Embedded is the part of the narrowed payload that fits the pass. It is
	// not trimmed on a cancelled pass: only Written carrier pixels hold bits.
	Embedded []byte
	// Written counts the carrier pixels that received payload bits.
	Written   int
	Cancelled bool
	Warnings  []TruncationWarning
}

// Plan is a validated encoding of one pass. It is safe to render tiles of
// the same plan concurrently as long as they do not overlap.
type Plan struct {
	pass     pass
	payload  []byte
	warnings []TruncationWarning
}

func NewPlan(rect image.Rectangle, params Params) (*Plan, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	pl := &Plan{
		pass: newPass(rect, params.Modulus, params.Offset),
	}

	var narrowed int
	pl.payload, narrowed = narrow(params.Text)
	if narrowed > 0 {
		pl.warnings = append(pl.warnings, TruncationWarning{Kind: NarrowingWarning, Count: narrowed})
	}
	if capacity := pl.Capacity(); len(pl.payload) > capacity {
		pl.warnings = append(pl.warnings, TruncationWarning{Kind: CapacityWarning, Count: len(pl.payload) - capacity})
	}

	return pl, nil
}

func (pl *Plan) Rect() image.Rectangle {
	return pl.pass.rect
}

func (pl *Plan) Capacity() int {
	return pl.pass.carriers() / 2
}

// Embedded returns the payload bytes that fit in the pass.
func (pl *Plan) Embedded() []byte {
	return pl.payload[:min(len(pl.payload), pl.Capacity())]
}

// EncodeTile copies tile from src to dst, splicing payload bits into the
// carrier pixels. Pixels left unvisited after a cancellation keep whatever
// dst already held.
func (pl *Plan) EncodeTile(ctx context.Context, src Source, dst Dest, tile image.Rectangle) (written int, cancelled bool) {
	cancelled = pl.pass.walk(ctx, tile, func(x, y, slot int) bool {
		px := src.NRGBAAt(x, y)
		if slot >= 0 && slot/2 < len(pl.payload) {
			px = splice(px, pl.payload[slot/2], slot%2 == 1)
			written++
		}
		dst.SetNRGBA(x, y, px)
		return true
	})
	return written, cancelled
}

func (pl *Plan) report(written int, cancelled bool) Report {
	return Report{
		Capacity:  pl.Capacity(),
		Embedded:  pl.Embedded(),
		Written:   written,
		Cancelled: cancelled,
		Warnings:  pl.warnings,
	}
}

// Encode hides params.Text in rect, visiting it as a single pass.
func Encode(ctx context.Context, src Source, dst Dest, rect image.Rectangle, params Params) (Report, error) {
	pl, err := NewPlan(rect, params)
	if err != nil {
		return Report{}, err
	}

	written, cancelled := pl.EncodeTile(ctx, src, dst, pl.Rect())
	return pl.report(written, cancelled), nil
}

// EncodeTiles renders the pass over rect tile by tile on pool. The tiles must
// not overlap; the result is the same as Encode over rect when they cover it.
func EncodeTiles(ctx context.Context, pool *parallel.Pool, src Source, dst Dest, rect image.Rectangle,
	tiles []image.Rectangle, params Params,
) (Report, error) {
	pl, err := NewPlan(rect, params)
	if err != nil {
		return Report{}, err
	}

	var written atomic.Int64
	var cancelled atomic.Bool
	for _, tile := range tiles {
		pool.Do(func() {
			n, c := pl.EncodeTile(ctx, src, dst, tile)
			written.Add(int64(n))
			if c {
				cancelled.Store(true)
			}
		})
	}
	pool.Wait(false)

	return pl.report(int(written.Load()), cancelled.Load()), nil
}

func splice(px color.NRGBA, ch byte, high bool) color.NRGBA {
	if high {
		px.R = px.R&^highRedMask | ch&highRedMask
		px.B = px.B&^highBlueMask | ch&highBlueMask
	} else {
		px.R = px.R&^lowRedMask | ch&lowRedMask
		px.B = px.B&^lowBlueMask | ch&lowBlueMask
	}
	return px
}
