package stego

import (
	"context"
	"image"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// Extraction is the outcome of Decode.
type Extraction struct {
	Data []byte
	// Dangling is set when the pass ended on the first half of a character.
	// That half is not part of Data.
	Dangling  bool
	Cancelled bool
}

// Text maps the extracted bytes back to runes. Narrowing kept the low byte
// of every rune, so ISO 8859-1 restores U+0000 to U+00FF exactly.
func (e Extraction) Text() string {
	var sb strings.Builder
	sb.Grow(len(e.Data))
	for _, b := range e.Data {
		sb.WriteRune(charmap.ISO8859_1.DecodeByte(b))
	}
	return sb.String()
}

// Decode reads back up to maxChars characters hidden in rect with the same
// modulus and offset. A negative maxChars reads until rect is exhausted.
func Decode(ctx context.Context, src Source, rect image.Rectangle, modulus, offset, maxChars int) (Extraction, error) {
	if err := (Params{Modulus: modulus, Offset: offset}).Validate(); err != nil {
		return Extraction{}, err
	}

	var ex Extraction
	if maxChars == 0 {
		return ex, nil
	}

	p := newPass(rect, modulus, offset)
	limit := p.carriers() / 2
	if maxChars > 0 {
		limit = min(limit, maxChars)
	}
	ex.Data = make([]byte, 0, min(limit, MaxTextLen))

	var low byte
	ex.Cancelled = p.walk(ctx, p.rect, func(x, y, slot int) bool {
		if slot < 0 {
			return true
		}

		px := src.NRGBAAt(x, y)
		if slot%2 == 0 {
			low = px.R&lowRedMask | px.B&lowBlueMask
			ex.Dangling = true
			return true
		}

		ex.Data = append(ex.Data, low|px.R&highRedMask|px.B&highBlueMask)
		ex.Dangling = false
		return maxChars < 0 || len(ex.Data) < maxChars
	})

	return ex, nil
}
