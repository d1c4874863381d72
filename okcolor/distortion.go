package okcolor

import (
	"fmt"
	"image"
	"image/color"
)

// Distortion describes how far one image drifted from another.
type Distortion struct {
	Pixels       int
	Changed      int
	RedChanged   int
	GreenChanged int
	BlueChanged  int
	AlphaChanged int
	MeanDeltaE   float64 // over all pixels, in OkLab units
	MaxDeltaE    float64
}

// Compare walks two images of the same size pixel by pixel. Channel changes
// are counted on the 8-bit non-premultiplied values.
func Compare(a, b image.Image) (Distortion, error) {
	ab, bb := a.Bounds(), b.Bounds()
	if ab.Size() != bb.Size() {
		return Distortion{}, fmt.Errorf("image sizes differ: %v and %v", ab.Size(), bb.Size())
	}

	var d Distortion
	var sum float64
	for y := 0; y < ab.Dy(); y++ {
		for x := 0; x < ab.Dx(); x++ {
			ca := a.At(ab.Min.X+x, ab.Min.Y+y)
			cb := b.At(bb.Min.X+x, bb.Min.Y+y)
			d.Pixels++

			na := color.NRGBAModel.Convert(ca).(color.NRGBA)
			nb := color.NRGBAModel.Convert(cb).(color.NRGBA)
			if na == nb {
				continue
			}
			d.Changed++
			if na.R != nb.R {
				d.RedChanged++
			}
			if na.G != nb.G {
				d.GreenChanged++
			}
			if na.B != nb.B {
				d.BlueChanged++
			}
			if na.A != nb.A {
				d.AlphaChanged++
			}

			de := LabModel.Convert(ca).(Lab).DeltaE(LabModel.Convert(cb).(Lab))
			sum += de
			d.MaxDeltaE = max(d.MaxDeltaE, de)
		}
	}

	if d.Pixels > 0 {
		d.MeanDeltaE = sum / float64(d.Pixels)
	}
	return d, nil
}
