package preset

import (
	"bufio"
	"fmt"
	"image"
	"log/slog"
	"os"

	"hidetext/imgio"
	"hidetext/stego"
)

// Preset is a set of embedding parameters kept between runs.
type Preset struct {
	Text    string
	Modulus int
	Offset  int
}

func FromParams(p stego.Params) Preset {
	return Preset{Text: p.Text, Modulus: p.Modulus, Offset: p.Offset}
}

func (p Preset) Params() stego.Params {
	return stego.Params{Text: p.Text, Modulus: p.Modulus, Offset: p.Offset}
}

func Load(path string) (Preset, error) {
	inFile, err := os.Open(path)
	if err != nil {
		return Preset{}, fmt.Errorf("could not open preset %q: %w", path, err)
	}
	defer func() {
		if closeErr := inFile.Close(); closeErr != nil {
			slog.Error("could not close preset", "name", path, "error", closeErr)
		}
	}()

	p, err := ReadFrom(bufio.NewReader(inFile))
	if err != nil {
		return p, fmt.Errorf("could not load preset %q: %w", path, err)
	}
	return p, nil
}

func Save(path string, p Preset) (err error) {
	outFile, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create preset %q: %w", path, err)
	}
	defer func() {
		if closeErr := outFile.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("could not close preset %q: %w", path, closeErr)
		}
	}()

	if _, err = WriteTo(outFile, p); err != nil {
		return fmt.Errorf("could not write preset %q: %w", path, err)
	}
	if err = outFile.Sync(); err != nil {
		return fmt.Errorf("could not flush preset %q: %w", path, err)
	}
	return nil
}

// Flags are the parameter flags shared by the commands that walk a pass.
type Flags struct {
	Modulus int    `help:"Stride between carrier pixels" default:"7" env:"HIDETEXT_MODULUS"`
	Offset  int    `help:"Starting value of the pixel counter" default:"0" env:"HIDETEXT_OFFSET"`
	Preset  string `help:"Preset file supplying text, modulus and offset; overrides the flags" type:"existingfile" xor:"payload"`
	Region  string `help:"Region to process as x0,y0,x1,y1, defaults to the whole image"`

	Loaded  *Preset `kong:"-"`
	Clamped int     `kong:"-"`
}

// Resolve loads the preset file, if any, cuts the text to MaxTextLen
// characters and checks the parameters against the host limits. The number
// of characters cut is kept in Clamped.
func (f *Flags) Resolve(text string) (stego.Params, error) {
	params := stego.Params{Text: text, Modulus: f.Modulus, Offset: f.Offset}
	if f.Preset != "" {
		p, err := Load(f.Preset)
		if err != nil {
			return stego.Params{}, err
		}
		f.Loaded = &p
		params = p.Params()
	}
	params.Text, f.Clamped = stego.ClampText(params.Text)

	if err := params.CheckLimits(); err != nil {
		return stego.Params{}, err
	}
	return params, nil
}

func (f *Flags) Rect(bounds image.Rectangle) (image.Rectangle, error) {
	return imgio.Region(f.Region, bounds)
}
