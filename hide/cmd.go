package hide

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"

	"hidetext/imgio"
	"hidetext/okcolor"
	"hidetext/parallel"
	"hidetext/preset"
	"hidetext/stego"

	"github.com/alecthomas/kong"
)

type CLICmd struct {
	In       string `arg:"" help:"Image to hide the text in" type:"existingfile"`
	Out      string `arg:"" help:"Destination image"`
	Text     string `help:"Text to hide, at most 1024 characters" default:"Hello, World." xor:"payload"`
	TextFile string `help:"Read the text to hide from this file" type:"existingfile" xor:"payload"`
	preset.Flags
	Tile       int    `help:"Tile size in pixels for parallel rendering, 0 renders the region in one pass" default:"256"`
	Format     string `help:"Output format. 'same' keeps a lossless input format and writes png otherwise" enum:"same,png,bmp,tiff" default:"same"`
	Force      bool   `help:"Overwrite the destination image" default:"false"`
	Verify     bool   `help:"Read the text back from the result before saving it" default:"true" negatable:""`
	SavePreset string `help:"Write the parameters used to this preset file"`

	Params stego.Params `kong:"-"`
}

func (c *CLICmd) Validate(kctx *kong.Context) error {
	if c.Tile < 0 {
		return fmt.Errorf("invalid tile size: %d", c.Tile)
	}

	text := c.Text
	if c.TextFile != "" {
		data, err := os.ReadFile(c.TextFile)
		if err != nil {
			return fmt.Errorf("could not read text file %q: %w", c.TextFile, err)
		}
		text = string(data)
	}

	var err error
	if c.Params, err = c.Flags.Resolve(text); err != nil {
		return err
	}
	return nil
}

func (c *CLICmd) Run(ctx context.Context, pool *parallel.Pool) error {
	logger := slog.Default().With("file", c.In)
	if c.Clamped > 0 {
		logger.Warn("text too long, cut", "max", stego.MaxTextLen, "dropped", c.Clamped)
	}

	img, imgType, err := imgio.Load(c.In)
	if err != nil {
		return err
	}

	outType, err := imgio.ResolveFormat(imgType, c.Format)
	if err != nil {
		return err
	}

	src := imgio.ToNRGBA(img)
	region, err := c.Flags.Rect(src.Bounds())
	if err != nil {
		return err
	}
	dest := imgio.Clone(src)

	logger.Info("hiding text", "region", region, "modulus", c.Params.Modulus, "offset", c.Params.Offset,
		"capacity", stego.Capacity(region, c.Params.Modulus, c.Params.Offset))
	report, err := stego.EncodeTiles(ctx, pool, src, dest, region, stego.Tiles(region, c.Tile), c.Params)
	if err != nil {
		return err
	}
	if report.Cancelled {
		return fmt.Errorf("interrupted, %q not written", c.Out)
	}
	for _, w := range report.Warnings {
		logger.Warn("payload truncated", "reason", w.Kind, "count", w.Count, "error", w)
	}

	if c.Verify {
		ex, err := stego.Decode(ctx, dest, region, c.Params.Modulus, c.Params.Offset, len(report.Embedded))
		if err != nil {
			return err
		}
		if !bytes.Equal(ex.Data, report.Embedded) {
			return fmt.Errorf("verification failed: read back %d of %d characters", len(ex.Data), len(report.Embedded))
		}
		logger.Debug("verified", "chars", len(ex.Data))
	}

	dist, err := okcolor.Compare(src, dest)
	if err != nil {
		return err
	}
	logger.Info("distortion", "changed", dist.Changed, "pixels", dist.Pixels,
		"meanDeltaE", dist.MeanDeltaE, "maxDeltaE", dist.MaxDeltaE)

	if err = imgio.Save(dest, outType, c.Out, c.Force); err != nil {
		return err
	}

	if c.SavePreset != "" {
		if err = preset.Save(c.SavePreset, preset.FromParams(c.Params)); err != nil {
			return err
		}
	}

	slog.Info("stats", "embedded", len(report.Embedded), "capacity", report.Capacity,
		"carriers", report.Written, "out", c.Out, "format", outType)
	return nil
}
