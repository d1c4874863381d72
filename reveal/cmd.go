package reveal

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"hidetext/imgio"
	"hidetext/preset"
	"hidetext/stego"

	"github.com/alecthomas/kong"
)

type CLICmd struct {
	In string `arg:"" help:"Image holding hidden text" type:"existingfile"`
	preset.Flags
	Max int    `help:"Maximum number of characters to read, negative reads the whole region" default:"1024"`
	Out string `help:"Write the text to this file instead of stdout"`
	Raw bool   `help:"Write the extracted bytes as they are instead of decoding them as Latin-1" default:"false"`

	Params stego.Params `kong:"-"`
}

func (c *CLICmd) Validate(kctx *kong.Context) error {
	var err error
	if c.Params, err = c.Flags.Resolve(""); err != nil {
		return err
	}
	return nil
}

func (c *CLICmd) Run(ctx context.Context) error {
	logger := slog.Default().With("file", c.In)
	if c.Loaded != nil {
		logger.Info("using preset", "preset", c.Preset, "modulus", c.Loaded.Modulus, "offset", c.Loaded.Offset)
	}

	img, _, err := imgio.Load(c.In)
	if err != nil {
		return err
	}

	src := imgio.ToNRGBA(img)
	region, err := c.Flags.Rect(src.Bounds())
	if err != nil {
		return err
	}

	ex, err := stego.Decode(ctx, src, region, c.Params.Modulus, c.Params.Offset, c.Max)
	if err != nil {
		return err
	}
	if ex.Cancelled {
		logger.Warn("interrupted, text is incomplete", "chars", len(ex.Data))
	}
	if ex.Dangling {
		logger.Debug("region ended inside a character, dropped its first half")
	}
	logger.Info("text revealed", "region", region, "modulus", c.Params.Modulus, "offset", c.Params.Offset,
		"chars", len(ex.Data))

	out := []byte(ex.Text())
	if c.Raw {
		out = ex.Data
	}

	if c.Out == "" {
		if _, err = fmt.Fprintln(os.Stdout, string(out)); err != nil {
			return fmt.Errorf("could not write text: %w", err)
		}
		return nil
	}

	if err = os.WriteFile(c.Out, out, 0o644); err != nil {
		return fmt.Errorf("could not write text to %q: %w", c.Out, err)
	}
	return nil
}
