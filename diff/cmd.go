package diff

import (
	"fmt"
	"log/slog"

	"hidetext/imgio"
	"hidetext/okcolor"
)

type CLICmd struct {
	Before string `arg:"" help:"Original image" type:"existingfile"`
	After  string `arg:"" help:"Image with hidden text" type:"existingfile"`
	Region string `help:"Only compare this region, as x0,y0,x1,y1"`
}

func (c *CLICmd) Run() error {
	before, _, err := imgio.Load(c.Before)
	if err != nil {
		return err
	}
	after, _, err := imgio.Load(c.After)
	if err != nil {
		return err
	}

	a, b := imgio.ToNRGBA(before), imgio.ToNRGBA(after)
	if a.Bounds() != b.Bounds() {
		return fmt.Errorf("image bounds differ: %v and %v", a.Bounds(), b.Bounds())
	}
	region, err := imgio.Region(c.Region, a.Bounds())
	if err != nil {
		return err
	}

	d, err := okcolor.Compare(a.SubImage(region), b.SubImage(region))
	if err != nil {
		return err
	}

	slog.Info("stats", "pixels", d.Pixels, "changed", d.Changed,
		"red", d.RedChanged, "green", d.GreenChanged, "blue", d.BlueChanged, "alpha", d.AlphaChanged,
		"meanDeltaE", d.MeanDeltaE, "maxDeltaE", d.MaxDeltaE)
	return nil
}
