package hide

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"hidetext/imgio"
	"hidetext/parallel"
	"hidetext/preset"
	"hidetext/reveal"
)

func makeTestImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8((x * 17) ^ (y * 31)),
				G: uint8((x * 43) + (y * 13)),
				B: uint8((x * 7) ^ (y * 11)),
				A: 255,
			})
		}
	}
	return img
}

func writeSource(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "source.png")
	if err := imgio.Save(makeTestImage(120, 80), "png", path, false); err != nil {
		t.Fatalf("Save: %v", err)
	}
	return path
}

func runHide(t *testing.T, cmd *CLICmd, workers int) {
	t.Helper()
	if err := cmd.Validate(nil); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	pool := parallel.Start(workers)
	defer pool.Wait(true)
	if err := cmd.Run(context.Background(), pool); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func runReveal(t *testing.T, cmd *reveal.CLICmd) string {
	t.Helper()
	if err := cmd.Validate(nil); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if err := cmd.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	text, err := os.ReadFile(cmd.Out)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	return string(text)
}

func TestHideThenReveal(t *testing.T) {
	for _, tc := range []struct {
		name    string
		text    string
		flags   preset.Flags
		tile    int
		workers int
		format  string
	}{
		{"defaults", "Hello, World.", preset.Flags{Modulus: 7}, 256, 0, "same"},
		{"small tiles", "tiles in any order", preset.Flags{Modulus: 3, Offset: 2}, 9, 4, "png"},
		{"single pass", "one pass", preset.Flags{Modulus: 1}, 0, 1, "tiff"},
		{"region", "boxed in", preset.Flags{Modulus: 2, Offset: 5, Region: "10,10,60,40"}, 16, 2, "bmp"},
		{"latin-1", "déjà vu", preset.Flags{Modulus: 4}, 32, 2, "png"},
		{"empty text", "", preset.Flags{Modulus: 1}, 16, 2, "png"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			src := writeSource(t, dir)
			out := filepath.Join(dir, "hidden."+tc.format)

			runHide(t, &CLICmd{
				In:     src,
				Out:    out,
				Text:   tc.text,
				Flags:  tc.flags,
				Tile:   tc.tile,
				Format: tc.format,
				Verify: true,
			}, tc.workers)

			got := runReveal(t, &reveal.CLICmd{
				In:    out,
				Flags: tc.flags,
				Max:   len([]rune(tc.text)),
				Out:   filepath.Join(dir, "revealed.txt"),
			})
			if got != tc.text {
				t.Errorf("revealed %q, want %q", got, tc.text)
			}

			if tc.text == "" {
				before, _, err := imgio.Load(src)
				if err != nil {
					t.Fatalf("Load: %v", err)
				}
				after, _, err := imgio.Load(out)
				if err != nil {
					t.Fatalf("Load: %v", err)
				}
				if !bytes.Equal(imgio.ToNRGBA(before).Pix, imgio.ToNRGBA(after).Pix) {
					t.Error("hiding an empty text changed pixels")
				}
			}
		})
	}
}

func TestHideWithPresets(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir)
	textFile := filepath.Join(dir, "secret.txt")
	if err := os.WriteFile(textFile, []byte("from a file"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	saved := filepath.Join(dir, "params.steg")

	runHide(t, &CLICmd{
		In:         src,
		Out:        filepath.Join(dir, "first.png"),
		TextFile:   textFile,
		Flags:      preset.Flags{Modulus: 5, Offset: 3},
		Tile:       64,
		Format:     "same",
		Verify:     true,
		SavePreset: saved,
	}, 2)

	p, err := preset.Load(saved)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if want := (preset.Preset{Text: "from a file", Modulus: 5, Offset: 3}); p != want {
		t.Fatalf("saved preset = %+v, want %+v", p, want)
	}

	out := filepath.Join(dir, "second.png")
	runHide(t, &CLICmd{
		In:     src,
		Out:    out,
		Flags:  preset.Flags{Modulus: 7, Preset: saved},
		Tile:   64,
		Format: "same",
	}, 2)

	got := runReveal(t, &reveal.CLICmd{
		In:    out,
		Flags: preset.Flags{Preset: saved},
		Max:   11,
		Out:   filepath.Join(dir, "revealed.txt"),
	})
	if got != "from a file" {
		t.Errorf("revealed %q, want %q", got, "from a file")
	}

	first, err := os.ReadFile(filepath.Join(dir, "first.png"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	second, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("hiding with the saved preset produced a different image")
	}
}

func TestHideKeepsEmptyText(t *testing.T) {
	cmd := &CLICmd{Text: "", Flags: preset.Flags{Modulus: 1}}
	if err := cmd.Validate(nil); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cmd.Params.Text != "" {
		t.Errorf("Text = %q, want empty", cmd.Params.Text)
	}
}

func TestHideCutsLongText(t *testing.T) {
	cmd := &CLICmd{Text: strings.Repeat("x", 1030), Flags: preset.Flags{Modulus: 1}}
	if err := cmd.Validate(nil); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if n := len(cmd.Params.Text); n != 1024 {
		t.Errorf("len(Text) = %d, want 1024", n)
	}
	if cmd.Clamped != 6 {
		t.Errorf("Clamped = %d, want 6", cmd.Clamped)
	}
}

func TestHideRejects(t *testing.T) {
	for _, tc := range []struct {
		name string
		cmd  CLICmd
	}{
		{"zero modulus", CLICmd{Text: "x", Flags: preset.Flags{Modulus: 0}}},
		{"negative offset", CLICmd{Text: "x", Flags: preset.Flags{Modulus: 1, Offset: -1}}},
		{"negative tile", CLICmd{Text: "x", Flags: preset.Flags{Modulus: 1}, Tile: -1}},
		{"missing text file", CLICmd{TextFile: "/nonexistent/secret.txt", Flags: preset.Flags{Modulus: 1}}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.cmd.Validate(nil); err == nil {
				t.Error("expected error but didn't get one")
			}
		})
	}
}

func TestHideRefusesExistingOutput(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir)

	cmd := &CLICmd{In: src, Out: src, Text: "x", Flags: preset.Flags{Modulus: 1}, Format: "same"}
	if err := cmd.Validate(nil); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	pool := parallel.Start(1)
	defer pool.Wait(true)
	if err := cmd.Run(context.Background(), pool); err == nil {
		t.Error("expected error but didn't get one")
	}
}
