package diff

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"hidetext/imgio"
)

func save(t *testing.T, img image.Image, path string) {
	t.Helper()
	if err := imgio.Save(img, "png", path, false); err != nil {
		t.Fatalf("Save: %v", err)
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	a := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	b := imgio.Clone(a)
	b.SetNRGBA(3, 3, color.NRGBA{R: 1, A: 0})
	small := image.NewNRGBA(image.Rect(0, 0, 4, 4))

	save(t, a, filepath.Join(dir, "a.png"))
	save(t, b, filepath.Join(dir, "b.png"))
	save(t, small, filepath.Join(dir, "small.png"))

	tests := []struct {
		name    string
		cmd     CLICmd
		wantErr bool
	}{
		{"same size", CLICmd{Before: "a.png", After: "b.png"}, false},
		{"region", CLICmd{Before: "a.png", After: "b.png", Region: "2,2,6,6"}, false},
		{"region outside", CLICmd{Before: "a.png", After: "b.png", Region: "0,0,9,9"}, true},
		{"size mismatch", CLICmd{Before: "a.png", After: "small.png"}, true},
		{"missing file", CLICmd{Before: "a.png", After: "nope.png"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.cmd.Before = filepath.Join(dir, tt.cmd.Before)
			tt.cmd.After = filepath.Join(dir, tt.cmd.After)
			err := tt.cmd.Run()
			if (err != nil) != tt.wantErr {
				t.Errorf("Run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
