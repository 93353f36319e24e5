package snapshot

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func readPNG(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return img
}

func TestFromPixelsFlips(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots")
	c := New(dir, "logoswarm")

	// 1x2 readback: first row in memory is the bottom of the screen
	pixels := []byte{
		255, 0, 0, 255,
		0, 0, 255, 255,
	}
	name, err := c.FromPixels(pixels, 1, 2)
	if err != nil {
		t.Fatalf("FromPixels: %v", err)
	}
	if filepath.Dir(name) != dir || !strings.HasPrefix(filepath.Base(name), "logoswarm_") {
		t.Errorf("unexpected filename %q", name)
	}

	img := readPNG(t, name)
	if r, _, b, _ := img.At(0, 0).RGBA(); b != 0xffff || r != 0 {
		t.Errorf("top pixel should be blue, got %v", img.At(0, 0))
	}
	if r, _, _, _ := img.At(0, 1).RGBA(); r != 0xffff {
		t.Errorf("bottom pixel should be red, got %v", img.At(0, 1))
	}
}

func TestFromPixelsSizeMismatch(t *testing.T) {
	c := New(t.TempDir(), "x")
	if _, err := c.FromPixels(make([]byte, 7), 1, 2); err == nil {
		t.Error("expected size mismatch error")
	}
}

func TestFrameNames(t *testing.T) {
	dir := t.TempDir()
	c := New(dir, "frame")
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))

	name, err := c.Frame(img, 42)
	if err != nil {
		t.Fatalf("Frame: %v", err)
	}
	if want := filepath.Join(dir, "frame_00042.png"); name != want {
		t.Errorf("name = %q, want %q", name, want)
	}
	if _, err := os.Stat(name); err != nil {
		t.Errorf("frame not written: %v", err)
	}
}

func TestGenerateFilename(t *testing.T) {
	c := New("out", "shot")
	c.now = func() time.Time { return time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC) }

	if got, want := c.GenerateFilename(), filepath.Join("out", "shot_2024-05-06_07-08-09.000.png"); got != want {
		t.Errorf("GenerateFilename() = %q, want %q", got, want)
	}
}

func TestCompose(t *testing.T) {
	bg := color.RGBA{R: 10, G: 20, B: 30, A: 255}

	layer := image.NewRGBA(image.Rect(0, 0, 4, 4))
	layer.SetRGBA(1, 1, color.RGBA{G: 255, A: 255})
	layer.SetRGBA(2, 2, color.RGBA{R: 100, A: 128}) // premultiplied half red

	out := Compose(bg, layer, nil)
	if got := out.RGBAAt(0, 0); got != bg {
		t.Errorf("empty pixel = %v, want background", got)
	}
	if got := out.RGBAAt(1, 1); got != (color.RGBA{G: 255, A: 255}) {
		t.Errorf("opaque pixel = %v, want green", got)
	}
	got := out.RGBAAt(2, 2)
	if got.A != 255 || got.R <= bg.R || got.B >= bg.B {
		t.Errorf("blended pixel = %v, want red over background", got)
	}
}
