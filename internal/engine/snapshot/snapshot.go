// Package snapshot writes rendered frames to PNG files.
package snapshot

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/image/draw"
)

// Capture writes PNG snapshots into a directory.
type Capture struct {
	outputDir string
	prefix    string
	now       func() time.Time
}

// New creates a capture handler. An empty outputDir writes to the working
// directory.
func New(outputDir, prefix string) *Capture {
	return &Capture{
		outputDir: outputDir,
		prefix:    prefix,
		now:       time.Now,
	}
}

// OutputDir returns the directory snapshots are written to.
func (c *Capture) OutputDir() string {
	return c.outputDir
}

// FromPixels saves a bottom-up RGBA framebuffer readback, as returned by
// glReadPixels. Rows are flipped so the PNG is top-down.
func (c *Capture) FromPixels(pixels []byte, width, height int) (string, error) {
	if len(pixels) != width*height*4 {
		return "", fmt.Errorf("pixel data size mismatch: expected %d, got %d", width*height*4, len(pixels))
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	rowSize := width * 4
	for y := 0; y < height; y++ {
		src := (height - 1 - y) * rowSize
		dst := y * img.Stride
		copy(img.Pix[dst:dst+rowSize], pixels[src:src+rowSize])
	}
	return c.write(c.timestampName(), img)
}

// FromImage saves img under a timestamped name.
func (c *Capture) FromImage(img image.Image) (string, error) {
	return c.write(c.timestampName(), img)
}

// Frame saves img as <prefix>_<frame>.png, zero padded so files sort in
// frame order.
func (c *Capture) Frame(img image.Image, frame int) (string, error) {
	return c.write(fmt.Sprintf("%s_%05d.png", c.prefix, frame), img)
}

// GenerateFilename returns the path the next timestamped snapshot would use.
func (c *Capture) GenerateFilename() string {
	return c.path(c.timestampName())
}

func (c *Capture) timestampName() string {
	return fmt.Sprintf("%s_%s.png", c.prefix, c.now().Format("2006-01-02_15-04-05.000"))
}

func (c *Capture) path(name string) string {
	if c.outputDir == "" {
		return name
	}
	return filepath.Join(c.outputDir, name)
}

func (c *Capture) write(name string, img image.Image) (string, error) {
	if c.outputDir != "" {
		if err := os.MkdirAll(c.outputDir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	filename := c.path(name)
	file, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return "", fmt.Errorf("encoding PNG: %w", err)
	}
	return filename, nil
}

// Compose flattens layers over an opaque background, in order.
func Compose(bg color.RGBA, layers ...*image.RGBA) *image.RGBA {
	var bounds image.Rectangle
	for _, l := range layers {
		if l != nil {
			bounds = bounds.Union(l.Bounds())
		}
	}

	out := image.NewRGBA(bounds)
	draw.Draw(out, bounds, image.NewUniform(bg), image.Point{}, draw.Src)
	for _, l := range layers {
		if l != nil {
			draw.Draw(out, l.Bounds(), l, l.Bounds().Min, draw.Over)
		}
	}
	return out
}
