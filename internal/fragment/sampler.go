// Package fragment turns an image into a field of particles and simulates
// them: particles scatter away from the pointer and spring back home.
package fragment

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"

	vmath "github.com/Faultbox/logoswarm/pkg/math"
)

// Sampling controls how an image is subsampled into particles.
type Sampling struct {
	Step           int   // stride in scaled pixels on both axes
	AlphaThreshold uint8 // pixels with alpha <= threshold are skipped
	AllowUpscale   bool  // let images smaller than the box grow to fill it
}

// DefaultSampling returns the stock sampling settings.
func DefaultSampling() Sampling {
	return Sampling{Step: 4, AlphaThreshold: 50}
}

// Box is the target area the image is fitted and centred into.
type Box struct {
	X, Y, W, H float64
}

// LogoBox returns a square of side min(viewW, viewH)*scale centred in the viewport.
func LogoBox(viewW, viewH int, scale float64) Box {
	side := math.Min(float64(viewW), float64(viewH)) * scale
	return Box{
		X: (float64(viewW) - side) / 2,
		Y: (float64(viewH) - side) / 2,
		W: side,
		H: side,
	}
}

// Sample is one retained pixel at its absolute placement.
type Sample struct {
	Pos   vmath.Vec2
	Color color.NRGBA
}

// Samples is the output of SampleImage.
type Samples struct {
	Points  []Sample
	ScaledW int
	ScaledH int
	Origin  vmath.Vec2 // top-left of the scaled image inside the box
}

// FitSize returns the aspect-preserving scaled size of a w x h image in box.
func FitSize(w, h int, box Box, allowUpscale bool) (int, int) {
	if w <= 0 || h <= 0 || box.W <= 0 || box.H <= 0 {
		return 0, 0
	}
	scale := math.Min(box.W/float64(w), box.H/float64(h))
	if !allowUpscale && scale > 1 {
		scale = 1
	}
	return int(math.Floor(float64(w) * scale)), int(math.Floor(float64(h) * scale))
}

// SampleImage fits img into box, then walks the scaled bitmap with the
// configured stride and keeps every pixel whose alpha exceeds the threshold.
// Samples are ordered row-major, top to bottom.
func SampleImage(img image.Image, box Box, cfg Sampling) Samples {
	b := img.Bounds()
	sw, sh := FitSize(b.Dx(), b.Dy(), box, cfg.AllowUpscale)
	out := Samples{
		ScaledW: sw,
		ScaledH: sh,
		Origin: vmath.Vec2{
			X: box.X + (box.W-float64(sw))/2,
			Y: box.Y + (box.H-float64(sh))/2,
		},
	}
	if sw == 0 || sh == 0 {
		return out
	}

	bitmap := rasterize(img, sw, sh)

	step := cfg.Step
	if step < 1 {
		step = 1
	}
	for y := 0; y < sh; y += step {
		row := bitmap.Pix[y*bitmap.Stride:]
		for x := 0; x < sw; x += step {
			px := row[x*4 : x*4+4]
			if px[3] <= cfg.AlphaThreshold {
				continue
			}
			out.Points = append(out.Points, Sample{
				Pos:   vmath.Vec2{X: out.Origin.X + float64(x), Y: out.Origin.Y + float64(y)},
				Color: color.NRGBA{R: px[0], G: px[1], B: px[2], A: px[3]},
			})
		}
	}
	return out
}

// rasterize draws img into a fresh non-premultiplied bitmap of exactly w x h.
func rasterize(img image.Image, w, h int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	src := img.Bounds()
	if src.Dx() == w && src.Dy() == h {
		draw.Draw(dst, dst.Bounds(), img, src.Min, draw.Src)
		return dst
	}
	draw.BiLinear.Scale(dst, dst.Bounds(), img, src, draw.Src, nil)
	return dst
}
