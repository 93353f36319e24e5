// Package renderer draws particles into CPU bitmaps and presents those
// bitmaps through OpenGL.
package renderer

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/vector"

	"github.com/Faultbox/logoswarm/internal/fragment"
	vmath "github.com/Faultbox/logoswarm/pkg/math"
)

// kappa places cubic Bézier control points for a quarter circle.
const kappa = 0.5522847498

// Canvas is a software 2D surface: a premultiplied RGBA bitmap plus a
// reusable anti-aliasing rasterizer. Not safe for concurrent use.
type Canvas struct {
	img     *image.RGBA
	raster  *vector.Rasterizer
	uniform *image.Uniform
}

// NewCanvas allocates a transparent w x h canvas.
func NewCanvas(w, h int) *Canvas {
	return &Canvas{
		img:     image.NewRGBA(image.Rect(0, 0, max(w, 0), max(h, 0))),
		raster:  vector.NewRasterizer(0, 0),
		uniform: image.NewUniform(color.Transparent),
	}
}

// Image returns the backing bitmap, or nil once released.
func (c *Canvas) Image() *image.RGBA {
	return c.img
}

// Size returns the canvas dimensions.
func (c *Canvas) Size() (int, int) {
	if c.img == nil {
		return 0, 0
	}
	b := c.img.Bounds()
	return b.Dx(), b.Dy()
}

// Resize reallocates the surface. Contents are discarded.
func (c *Canvas) Resize(w, h int) {
	if c.img == nil {
		return
	}
	c.img = image.NewRGBA(image.Rect(0, 0, max(w, 0), max(h, 0)))
}

// Release drops the surface. Later draws are no-ops.
func (c *Canvas) Release() {
	c.img = nil
}

// Released reports whether Release was called.
func (c *Canvas) Released() bool {
	return c.img == nil
}

// Clear makes every pixel transparent.
func (c *Canvas) Clear() {
	if c.img == nil {
		return
	}
	clear(c.img.Pix)
}

// FillCircle composites a filled circle over the canvas. Parts outside the
// surface are clipped.
func (c *Canvas) FillCircle(center vmath.Vec2, r float64, col color.NRGBA) {
	if c.img == nil || r <= 0 || col.A == 0 {
		return
	}

	area := image.Rect(
		int(math.Floor(center.X-r)), int(math.Floor(center.Y-r)),
		int(math.Ceil(center.X+r)), int(math.Ceil(center.Y+r)),
	).Intersect(c.img.Bounds())
	if area.Empty() {
		return
	}

	z := c.raster
	z.Reset(area.Dx(), area.Dy())
	z.DrawOp = draw.Over

	// Rasterizer space has its origin at area.Min
	cx := float32(center.X - float64(area.Min.X))
	cy := float32(center.Y - float64(area.Min.Y))
	rr := float32(r)
	k := rr * kappa

	z.MoveTo(cx+rr, cy)
	z.CubeTo(cx+rr, cy+k, cx+k, cy+rr, cx, cy+rr)
	z.CubeTo(cx-k, cy+rr, cx-rr, cy+k, cx-rr, cy)
	z.CubeTo(cx-rr, cy-k, cx-k, cy-rr, cx, cy-rr)
	z.CubeTo(cx+k, cy-rr, cx+rr, cy-k, cx+rr, cy)
	z.ClosePath()

	c.uniform.C = col
	z.Draw(c.img, area, c.uniform, image.Point{})
}

// DrawParticles renders one frame: clear, then every particle as a filled
// circle at its current position, in creation order.
func (c *Canvas) DrawParticles(ps []fragment.Particle) {
	c.Clear()
	for i := range ps {
		p := &ps[i]
		c.FillCircle(p.Pos, p.Radius, p.Color)
	}
}
