package renderer

import (
	"image/color"
	"testing"

	"github.com/Faultbox/logoswarm/internal/fragment"
	vmath "github.com/Faultbox/logoswarm/pkg/math"
)

func TestFillCircleCenter(t *testing.T) {
	c := NewCanvas(20, 20)
	c.FillCircle(vmath.Vec2{X: 10, Y: 10}, 4, color.NRGBA{R: 255, A: 255})

	img := c.Image()
	if got := img.RGBAAt(10, 10); got != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("centre pixel = %v, want opaque red", got)
	}
	if got := img.RGBAAt(0, 0); got.A != 0 {
		t.Errorf("corner pixel = %v, want transparent", got)
	}
	if got := img.RGBAAt(10, 16); got.A != 0 {
		t.Errorf("pixel outside radius = %v, want transparent", got)
	}
}

func TestFillCircleClipped(t *testing.T) {
	c := NewCanvas(10, 10)

	// Straddles the top-left corner and lies fully outside on the right
	c.FillCircle(vmath.Vec2{X: 0, Y: 0}, 3, color.NRGBA{G: 255, A: 255})
	c.FillCircle(vmath.Vec2{X: 40, Y: 5}, 3, color.NRGBA{B: 255, A: 255})

	if got := c.Image().RGBAAt(0, 0); got.G == 0 {
		t.Errorf("clipped circle missing at (0,0): %v", got)
	}
	for x := 0; x < 10; x++ {
		if got := c.Image().RGBAAt(x, 5); got.B != 0 {
			t.Errorf("off-canvas circle leaked into (%d,5): %v", x, got)
		}
	}
}

func TestFillCircleTranslucent(t *testing.T) {
	c := NewCanvas(8, 8)
	c.FillCircle(vmath.Vec2{X: 4, Y: 4}, 3, color.NRGBA{R: 255, A: 128})

	got := c.Image().RGBAAt(4, 4)
	if got.A < 120 || got.A > 136 {
		t.Errorf("expected half alpha, got %v", got)
	}
	if got.R != got.A {
		t.Errorf("premultiplied red should equal alpha, got %v", got)
	}
}

func TestDrawParticlesClears(t *testing.T) {
	c := NewCanvas(30, 30)
	c.FillCircle(vmath.Vec2{X: 5, Y: 5}, 3, color.NRGBA{R: 255, A: 255})

	ps := []fragment.Particle{
		{Pos: vmath.Vec2{X: 20, Y: 20}, Radius: 3, Color: color.NRGBA{B: 255, A: 255}},
	}
	c.DrawParticles(ps)

	if got := c.Image().RGBAAt(5, 5); got.A != 0 {
		t.Errorf("previous frame not cleared: %v", got)
	}
	if got := c.Image().RGBAAt(20, 20); got != (color.RGBA{B: 255, A: 255}) {
		t.Errorf("particle not drawn at its position: %v", got)
	}
}

func TestCanvasResizeAndRelease(t *testing.T) {
	c := NewCanvas(10, 10)
	c.Resize(40, 25)
	if w, h := c.Size(); w != 40 || h != 25 {
		t.Errorf("Size() = %dx%d, want 40x25", w, h)
	}

	c.Release()
	if !c.Released() || c.Image() != nil {
		t.Error("expected canvas to be released")
	}
	// No-ops after release
	c.Clear()
	c.Resize(5, 5)
	c.FillCircle(vmath.Vec2{X: 1, Y: 1}, 1, color.NRGBA{A: 255})
	if w, h := c.Size(); w != 0 || h != 0 {
		t.Errorf("released canvas reports size %dx%d", w, h)
	}
}
