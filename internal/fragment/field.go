package fragment

import (
	"image"
	"image/color"
	"math"
	"math/rand/v2"

	vmath "github.com/Faultbox/logoswarm/pkg/math"
)

// Particle is one simulated point derived from a sampled pixel.
// Home, Color and Radius are fixed at creation.
type Particle struct {
	Home      vmath.Vec2
	Pos       vmath.Vec2
	Vel       vmath.Vec2
	Color     color.NRGBA
	Radius    float64
	Displaced bool
}

// RadiusRange is the half-open interval particle radii are drawn from.
type RadiusRange struct {
	Min, Max float64
}

// DefaultRadius matches a 2-4px dot.
func DefaultRadius() RadiusRange {
	return RadiusRange{Min: 2, Max: 4}
}

// Field owns the particle arena. Particles are stored contiguously in
// creation order and never added or removed after NewField.
type Field struct {
	particles []Particle
}

// NewField creates one particle per sample, at rest on its home position.
// A nil rng uses a randomly seeded source.
func NewField(samples []Sample, radius RadiusRange, rng *rand.Rand) *Field {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	span := radius.Max - radius.Min
	if span < 0 {
		span = 0
	}

	ps := make([]Particle, len(samples))
	for i, s := range samples {
		ps[i] = Particle{
			Home:   s.Pos,
			Pos:    s.Pos,
			Color:  s.Color,
			Radius: radius.Min + rng.Float64()*span,
		}
	}
	return &Field{particles: ps}
}

// Len returns the particle count.
func (f *Field) Len() int {
	if f == nil {
		return 0
	}
	return len(f.particles)
}

// Particles returns the arena in creation order. Callers may read it;
// only Step should write.
func (f *Field) Particles() []Particle {
	if f == nil {
		return nil
	}
	return f.particles
}

// At returns particle i by value.
func (f *Field) At(i int) Particle {
	return f.particles[i]
}

// DisplacedCount returns how many particles are away from home.
func (f *Field) DisplacedCount() int {
	n := 0
	for i := range f.Particles() {
		if f.particles[i].Displaced {
			n++
		}
	}
	return n
}

// HomeBounds returns the bounding box of all home positions, rounded out to
// whole pixels. Empty fields return the zero rectangle.
func (f *Field) HomeBounds() image.Rectangle {
	ps := f.Particles()
	if len(ps) == 0 {
		return image.Rectangle{}
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for i := range ps {
		h := ps[i].Home
		minX, maxX = math.Min(minX, h.X), math.Max(maxX, h.X)
		minY, maxY = math.Min(minY, h.Y), math.Max(maxY, h.Y)
	}
	return image.Rect(int(math.Floor(minX)), int(math.Floor(minY)), int(math.Ceil(maxX))+1, int(math.Ceil(maxY))+1)
}
