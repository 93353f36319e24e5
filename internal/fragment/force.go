package fragment

import (
	vmath "github.com/Faultbox/logoswarm/pkg/math"
)

// homeSnap is the per-axis distance under which a particle counts as home.
const homeSnap = 1.0

// Physics holds the force model coefficients.
type Physics struct {
	PointerRadius float64 // repulsion reach in px
	PointerForce  float64 // repulsion strength at the pointer centre
	ReturnForce   float64 // spring coefficient toward home
	Friction      float64 // per-step velocity multiplier
}

// DefaultPhysics returns the stock coefficients.
func DefaultPhysics() Physics {
	return Physics{
		PointerRadius: 150,
		PointerForce:  0.5,
		ReturnForce:   0.02,
		Friction:      0.98,
	}
}

// Pointer is the last observed pointer state, owned by the input side and
// handed to Step by value.
type Pointer struct {
	Pos    vmath.Vec2
	Active bool
}

// Repulsion returns the velocity kick applied at distance d from the pointer:
// linear falloff from PointerForce at d=0 to 0 at PointerRadius.
func (p Physics) Repulsion(d float64) float64 {
	if p.PointerRadius <= 0 || d >= p.PointerRadius {
		return 0
	}
	return (p.PointerRadius - d) / p.PointerRadius * p.PointerForce
}

// Step advances every particle by one frame.
func Step(f *Field, ptr Pointer, phys Physics) {
	ps := f.Particles()
	for i := range ps {
		stepParticle(&ps[i], ptr, phys)
	}
}

func stepParticle(p *Particle, ptr Pointer, phys Physics) {
	away := p.Pos.Sub(ptr.Pos)
	dist := away.Length()

	if ptr.Active && dist < phys.PointerRadius {
		dir := vmath.Vec2{X: 1}
		if dist > 0 {
			dir = away.Scale(1 / dist)
		}
		p.Vel = p.Vel.Add(dir.Scale(phys.Repulsion(dist)))
		p.Displaced = true
	} else {
		toHome := p.Home.Sub(p.Pos)
		p.Vel = p.Vel.Add(toHome.Scale(phys.ReturnForce))
		if p.Pos.Near(p.Home, homeSnap) {
			p.Displaced = false
		}
	}

	p.Vel = p.Vel.Scale(phys.Friction)
	p.Pos = p.Pos.Add(p.Vel)
}
