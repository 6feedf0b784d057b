package physics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Gravity is softened Newtonian attraction between pairs.
type Gravity struct {
	G         float64
	Softening float64
}

func NewGravity() *Gravity {
	return &Gravity{G: 1.0, Softening: 0.01}
}

func (g *Gravity) Acceleration(subject, source *Particle) r3.Vec {
	r := r3.Sub(source.Pos, subject.Pos)
	r2 := r3.Norm2(r) + g.Softening*g.Softening
	if r2 == 0 {
		return r3.Vec{}
	}
	rInv := 1.0 / math.Sqrt(r2)
	return r3.Scale(g.G*source.mass*rInv*rInv*rInv, r)
}

func (g *Gravity) PotentialEnergy(p1, p2 *Particle) float64 {
	r := math.Sqrt(r3.Norm2(r3.Sub(p1.Pos, p2.Pos)) + g.Softening*g.Softening)
	if r == 0 {
		return 0
	}
	return -g.G * p1.mass * p2.mass / r
}

// Coulomb is the electrostatic force between charged pairs; like charges repel.
type Coulomb struct {
	K         float64
	Softening float64
}

func NewCoulomb() *Coulomb {
	return &Coulomb{K: 1.0}
}

func (c *Coulomb) Acceleration(subject, source *Particle) r3.Vec {
	if subject.mass == 0 {
		return r3.Vec{}
	}
	r := r3.Sub(subject.Pos, source.Pos)
	r2 := r3.Norm2(r) + c.Softening*c.Softening
	if r2 == 0 {
		return r3.Vec{}
	}
	rInv := 1.0 / math.Sqrt(r2)
	return r3.Scale(c.K*subject.charge*source.charge*rInv*rInv*rInv/subject.mass, r)
}

func (c *Coulomb) PotentialEnergy(p1, p2 *Particle) float64 {
	r := math.Sqrt(r3.Norm2(r3.Sub(p1.Pos, p2.Pos)) + c.Softening*c.Softening)
	if r == 0 {
		return 0
	}
	return c.K * p1.charge * p2.charge / r
}

// HarmonicWell pulls every member towards Center with force -K·(x-Center).
type HarmonicWell struct {
	Center r3.Vec
	K      float64
}

func (h *HarmonicWell) Acceleration(subject *Particle) r3.Vec {
	if subject.mass == 0 {
		return r3.Vec{}
	}
	return r3.Scale(-h.K/subject.mass, r3.Sub(subject.Pos, h.Center))
}

func (h *HarmonicWell) PotentialEnergy(subject *Particle) float64 {
	return 0.5 * h.K * r3.Norm2(r3.Sub(subject.Pos, h.Center))
}

// UniformField is a constant acceleration such as surface gravity.
type UniformField struct {
	G r3.Vec
}

func (u *UniformField) Acceleration(*Particle) r3.Vec { return u.G }

func (u *UniformField) PotentialEnergy(subject *Particle) float64 {
	return -subject.mass * r3.Dot(u.G, subject.Pos)
}

// LinearDrag opposes motion with force -Gamma·v.
type LinearDrag struct {
	Gamma float64
}

func (d *LinearDrag) Acceleration(subject *Particle) r3.Vec {
	if subject.mass == 0 {
		return r3.Vec{}
	}
	return r3.Scale(-d.Gamma/subject.mass, subject.Vel)
}
