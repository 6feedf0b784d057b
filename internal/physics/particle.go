package physics

import (
	"fmt"
	"math"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/particlesim/internal/dynamo"
)

// Particle is a sphere with its dynamical state and its links to the force
// contributors acting on it. The links are non-owning: the environment owns
// both the particle and the contributors and keeps the two sides in sync.
type Particle struct {
	ID string

	Pos r3.Vec
	Vel r3.Vec

	radius     float64
	mass       float64
	charge     float64
	massDens   float64
	chargeDens float64

	dynamic bool
	active  bool
	label   string
	dim     dynamo.Dim

	prevPos r3.Vec
	k       dynamo.State

	interactions []*Interaction
	externals    []*External
	springs      []*Spring
}

// NewParticle creates a dynamic, active 3-D particle. Mass and charge are
// derived from the densities and the sphere volume.
func NewParticle(pos, vel r3.Vec, massDens, chargeDens, radius float64) *Particle {
	p := &Particle{
		ID:         uuid.NewString(),
		Pos:        pos,
		Vel:        vel,
		radius:     radius,
		massDens:   massDens,
		chargeDens: chargeDens,
		dynamic:    true,
		active:     true,
		prevPos:    pos,
	}
	p.SetDim(dynamo.Three)
	return p.computeFromDensity()
}

// NewParticleWithMass creates a particle from an explicit mass and charge.
func NewParticleWithMass(pos, vel r3.Vec, mass, charge, radius float64) *Particle {
	p := NewParticle(pos, vel, 0, 0, radius)
	p.mass = mass
	p.charge = charge
	return p.computeFromValue()
}

func (p *Particle) computeFromDensity() *Particle {
	v := p.Volume()
	p.mass = p.massDens * v
	p.charge = p.chargeDens * v
	return p
}

func (p *Particle) computeFromValue() *Particle {
	v := p.Volume()
	if v == 0 {
		p.massDens, p.chargeDens = 0, 0
		return p
	}
	p.massDens = p.mass / v
	p.chargeDens = p.charge / v
	return p
}

func (p *Particle) Volume() float64 { return 4 * math.Pi * p.radius * p.radius * p.radius / 3 }

func (p *Particle) Radius() float64        { return p.radius }
func (p *Particle) Mass() float64          { return p.mass }
func (p *Particle) Charge() float64        { return p.charge }
func (p *Particle) MassDensity() float64   { return p.massDens }
func (p *Particle) ChargeDensity() float64 { return p.chargeDens }
func (p *Particle) IsDynamic() bool        { return p.dynamic }
func (p *Particle) IsActive() bool         { return p.active }
func (p *Particle) Label() string          { return p.label }
func (p *Particle) Dim() dynamo.Dim        { return p.dim }

// PrevPos is the position snapshot taken before the last integration step.
func (p *Particle) PrevPos() r3.Vec { return p.prevPos }

// K is the derivative vector committed by the last integration step.
func (p *Particle) K() dynamo.State { return p.k }

func (p *Particle) SetRadius(r float64) *Particle {
	p.radius = r
	return p.computeFromDensity()
}

func (p *Particle) SetMass(m float64) *Particle {
	p.mass = m
	return p.computeFromValue()
}

func (p *Particle) SetCharge(q float64) *Particle {
	p.charge = q
	return p.computeFromValue()
}

func (p *Particle) SetMassDensity(d float64) *Particle {
	p.massDens = d
	return p.computeFromDensity()
}

func (p *Particle) SetChargeDensity(d float64) *Particle {
	p.chargeDens = d
	return p.computeFromDensity()
}

// SetDynamic marks the particle as movable. Immovable particles have their
// velocity zeroed.
func (p *Particle) SetDynamic(v bool) *Particle {
	p.dynamic = v
	if !v {
		p.Vel = r3.Vec{}
	}
	return p
}

func (p *Particle) SetActive(v bool) *Particle {
	p.active = v
	return p
}

func (p *Particle) SetLabel(label string) *Particle {
	p.label = label
	return p
}

// SetDim switches the particle between 2-D and 3-D and resets K accordingly.
func (p *Particle) SetDim(d dynamo.Dim) *Particle {
	p.dim = d
	p.k = make(dynamo.State, d.StateLen())
	return p
}

// SetK replaces the committed derivative. The length must match the
// particle's dimensionality.
func (p *Particle) SetK(k dynamo.State) error {
	if len(k) != p.dim.StateLen() {
		return fmt.Errorf("k has %d components, %s particle needs %d: %w",
			len(k), p.dim, p.dim.StateLen(), dynamo.ErrDimensionMismatch)
	}
	p.k = k
	return nil
}

// SnapshotPos records the current position as the pre-step position.
func (p *Particle) SnapshotPos() { p.prevPos = p.Pos }

// SetPrevPos overrides the pre-step position.
func (p *Particle) SetPrevPos(v r3.Vec) { p.prevPos = v }

// Apply adds a state offset [dpos, dvel] scaled by sign to position and velocity.
func (p *Particle) Apply(off dynamo.State, sign float64) {
	if p.dim == dynamo.Two {
		p.Pos.X += sign * off[0]
		p.Pos.Y += sign * off[1]
		p.Vel.X += sign * off[2]
		p.Vel.Y += sign * off[3]
		return
	}
	p.Pos.X += sign * off[0]
	p.Pos.Y += sign * off[1]
	p.Pos.Z += sign * off[2]
	p.Vel.X += sign * off[3]
	p.Vel.Y += sign * off[4]
	p.Vel.Z += sign * off[5]
}

// Commit applies K to a dynamic particle.
func (p *Particle) Commit(dir dynamo.Direction) {
	if !p.dynamic {
		return
	}
	p.Apply(p.k, dir.Sign())
}

// Overlaps reports whether the spheres interpenetrate.
func (p *Particle) Overlaps(q *Particle) bool {
	return r3.Norm(r3.Sub(p.Pos, q.Pos)) < p.radius+q.radius
}

// Contains reports whether a point lies inside the sphere.
func (p *Particle) Contains(pt r3.Vec) bool {
	return r3.Norm(r3.Sub(p.Pos, pt)) < p.radius
}

// Couples reports whether group forces act between p and q. Only pairs that
// are both inactive and share a label are decoupled.
func (p *Particle) Couples(q *Particle) bool {
	if p.active || q.active {
		return true
	}
	return q.label != p.label
}

// SeparateFrom pushes p away from q along the centre axis until the spheres
// just touch.
func (p *Particle) SeparateFrom(q *Particle) {
	d := r3.Sub(p.Pos, q.Pos)
	n := r3.Norm(d)
	if n == 0 {
		return
	}
	corr := p.radius + q.radius - n
	p.Pos = r3.Add(p.Pos, r3.Scale(corr/n, d))
}

// Absorb merges q into p: the centre-of-mass velocity is kept when p is
// dynamic, densities are pooled and volumes add.
func (p *Particle) Absorb(q *Particle) *Particle {
	if p.dynamic {
		m := p.mass + q.mass
		if m != 0 {
			p.Vel = r3.Scale(1/m, r3.Add(r3.Scale(p.mass, p.Vel), r3.Scale(q.mass, q.Vel)))
		}
	}
	vol := p.Volume() + q.Volume()
	if vol != 0 {
		p.massDens = (p.mass + q.mass) / vol
		p.chargeDens = (p.charge + q.charge) / vol
	}
	p.radius = math.Cbrt(p.radius*p.radius*p.radius + q.radius*q.radius*q.radius)
	return p.computeFromDensity()
}

func (p *Particle) Momentum() r3.Vec        { return r3.Scale(p.mass, p.Vel) }
func (p *Particle) AngularMomentum() r3.Vec { return r3.Cross(p.Pos, p.Momentum()) }
func (p *Particle) KineticEnergy() float64  { return 0.5 * p.mass * r3.Norm2(p.Vel) }

// State returns [pos, vel] truncated to the particle's dimensionality.
func (p *Particle) State() dynamo.State {
	if p.dim == dynamo.Two {
		return dynamo.State{p.Pos.X, p.Pos.Y, p.Vel.X, p.Vel.Y}
	}
	return dynamo.State{p.Pos.X, p.Pos.Y, p.Pos.Z, p.Vel.X, p.Vel.Y, p.Vel.Z}
}

func (p *Particle) Interactions() []*Interaction { return p.interactions }
func (p *Particle) Externals() []*External       { return p.externals }
func (p *Particle) Springs() []*Spring           { return p.springs }

func (p *Particle) InInteraction(in *Interaction) bool { return indexOf(p.interactions, in) >= 0 }
func (p *Particle) InExternal(ex *External) bool       { return indexOf(p.externals, ex) >= 0 }
func (p *Particle) InSpring(s *Spring) bool            { return indexOf(p.springs, s) >= 0 }

func indexOf[T comparable](s []T, v T) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return -1
}

func without[T comparable](s []T, v T) []T {
	if i := indexOf(s, v); i >= 0 {
		return append(s[:i], s[i+1:]...)
	}
	return s
}
