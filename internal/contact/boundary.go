package contact

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/particlesim/internal/dynamo"
	"github.com/san-kum/particlesim/internal/physics"
)

// Boundaries is an axis-aligned box of the given Size centred on Center.
// In 2-D the z extent is ignored.
type Boundaries struct {
	Center      r3.Vec
	Size        r3.Vec
	Elasticity  float64
	Glide       float64
	Interpolate bool

	// OnBoundary is called every time a wall reflects p, so a particle in a
	// corner can trigger it once per axis.
	OnBoundary func(p *physics.Particle)
}

func NewBoundaries(width, height, depth float64) *Boundaries {
	return &Boundaries{
		Size:        r3.Vec{X: width, Y: height, Z: depth},
		Elasticity:  1,
		Glide:       1,
		Interpolate: true,
	}
}

func (b *Boundaries) Left() float64   { return b.Center.X - b.Size.X/2 }
func (b *Boundaries) Right() float64  { return b.Center.X + b.Size.X/2 }
func (b *Boundaries) Bottom() float64 { return b.Center.Y - b.Size.Y/2 }
func (b *Boundaries) Top() float64    { return b.Center.Y + b.Size.Y/2 }
func (b *Boundaries) Lower() float64  { return b.Center.Z - b.Size.Z/2 }
func (b *Boundaries) Upper() float64  { return b.Center.Z + b.Size.Z/2 }

func (b *Boundaries) Box() r3.Box {
	return r3.Box{
		Min: r3.Vec{X: b.Left(), Y: b.Bottom(), Z: b.Lower()},
		Max: r3.Vec{X: b.Right(), Y: b.Top(), Z: b.Upper()},
	}
}

// Constrain keeps every particle inside the box. Axes are handled in order
// x, y, z and each axis reflects off at most one of its two walls.
func (b *Boundaries) Constrain(pts []*physics.Particle, dim dynamo.Dim) {
	for _, p := range pts {
		b.wall(p, axisX, b.Left(), b.Right())
		b.wall(p, axisY, b.Bottom(), b.Top())
		if dim == dynamo.Three {
			b.wall(p, axisZ, b.Lower(), b.Upper())
		}
	}
}

type axis int

const (
	axisX axis = iota
	axisY
	axisZ
)

func component(v r3.Vec, a axis) float64 {
	switch a {
	case axisX:
		return v.X
	case axisY:
		return v.Y
	}
	return v.Z
}

func setComponent(v *r3.Vec, a axis, x float64) {
	switch a {
	case axisX:
		v.X = x
	case axisY:
		v.Y = x
	default:
		v.Z = x
	}
}

func (b *Boundaries) wall(p *physics.Particle, a axis, low, high float64) {
	r := p.Radius()
	q := component(p.Pos, a)

	var limit float64
	switch {
	case q > high-r:
		limit = high - r
	case q < low+r:
		limit = low + r
	default:
		return
	}

	if f, ok := crossing(component(p.PrevPos(), a), q, limit); b.Interpolate && ok {
		p.Pos = r3.Add(r3.Scale(f, p.Pos), r3.Scale(1-f, p.PrevPos()))
	}
	// the crossing point lies on the wall up to rounding
	setComponent(&p.Pos, a, limit)

	v := r3.Scale(b.Glide, p.Vel)
	setComponent(&v, a, -b.Elasticity*component(p.Vel, a))
	p.Vel = v

	if b.OnBoundary != nil {
		b.OnBoundary(p)
	}
}

// crossing is the fraction of the step from q0 to q1 at which the edge
// reached limit. It fails when the particle did not cross limit during the
// step, for instance when it started outside.
func crossing(q0, q1, limit float64) (float64, bool) {
	if q1 == q0 {
		return 0, false
	}
	f := (limit - q0) / (q1 - q0)
	if f < 0 || f > 1 {
		return 0, false
	}
	return f, true
}
