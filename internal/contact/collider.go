package contact

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/particlesim/internal/dynamo"
	"github.com/san-kum/particlesim/internal/physics"
)

type Mode int

const (
	Bounce Mode = iota
	Merge
)

func (m Mode) String() string {
	switch m {
	case Bounce:
		return "bounce"
	case Merge:
		return "merge"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "bounce":
		return Bounce, nil
	case "merge":
		return Merge, nil
	}
	return 0, fmt.Errorf("unknown collision mode %q: %w", s, dynamo.ErrInvalidConfig)
}

// restThreshold is the squared displacement below which a body counts as
// resting for time-of-impact interpolation.
const restThreshold = 1e-3

// World is the particle container the collider works on. Remove must sever
// every link of the particle before dropping it.
type World interface {
	Particles() []*physics.Particle
	Remove(p *physics.Particle) error
	Dim() dynamo.Dim
}

// Collider resolves overlapping spheres once per step, after the integrator
// has moved them.
type Collider struct {
	Mode        Mode
	Elasticity  float64
	Glide       float64
	Interpolate bool

	// OnCollision is called for both bodies of every resolved bounce, first
	// as (p1, p2) then as (p2, p1). In merge mode it is called once per merge
	// with the survivor first; the second particle has already been removed.
	OnCollision func(p, other *physics.Particle)
}

// NewCollider returns a perfectly elastic, frictionless bouncing collider
// with time-of-impact interpolation on.
func NewCollider() *Collider {
	return &Collider{
		Mode:        Bounce,
		Elasticity:  1,
		Glide:       1,
		Interpolate: true,
	}
}

// Resolve runs one resolution pass over w. Pairs are visited from the last
// particle backwards so that each unordered pair is seen once.
func (c *Collider) Resolve(w World) error {
	if c.Mode == Merge {
		return c.resolveMerges(w)
	}

	pts := w.Particles()
	counts := contactCounts(pts)
	three := w.Dim() == dynamo.Three

	for i := len(pts) - 1; i >= 0; i-- {
		for j := i - 1; j >= 0; j-- {
			if !pts[i].Overlaps(pts[j]) {
				continue
			}
			// the lighter body goes first unless it is more contended
			a, b := i, j
			if pts[i].Mass() > pts[j].Mass() {
				a, b = j, i
			}
			if counts[a] > counts[b] {
				a, b = b, a
			}
			c.bounce(pts[a], pts[b], three)
		}
	}
	return nil
}

// contactCounts counts the overlaps of every particle. Static particles are
// pinned at the maximum so they are always resolved last.
func contactCounts(pts []*physics.Particle) []int {
	counts := make([]int, len(pts))
	for i, p := range pts {
		for j := i + 1; j < len(pts); j++ {
			q := pts[j]
			if !p.Overlaps(q) {
				continue
			}
			bump(counts, i, p)
			bump(counts, j, q)
		}
	}
	return counts
}

func bump(counts []int, i int, p *physics.Particle) {
	if !p.IsDynamic() {
		counts[i] = math.MaxInt
	} else if counts[i] != math.MaxInt {
		counts[i]++
	}
}

func (c *Collider) bounce(p1, p2 *physics.Particle, three bool) {
	if c.Interpolate {
		backOut(p1, p2)
	} else {
		p1.SeparateFrom(p2)
	}

	relV := r3.Sub(p2.Vel, p1.Vel)
	relPos := r3.Sub(p2.Pos, p1.Pos)

	var out r3.Vec
	if three {
		out = Collide3D(relV, relPos, c.Elasticity, c.Glide)
	} else {
		out = Collide2D(relV, relPos, c.Elasticity, c.Glide)
	}
	dv := r3.Sub(out, relV)

	switch {
	case !p1.IsDynamic():
		p2.Vel = r3.Add(p2.Vel, dv)
	case !p2.IsDynamic():
		p1.Vel = r3.Sub(p1.Vel, dv)
	default:
		m := p1.Mass() + p2.Mass()
		p2.Vel = r3.Add(p2.Vel, r3.Scale(p1.Mass()/m, dv))
		p1.Vel = r3.Sub(p1.Vel, r3.Scale(p2.Mass()/m, dv))
	}

	if c.OnCollision != nil {
		c.OnCollision(p1, p2)
		c.OnCollision(p2, p1)
	}
}

// backOut moves the pair back along the step displacement to where the
// spheres first touched. Resting pairs are pushed apart along the centre
// axis instead.
func backOut(p1, p2 *physics.Particle) {
	d1 := r3.Sub(p1.Pos, p1.PrevPos())
	d2 := r3.Sub(p2.Pos, p2.PrevPos())
	m1, m2 := r3.Norm2(d1), r3.Norm2(d2)

	switch {
	case m1 < restThreshold && m2 < restThreshold:
		p1.SeparateFrom(p2)
	case m1 < restThreshold:
		s := contactFraction(d2, r3.Sub(p1.Pos, p2.Pos), p1.Radius()+p2.Radius())
		p2.Pos = r3.Sub(p2.Pos, r3.Scale(s, d2))
	default:
		s := contactFraction(d1, r3.Sub(p2.Pos, p1.Pos), p1.Radius()+p2.Radius())
		p1.Pos = r3.Sub(p1.Pos, r3.Scale(s, d1))
	}
}

// contactFraction solves |rel + s·d| = reach for the fraction s of the
// displacement d to undo, where rel points from the moving body to the
// other one. The root on the side of the approach is taken.
func contactFraction(d, rel r3.Vec, reach float64) float64 {
	a := r3.Norm2(d)
	b := 2 * r3.Dot(d, rel)
	cc := r3.Norm2(rel) - reach*reach
	s := (-b + sign(b)*math.Sqrt(b*b-4*a*cc)) / (2 * a)
	if math.IsNaN(s) || math.IsInf(s, 0) {
		return 0
	}
	return s
}

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}

// resolveMerges lets the larger of every overlapping pair absorb the smaller.
// After a merge the scan of the current body stops.
func (c *Collider) resolveMerges(w World) error {
	for i := len(w.Particles()) - 1; i >= 0; i-- {
		pts := w.Particles()
		if i >= len(pts) {
			continue
		}
		p1 := pts[i]
		for j := i - 1; j >= 0; j-- {
			p2 := pts[j]
			if !p1.Overlaps(p2) {
				continue
			}
			survivor, absorbed := p2, p1
			if p1.Radius() > p2.Radius() {
				survivor, absorbed = p1, p2
			}
			survivor.Absorb(absorbed)
			if err := w.Remove(absorbed); err != nil {
				return fmt.Errorf("merging %s into %s: %w", absorbed.ID, survivor.ID, err)
			}
			if c.OnCollision != nil {
				c.OnCollision(survivor, absorbed)
			}
			break
		}
	}
	return nil
}
