package physics

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/particlesim/internal/dynamo"
)

// Acceleration sums the contributions of every interaction, external field
// and spring attached to p at the current state of all particles.
func Acceleration(p *Particle) (r3.Vec, error) {
	var acc r3.Vec
	for _, in := range p.interactions {
		for _, q := range in.members {
			if q != p && p.Couples(q) {
				acc = r3.Add(acc, in.Acceleration(p, q))
			}
		}
	}
	for _, ex := range p.externals {
		acc = r3.Add(acc, ex.Acceleration(p))
	}
	for _, s := range p.springs {
		a, err := s.Acceleration(p)
		if err != nil {
			return r3.Vec{}, err
		}
		acc = r3.Add(acc, a)
	}
	return acc, nil
}

// Derive evaluates one integration stage for p: the particle is displaced by
// offset, the derivative [v, a] is sampled and scaled by h, and the true
// state is restored before returning. Other particles are never displaced,
// so particles can be sampled one at a time in any order.
func Derive(p *Particle, offset dynamo.State, h float64) (dynamo.State, error) {
	n := p.dim.StateLen()
	if len(offset) != n {
		return nil, fmt.Errorf("stage offset has %d components, %s particle needs %d: %w",
			len(offset), p.dim, n, dynamo.ErrDimensionMismatch)
	}

	pos, vel := p.Pos, p.Vel
	defer func() { p.Pos, p.Vel = pos, vel }()
	p.Apply(offset, 1)

	acc, err := Acceleration(p)
	if err != nil {
		return nil, err
	}

	k := make(dynamo.State, n)
	if p.dim == dynamo.Two {
		k[0], k[1], k[2], k[3] = p.Vel.X, p.Vel.Y, acc.X, acc.Y
	} else {
		k[0], k[1], k[2] = p.Vel.X, p.Vel.Y, p.Vel.Z
		k[3], k[4], k[5] = acc.X, acc.Y, acc.Z
	}
	for i := range k {
		k[i] *= h
	}
	return k, nil
}
