package physics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/particlesim/internal/dynamo"
)

const (
	DefaultStiffness = 1.0
	DefaultTerms     = 1
	DefaultDecay     = 1
)

// Spring is an elastic bond between two particles. With Terms > 1 the
// restoring force stiffens with the stretch d as
//
//	1 + Σ_{i=1}^{Terms-1} (d/λ)^{2i} / (2i)^Decay
//
// where λ is the length unit factor that keeps the series dimensionless.
type Spring struct {
	p1, p2 *Particle

	Stiffness        float64
	Length           float64
	Terms            int
	Decay            int
	Damping          float64
	LengthUnitFactor float64
}

// NewSpring creates a spring and links it to both endpoints. Either endpoint
// may be nil and attached later with Attach.
func NewSpring(p1, p2 *Particle, stiffness, length float64, terms, decay int) *Spring {
	s := &Spring{
		Stiffness:        stiffness,
		Length:           length,
		Terms:            terms,
		Decay:            decay,
		LengthUnitFactor: 1,
	}
	if p1 != nil {
		s.p1 = p1
		p1.springs = append(p1.springs, s)
	}
	if p2 != nil {
		s.p2 = p2
		p2.springs = append(p2.springs, s)
	}
	return s
}

// NewLinearSpring is a Hookean spring with the default series shape.
func NewLinearSpring(p1, p2 *Particle, stiffness, length float64) *Spring {
	return NewSpring(p1, p2, stiffness, length, DefaultTerms, DefaultDecay)
}

func (s *Spring) First() *Particle  { return s.p1 }
func (s *Spring) Second() *Particle { return s.p2 }
func (s *Spring) IsReady() bool     { return s.p1 != nil && s.p2 != nil }

func (s *Spring) Contains(p *Particle) bool { return p != nil && (p == s.p1 || p == s.p2) }

// Other returns the opposite endpoint, or nil if p is not an endpoint.
func (s *Spring) Other(p *Particle) *Particle {
	switch p {
	case s.p1:
		return s.p2
	case s.p2:
		return s.p1
	}
	return nil
}

// Detach unlinks both endpoints.
func (s *Spring) Detach() *Spring {
	if s.p1 != nil {
		s.p1.springs = without(s.p1.springs, s)
	}
	if s.p2 != nil {
		s.p2.springs = without(s.p2.springs, s)
	}
	s.p1, s.p2 = nil, nil
	return s
}

// Attach rebinds the spring to a new pair of endpoints.
func (s *Spring) Attach(p1, p2 *Particle) *Spring {
	s.Detach()
	s.p1, s.p2 = p1, p2
	p1.springs = append(p1.springs, s)
	p2.springs = append(p2.springs, s)
	return s
}

func (s *Spring) check(p *Particle) error {
	if !s.IsReady() {
		return fmt.Errorf("spring has a missing endpoint: %w", dynamo.ErrInvalidTopology)
	}
	if p != nil && !s.Contains(p) {
		return fmt.Errorf("particle %s is not an endpoint of the spring: %w", p.ID, dynamo.ErrInvalidTopology)
	}
	return nil
}

func (s *Spring) lengthUnit() float64 {
	if s.LengthUnitFactor == 0 {
		return 1
	}
	return s.LengthUnitFactor
}

func (s *Spring) stiffening(d float64) float64 {
	lu := s.lengthUnit()
	f := 1.0
	for i := 1; i < s.Terms; i++ {
		f += math.Pow(d/lu, float64(2*i)) / math.Pow(float64(2*i), float64(s.Decay))
	}
	return f
}

// Acceleration is the acceleration the spring exerts on endpoint p.
func (s *Spring) Acceleration(p *Particle) (r3.Vec, error) {
	if err := s.check(p); err != nil {
		return r3.Vec{}, err
	}
	other := s.Other(p)
	diff := r3.Sub(other.Pos, p.Pos)
	dist := r3.Norm(diff)
	if dist == 0 || p.mass == 0 {
		return r3.Vec{}, nil
	}
	dir := r3.Scale(1/dist, diff)
	stretch := dist - s.Length

	acc := r3.Scale(s.Stiffness*s.stiffening(stretch)*stretch/p.mass, dir)
	if s.Damping > 0 {
		rel := r3.Dot(r3.Sub(other.Vel, p.Vel), dir)
		acc = r3.Add(acc, r3.Scale(s.Damping*rel/p.mass, dir))
	}
	return acc, nil
}

// PotentialEnergy is the elastic energy stored in the spring.
func (s *Spring) PotentialEnergy() (float64, error) {
	if err := s.check(nil); err != nil {
		return 0, err
	}
	d := math.Abs(r3.Norm(r3.Sub(s.p1.Pos, s.p2.Pos)) - s.Length)
	lu := s.lengthUnit()

	e := d * d / 2
	for i := 1; i < s.Terms; i++ {
		n := float64(2 * (i + 1))
		e += lu * lu * math.Pow(d/lu, n) / (n * math.Pow(float64(2*i), float64(s.Decay)))
	}
	return s.Stiffness * e, nil
}

// SpringEnergy sums the energy of every distinct spring attached to pts.
func SpringEnergy(pts []*Particle) (float64, error) {
	seen := make(map[*Spring]bool)
	total := 0.0
	for _, p := range pts {
		for _, s := range p.springs {
			if seen[s] {
				continue
			}
			seen[s] = true
			e, err := s.PotentialEnergy()
			if err != nil {
				return 0, err
			}
			total += e
		}
	}
	return total, nil
}
