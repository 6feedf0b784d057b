package physics

import "github.com/san-kum/particlesim/internal/dynamo"

// Chain is a one-dimensional line of masses joined by linear springs, with the
// ends optionally pinned to walls. It is written as a flat dynamo.System with
// state [x_0..x_{n-1}, v_0..v_{n-1}] so the integration schemes can be checked
// against a reference problem with a closed-form energy.
type Chain struct {
	Masses    []float64
	Stiffness []float64 // n+1 entries when the right end is pinned, n otherwise
	Damping   []float64
}

// NewOscillator is a single unit mass on a spring of stiffness k.
func NewOscillator(k float64) *Chain {
	return &Chain{
		Masses:    []float64{1},
		Stiffness: []float64{k},
		Damping:   []float64{0},
	}
}

// NewChain pins both ends of n unit masses with identical springs.
func NewChain(n int, k float64) *Chain {
	c := &Chain{
		Masses:    make([]float64, n),
		Stiffness: make([]float64, n+1),
		Damping:   make([]float64, n),
	}
	for i := 0; i < n; i++ {
		c.Masses[i] = 1
		c.Stiffness[i] = k
	}
	c.Stiffness[n] = k
	return c
}

func (c *Chain) StateDim() int { return 2 * len(c.Masses) }

func (c *Chain) Derive(x dynamo.State, t float64) dynamo.State {
	n := len(c.Masses)
	dx := make(dynamo.State, 2*n)
	copy(dx[:n], x[n:])

	for i := 0; i < n; i++ {
		pos := x[i]
		var f float64
		if i == 0 {
			f = -c.Stiffness[0] * pos
		} else {
			f = -c.Stiffness[i] * (pos - x[i-1])
		}
		if i < n-1 {
			f -= c.Stiffness[i+1] * (pos - x[i+1])
		} else if len(c.Stiffness) > n {
			f -= c.Stiffness[n] * pos
		}
		f -= c.Damping[i] * x[n+i]
		dx[n+i] = f / c.Masses[i]
	}
	return dx
}

func (c *Chain) Energy(x dynamo.State) float64 {
	n := len(c.Masses)
	e := 0.0
	for i := 0; i < n; i++ {
		v := x[n+i]
		e += 0.5 * c.Masses[i] * v * v

		stretch := x[i]
		if i > 0 {
			stretch -= x[i-1]
		}
		e += 0.5 * c.Stiffness[i] * stretch * stretch
	}
	if len(c.Stiffness) > n {
		e += 0.5 * c.Stiffness[n] * x[n-1] * x[n-1]
	}
	return e
}
