package integrators

import (
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/particlesim/internal/dynamo"
)

// Tableau is an explicit Runge-Kutta scheme. A[i] holds the coefficients of
// stage i on the previous stages, so A[0] is empty. BHat is the embedded
// weight row and is nil for schemes without an error estimate.
type Tableau struct {
	Name  string
	Order int
	A     [][]float64
	B     []float64
	BHat  []float64
}

func (tb *Tableau) Stages() int { return len(tb.B) }

func (tb *Tableau) Embedded() bool { return tb.BHat != nil }

// node is the time fraction at which stage i is sampled.
func (tb *Tableau) node(i int) float64 {
	return floats.Sum(tb.A[i])
}

// combine overwrites dst with Σ w[j]·ks[j] over the first len(w) entries.
func combine(dst dynamo.State, w []float64, ks []dynamo.State) dynamo.State {
	for i := range dst {
		dst[i] = 0
	}
	for j, c := range w {
		if c != 0 {
			floats.AddScaled(dst, c, ks[j])
		}
	}
	return dst
}

// Step advances a plain ODE system by dt.
func (tb *Tableau) Step(sys dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	next, _ := tb.step(sys, x, t, dt, false)
	return next
}

// StepWithError advances by dt and also returns the embedded error vector.
// For schemes without an embedded row the error is nil.
func (tb *Tableau) StepWithError(sys dynamo.System, x dynamo.State, t, dt float64) (dynamo.State, dynamo.State) {
	return tb.step(sys, x, t, dt, true)
}

func (tb *Tableau) step(sys dynamo.System, x dynamo.State, t, dt float64, withErr bool) (dynamo.State, dynamo.State) {
	n := len(x)
	ks := make([]dynamo.State, tb.Stages())
	scratch := make(dynamo.State, n)

	for i := range ks {
		combine(scratch, tb.A[i], ks)
		floats.Add(scratch, x)
		ks[i] = sys.Derive(scratch, t+tb.node(i)*dt)
		floats.Scale(dt, ks[i])
	}

	next := combine(make(dynamo.State, n), tb.B, ks)
	if !withErr || !tb.Embedded() {
		floats.Add(next, x)
		return next, nil
	}
	errVec := combine(make(dynamo.State, n), tb.BHat, ks)
	floats.Sub(errVec, next)
	floats.Add(next, x)
	return next, errVec
}
