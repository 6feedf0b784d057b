package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/particlesim/internal/dynamo"
	"github.com/san-kum/particlesim/internal/integrators"
)

// LyapunovExponent estimates the largest Lyapunov exponent of sys by
// following a reference trajectory and a neighbour perturbed along the first
// component. The neighbour is pulled back to the initial separation after
// every step and the logarithmic stretch factors are averaged over time.
// A positive value indicates chaos.
func LyapunovExponent(
	sys dynamo.System,
	tb *integrators.Tableau,
	x0 dynamo.State,
	dt, duration float64,
	perturbation float64,
) (float64, error) {
	if len(x0) != sys.StateDim() {
		return 0, fmt.Errorf("initial state has %d components, system needs %d: %w",
			len(x0), sys.StateDim(), dynamo.ErrDimensionMismatch)
	}
	if dt <= 0 || duration <= 0 || perturbation <= 0 {
		return 0, fmt.Errorf("dt, duration and perturbation must be positive: %w", dynamo.ErrParameterBounds)
	}

	x := x0.Clone()
	xp := x0.Clone()
	xp[0] += perturbation

	sumLog := 0.0
	steps := int(math.Round(duration / dt))
	t := 0.0
	for i := 0; i < steps; i++ {
		x = tb.Step(sys, x, t, dt)
		xp = tb.Step(sys, xp, t, dt)
		t += dt

		diff := make([]float64, len(x))
		floats.SubTo(diff, xp, x)
		sep := floats.Norm(diff, 2)
		if sep == 0 || math.IsNaN(sep) {
			return 0, fmt.Errorf("trajectories collapsed at t=%g: %w", t, dynamo.ErrInvalidState)
		}
		sumLog += math.Log(sep / perturbation)

		floats.Scale(perturbation/sep, diff)
		floats.AddTo(xp, x, diff)
	}

	return sumLog / (float64(steps) * dt), nil
}
