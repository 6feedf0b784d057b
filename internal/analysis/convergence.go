package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/particlesim/internal/dynamo"
	"github.com/san-kum/particlesim/internal/integrators"
)

// ObservedOrder fits log(err) = p·log(dt) + c by least squares and returns
// the slope p together with the R² of the fit.
func ObservedOrder(dts, errs []float64) (order, r2 float64, err error) {
	if len(dts) != len(errs) {
		return 0, 0, fmt.Errorf("%d step sizes for %d errors: %w", len(dts), len(errs), dynamo.ErrDimensionMismatch)
	}
	if len(dts) < 2 {
		return 0, 0, fmt.Errorf("need at least two samples, got %d: %w", len(dts), dynamo.ErrInvalidConfig)
	}

	x := make([]float64, len(dts))
	y := make([]float64, len(errs))
	for i := range dts {
		if dts[i] <= 0 || errs[i] <= 0 {
			return 0, 0, fmt.Errorf("sample %d: step %g, error %g: %w", i, dts[i], errs[i], dynamo.ErrParameterBounds)
		}
		x[i] = math.Log(dts[i])
		y[i] = math.Log(errs[i])
	}

	alpha, beta := stat.LinearRegression(x, y, nil, false)
	return beta, stat.RSquared(x, y, nil, alpha, beta), nil
}

// GlobalError integrates sys from x0 over duration with a fixed step and
// returns the Euclidean distance to exact.
func GlobalError(tb *integrators.Tableau, sys dynamo.System, x0, exact dynamo.State, duration, dt float64) (float64, error) {
	if len(exact) != len(x0) {
		return 0, fmt.Errorf("exact state has %d components, want %d: %w", len(exact), len(x0), dynamo.ErrDimensionMismatch)
	}
	x := x0.Clone()
	steps := int(math.Round(duration / dt))
	for i := 0; i < steps; i++ {
		x = tb.Step(sys, x, float64(i)*dt, dt)
	}
	return floats.Distance(x, exact, 2), nil
}
