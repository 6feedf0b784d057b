package integrators

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/particlesim/internal/dynamo"
	"github.com/san-kum/particlesim/internal/physics"
)

func TestTableauConsistency(t *testing.T) {
	for _, m := range Methods() {
		tb := m.Tableau()
		t.Run(tb.Name, func(t *testing.T) {
			if len(tb.A) != tb.Stages() {
				t.Fatalf("%d rows in A for %d stages", len(tb.A), tb.Stages())
			}
			for i, row := range tb.A {
				if len(row) != i {
					t.Errorf("row %d has %d coefficients", i, len(row))
				}
			}
			if math.Abs(floats.Sum(tb.B)-1) > 1e-14 {
				t.Errorf("weights sum to %.17g", floats.Sum(tb.B))
			}
			if tb.Embedded() {
				if len(tb.BHat) != tb.Stages() {
					t.Errorf("embedded row has %d entries", len(tb.BHat))
				}
				if math.Abs(floats.Sum(tb.BHat)-1) > 1e-14 {
					t.Errorf("embedded weights sum to %.17g", floats.Sum(tb.BHat))
				}
			}
		})
	}
}

func TestRK6Nodes(t *testing.T) {
	want := []float64{0, 1, 0.5, 2.0 / 3, (7 - sqrt21) / 14, (7 + sqrt21) / 14, 1}
	for i, c := range want {
		if got := rk6.node(i); math.Abs(got-c) > 1e-14 {
			t.Errorf("node %d = %.17g, want %.17g", i, got, c)
		}
	}
}

func TestDOPRI45FirstSameAsLast(t *testing.T) {
	if !floats.Equal(dopri45.A[6], dopri45.B[:6]) {
		t.Error("last stage row differs from the solution weights")
	}
}

func TestParseMethod(t *testing.T) {
	tests := []struct {
		in   string
		want Method
	}{
		{"euler", Euler},
		{"RK4", RK4},
		{" rk6 ", RK6},
		{"rkf45", RKF45},
		{"fehlberg", RKF45},
		{"ck45", CK45},
		{"dopri45", DOPRI45},
		{"rk45", DOPRI45},
	}
	for _, tt := range tests {
		got, err := ParseMethod(tt.in)
		if err != nil {
			t.Errorf("ParseMethod(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseMethod(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if _, err := ParseMethod("verlet"); !errors.Is(err, dynamo.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
	for _, m := range Methods() {
		if back, _ := ParseMethod(m.String()); back != m {
			t.Errorf("%v does not round trip", m)
		}
	}
}

// globalError integrates the unit oscillator to t=1 and returns the position
// error against cos(t).
func globalError(tb *Tableau, dt float64) float64 {
	sys := physics.NewOscillator(1)
	x := dynamo.State{1, 0}
	steps := int(math.Round(1 / dt))
	for i := 0; i < steps; i++ {
		x = tb.Step(sys, x, float64(i)*dt, dt)
	}
	return math.Abs(x[0] - math.Cos(1))
}

func TestTableauConvergenceOrder(t *testing.T) {
	for _, m := range Methods() {
		tb := m.Tableau()
		t.Run(tb.Name, func(t *testing.T) {
			coarse := globalError(tb, 0.1)
			fine := globalError(tb, 0.05)
			order := math.Log2(coarse / fine)
			if math.Abs(order-float64(tb.Order)) > 0.5 {
				t.Errorf("observed order %.2f, want %d (errors %g, %g)", order, tb.Order, coarse, fine)
			}
		})
	}
}

func TestStepWithError(t *testing.T) {
	sys := physics.NewOscillator(1)
	x := dynamo.State{1, 0}

	_, e := RK4.Tableau().StepWithError(sys, x, 0, 0.1)
	if e != nil {
		t.Error("rk4 should not produce an error estimate")
	}

	for _, m := range []Method{RKF45, CK45, DOPRI45} {
		_, big := m.Tableau().StepWithError(sys, x, 0, 0.2)
		_, small := m.Tableau().StepWithError(sys, x, 0, 0.1)
		ratio := big.Norm() / small.Norm()
		// local error of the fourth-order row scales as dt^5
		if ratio < 20 || ratio > 45 {
			t.Errorf("%v: error ratio %.2f, want about 32", m, ratio)
		}
	}
}
