package metrics

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/particlesim/internal/dynamo"
	"github.com/san-kum/particlesim/internal/integrators"
	"github.com/san-kum/particlesim/internal/physics"
	"github.com/san-kum/particlesim/internal/sim"
)

func movingPair() (*sim.Environment, *physics.Particle) {
	env := sim.NewEnvironment(dynamo.Three)
	p := physics.NewParticleWithMass(r3.Vec{}, r3.Vec{X: 1}, 2, 0, 0.1)
	q := physics.NewParticleWithMass(r3.Vec{X: 5}, r3.Vec{}, 1, 0, 0.1)
	env.Add(p, q)
	return env, p
}

func TestEnergyMean(t *testing.T) {
	env, p := movingPair()
	m := NewEnergy()

	m.Observe(env, 0)
	p.Vel = r3.Vec{}
	m.Observe(env, 1)

	if math.Abs(m.Value()-0.5) > 1e-12 {
		t.Errorf("expected mean energy 0.5, got %f", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero energy after reset")
	}
}

func TestEnergyDrift(t *testing.T) {
	env, p := movingPair()
	m := NewEnergyDrift()

	m.Observe(env, 0)
	if m.Value() != 0 {
		t.Errorf("expected no drift on first sample, got %f", m.Value())
	}

	p.Vel = r3.Vec{X: math.Sqrt(1.5)}
	m.Observe(env, 1)
	p.Vel = r3.Vec{X: 1}
	m.Observe(env, 2)

	if math.Abs(m.Value()-0.5) > 1e-12 {
		t.Errorf("expected max drift 0.5, got %f", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero drift after reset")
	}
}

func TestMomentumDrift(t *testing.T) {
	env, p := movingPair()
	m := NewMomentumDrift()

	m.Observe(env, 0)
	p.Vel = r3.Vec{Y: 1}
	m.Observe(env, 1)

	want := math.Sqrt(8)
	if math.Abs(m.Value()-want) > 1e-12 {
		t.Errorf("expected drift %f, got %f", want, m.Value())
	}
}

func TestMomentumConservedByIntegration(t *testing.T) {
	env, _ := movingPair()
	g := physics.NewInteraction("gravity", physics.NewGravity())
	if err := env.AddInteraction(g, env.Particles()...); err != nil {
		t.Fatal(err)
	}

	m := NewMomentumDrift()
	for i := 0; i < 100; i++ {
		m.Observe(env, float64(i))
		if err := env.Step(dynamo.Forward); err != nil {
			t.Fatal(err)
		}
	}

	if m.Value() > 1e-2 {
		t.Errorf("momentum drifted by %g under pair forces", m.Value())
	}
}

func TestStability(t *testing.T) {
	env, p := movingPair()
	m := NewStability(10)

	if m.Value() != 1 {
		t.Errorf("expected stability 1 with no samples, got %f", m.Value())
	}

	m.Observe(env, 0)
	p.Pos = r3.Vec{X: 20}
	m.Observe(env, 1)
	p.Pos = r3.Vec{X: math.NaN()}
	m.Observe(env, 2)
	p.Pos = r3.Vec{}
	m.Observe(env, 3)

	if math.Abs(m.Value()-0.5) > 1e-12 {
		t.Errorf("expected stability 0.5, got %f", m.Value())
	}
}

func TestRMSSpeed(t *testing.T) {
	env, _ := movingPair()
	m := NewRMSSpeed()
	m.Observe(env, 0)

	want := math.Sqrt(0.5)
	if math.Abs(m.Value()-want) > 1e-12 {
		t.Errorf("expected rms speed %f, got %f", want, m.Value())
	}
}

func TestStepError(t *testing.T) {
	tests := []struct {
		name     string
		method   integrators.Method
		tracking bool
		nonzero  bool
	}{
		{"embedded tracked", integrators.RKF45, true, true},
		{"embedded untracked", integrators.DOPRI45, false, false},
		{"not embedded", integrators.RK4, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := sim.NewEnvironment(dynamo.Three)
			env.SetIntegrator(integrators.New(tt.method, 0.1).SetErrorTracking(tt.tracking))
			p := physics.NewParticleWithMass(r3.Vec{X: 1}, r3.Vec{}, 1, 0, 0.1)
			env.Add(p)
			well := physics.NewExternal("well", &physics.HarmonicWell{K: 1})
			if err := env.AddExternal(well, p); err != nil {
				t.Fatal(err)
			}

			m := NewStepError()
			for i := 0; i < 5; i++ {
				if err := env.Step(dynamo.Forward); err != nil {
					t.Fatal(err)
				}
				m.Observe(env, float64(i))
			}

			if got := m.Value() > 0; got != tt.nonzero {
				t.Errorf("nonzero error = %v, want %v (value %g)", got, tt.nonzero, m.Value())
			}
		})
	}
}

func TestRegistryNames(t *testing.T) {
	for name, build := range Registry() {
		if got := build().Name(); got != name {
			t.Errorf("registry entry %q builds metric named %q", name, got)
		}
	}
}
