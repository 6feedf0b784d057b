package metrics

import (
	"math"

	"github.com/san-kum/particlesim/internal/sim"
)

// StepError is the largest embedded error estimate seen in a single step.
// It stays zero for schemes without an estimate or with tracking off.
type StepError struct {
	name    string
	maxErr  float64
	samples int
}

func NewStepError() *StepError {
	return &StepError{name: "max_step_error"}
}

func (s *StepError) Name() string { return s.name }

func (s *StepError) Observe(env *sim.Environment, t float64) {
	in := env.Integrator()
	if !in.HasError() {
		return
	}
	s.samples++
	s.maxErr = math.Max(s.maxErr, in.LastError())
}

func (s *StepError) Value() float64 { return s.maxErr }

func (s *StepError) Reset() {
	s.maxErr = 0
	s.samples = 0
}

// Registry returns the metric constructors by name.
func Registry() map[string]func() sim.Metric {
	return map[string]func() sim.Metric{
		"energy":         func() sim.Metric { return NewEnergy() },
		"energy_drift":   func() sim.Metric { return NewEnergyDrift() },
		"momentum_drift": func() sim.Metric { return NewMomentumDrift() },
		"rms_speed":      func() sim.Metric { return NewRMSSpeed() },
		"max_step_error": func() sim.Metric { return NewStepError() },
		"stability":      func() sim.Metric { return NewStability(1e6) },
	}
}
