package sim

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/particlesim/internal/dynamo"
	"github.com/san-kum/particlesim/internal/physics"
)

type Metric interface {
	Name() string
	Observe(env *Environment, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(env *Environment, step int, t float64)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(env *Environment, step int, t float64)

func (f ObserverFunc) OnStep(env *Environment, step int, t float64) { f(env, step, t) }

type Config struct {
	Duration  float64
	Direction dynamo.Direction
	// RecordEvery keeps one frame per n steps; the first and last frames are
	// always kept. Zero means every step.
	RecordEvery   int
	ValidateState bool
}

type ParticleState struct {
	ID     string
	Pos    r3.Vec
	Vel    r3.Vec
	Mass   float64
	Radius float64
}

type Frame struct {
	Step      int
	Time      float64
	Energy    float64
	Error     float64
	Particles []ParticleState
}

type Result struct {
	Frames          []Frame
	Metrics         map[string]float64
	StepsTaken      int
	EnergyDrift     float64
	CumulativeError float64
}

// Final returns the last recorded frame.
func (r *Result) Final() Frame {
	if len(r.Frames) == 0 {
		return Frame{}
	}
	return r.Frames[len(r.Frames)-1]
}

// Energies returns the energy of every recorded frame.
func (r *Result) Energies() []float64 {
	out := make([]float64, len(r.Frames))
	for i, f := range r.Frames {
		out[i] = f.Energy
	}
	return out
}

func snapshot(pts []*physics.Particle) []ParticleState {
	out := make([]ParticleState, len(pts))
	for i, p := range pts {
		out[i] = ParticleState{ID: p.ID, Pos: p.Pos, Vel: p.Vel, Mass: p.Mass(), Radius: p.Radius()}
	}
	return out
}

func finite(pts []*physics.Particle) bool {
	for _, p := range pts {
		if !p.State().IsValid() {
			return false
		}
	}
	return true
}
