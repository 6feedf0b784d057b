package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/particlesim/internal/dynamo"
)

// Simulator drives an Environment through time and records what happens.
type Simulator struct {
	env       *Environment
	metrics   []Metric
	observers []Observer
	time      float64
	steps     int
}

func New(env *Environment) *Simulator {
	return &Simulator{
		env:       env,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) Env() *Environment      { return s.env }
func (s *Simulator) Time() float64          { return s.time }
func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Step advances by one integration step. Backward steps move the clock back.
func (s *Simulator) Step(dir dynamo.Direction) error {
	if err := s.env.Step(dir); err != nil {
		return &dynamo.SimulationError{Step: s.steps, Time: s.time, Wrapped: err}
	}
	s.time += dir.Sign() * s.env.Integrator().Dt()
	s.steps++
	return nil
}

// Run steps for cfg.Duration. The context is only checked between steps; a
// step in progress always completes.
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	dt := s.env.Integrator().Dt()
	if err := validateConfig(cfg, dt); err != nil {
		return nil, err
	}

	steps := int(math.Round(cfg.Duration / dt))
	every := cfg.RecordEvery
	if every <= 0 {
		every = 1
	}
	result := &Result{
		Frames:  make([]Frame, 0, steps/every+2),
		Metrics: make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	initialEnergy, err := s.env.TotalEnergy()
	if err != nil {
		return nil, err
	}
	if err := s.record(result, 0); err != nil {
		return nil, err
	}

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		for _, m := range s.metrics {
			m.Observe(s.env, s.time)
		}
		for _, obs := range s.observers {
			obs.OnStep(s.env, i, s.time)
		}

		if err := s.Step(cfg.Direction); err != nil {
			return result, err
		}
		result.StepsTaken++

		if cfg.ValidateState && !finite(s.env.Particles()) {
			return result, &dynamo.SimulationError{Step: i, Time: s.time, Wrapped: dynamo.ErrInvalidState}
		}

		if (i+1)%every == 0 || i == steps-1 {
			if err := s.record(result, i+1); err != nil {
				return result, &dynamo.SimulationError{Step: i, Time: s.time, Wrapped: err}
			}
		}
	}

	final := result.Final().Energy
	if initialEnergy != 0 {
		result.EnergyDrift = math.Abs(final-initialEnergy) / math.Abs(initialEnergy)
	}
	result.CumulativeError = s.env.Integrator().CumulativeError()

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

func (s *Simulator) record(r *Result, step int) error {
	energy, err := s.env.TotalEnergy()
	if err != nil {
		return err
	}
	r.Frames = append(r.Frames, Frame{
		Step:      step,
		Time:      s.time,
		Energy:    energy,
		Error:     s.env.Integrator().LastError(),
		Particles: snapshot(s.env.Particles()),
	})
	return nil
}

func validateConfig(cfg Config, dt float64) error {
	if !(dt > 0) {
		return fmt.Errorf("dt must be positive, got %f: %w", dt, dynamo.ErrInvalidConfig)
	}
	if !(cfg.Duration > 0) {
		return fmt.Errorf("duration must be positive, got %f: %w", cfg.Duration, dynamo.ErrInvalidConfig)
	}
	if cfg.RecordEvery < 0 {
		return fmt.Errorf("record interval must not be negative, got %d: %w", cfg.RecordEvery, dynamo.ErrInvalidConfig)
	}
	return nil
}
