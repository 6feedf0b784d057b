package experiment

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/particlesim/internal/dynamo"
	"github.com/san-kum/particlesim/internal/integrators"
	"github.com/san-kum/particlesim/internal/metrics"
	"github.com/san-kum/particlesim/internal/physics"
	"github.com/san-kum/particlesim/internal/sim"
)

// PairFactory builds a pair law. A zero strength selects the law's default.
type PairFactory func(strength, softening float64) physics.PairLaw

// FieldFactory builds a field law from its vector and strength parameters.
type FieldFactory func(v r3.Vec, strength float64) physics.FieldLaw

type Registry struct {
	laws    map[string]PairFactory
	fields  map[string]FieldFactory
	metrics map[string]func() sim.Metric
}

func NewRegistry() *Registry {
	r := &Registry{
		laws:    make(map[string]PairFactory),
		fields:  make(map[string]FieldFactory),
		metrics: metrics.Registry(),
	}

	r.laws["gravity"] = func(strength, softening float64) physics.PairLaw {
		g := physics.NewGravity()
		if strength != 0 {
			g.G = strength
		}
		g.Softening = softening
		return g
	}
	r.laws["coulomb"] = func(strength, softening float64) physics.PairLaw {
		c := physics.NewCoulomb()
		if strength != 0 {
			c.K = strength
		}
		c.Softening = softening
		return c
	}

	r.fields["uniform"] = func(v r3.Vec, _ float64) physics.FieldLaw {
		return &physics.UniformField{G: v}
	}
	r.fields["well"] = func(v r3.Vec, strength float64) physics.FieldLaw {
		return &physics.HarmonicWell{Center: v, K: strength}
	}
	r.fields["drag"] = func(_ r3.Vec, strength float64) physics.FieldLaw {
		return &physics.LinearDrag{Gamma: strength}
	}

	return r
}

func (r *Registry) GetLaw(name string, strength, softening float64) (physics.PairLaw, error) {
	fn, ok := r.laws[name]
	if !ok {
		return nil, fmt.Errorf("unknown pair law %q: %w", name, dynamo.ErrInvalidConfig)
	}
	return fn(strength, softening), nil
}

func (r *Registry) GetField(name string, v r3.Vec, strength float64) (physics.FieldLaw, error) {
	fn, ok := r.fields[name]
	if !ok {
		return nil, fmt.Errorf("unknown field %q: %w", name, dynamo.ErrInvalidConfig)
	}
	return fn(v, strength), nil
}

func (r *Registry) GetMetric(name string) (sim.Metric, error) {
	fn, ok := r.metrics[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric %q: %w", name, dynamo.ErrInvalidConfig)
	}
	return fn(), nil
}

func (r *Registry) ListMethods() []string {
	ms := integrators.Methods()
	names := make([]string, len(ms))
	for i, m := range ms {
		names[i] = m.String()
	}
	return names
}

func (r *Registry) ListLaws() []string    { return sortedKeys(r.laws) }
func (r *Registry) ListFields() []string  { return sortedKeys(r.fields) }
func (r *Registry) ListMetrics() []string { return sortedKeys(r.metrics) }

// DefaultMetrics builds one of every registered metric.
func (r *Registry) DefaultMetrics() []sim.Metric {
	out := make([]sim.Metric, 0, len(r.metrics))
	for _, name := range r.ListMetrics() {
		out = append(out, r.metrics[name]())
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
