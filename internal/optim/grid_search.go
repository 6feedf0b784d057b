package optim

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/particlesim/internal/config"
	"github.com/san-kum/particlesim/internal/dynamo"
	"github.com/san-kum/particlesim/internal/experiment"
	"github.com/san-kum/particlesim/internal/sim"
)

// Knob writes one tunable value into a scene config.
type Knob func(cfg *config.Config, v float64)

var knobs = map[string]Knob{
	"dt":              func(c *config.Config, v float64) { c.Integrator.Dt = v },
	"duration":        func(c *config.Config, v float64) { c.Duration = v },
	"elasticity":      func(c *config.Config, v float64) { c.Collisions.Elasticity = v },
	"glide":           func(c *config.Config, v float64) { c.Collisions.Glide = v },
	"wall_elasticity": func(c *config.Config, v float64) { c.Bounds.Elasticity = v },
	"wall_glide":      func(c *config.Config, v float64) { c.Bounds.Glide = v },
}

// Knobs lists the tunable parameter names.
func Knobs() []string {
	names := make([]string, 0, len(knobs))
	for name := range knobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("%d parameters for %d ranges: %w", len(params), len(ranges), dynamo.ErrInvalidConfig)
	}
	for i, name := range params {
		if _, ok := knobs[name]; !ok {
			return nil, fmt.Errorf("unknown parameter %q: %w", name, dynamo.ErrInvalidConfig)
		}
		if len(ranges[i]) == 0 {
			return nil, fmt.Errorf("parameter %q has no values: %w", name, dynamo.ErrInvalidConfig)
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// Point is one evaluated combination of the grid.
type Point struct {
	Params map[string]float64
	Value  float64
}

// Search evaluates every grid point on a copy of base, at most limit scenes
// at a time, and returns the point that minimises the named metric along
// with all evaluated points in grid order.
func (g *GridSearch) Search(
	ctx context.Context,
	base func() *config.Config,
	reg *experiment.Registry,
	metricName string,
	limit int,
) (Point, []Point, error) {
	if _, err := reg.GetMetric(metricName); err != nil {
		return Point{}, nil, err
	}

	var grid []map[string]float64
	g.enumerate(0, make(map[string]float64), &grid)

	jobs := make([]sim.Job, len(grid))
	for i, params := range grid {
		cfg := base()
		for name, v := range params {
			knobs[name](cfg, v)
		}
		jobs[i] = experiment.Job(fmt.Sprint(params), cfg, reg)
	}

	results, err := sim.Sweep(ctx, jobs, limit)
	if err != nil {
		return Point{}, nil, err
	}

	best := Point{Value: math.Inf(1)}
	points := make([]Point, len(grid))
	for i, res := range results {
		points[i] = Point{Params: grid[i], Value: res.Metrics[metricName]}
		if points[i].Value < best.Value {
			best = points[i]
		}
	}
	return best, points, nil
}

func (g *GridSearch) enumerate(depth int, current map[string]float64, out *[]map[string]float64) {
	if depth == len(g.paramNames) {
		params := make(map[string]float64, len(current))
		for k, v := range current {
			params[k] = v
		}
		*out = append(*out, params)
		return
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		current[paramName] = val
		g.enumerate(depth+1, current, out)
	}
}
