package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/particlesim/internal/analysis"
	"github.com/san-kum/particlesim/internal/config"
	"github.com/san-kum/particlesim/internal/dynamo"
	"github.com/san-kum/particlesim/internal/experiment"
	"github.com/san-kum/particlesim/internal/integrators"
	"github.com/san-kum/particlesim/internal/optim"
	"github.com/san-kum/particlesim/internal/physics"
	"github.com/san-kum/particlesim/internal/report"
	"github.com/san-kum/particlesim/internal/sim"
)

var convergeSteps = []float64{0.04, 0.02, 0.01, 0.005}

func methodsFrom(args []string) ([]integrators.Method, error) {
	if len(args) == 0 {
		return integrators.Methods(), nil
	}
	out := make([]integrators.Method, 0, len(args))
	for _, a := range args {
		m, err := integrators.ParseMethod(a)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func compareMethods(cmd *cobra.Command, args []string) error {
	base, name, err := loadScene(cmd, args[:1])
	if err != nil {
		return err
	}
	methods, err := methodsFrom(args[1:])
	if err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	jobs := make([]sim.Job, len(methods))
	for i, m := range methods {
		cfg := *base
		cfg.Integrator.Method = m.String()
		cfg.Integrator.ErrorTracking = m.Embedded()
		jobs[i] = experiment.Job(m.String(), &cfg, registry)
	}

	fmt.Println(report.Title(fmt.Sprintf("%s: dt=%g, duration=%.2fs", name, base.Integrator.Dt, base.Duration)))
	start := time.Now()
	results, err := sim.Sweep(cmd.Context(), jobs, parallelism)
	if err != nil {
		return err
	}

	rows := make([][]string, len(results))
	for i, res := range results {
		errCol := "-"
		if methods[i].Embedded() {
			errCol = fmt.Sprintf("%.3e", res.CumulativeError)
		}
		rows[i] = []string{
			methods[i].String(),
			fmt.Sprint(methods[i].Tableau().Stages()),
			fmt.Sprintf("%.3e", res.EnergyDrift),
			errCol,
			fmt.Sprintf("%.3e", res.Metrics["momentum_drift"]),
			fmt.Sprint(len(res.Final().Particles)),
		}
	}
	fmt.Println(report.Table([]string{"method", "stages", "energy drift", "cum. error", "momentum drift", "particles"}, rows))
	fmt.Printf("wall time %v\n", time.Since(start))
	return nil
}

// convergence prints two order-of-accuracy tables on a harmonic spring: the
// schemes on their own, integrating the whole system state, and the particle
// pipeline, which advances the two endpoints one after the other.
func convergence(cmd *cobra.Command, args []string) error {
	methods, err := methodsFrom(args)
	if err != nil {
		return err
	}

	const k, horizon = 4.0, 2.0
	osc := physics.NewOscillator(k)
	w := math.Sqrt(k)
	x0 := dynamo.State{1, 0}
	exact := dynamo.State{math.Cos(w * horizon), -w * math.Sin(w*horizon)}

	rows := make([][]string, 0, len(methods))
	for _, m := range methods {
		errs := make([]float64, len(convergeSteps))
		for i, h := range convergeSteps {
			if errs[i], err = analysis.GlobalError(m.Tableau(), osc, x0, exact, horizon, h); err != nil {
				return err
			}
		}
		rows = append(rows, orderRow(m, errs))
	}
	fmt.Println(report.Title("scheme order: single harmonic oscillator"))
	fmt.Println(report.Table(orderHeaders(), rows))

	rows, err = sceneOrders(cmd, methods, horizon)
	if err != nil {
		return err
	}
	fmt.Println(report.Title("particle pipeline order: two masses on a spring"))
	fmt.Println(report.Table(orderHeaders(), rows))
	return nil
}

func sceneOrders(cmd *cobra.Command, methods []integrators.Method, horizon float64) ([][]string, error) {
	registry := experiment.NewRegistry()
	var jobs []sim.Job
	for _, m := range methods {
		for _, h := range convergeSteps {
			cfg := config.GetPreset("oscillator")
			cfg.Integrator = config.IntegratorConfig{Method: m.String(), Dt: h}
			cfg.Duration = horizon
			cfg.RecordEvery = int(math.Round(horizon / h))
			jobs = append(jobs, experiment.Job(fmt.Sprintf("%s@%g", m, h), cfg, registry))
		}
	}
	results, err := sim.Sweep(cmd.Context(), jobs, parallelism)
	if err != nil {
		return nil, err
	}

	ref := config.GetPreset("oscillator")
	s := ref.Springs[0]
	sep0 := r3.Norm(r3.Sub(ref.Particles[1].Pos.R3(), ref.Particles[0].Pos.R3()))
	// two unit masses: the separation oscillates at sqrt(2k)
	w := math.Sqrt(2 * s.Stiffness)

	rows := make([][]string, 0, len(methods))
	for i, m := range methods {
		errs := make([]float64, len(convergeSteps))
		for j := range convergeSteps {
			final := results[i*len(convergeSteps)+j].Final()
			sep := r3.Norm(r3.Sub(final.Particles[1].Pos, final.Particles[0].Pos))
			want := s.Length + (sep0-s.Length)*math.Cos(w*final.Time)
			errs[j] = math.Abs(sep - want)
		}
		rows = append(rows, orderRow(m, errs))
	}
	return rows, nil
}

func orderHeaders() []string {
	h := []string{"method", "nominal"}
	for _, dt := range convergeSteps {
		h = append(h, fmt.Sprintf("err@%g", dt))
	}
	return append(h, "observed", "r²")
}

func orderRow(m integrators.Method, errs []float64) []string {
	row := []string{m.String(), fmt.Sprint(m.Tableau().Order)}
	for _, e := range errs {
		row = append(row, fmt.Sprintf("%.2e", e))
	}
	order, r2, err := analysis.ObservedOrder(convergeSteps, errs)
	if err != nil {
		return append(row, "n/a", "n/a")
	}
	ok := math.Abs(order-float64(m.Tableau().Order)) < 0.5
	return append(row, report.Verdict(fmt.Sprintf("%.2f", order), ok), fmt.Sprintf("%.4f", r2))
}

func tuneScene(cmd *cobra.Command, args []string) error {
	if _, _, err := loadScene(cmd, args); err != nil {
		return err
	}
	if len(params) == 0 {
		return fmt.Errorf("give at least one --param (known: %v)", optim.Knobs())
	}

	names := make([]string, len(params))
	ranges := make([][]float64, len(params))
	for i, p := range params {
		name, list, ok := strings.Cut(p, "=")
		if !ok {
			return fmt.Errorf("bad --param %q, want name=v1,v2", p)
		}
		names[i] = name
		for _, field := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return fmt.Errorf("bad value in --param %q: %w", p, err)
			}
			ranges[i] = append(ranges[i], v)
		}
	}

	g, err := optim.NewGridSearch(names, ranges)
	if err != nil {
		return err
	}
	base := func() *config.Config {
		cfg, _, _ := loadScene(cmd, args)
		return cfg
	}
	best, points, err := g.Search(cmd.Context(), base, experiment.NewRegistry(), metricName, parallelism)
	if err != nil {
		return err
	}

	rows := make([][]string, len(points))
	for i, pt := range points {
		row := make([]string, 0, len(names)+1)
		for _, n := range names {
			row = append(row, fmt.Sprintf("%g", pt.Params[n]))
		}
		rows[i] = append(row, fmt.Sprintf("%.4e", pt.Value))
	}
	fmt.Println(report.Title(fmt.Sprintf("%s: minimising %s", args[0], metricName)))
	fmt.Println(report.Table(append(names, metricName), rows))
	fmt.Printf("best: %v -> %.4e\n", best.Params, best.Value)
	return nil
}
