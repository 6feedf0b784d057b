package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/particlesim/internal/analysis"
	"github.com/san-kum/particlesim/internal/config"
	"github.com/san-kum/particlesim/internal/experiment"
	"github.com/san-kum/particlesim/internal/report"
	"github.com/san-kum/particlesim/internal/sim"
	"github.com/san-kum/particlesim/internal/storage"
)

func runScene(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadScene(cmd, args)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	exp, err := experiment.New(cfg, registry)
	if err != nil {
		return err
	}
	exp.Setup(registry.DefaultMetrics())

	fmt.Printf("running %s (%d particles, %s, dt=%g)...\n",
		name, len(cfg.Particles), cfg.Integrator.Method, cfg.Integrator.Dt)
	start := time.Now()

	ctx, stop := signalContext(cmd.Context())
	defer stop()
	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	collisions := "off"
	if cfg.Collisions.Enabled {
		collisions = cfg.Collisions.Mode
	}
	runID, err := st.Save(storage.RunMetadata{
		Scene:         name,
		Dim:           cfg.Dim,
		Method:        cfg.Integrator.Method,
		Dt:            cfg.Integrator.Dt,
		Duration:      cfg.Duration,
		ErrorTracking: cfg.Integrator.ErrorTracking,
		Collisions:    collisions,
	}, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d, particles left: %d\n", result.StepsTaken, len(exp.Environment().Particles()))
	fmt.Printf("energy drift: %.3e\n", result.EnergyDrift)
	if cfg.Integrator.ErrorTracking {
		fmt.Printf("cumulative error: %.3e\n", result.CumulativeError)
	}
	fmt.Println("\nmetrics:")
	fmt.Print(report.KeyValues(result.Metrics))
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENE\tTIME\tDURATION\tDT\tMETHOD\tCOLLISIONS\tDRIFT")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%s\t%s\t%.2e\n",
			run.ID,
			run.Scene,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Method,
			run.Collisions,
			run.EnergyDrift,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, frames, err := loadRun(st, args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scene: %s (%s, dt=%g)\n", meta.Scene, meta.Method, meta.Dt)
	fmt.Printf("samples: %d\n\n", len(frames))

	energy := make([]float64, len(frames))
	errs := make([]float64, len(frames))
	for i, f := range frames {
		energy[i] = f.Energy
		errs[i] = f.Error
	}
	fmt.Println(report.Plot("total energy", energy, 80, 10))
	fmt.Println()
	if meta.ErrorTracking {
		fmt.Println(report.Plot("step error estimate", errs, 80, 10))
		fmt.Println()
	}

	if particleID != "" {
		track, err := particleSeries(frames, particleID)
		if err != nil {
			return err
		}
		fmt.Println(report.Plot(particleID+" x", track, 80, 10))
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, frames, err := loadRun(st, args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, *meta, frames)
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, frames, err := loadRun(st, args[0])
	if err != nil {
		return err
	}
	if len(frames) < 2 {
		return fmt.Errorf("run %s has too few frames to analyse", meta.ID)
	}

	id := particleID
	if id == "" {
		id = frames[0].Particles[0].ID
	}
	track, err := particleSeries(frames, id)
	if err != nil {
		return err
	}
	interval := frames[1].Time - frames[0].Time
	if interval < 0 {
		interval = -interval
	}
	freq, err := analysis.DominantFrequency(track, interval)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("particle: %s\n", id)
	fmt.Printf("sample interval: %gs over %d frames\n", interval, len(frames))
	fmt.Printf("dominant frequency: %.4f Hz (period %.4fs)\n", freq, 1/freq)
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	rows := make([][]string, 0)
	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		collisions := "off"
		if cfg.Collisions.Enabled {
			collisions = cfg.Collisions.Mode
		}
		rows = append(rows, []string{
			name,
			cfg.Dim,
			fmt.Sprint(len(cfg.Particles)),
			cfg.Integrator.Method,
			fmt.Sprintf("%g", cfg.Integrator.Dt),
			fmt.Sprintf("%.2f", cfg.Duration),
			collisions,
		})
	}
	fmt.Println(report.Table([]string{"preset", "dim", "particles", "method", "dt", "duration", "collisions"}, rows))
	return nil
}

func loadRun(st *storage.Store, runID string) (*storage.RunMetadata, []sim.Frame, error) {
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	frames, err := st.LoadStates(runID)
	if err != nil {
		return nil, nil, err
	}
	if len(frames) == 0 {
		return nil, nil, fmt.Errorf("no data in run %s", runID)
	}
	return meta, frames, nil
}

// particleSeries extracts the x coordinate of one particle. Frames recorded
// after the particle was merged away end the series.
func particleSeries(frames []sim.Frame, id string) ([]float64, error) {
	var out []float64
	for _, f := range frames {
		found := false
		for _, p := range f.Particles {
			if p.ID == id {
				out = append(out, p.Pos.X)
				found = true
				break
			}
		}
		if !found {
			break
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("particle %q not in run", id)
	}
	return out, nil
}

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt)
}
