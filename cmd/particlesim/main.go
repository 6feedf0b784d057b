package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/san-kum/particlesim/internal/config"
)

var (
	dataDir     string
	env         config.Env
	configFile  string
	method      string
	dt          float64
	duration    float64
	interpolate bool
	noCollide   bool
	backward    bool
	trackError  bool
	particleID  string
	metricName  string
	params      []string
	parallelism int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "particlesim",
		Short: "particle sandbox with explicit runge-kutta integration",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			env, err = config.ParseEnv()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("data") {
				dataDir = env.DataDir
			}
			return nil
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "run a scene and store it",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScene,
	}
	sceneFlags(runCmd)
	runCmd.Flags().BoolVar(&backward, "backward", false, "integrate backwards in time")
	runCmd.Flags().BoolVar(&trackError, "error", false, "track the embedded error estimate")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot energy, error and a particle track",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&particleID, "particle", "", "particle whose x coordinate to plot")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "dominant oscillation frequency of a particle",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&particleID, "particle", "", "particle to analyse (default: first)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available scenes",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	compareCmd := &cobra.Command{
		Use:   "compare [preset] [method...]",
		Short: "run one scene under several schemes",
		Args:  cobra.MinimumNArgs(1),
		RunE:  compareMethods,
	}
	sceneFlags(compareCmd)
	compareCmd.Flags().IntVar(&parallelism, "jobs", 0, "concurrent runs (0 = unlimited)")

	convergeCmd := &cobra.Command{
		Use:   "converge [method...]",
		Short: "observed order of accuracy on the harmonic spring",
		RunE:  convergence,
	}
	convergeCmd.Flags().IntVar(&parallelism, "jobs", 0, "concurrent runs (0 = unlimited)")

	tuneCmd := &cobra.Command{
		Use:   "tune [preset]",
		Short: "grid search scene parameters against a metric",
		Args:  cobra.ExactArgs(1),
		RunE:  tuneScene,
	}
	tuneCmd.Flags().StringArrayVar(&params, "param", nil, "name=v1,v2,... (repeatable)")
	tuneCmd.Flags().StringVar(&metricName, "metric", "energy_drift", "metric to minimise")
	tuneCmd.Flags().IntVar(&parallelism, "jobs", 0, "concurrent runs (0 = unlimited)")

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCmd, analyzeCmd, presetsCmd, compareCmd, convergeCmd, tuneCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func sceneFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "scene file (yaml)")
	cmd.Flags().StringVar(&method, "method", "", "integration scheme")
	cmd.Flags().Float64Var(&dt, "dt", 0, "timestep")
	cmd.Flags().Float64Var(&duration, "time", 0, "duration")
	cmd.Flags().BoolVar(&interpolate, "interp", true, "interpolate collisions and wall hits")
	cmd.Flags().BoolVar(&noCollide, "no-collide", false, "disable collisions")
}
