package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/particlesim/internal/config"
)

// loadScene resolves the scene from a preset name or --config, then applies
// PARTICLESIM_* overrides and finally any flags given on the command line.
func loadScene(cmd *cobra.Command, args []string) (*config.Config, string, error) {
	var (
		cfg  *config.Config
		name string
	)
	switch {
	case configFile != "":
		c, err := config.Load(configFile)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load config: %w", err)
		}
		cfg = c
		name = strings.TrimSuffix(filepath.Base(configFile), filepath.Ext(configFile))
	case len(args) > 0:
		cfg = config.GetPreset(args[0])
		if cfg == nil {
			return nil, "", fmt.Errorf("unknown preset: %s (available: %v)", args[0], config.ListPresets())
		}
		name = args[0]
	default:
		return nil, "", fmt.Errorf("give a preset name or --config (presets: %v)", config.ListPresets())
	}

	cfg.ApplyEnv(env)

	flags := cmd.Flags()
	if flags.Changed("method") {
		cfg.Integrator.Method = method
	}
	if flags.Changed("dt") {
		cfg.Integrator.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("interp") {
		cfg.Collisions.Interpolate = interpolate
		cfg.Bounds.Interpolate = interpolate
	}
	if noCollide {
		cfg.Collisions.Enabled = false
	}
	if flags.Changed("backward") {
		cfg.Backward = backward
	}
	if flags.Changed("error") {
		cfg.Integrator.ErrorTracking = trackError
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return cfg, name, nil
}
