package config

import (
	"fmt"
	"math"
	"sort"
)

var presets = map[string]func() *Config{
	"head_on":    headOn,
	"cradle":     cradle,
	"orbit":      orbit,
	"box_gas":    boxGas,
	"oscillator": oscillator,
	"merge":      mergeScene,
}

// GetPreset returns a fresh copy of the named scene, or nil.
func GetPreset(name string) *Config {
	build, ok := presets[name]
	if !ok {
		return nil
	}
	return build()
}

func ListPresets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func headOn() *Config {
	cfg := DefaultConfig()
	cfg.Dim = "2d"
	cfg.Duration = 4
	cfg.Collisions.Enabled = true
	cfg.Particles = []ParticleConfig{
		{ID: "left", Pos: Vec{-2, 0}, Vel: Vec{1, 0}, Radius: 0.5, Mass: 1},
		{ID: "right", Pos: Vec{2, 0}, Vel: Vec{-1, 0}, Radius: 0.5, Mass: 1},
	}
	return cfg
}

// cradle lines up resting balls with a small gap and strikes the row from
// the left.
func cradle() *Config {
	cfg := DefaultConfig()
	cfg.Dim = "2d"
	cfg.Duration = 6
	cfg.Collisions.Enabled = true
	cfg.Particles = []ParticleConfig{
		{ID: "striker", Pos: Vec{-4, 0}, Vel: Vec{2, 0}, Radius: 0.5, Mass: 1},
	}
	for i := 0; i < 4; i++ {
		cfg.Particles = append(cfg.Particles, ParticleConfig{
			ID:     fmt.Sprintf("ball%d", i),
			Pos:    Vec{float64(i) * 1.01, 0},
			Radius: 0.5,
			Mass:   1,
		})
	}
	return cfg
}

// orbit puts a light planet on a circular orbit around a static sun.
func orbit() *Config {
	const sunMass, r = 1000.0, 10.0
	cfg := DefaultConfig()
	cfg.Dim = "2d"
	cfg.Duration = 2 * math.Pi * r / math.Sqrt(sunMass/r)
	cfg.Integrator = IntegratorConfig{Method: "rk6", Dt: 0.001}
	cfg.RecordEvery = 50
	cfg.Particles = []ParticleConfig{
		{ID: "sun", Pos: Vec{0, 0}, Radius: 1, Mass: sunMass, Static: true},
		{ID: "planet", Pos: Vec{r, 0}, Vel: Vec{0, math.Sqrt(sunMass / r)}, Radius: 0.2, Mass: 1},
	}
	cfg.Interactions = []InteractionConfig{
		{ID: "gravity", Law: "gravity", Strength: 1, Softening: 0},
	}
	return cfg
}

// boxGas fills a walled box with a deterministic lattice of moving discs.
func boxGas() *Config {
	cfg := DefaultConfig()
	cfg.Dim = "2d"
	cfg.Duration = 20
	cfg.Integrator.Method = "euler"
	cfg.Collisions.Enabled = true
	cfg.Bounds.Enabled = true
	cfg.Bounds.Size = Vec{10, 10}
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			n := float64(4*i + j)
			cfg.Particles = append(cfg.Particles, ParticleConfig{
				ID:     fmt.Sprintf("g%d", 4*i+j),
				Pos:    Vec{-3.75 + 2.5*float64(i), -3.75 + 2.5*float64(j)},
				Vel:    Vec{math.Cos(n), math.Sin(n)},
				Radius: 0.3,
				Mass:   1,
			})
		}
	}
	return cfg
}

// oscillator is a single spring between two free masses.
func oscillator() *Config {
	cfg := DefaultConfig()
	cfg.Duration = 20
	cfg.Integrator.ErrorTracking = true
	cfg.Integrator.Method = "dopri45"
	cfg.Particles = []ParticleConfig{
		{ID: "a", Pos: Vec{-1.5, 0, 0}, Radius: 0.2, Mass: 1},
		{ID: "b", Pos: Vec{1.5, 0, 0}, Radius: 0.2, Mass: 1},
	}
	cfg.Springs = []SpringConfig{
		{A: "a", B: "b", Stiffness: 4, Length: 2},
	}
	return cfg
}

// mergeScene drops two gravitating bodies onto each other until they fuse.
func mergeScene() *Config {
	cfg := DefaultConfig()
	cfg.Dim = "2d"
	cfg.Duration = 5
	cfg.Collisions.Enabled = true
	cfg.Collisions.Mode = "merge"
	cfg.Particles = []ParticleConfig{
		{ID: "big", Pos: Vec{0, 0}, Radius: 1, Mass: 10},
		{ID: "small", Pos: Vec{4, 0}, Vel: Vec{0, 0.5}, Radius: 0.5, Mass: 1},
	}
	cfg.Interactions = []InteractionConfig{
		{ID: "gravity", Law: "gravity", Strength: 1, Softening: 0.01},
	}
	return cfg
}
