package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/particlesim/internal/contact"
	"github.com/san-kum/particlesim/internal/dynamo"
	"github.com/san-kum/particlesim/internal/integrators"
)

const (
	DefaultDt          = integrators.DefaultDt
	DefaultDuration    = 10.0
	DefaultMethod      = "rk4"
	DefaultRecordEvery = 10
	DefaultDataDir     = "./data"
)

// Config describes a scene: its particles, their force contributors and the
// step pipeline that advances them.
type Config struct {
	Dim          string              `yaml:"dim"`
	Integrator   IntegratorConfig    `yaml:"integrator"`
	Duration     float64             `yaml:"duration"`
	Backward     bool                `yaml:"backward,omitempty"`
	RecordEvery  int                 `yaml:"record_every"`
	LengthUnit   float64             `yaml:"length_unit,omitempty"`
	Bounds       BoundsConfig        `yaml:"bounds"`
	Collisions   CollisionConfig     `yaml:"collisions"`
	Particles    []ParticleConfig    `yaml:"particles"`
	Springs      []SpringConfig      `yaml:"springs,omitempty"`
	Interactions []InteractionConfig `yaml:"interactions,omitempty"`
	Externals    []ExternalConfig    `yaml:"externals,omitempty"`
}

type IntegratorConfig struct {
	Method        string  `yaml:"method"`
	Dt            float64 `yaml:"dt"`
	ErrorTracking bool    `yaml:"error_tracking"`
}

type BoundsConfig struct {
	Enabled     bool    `yaml:"enabled"`
	Center      Vec     `yaml:"center,flow,omitempty"`
	Size        Vec     `yaml:"size,flow"`
	Elasticity  float64 `yaml:"elasticity"`
	Glide       float64 `yaml:"glide"`
	Interpolate bool    `yaml:"interpolate"`
}

type CollisionConfig struct {
	Enabled     bool    `yaml:"enabled"`
	Mode        string  `yaml:"mode"`
	Elasticity  float64 `yaml:"elasticity"`
	Glide       float64 `yaml:"glide"`
	Interpolate bool    `yaml:"interpolate"`
}

// ParticleConfig sets either Mass/Charge directly or the densities; an
// explicit Mass wins.
type ParticleConfig struct {
	ID            string  `yaml:"id,omitempty"`
	Label         string  `yaml:"label,omitempty"`
	Pos           Vec     `yaml:"pos,flow"`
	Vel           Vec     `yaml:"vel,flow,omitempty"`
	Radius        float64 `yaml:"radius"`
	Mass          float64 `yaml:"mass,omitempty"`
	Charge        float64 `yaml:"charge,omitempty"`
	MassDensity   float64 `yaml:"mass_density,omitempty"`
	ChargeDensity float64 `yaml:"charge_density,omitempty"`
	Static        bool    `yaml:"static,omitempty"`
	Inactive      bool    `yaml:"inactive,omitempty"`
}

// SpringConfig links two particles by id.
type SpringConfig struct {
	A         string  `yaml:"a"`
	B         string  `yaml:"b"`
	Stiffness float64 `yaml:"stiffness"`
	Length    float64 `yaml:"length"`
	Terms     int     `yaml:"terms,omitempty"`
	Decay     int     `yaml:"decay,omitempty"`
	Damping   float64 `yaml:"damping,omitempty"`
}

// InteractionConfig names a pair law. Members lists particle ids; an empty
// list means every particle, including ones added later.
type InteractionConfig struct {
	ID        string   `yaml:"id"`
	Law       string   `yaml:"law"`
	Strength  float64  `yaml:"strength,omitempty"`
	Softening float64  `yaml:"softening,omitempty"`
	Members   []string `yaml:"members,omitempty,flow"`
}

// ExternalConfig names a field law. Vector is the field for "uniform" and the
// centre for "well".
type ExternalConfig struct {
	ID       string   `yaml:"id"`
	Law      string   `yaml:"law"`
	Vector   Vec      `yaml:"vector,flow,omitempty"`
	Strength float64  `yaml:"strength,omitempty"`
	Members  []string `yaml:"members,omitempty,flow"`
}

// Vec is a point written as a YAML sequence of up to three numbers. Missing
// components are zero.
type Vec []float64

func (v Vec) R3() r3.Vec {
	var out r3.Vec
	if len(v) > 0 {
		out.X = v[0]
	}
	if len(v) > 1 {
		out.Y = v[1]
	}
	if len(v) > 2 {
		out.Z = v[2]
	}
	return out
}

func DefaultConfig() *Config {
	return &Config{
		Dim: "3d",
		Integrator: IntegratorConfig{
			Method: DefaultMethod,
			Dt:     DefaultDt,
		},
		Duration:    DefaultDuration,
		RecordEvery: DefaultRecordEvery,
		LengthUnit:  1,
		Bounds: BoundsConfig{
			Size:        Vec{10, 10, 10},
			Elasticity:  1,
			Glide:       1,
			Interpolate: true,
		},
		Collisions: CollisionConfig{
			Mode:        contact.Bounce.String(),
			Elasticity:  1,
			Glide:       1,
			Interpolate: true,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks everything that can be checked without building the scene.
// Law names are resolved by the experiment registry.
func (c *Config) Validate() error {
	dim, err := dynamo.ParseDim(c.Dim)
	if err != nil {
		return err
	}
	if _, err := integrators.ParseMethod(c.Integrator.Method); err != nil {
		return err
	}
	if c.Integrator.Dt <= 0 {
		return invalid("dt must be positive, got %g", c.Integrator.Dt)
	}
	if c.Duration <= 0 {
		return invalid("duration must be positive, got %g", c.Duration)
	}
	if c.RecordEvery < 0 {
		return invalid("record_every must not be negative, got %d", c.RecordEvery)
	}
	if c.LengthUnit < 0 {
		return invalid("length_unit must not be negative, got %g", c.LengthUnit)
	}
	if c.Bounds.Enabled {
		s := c.Bounds.Size.R3()
		if s.X <= 0 || s.Y <= 0 || (dim == dynamo.Three && s.Z <= 0) {
			return invalid("bounds size must be positive, got %v", c.Bounds.Size)
		}
	}
	if _, err := contact.ParseMode(c.Collisions.Mode); err != nil {
		return err
	}

	ids := make(map[string]bool, len(c.Particles))
	for i, p := range c.Particles {
		if p.Radius <= 0 {
			return invalid("particle %d: radius must be positive, got %g", i, p.Radius)
		}
		if p.Mass < 0 || p.MassDensity < 0 {
			return invalid("particle %d: mass must not be negative", i)
		}
		if p.ID == "" {
			continue
		}
		if ids[p.ID] {
			return invalid("duplicate particle id %q", p.ID)
		}
		ids[p.ID] = true
	}

	for i, s := range c.Springs {
		if s.A == s.B {
			return invalid("spring %d: endpoints must differ", i)
		}
		if !ids[s.A] || !ids[s.B] {
			return invalid("spring %d: unknown endpoint %q or %q", i, s.A, s.B)
		}
		if s.Stiffness < 0 || s.Length < 0 || s.Terms < 0 || s.Decay < 0 {
			return invalid("spring %d: parameters must not be negative", i)
		}
	}

	for _, in := range c.Interactions {
		if err := checkMembers(in.ID, in.Members, ids); err != nil {
			return err
		}
	}
	for _, ex := range c.Externals {
		if err := checkMembers(ex.ID, ex.Members, ids); err != nil {
			return err
		}
	}
	return nil
}

func checkMembers(owner string, members []string, ids map[string]bool) error {
	if owner == "" {
		return invalid("force contributor without id")
	}
	for _, m := range members {
		if !ids[m] {
			return invalid("%s: unknown member %q", owner, m)
		}
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, dynamo.ErrInvalidConfig)...)
}

// Env holds the PARTICLESIM_* overrides. Zero values leave the scene alone.
type Env struct {
	Dt       float64 `env:"DT"`
	Method   string  `env:"METHOD"`
	Duration float64 `env:"DURATION"`
	DataDir  string  `env:"DATA" envDefault:"./data"`
}

func ParseEnv() (Env, error) {
	var e Env
	if err := env.ParseWithOptions(&e, env.Options{Prefix: "PARTICLESIM_"}); err != nil {
		return Env{}, fmt.Errorf("parse env: %w", err)
	}
	return e, nil
}

// ApplyEnv overrides the scene's step settings with the non-zero fields of e.
func (c *Config) ApplyEnv(e Env) {
	if e.Dt > 0 {
		c.Integrator.Dt = e.Dt
	}
	if e.Method != "" {
		c.Integrator.Method = e.Method
	}
	if e.Duration > 0 {
		c.Duration = e.Duration
	}
}
