package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/particlesim/internal/config"
	"github.com/san-kum/particlesim/internal/contact"
	"github.com/san-kum/particlesim/internal/dynamo"
	"github.com/san-kum/particlesim/internal/integrators"
	"github.com/san-kum/particlesim/internal/physics"
	"github.com/san-kum/particlesim/internal/sim"
)

// Experiment is a scene built from a config, ready to run.
type Experiment struct {
	cfg       *config.Config
	env       *sim.Environment
	simulator *sim.Simulator
	byID      map[string]*physics.Particle
}

// New validates cfg and builds its environment: particles first, then the
// force contributors that reference them, then the collision and wall
// stages.
func New(cfg *config.Config, reg *Registry) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	dim, err := dynamo.ParseDim(cfg.Dim)
	if err != nil {
		return nil, err
	}
	method, err := integrators.ParseMethod(cfg.Integrator.Method)
	if err != nil {
		return nil, err
	}

	env := sim.NewEnvironment(dim)
	env.SetIntegrator(integrators.New(method, cfg.Integrator.Dt).SetErrorTracking(cfg.Integrator.ErrorTracking))
	if cfg.LengthUnit > 0 {
		if err := env.SetLengthUnit(cfg.LengthUnit); err != nil {
			return nil, err
		}
	}

	e := &Experiment{
		cfg:  cfg,
		env:  env,
		byID: make(map[string]*physics.Particle, len(cfg.Particles)),
	}
	for _, pc := range cfg.Particles {
		p := newParticle(pc)
		e.byID[p.ID] = p
		env.Add(p)
	}

	for _, ic := range cfg.Interactions {
		law, err := reg.GetLaw(ic.Law, ic.Strength, ic.Softening)
		if err != nil {
			return nil, err
		}
		in := physics.NewInteraction(ic.ID, law).SetIncludeOnAdd(len(ic.Members) == 0)
		if err := env.AddInteraction(in, e.lookup(ic.Members)...); err != nil {
			return nil, err
		}
	}
	for _, xc := range cfg.Externals {
		law, err := reg.GetField(xc.Law, xc.Vector.R3(), xc.Strength)
		if err != nil {
			return nil, err
		}
		ex := physics.NewExternal(xc.ID, law).SetIncludeOnAdd(len(xc.Members) == 0)
		if err := env.AddExternal(ex, e.lookup(xc.Members)...); err != nil {
			return nil, err
		}
	}
	for _, sc := range cfg.Springs {
		terms, decay := sc.Terms, sc.Decay
		if terms == 0 {
			terms = physics.DefaultTerms
		}
		if decay == 0 {
			decay = physics.DefaultDecay
		}
		s := physics.NewSpring(e.byID[sc.A], e.byID[sc.B], sc.Stiffness, sc.Length, terms, decay)
		s.Damping = sc.Damping
		if err := env.AddSpring(s); err != nil {
			return nil, err
		}
	}

	if cfg.Collisions.Enabled {
		mode, err := contact.ParseMode(cfg.Collisions.Mode)
		if err != nil {
			return nil, err
		}
		c := contact.NewCollider()
		c.Mode = mode
		c.Elasticity = cfg.Collisions.Elasticity
		c.Glide = cfg.Collisions.Glide
		c.Interpolate = cfg.Collisions.Interpolate
		env.SetCollider(c)
	}
	if cfg.Bounds.Enabled {
		size := cfg.Bounds.Size.R3()
		b := contact.NewBoundaries(size.X, size.Y, size.Z)
		b.Center = cfg.Bounds.Center.R3()
		b.Elasticity = cfg.Bounds.Elasticity
		b.Glide = cfg.Bounds.Glide
		b.Interpolate = cfg.Bounds.Interpolate
		env.SetBounds(b)
	}

	e.simulator = sim.New(env)
	return e, nil
}

func newParticle(pc config.ParticleConfig) *physics.Particle {
	var p *physics.Particle
	if pc.Mass > 0 {
		p = physics.NewParticleWithMass(pc.Pos.R3(), pc.Vel.R3(), pc.Mass, pc.Charge, pc.Radius)
	} else {
		p = physics.NewParticle(pc.Pos.R3(), pc.Vel.R3(), pc.MassDensity, pc.ChargeDensity, pc.Radius)
	}
	if pc.ID != "" {
		p.ID = pc.ID
	}
	return p.SetLabel(pc.Label).SetActive(!pc.Inactive).SetDynamic(!pc.Static)
}

func (e *Experiment) lookup(ids []string) []*physics.Particle {
	pts := make([]*physics.Particle, 0, len(ids))
	for _, id := range ids {
		pts = append(pts, e.byID[id])
	}
	return pts
}

// Setup attaches metrics to the simulator.
func (e *Experiment) Setup(metrics []sim.Metric) {
	for _, m := range metrics {
		e.simulator.AddMetric(m)
	}
}

// SimConfig is the run configuration the scene asks for.
func (e *Experiment) SimConfig() sim.Config { return simConfig(e.cfg) }

func simConfig(cfg *config.Config) sim.Config {
	dir := dynamo.Forward
	if cfg.Backward {
		dir = dynamo.Backward
	}
	return sim.Config{
		Duration:      cfg.Duration,
		Direction:     dir,
		RecordEvery:   cfg.RecordEvery,
		ValidateState: true,
	}
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not set up: %w", dynamo.ErrInvalidState)
	}
	return e.simulator.Run(ctx, e.SimConfig())
}

func (e *Experiment) Simulator() *sim.Simulator    { return e.simulator }
func (e *Experiment) Environment() *sim.Environment { return e.env }
func (e *Experiment) Config() *config.Config        { return e.cfg }

// Particle looks up a particle by its configured id.
func (e *Experiment) Particle(id string) (*physics.Particle, error) {
	p, ok := e.byID[id]
	if !ok {
		return nil, fmt.Errorf("particle %q: %w", id, dynamo.ErrNotFound)
	}
	return p, nil
}

// Job wraps the config as a sweep job. Every Build call constructs a fresh
// scene.
func Job(name string, cfg *config.Config, reg *Registry) sim.Job {
	return sim.Job{
		Name: name,
		Build: func() (*sim.Simulator, error) {
			e, err := New(cfg, reg)
			if err != nil {
				return nil, err
			}
			e.Setup(reg.DefaultMetrics())
			return e.Simulator(), nil
		},
		Config: simConfig(cfg),
	}
}
