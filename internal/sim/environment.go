package sim

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/particlesim/internal/contact"
	"github.com/san-kum/particlesim/internal/dynamo"
	"github.com/san-kum/particlesim/internal/integrators"
	"github.com/san-kum/particlesim/internal/physics"
)

// Environment owns the particles and force contributors of one simulation.
// Particles and contributors reference each other; every structural change
// goes through the environment so that both sides stay in sync. Structural
// changes must not be made while Step is running.
type Environment struct {
	particles    []*physics.Particle
	interactions []*physics.Interaction
	externals    []*physics.External
	springs      []*physics.Spring
	groups       map[string][]*physics.Particle

	dim        dynamo.Dim
	lengthUnit float64

	integrator *integrators.Integrator
	collider   *contact.Collider
	bounds     *contact.Boundaries
}

// NewEnvironment creates an empty environment with the default integrator and
// neither collisions nor walls.
func NewEnvironment(dim dynamo.Dim) *Environment {
	if !dim.Valid() {
		dim = dynamo.Three
	}
	return &Environment{
		groups:     make(map[string][]*physics.Particle),
		dim:        dim,
		lengthUnit: 1,
		integrator: integrators.NewDefault(),
	}
}

func (e *Environment) Dim() dynamo.Dim                      { return e.dim }
func (e *Environment) Particles() []*physics.Particle       { return e.particles }
func (e *Environment) Interactions() []*physics.Interaction { return e.interactions }
func (e *Environment) Externals() []*physics.External       { return e.externals }
func (e *Environment) Springs() []*physics.Spring           { return e.springs }
func (e *Environment) Integrator() *integrators.Integrator  { return e.integrator }
func (e *Environment) Collider() *contact.Collider          { return e.collider }
func (e *Environment) Bounds() *contact.Boundaries          { return e.bounds }
func (e *Environment) LengthUnit() float64                  { return e.lengthUnit }

func (e *Environment) SetIntegrator(in *integrators.Integrator) { e.integrator = in }

// SetCollider installs the collision resolver; nil disables collisions.
func (e *Environment) SetCollider(c *contact.Collider) { e.collider = c }

// SetBounds installs the walls; nil leaves space unbounded.
func (e *Environment) SetBounds(b *contact.Boundaries) { e.bounds = b }

// SetDim switches the environment and every particle between 2-D and 3-D.
func (e *Environment) SetDim(d dynamo.Dim) error {
	if !d.Valid() {
		return fmt.Errorf("dimension %d: %w", int(d), dynamo.ErrInvalidConfig)
	}
	e.dim = d
	for _, p := range e.particles {
		p.SetDim(d)
	}
	return nil
}

// SetLengthUnit changes the length normalisation of every spring's
// stiffening series.
func (e *Environment) SetLengthUnit(f float64) error {
	if !(f > 0) {
		return fmt.Errorf("length unit %g must be positive: %w", f, dynamo.ErrParameterBounds)
	}
	e.lengthUnit = f
	for _, s := range e.springs {
		s.LengthUnitFactor = f
	}
	return nil
}

func (e *Environment) Contains(p *physics.Particle) bool {
	return indexOf(e.particles, p) >= 0
}

// Add appends particles, adopting the environment's dimensionality and
// joining every contributor flagged include-on-add.
func (e *Environment) Add(pts ...*physics.Particle) *Environment {
	for _, p := range pts {
		if e.Contains(p) {
			continue
		}
		p.SetDim(e.dim)
		e.particles = append(e.particles, p)
		for _, in := range e.interactions {
			if in.IncludeOnAdd() {
				physics.Join(p, in)
			}
		}
		for _, ex := range e.externals {
			if ex.IncludeOnAdd() {
				physics.JoinExternal(p, ex)
			}
		}
	}
	return e
}

// Remove detaches p from every contributor, deletes its springs, drops it
// from its groups and finally from the environment.
func (e *Environment) Remove(p *physics.Particle) error {
	i := indexOf(e.particles, p)
	if i < 0 {
		return fmt.Errorf("particle %s: %w", p.ID, dynamo.ErrNotFound)
	}
	for _, in := range append([]*physics.Interaction(nil), p.Interactions()...) {
		physics.Leave(p, in)
	}
	for _, ex := range append([]*physics.External(nil), p.Externals()...) {
		physics.LeaveExternal(p, ex)
	}
	for _, s := range append([]*physics.Spring(nil), p.Springs()...) {
		e.RemoveSpring(s)
	}
	for label, members := range e.groups {
		if j := indexOf(members, p); j >= 0 {
			e.groups[label] = append(members[:j:j], members[j+1:]...)
		}
	}
	e.particles = append(e.particles[:i:i], e.particles[i+1:]...)
	return nil
}

// AddInteraction registers in and joins the given particles to it. With
// IncludeOnAdd set, every particle already in the environment joins as well.
func (e *Environment) AddInteraction(in *physics.Interaction, pts ...*physics.Particle) error {
	if indexOf(e.interactions, in) < 0 {
		e.interactions = append(e.interactions, in)
	}
	if in.IncludeOnAdd() {
		pts = e.particles
	}
	for _, p := range pts {
		if err := e.Implement(p, in); err != nil {
			return err
		}
	}
	return nil
}

// Implement joins p to a registered interaction.
func (e *Environment) Implement(p *physics.Particle, in *physics.Interaction) error {
	if !e.Contains(p) {
		return fmt.Errorf("particle %s: %w", p.ID, dynamo.ErrNotFound)
	}
	if indexOf(e.interactions, in) < 0 {
		return fmt.Errorf("interaction %q: %w", in.ID(), dynamo.ErrNotFound)
	}
	physics.Join(p, in)
	return nil
}

// Neglect removes p from in on both sides.
func (e *Environment) Neglect(p *physics.Particle, in *physics.Interaction) {
	physics.Leave(p, in)
}

func (e *Environment) RemoveInteraction(in *physics.Interaction) {
	for _, p := range append([]*physics.Particle(nil), in.Members()...) {
		physics.Leave(p, in)
	}
	e.interactions = without(e.interactions, in)
}

// Interaction looks up a registered interaction by id.
func (e *Environment) Interaction(id string) (*physics.Interaction, error) {
	for _, in := range e.interactions {
		if in.ID() == id {
			return in, nil
		}
	}
	return nil, fmt.Errorf("interaction %q: %w", id, dynamo.ErrNotFound)
}

// AddExternal registers ex and subjects the given particles to it.
func (e *Environment) AddExternal(ex *physics.External, pts ...*physics.Particle) error {
	if indexOf(e.externals, ex) < 0 {
		e.externals = append(e.externals, ex)
	}
	if ex.IncludeOnAdd() {
		pts = e.particles
	}
	for _, p := range pts {
		if err := e.ImplementExternal(p, ex); err != nil {
			return err
		}
	}
	return nil
}

func (e *Environment) ImplementExternal(p *physics.Particle, ex *physics.External) error {
	if !e.Contains(p) {
		return fmt.Errorf("particle %s: %w", p.ID, dynamo.ErrNotFound)
	}
	if indexOf(e.externals, ex) < 0 {
		return fmt.Errorf("external %q: %w", ex.ID(), dynamo.ErrNotFound)
	}
	physics.JoinExternal(p, ex)
	return nil
}

func (e *Environment) NeglectExternal(p *physics.Particle, ex *physics.External) {
	physics.LeaveExternal(p, ex)
}

func (e *Environment) RemoveExternal(ex *physics.External) {
	for _, p := range append([]*physics.Particle(nil), ex.Members()...) {
		physics.LeaveExternal(p, ex)
	}
	e.externals = without(e.externals, ex)
}

// AddSpring registers a spring whose endpoints are both set. Endpoints not
// yet in the environment are added.
func (e *Environment) AddSpring(s *physics.Spring) error {
	if !s.IsReady() {
		return fmt.Errorf("spring needs two endpoints: %w", dynamo.ErrInvalidTopology)
	}
	e.Add(s.First(), s.Second())
	s.LengthUnitFactor = e.lengthUnit
	if indexOf(e.springs, s) < 0 {
		e.springs = append(e.springs, s)
	}
	return nil
}

// RemoveSpring unlinks the spring from both endpoints and forgets it.
func (e *Environment) RemoveSpring(s *physics.Spring) {
	s.Detach()
	e.springs = without(e.springs, s)
}

// Clear removes everything, keeping the settings.
func (e *Environment) Clear() {
	for _, s := range append([]*physics.Spring(nil), e.springs...) {
		e.RemoveSpring(s)
	}
	for _, in := range append([]*physics.Interaction(nil), e.interactions...) {
		e.RemoveInteraction(in)
	}
	for _, ex := range append([]*physics.External(nil), e.externals...) {
		e.RemoveExternal(ex)
	}
	e.particles = nil
	e.groups = make(map[string][]*physics.Particle)
}

// SetGroup labels the particles and records them under label.
func (e *Environment) SetGroup(label string, pts ...*physics.Particle) error {
	for _, p := range pts {
		if !e.Contains(p) {
			return fmt.Errorf("particle %s: %w", p.ID, dynamo.ErrNotFound)
		}
	}
	for _, p := range pts {
		p.SetLabel(label)
	}
	e.groups[label] = append([]*physics.Particle(nil), pts...)
	return nil
}

func (e *Environment) Group(label string) ([]*physics.Particle, error) {
	g, ok := e.groups[label]
	if !ok {
		return nil, fmt.Errorf("group %q: %w", label, dynamo.ErrNotFound)
	}
	return g, nil
}

// Groups lists the group labels in sorted order.
func (e *Environment) Groups() []string {
	labels := make([]string, 0, len(e.groups))
	for l := range e.groups {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	return labels
}

// Step advances the environment by one integration step and resolves
// collisions and walls, in that order.
func (e *Environment) Step(dir dynamo.Direction) error {
	if err := e.integrator.Advance(e.particles, dir); err != nil {
		return err
	}
	if e.collider != nil {
		if err := e.collider.Resolve(e); err != nil {
			return err
		}
	}
	if e.bounds != nil {
		e.bounds.Constrain(e.particles, e.dim)
	}
	return nil
}

func (e *Environment) TotalMass() float64      { return physics.TotalMass(e.particles) }
func (e *Environment) Momentum() r3.Vec        { return physics.Momentum(e.particles) }
func (e *Environment) AngularMomentum() r3.Vec { return physics.AngularMomentum(e.particles) }
func (e *Environment) CenterOfMass() r3.Vec    { return physics.CenterOfMass(e.particles) }
func (e *Environment) KineticEnergy() float64  { return physics.KineticEnergy(e.particles) }

// PotentialEnergy sums pair, field and spring energies.
func (e *Environment) PotentialEnergy() (float64, error) {
	u := physics.ExternalEnergy(e.particles)
	for _, in := range e.interactions {
		u += in.Energy()
	}
	s, err := physics.SpringEnergy(e.particles)
	if err != nil {
		return 0, err
	}
	return u + s, nil
}

func (e *Environment) TotalEnergy() (float64, error) {
	u, err := e.PotentialEnergy()
	if err != nil {
		return 0, err
	}
	return e.KineticEnergy() + u, nil
}

func indexOf[T comparable](s []T, v T) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return -1
}

func without[T comparable](s []T, v T) []T {
	if i := indexOf(s, v); i >= 0 {
		return append(s[:i:i], s[i+1:]...)
	}
	return s
}
