package physics

import "gonum.org/v1/gonum/spatial/r3"

// PairLaw yields the acceleration a source particle exerts on a subject.
type PairLaw interface {
	Acceleration(subject, source *Particle) r3.Vec
}

// PairPotential is implemented by pair laws that have a potential energy.
type PairPotential interface {
	PotentialEnergy(p1, p2 *Particle) float64
}

// FieldLaw yields the acceleration of a particle in an external field.
type FieldLaw interface {
	Acceleration(subject *Particle) r3.Vec
}

// FieldPotential is implemented by field laws that have a potential energy.
type FieldPotential interface {
	PotentialEnergy(subject *Particle) float64
}

// Interaction applies a pair law between all coupled pairs of its members.
type Interaction struct {
	id           string
	law          PairLaw
	members      []*Particle
	includeOnAdd bool
}

func NewInteraction(id string, law PairLaw) *Interaction {
	return &Interaction{id: id, law: law}
}

func (in *Interaction) ID() string                { return in.id }
func (in *Interaction) Law() PairLaw              { return in.law }
func (in *Interaction) Members() []*Particle      { return in.members }
func (in *Interaction) Contains(p *Particle) bool { return indexOf(in.members, p) >= 0 }
func (in *Interaction) IncludeOnAdd() bool        { return in.includeOnAdd }

// SetIncludeOnAdd makes the environment join every newly added particle.
func (in *Interaction) SetIncludeOnAdd(v bool) *Interaction {
	in.includeOnAdd = v
	return in
}

func (in *Interaction) Acceleration(subject, source *Particle) r3.Vec {
	return in.law.Acceleration(subject, source)
}

// PotentialEnergy is zero for laws without a potential.
func (in *Interaction) PotentialEnergy(p1, p2 *Particle) float64 {
	if pp, ok := in.law.(PairPotential); ok {
		return pp.PotentialEnergy(p1, p2)
	}
	return 0
}

// PairEnergy sums the potential over the coupled unordered pairs of pts.
func (in *Interaction) PairEnergy(pts []*Particle) float64 {
	e := 0.0
	for i, p1 := range pts {
		for _, p2 := range pts[i+1:] {
			if p1.Couples(p2) {
				e += in.PotentialEnergy(p1, p2)
			}
		}
	}
	return e
}

// Energy is the potential energy of all coupled member pairs.
func (in *Interaction) Energy() float64 { return in.PairEnergy(in.members) }

// SubsetEnergy is the potential energy of the members of pts, counting pairs
// inside pts once and pairs between pts and the other members once.
func (in *Interaction) SubsetEnergy(pts []*Particle) float64 {
	inside := make([]*Particle, 0, len(pts))
	for _, p := range pts {
		if in.Contains(p) {
			inside = append(inside, p)
		}
	}
	if len(inside) == 0 {
		return 0
	}
	e := in.PairEnergy(inside)
	for _, p1 := range inside {
		for _, p2 := range in.members {
			if indexOf(inside, p2) < 0 && p1.Couples(p2) {
				e += in.PotentialEnergy(p1, p2)
			}
		}
	}
	return e
}

// External applies a field law to each member independently.
type External struct {
	id           string
	law          FieldLaw
	members      []*Particle
	includeOnAdd bool
}

func NewExternal(id string, law FieldLaw) *External {
	return &External{id: id, law: law}
}

func (ex *External) ID() string                { return ex.id }
func (ex *External) Law() FieldLaw             { return ex.law }
func (ex *External) Members() []*Particle      { return ex.members }
func (ex *External) Contains(p *Particle) bool { return indexOf(ex.members, p) >= 0 }
func (ex *External) IncludeOnAdd() bool        { return ex.includeOnAdd }

func (ex *External) SetIncludeOnAdd(v bool) *External {
	ex.includeOnAdd = v
	return ex
}

func (ex *External) Acceleration(subject *Particle) r3.Vec {
	return ex.law.Acceleration(subject)
}

func (ex *External) PotentialEnergy(subject *Particle) float64 {
	if fp, ok := ex.law.(FieldPotential); ok {
		return fp.PotentialEnergy(subject)
	}
	return 0
}

// Join links p and in on both sides. It is a no-op if they are already linked.
func Join(p *Particle, in *Interaction) {
	if !p.InInteraction(in) {
		p.interactions = append(p.interactions, in)
	}
	if !in.Contains(p) {
		in.members = append(in.members, p)
	}
}

// Leave unlinks p and in on both sides.
func Leave(p *Particle, in *Interaction) {
	p.interactions = without(p.interactions, in)
	in.members = without(in.members, p)
}

// JoinExternal links p and ex on both sides.
func JoinExternal(p *Particle, ex *External) {
	if !p.InExternal(ex) {
		p.externals = append(p.externals, ex)
	}
	if !ex.Contains(p) {
		ex.members = append(ex.members, p)
	}
}

// LeaveExternal unlinks p and ex on both sides.
func LeaveExternal(p *Particle, ex *External) {
	p.externals = without(p.externals, ex)
	ex.members = without(ex.members, p)
}
