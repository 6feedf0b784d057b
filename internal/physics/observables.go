package physics

import "gonum.org/v1/gonum/spatial/r3"

func TotalMass(pts []*Particle) float64 {
	m := 0.0
	for _, p := range pts {
		m += p.mass
	}
	return m
}

func Momentum(pts []*Particle) r3.Vec {
	var mom r3.Vec
	for _, p := range pts {
		mom = r3.Add(mom, p.Momentum())
	}
	return mom
}

func AngularMomentum(pts []*Particle) r3.Vec {
	var l r3.Vec
	for _, p := range pts {
		l = r3.Add(l, p.AngularMomentum())
	}
	return l
}

// CenterOfMass is the zero vector for a massless set.
func CenterOfMass(pts []*Particle) r3.Vec {
	m := TotalMass(pts)
	if m == 0 {
		return r3.Vec{}
	}
	var cm r3.Vec
	for _, p := range pts {
		cm = r3.Add(cm, r3.Scale(p.mass, p.Pos))
	}
	return r3.Scale(1/m, cm)
}

func CenterOfMassVelocity(pts []*Particle) r3.Vec {
	m := TotalMass(pts)
	if m == 0 {
		return r3.Vec{}
	}
	return r3.Scale(1/m, Momentum(pts))
}

func KineticEnergy(pts []*Particle) float64 {
	e := 0.0
	for _, p := range pts {
		e += p.KineticEnergy()
	}
	return e
}

// ExternalEnergy sums the field potential of every particle in its externals.
func ExternalEnergy(pts []*Particle) float64 {
	e := 0.0
	for _, p := range pts {
		for _, ex := range p.externals {
			e += ex.PotentialEnergy(p)
		}
	}
	return e
}
