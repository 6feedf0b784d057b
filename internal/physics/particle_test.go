package physics

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/particlesim/internal/dynamo"
)

func TestParticleMassFromDensity(t *testing.T) {
	p := NewParticle(r3.Vec{}, r3.Vec{}, 2.0, 0.5, 1.0)
	vol := 4 * math.Pi / 3

	if math.Abs(p.Mass()-2*vol) > 1e-12 {
		t.Errorf("mass = %f, want %f", p.Mass(), 2*vol)
	}
	if math.Abs(p.Charge()-0.5*vol) > 1e-12 {
		t.Errorf("charge = %f, want %f", p.Charge(), 0.5*vol)
	}

	p.SetMass(3)
	if math.Abs(p.MassDensity()-3/vol) > 1e-12 {
		t.Errorf("density = %f, want %f", p.MassDensity(), 3/vol)
	}

	p.SetRadius(2)
	if math.Abs(p.Mass()-3*8) > 1e-9 {
		t.Errorf("mass after radius change = %f, want 24", p.Mass())
	}
}

func TestParticleCouples(t *testing.T) {
	tests := []struct {
		name           string
		activeA        bool
		activeB        bool
		labelA, labelB string
		want           bool
	}{
		{"both active same label", true, true, "g", "g", true},
		{"both active different label", true, true, "g", "h", true},
		{"first active", true, false, "g", "g", true},
		{"second active", false, true, "g", "g", true},
		{"both inactive same label", false, false, "g", "g", false},
		{"both inactive different label", false, false, "g", "h", true},
		{"both inactive no label", false, false, "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewParticleWithMass(r3.Vec{}, r3.Vec{}, 1, 0, 1).SetActive(tt.activeA).SetLabel(tt.labelA)
			b := NewParticleWithMass(r3.Vec{}, r3.Vec{}, 1, 0, 1).SetActive(tt.activeB).SetLabel(tt.labelB)
			if got := a.Couples(b); got != tt.want {
				t.Errorf("a.Couples(b) = %v, want %v", got, tt.want)
			}
			if got := b.Couples(a); got != tt.want {
				t.Errorf("b.Couples(a) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParticleSetK(t *testing.T) {
	p := NewParticleWithMass(r3.Vec{}, r3.Vec{}, 1, 0, 1).SetDim(dynamo.Two)

	if err := p.SetK(make(dynamo.State, 4)); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := p.SetK(make(dynamo.State, 6)); !errors.Is(err, dynamo.ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestParticleSetDynamicZeroesVelocity(t *testing.T) {
	p := NewParticleWithMass(r3.Vec{}, r3.Vec{X: 3, Y: 1}, 1, 0, 1)
	p.SetDynamic(false)
	if p.Vel != (r3.Vec{}) {
		t.Errorf("velocity = %v, want zero", p.Vel)
	}

	p.SetK(dynamo.State{1, 1, 1, 1, 1, 1})
	p.Commit(dynamo.Forward)
	if p.Pos != (r3.Vec{}) {
		t.Errorf("non-dynamic particle moved to %v", p.Pos)
	}
}

func TestParticleAbsorb(t *testing.T) {
	a := NewParticleWithMass(r3.Vec{}, r3.Vec{X: 1}, 2, 1, 2)
	b := NewParticleWithMass(r3.Vec{X: 1}, r3.Vec{Y: -3}, 1, 2, 1)
	before := r3.Add(a.Momentum(), b.Momentum())

	a.Absorb(b)

	if math.Abs(a.Mass()-3) > 1e-9 {
		t.Errorf("mass = %f, want 3", a.Mass())
	}
	if math.Abs(a.Charge()-3) > 1e-9 {
		t.Errorf("charge = %f, want 3", a.Charge())
	}
	if math.Abs(a.Radius()-math.Cbrt(9)) > 1e-12 {
		t.Errorf("radius = %f, want %f", a.Radius(), math.Cbrt(9))
	}
	if r3.Norm(r3.Sub(a.Momentum(), before)) > 1e-9 {
		t.Errorf("momentum %v, want %v", a.Momentum(), before)
	}
}

func TestParticleSeparateFrom(t *testing.T) {
	a := NewParticleWithMass(r3.Vec{X: 1.5}, r3.Vec{}, 1, 0, 1)
	b := NewParticleWithMass(r3.Vec{}, r3.Vec{}, 1, 0, 1)

	if !a.Overlaps(b) {
		t.Fatal("expected overlap")
	}
	a.SeparateFrom(b)
	if math.Abs(a.Pos.X-2) > 1e-12 {
		t.Errorf("x = %f, want 2", a.Pos.X)
	}
	if a.Overlaps(b) {
		t.Error("particles still overlap after separation")
	}
}
