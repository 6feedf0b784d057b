package physics

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/particlesim/internal/dynamo"
)

func TestAccelFieldPointsToMass(t *testing.T) {
	src := NewParticleWithMass(r3.Vec{}, r3.Vec{}, 4, 0, 0.1)
	Join(src, NewInteraction("gravity", &Gravity{G: 1}))

	acc := AccelField([]*Particle{src}, r3.Vec{X: 2})
	if math.Abs(acc.X+1) > 1e-12 || acc.Y != 0 || acc.Z != 0 {
		t.Errorf("acc = %v, want (-1, 0, 0)", acc)
	}

	pot := PotField([]*Particle{src}, r3.Vec{X: 2})
	if math.Abs(pot+2) > 1e-12 {
		t.Errorf("potential = %f, want -2", pot)
	}
}

func TestFieldGrids(t *testing.T) {
	src := NewParticleWithMass(r3.Vec{}, r3.Vec{}, 1, 0, 0.1)
	Join(src, NewInteraction("gravity", NewGravity()))
	box := r3.Box{Min: r3.Vec{X: -1, Y: -1, Z: -1}, Max: r3.Vec{X: 1, Y: 1, Z: 1}}

	grid, err := AccelField2D([]*Particle{src}, box, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(grid) != 3 || len(grid[0]) != 3 {
		t.Fatalf("grid is %dx%d, want 3x3", len(grid), len(grid[0]))
	}
	if grid[0][1].X <= 0 || grid[2][1].X >= 0 {
		t.Errorf("field does not point at the source: left %v right %v", grid[0][1], grid[2][1])
	}

	pots, err := PotField3D([]*Particle{src}, box, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(pots) != 2 || len(pots[1][1]) != 2 {
		t.Fatal("unexpected 3-D grid shape")
	}

	if _, err := PotField2D(nil, box, 1); !errors.Is(err, dynamo.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestObservables(t *testing.T) {
	a := NewParticleWithMass(r3.Vec{X: -1}, r3.Vec{Y: 1}, 1, 0, 0.1)
	b := NewParticleWithMass(r3.Vec{X: 1}, r3.Vec{Y: -1}, 1, 0, 0.1)
	pts := []*Particle{a, b}

	if r3.Norm(Momentum(pts)) != 0 {
		t.Errorf("momentum = %v, want zero", Momentum(pts))
	}
	if l := AngularMomentum(pts); math.Abs(l.Z+2) > 1e-12 {
		t.Errorf("angular momentum = %v, want (0, 0, -2)", l)
	}
	if CenterOfMass(pts) != (r3.Vec{}) {
		t.Errorf("centre of mass = %v", CenterOfMass(pts))
	}
	if KineticEnergy(pts) != 1 {
		t.Errorf("kinetic energy = %f, want 1", KineticEnergy(pts))
	}
	if CenterOfMass(nil) != (r3.Vec{}) {
		t.Error("empty set should have zero centre of mass")
	}
}
