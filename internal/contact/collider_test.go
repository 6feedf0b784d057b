package contact_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/particlesim/internal/contact"
	"github.com/san-kum/particlesim/internal/dynamo"
	"github.com/san-kum/particlesim/internal/integrators"
	"github.com/san-kum/particlesim/internal/physics"
)

func ball(pos, vel r3.Vec, mass, radius float64) *physics.Particle {
	return physics.NewParticleWithMass(pos, vel, mass, 0, radius)
}

func totalMomentum(pts []*physics.Particle) r3.Vec { return physics.Momentum(pts) }

var _ = Describe("Collider", func() {
	var c *contact.Collider

	BeforeEach(func() {
		c = contact.NewCollider()
	})

	Describe("impulse law", func() {
		It("reverses the normal component and keeps the tangential one", func() {
			out := contact.Collide3D(r3.Vec{X: 2, Y: 1, Z: -1}, r3.Vec{X: 3}, 1, 1)
			Expect(out.X).To(BeNumerically("~", -2, 1e-12))
			Expect(out.Y).To(BeNumerically("~", 1, 1e-12))
			Expect(out.Z).To(BeNumerically("~", -1, 1e-12))
		})

		It("scales the normal by elasticity and the tangent by glide", func() {
			n := r3.Unit(r3.Vec{X: 1, Y: 1})
			v := r3.Vec{X: 1, Y: -3}
			out := contact.Collide2D(v, r3.Scale(4, n), 0.5, 0.25)

			vn := r3.Dot(v, n)
			vt := r3.Sub(v, r3.Scale(vn, n))
			want := r3.Add(r3.Scale(-0.5*vn, n), r3.Scale(0.25, vt))
			Expect(out.X).To(BeNumerically("~", want.X, 1e-12))
			Expect(out.Y).To(BeNumerically("~", want.Y, 1e-12))
		})

		It("agrees between the 2-D and 3-D forms in the plane", func() {
			v, r := r3.Vec{X: 0.3, Y: -1.2}, r3.Vec{X: -0.7, Y: 0.4}
			a := contact.Collide2D(v, r, 0.8, 0.6)
			b := contact.Collide3D(v, r, 0.8, 0.6)
			Expect(a.X).To(BeNumerically("~", b.X, 1e-12))
			Expect(a.Y).To(BeNumerically("~", b.Y, 1e-12))
			Expect(b.Z).To(BeZero())
		})

		It("leaves the velocity alone for coincident centres", func() {
			v := r3.Vec{X: 1, Y: 2, Z: 3}
			Expect(contact.Collide3D(v, r3.Vec{}, 1, 1)).To(Equal(v))
		})
	})

	Describe("bounce mode", func() {
		It("swaps the velocities of equal masses in a head-on hit", func() {
			a := physics.NewParticle(r3.Vec{}, r3.Vec{X: 1}, 1, 0, 1)
			b := physics.NewParticle(r3.Vec{X: 3}, r3.Vec{}, 1, 0, 1)
			w := newWorld(dynamo.Three, a, b)
			in := integrators.New(integrators.RK4, 0.01)

			for i := 0; i < 300; i++ {
				Expect(in.Advance(w.Particles(), dynamo.Forward)).To(Succeed())
				Expect(c.Resolve(w)).To(Succeed())
			}

			Expect(a.Vel.X).To(BeNumerically("~", 0, 1e-9))
			Expect(b.Vel.X).To(BeNumerically("~", 1, 1e-9))
			Expect(a.Vel.Y).To(BeZero())
			Expect(b.Vel.Y).To(BeZero())
			Expect(r3.Norm(r3.Sub(b.Pos, a.Pos))).To(BeNumerically(">=", 2-1e-9))
		})

		It("conserves momentum and kinetic energy when perfectly elastic", func() {
			a := ball(r3.Vec{}, r3.Vec{X: 1, Y: 0.5, Z: 0.2}, 2, 1)
			b := ball(r3.Vec{X: 1.5, Y: 0.6, Z: -0.3}, r3.Vec{X: -0.4, Z: 0.1}, 3, 1)
			w := newWorld(dynamo.Three, a, b)
			p0 := totalMomentum(w.pts)
			e0 := physics.KineticEnergy(w.pts)

			c.Interpolate = false
			Expect(c.Resolve(w)).To(Succeed())

			p1 := totalMomentum(w.pts)
			Expect(r3.Norm(r3.Sub(p1, p0))).To(BeNumerically("<", 1e-12))
			Expect(physics.KineticEnergy(w.pts)).To(BeNumerically("~", e0, 1e-12))
			Expect(r3.Norm(r3.Sub(b.Pos, a.Pos))).To(BeNumerically("~", 2, 1e-12))
		})

		It("loses normal speed when partially inelastic", func() {
			a := ball(r3.Vec{}, r3.Vec{X: 1, Y: 0.3}, 1, 1)
			b := ball(r3.Vec{X: 1.8, Y: 0.4}, r3.Vec{X: -1}, 1, 1)
			w := newWorld(dynamo.Two, a, b)
			c.Elasticity = 0.5
			c.Interpolate = false

			n := r3.Unit(r3.Sub(b.Pos, a.Pos))
			before := math.Abs(r3.Dot(r3.Sub(b.Vel, a.Vel), n))
			p0 := totalMomentum(w.pts)

			Expect(c.Resolve(w)).To(Succeed())

			n = r3.Unit(r3.Sub(b.Pos, a.Pos))
			after := math.Abs(r3.Dot(r3.Sub(b.Vel, a.Vel), n))
			Expect(after).To(BeNumerically("<", before))
			Expect(after).To(BeNumerically("~", 0.5*before, 1e-12))
			Expect(r3.Norm(r3.Sub(totalMomentum(w.pts), p0))).To(BeNumerically("<", 1e-12))
		})

		It("reflects a body off a static one without moving it", func() {
			wall := ball(r3.Vec{}, r3.Vec{}, 1, 1).SetDynamic(false)
			b := ball(r3.Vec{X: 1.9}, r3.Vec{X: -2, Y: 1}, 1, 1)
			w := newWorld(dynamo.Three, wall, b)
			c.Interpolate = false

			Expect(c.Resolve(w)).To(Succeed())

			Expect(wall.Vel).To(Equal(r3.Vec{}))
			Expect(wall.Pos).To(Equal(r3.Vec{}))
			Expect(b.Vel.X).To(BeNumerically("~", 2, 1e-12))
			Expect(b.Vel.Y).To(BeNumerically("~", 1, 1e-12))
		})

		It("backs a fast body out to the moment of contact", func() {
			a := ball(r3.Vec{X: 1.5}, r3.Vec{X: 10}, 1, 1)
			a.SetPrevPos(r3.Vec{X: -1})
			b := ball(r3.Vec{X: 3}, r3.Vec{}, 1, 1)
			b.SetPrevPos(b.Pos)
			w := newWorld(dynamo.Three, a, b)

			Expect(c.Resolve(w)).To(Succeed())

			Expect(a.Pos.X).To(BeNumerically("~", 1, 1e-12))
			Expect(b.Pos.X).To(BeNumerically("~", 3, 1e-12))
			Expect(a.Vel.X).To(BeNumerically("~", 0, 1e-12))
			Expect(b.Vel.X).To(BeNumerically("~", 10, 1e-12))
		})

		It("pushes resting bodies apart along the centre axis", func() {
			a := ball(r3.Vec{}, r3.Vec{}, 1, 1)
			b := ball(r3.Vec{X: 1.2, Y: 0.9}, r3.Vec{}, 1, 1)
			a.SnapshotPos()
			b.SnapshotPos()
			w := newWorld(dynamo.Two, a, b)

			Expect(c.Resolve(w)).To(Succeed())

			Expect(r3.Norm(r3.Sub(b.Pos, a.Pos))).To(BeNumerically("~", 2, 1e-12))
		})

		It("notifies both bodies", func() {
			var seen [][2]*physics.Particle
			c.OnCollision = func(p, other *physics.Particle) {
				seen = append(seen, [2]*physics.Particle{p, other})
			}
			a := ball(r3.Vec{}, r3.Vec{X: 1}, 1, 1)
			b := ball(r3.Vec{X: 1.5}, r3.Vec{}, 2, 1)
			c.Interpolate = false

			Expect(c.Resolve(newWorld(dynamo.Three, a, b))).To(Succeed())

			Expect(seen).To(HaveLen(2))
			Expect(seen[0][0]).To(Equal(seen[1][1]))
			Expect(seen[0][1]).To(Equal(seen[1][0]))
		})

		It("ignores separated bodies", func() {
			a := ball(r3.Vec{}, r3.Vec{X: 1}, 1, 1)
			b := ball(r3.Vec{X: 2.5}, r3.Vec{X: -1}, 1, 1)
			Expect(c.Resolve(newWorld(dynamo.Three, a, b))).To(Succeed())
			Expect(a.Vel.X).To(Equal(1.0))
			Expect(b.Vel.X).To(Equal(-1.0))
		})
	})

	Describe("merge mode", func() {
		BeforeEach(func() {
			c.Mode = contact.Merge
		})

		It("keeps the larger body and conserves momentum", func() {
			big := ball(r3.Vec{}, r3.Vec{X: 1}, 3, 2)
			small := ball(r3.Vec{X: 2.5}, r3.Vec{Y: -2}, 1, 1)
			w := newWorld(dynamo.Three, big, small)
			p0 := totalMomentum(w.pts)

			Expect(c.Resolve(w)).To(Succeed())

			Expect(w.pts).To(ConsistOf(big))
			Expect(big.Mass()).To(BeNumerically("~", 4, 1e-9))
			Expect(big.Radius()).To(BeNumerically("~", math.Cbrt(9), 1e-12))
			Expect(r3.Norm(r3.Sub(big.Momentum(), p0))).To(BeNumerically("<", 1e-9))
		})

		It("lets the earlier body absorb on equal radii", func() {
			first := ball(r3.Vec{}, r3.Vec{}, 1, 1)
			second := ball(r3.Vec{X: 1}, r3.Vec{}, 1, 1)
			w := newWorld(dynamo.Three, first, second)

			Expect(c.Resolve(w)).To(Succeed())
			Expect(w.pts).To(ConsistOf(first))
		})

		It("merges a chain into a single body", func() {
			pts := []*physics.Particle{
				ball(r3.Vec{X: 1}, r3.Vec{}, 1, 1),
				ball(r3.Vec{X: 1.5}, r3.Vec{}, 1, 1),
				ball(r3.Vec{X: 3}, r3.Vec{}, 1, 1.2),
			}
			w := newWorld(dynamo.Three, pts...)

			for i := 0; i < 3 && len(w.pts) > 1; i++ {
				Expect(c.Resolve(w)).To(Succeed())
			}
			Expect(w.pts).To(HaveLen(1))
			Expect(w.pts[0].Mass()).To(BeNumerically("~", 3, 1e-9))
		})

		It("reports a failed removal", func() {
			a := ball(r3.Vec{}, r3.Vec{}, 1, 1)
			b := ball(r3.Vec{X: 1}, r3.Vec{}, 1, 2)
			w := &stubbornWorld{world: newWorld(dynamo.Three, a, b)}

			Expect(c.Resolve(w)).To(MatchError(dynamo.ErrNotFound))
		})
	})

	It("parses modes", func() {
		m, err := contact.ParseMode("Merge")
		Expect(err).NotTo(HaveOccurred())
		Expect(m).To(Equal(contact.Merge))

		_, err = contact.ParseMode("stick")
		Expect(err).To(MatchError(dynamo.ErrInvalidConfig))
	})
})

type stubbornWorld struct{ *world }

func (s *stubbornWorld) Remove(*physics.Particle) error { return dynamo.ErrNotFound }
