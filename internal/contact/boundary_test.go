package contact_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/particlesim/internal/contact"
	"github.com/san-kum/particlesim/internal/dynamo"
	"github.com/san-kum/particlesim/internal/integrators"
	"github.com/san-kum/particlesim/internal/physics"
)

var _ = Describe("Boundaries", func() {
	var b *contact.Boundaries

	BeforeEach(func() {
		b = contact.NewBoundaries(10, 10, 10)
	})

	moved := func(prev, pos, vel r3.Vec, radius float64) *physics.Particle {
		p := physics.NewParticleWithMass(pos, vel, 1, 0, radius)
		p.SetPrevPos(prev)
		return p
	}

	It("places its walls around the centre", func() {
		b.Center = r3.Vec{X: 1, Y: -2, Z: 3}
		b.Size = r3.Vec{X: 4, Y: 6, Z: 8}

		Expect(b.Left()).To(Equal(-1.0))
		Expect(b.Right()).To(Equal(3.0))
		Expect(b.Bottom()).To(Equal(-5.0))
		Expect(b.Top()).To(Equal(1.0))
		Expect(b.Lower()).To(Equal(-1.0))
		Expect(b.Upper()).To(Equal(7.0))
		Expect(b.Box().Size()).To(Equal(b.Size))
	})

	It("reflects the normal velocity and keeps the tangent with unit coefficients", func() {
		p := moved(r3.Vec{X: 4.4, Y: 1}, r3.Vec{X: 4.6, Y: 1.1}, r3.Vec{X: 2, Y: 1, Z: -1}, 0.5)
		b.Constrain([]*physics.Particle{p}, dynamo.Three)

		Expect(p.Vel).To(Equal(r3.Vec{X: -2, Y: 1, Z: -1}))
		Expect(p.Pos.X).To(BeNumerically("~", 4.5, 1e-12))
	})

	It("applies elasticity to the normal and glide to the tangent", func() {
		b.Elasticity = 0.5
		b.Glide = 0.8
		p := moved(r3.Vec{Y: -4.2}, r3.Vec{Y: -4.8}, r3.Vec{X: 1, Y: -3, Z: 2}, 0.5)
		b.Constrain([]*physics.Particle{p}, dynamo.Three)

		Expect(p.Vel.X).To(BeNumerically("~", 0.8, 1e-12))
		Expect(p.Vel.Y).To(BeNumerically("~", 1.5, 1e-12))
		Expect(p.Vel.Z).To(BeNumerically("~", 1.6, 1e-12))
		Expect(p.Pos.Y).To(BeNumerically("~", -4.5, 1e-12))
	})

	It("leaves particles inside the box untouched", func() {
		p := moved(r3.Vec{}, r3.Vec{X: 1, Y: 2, Z: 3}, r3.Vec{X: 1}, 0.5)
		b.Constrain([]*physics.Particle{p}, dynamo.Three)
		Expect(p.Pos).To(Equal(r3.Vec{X: 1, Y: 2, Z: 3}))
		Expect(p.Vel).To(Equal(r3.Vec{X: 1}))
	})

	It("ignores the z walls in 2-D", func() {
		p := moved(r3.Vec{}, r3.Vec{Z: 20}, r3.Vec{Z: 1}, 0.5)
		b.Constrain([]*physics.Particle{p}, dynamo.Two)
		Expect(p.Pos.Z).To(Equal(20.0))

		b.Constrain([]*physics.Particle{p}, dynamo.Three)
		Expect(p.Pos.Z).To(BeNumerically("~", 4.5, 1e-12))
		Expect(p.Vel.Z).To(Equal(-1.0))
	})

	It("fires the hook once per wall hit", func() {
		var hits int
		b.OnBoundary = func(*physics.Particle) { hits++ }
		b.Interpolate = false
		corner := moved(r3.Vec{X: 4, Y: 4, Z: 4}, r3.Vec{X: 4.8, Y: 4.8, Z: 4.8}, r3.Vec{X: 1, Y: 1, Z: 1}, 0.5)

		b.Constrain([]*physics.Particle{corner}, dynamo.Three)

		Expect(hits).To(Equal(3))
		Expect(corner.Vel).To(Equal(r3.Vec{X: -1, Y: -1, Z: -1}))
	})

	Describe("fast particles", func() {
		var p *physics.Particle

		BeforeEach(func() {
			// one step carried the particle from inside to well past the wall
			p = moved(r3.Vec{X: 4}, r3.Vec{X: 9, Y: 3}, r3.Vec{X: 500, Y: 300}, 0.5)
		})

		It("are stopped at the crossing point on their path", func() {
			b.Constrain([]*physics.Particle{p}, dynamo.Two)

			Expect(p.Pos.X).To(BeNumerically("~", 4.5, 1e-12))
			Expect(p.Pos.Y).To(BeNumerically("~", 0.3, 1e-12))
			Expect(p.Vel.X).To(Equal(-500.0))
		})

		It("only have the normal coordinate clamped without interpolation", func() {
			b.Interpolate = false
			b.Constrain([]*physics.Particle{p}, dynamo.Two)

			Expect(p.Pos.X).To(Equal(4.5))
			Expect(p.Pos.Y).To(Equal(3.0))
			Expect(p.Vel.X).To(Equal(-500.0))
		})
	})

	It("clamps a particle that started outside", func() {
		p := moved(r3.Vec{X: -7}, r3.Vec{X: -6}, r3.Vec{X: 1}, 0.5)
		b.Constrain([]*physics.Particle{p}, dynamo.Two)
		Expect(p.Pos.X).To(Equal(-4.5))
		Expect(p.Vel.X).To(Equal(-1.0))
	})

	It("keeps an integrated gas inside the box", func() {
		in := integrators.New(integrators.RK4, 0.05)
		var pts []*physics.Particle
		for i := 0; i < 8; i++ {
			v := r3.Vec{X: float64(i%3) - 1, Y: float64(i%5) - 2, Z: 3}
			pts = append(pts, physics.NewParticleWithMass(r3.Vec{X: float64(i) - 4}, r3.Scale(20, v), 1, 0, 0.3))
		}

		for step := 0; step < 200; step++ {
			Expect(in.Advance(pts, dynamo.Forward)).To(Succeed())
			b.Constrain(pts, dynamo.Three)
			for _, p := range pts {
				Expect(b.Box().Contains(p.Pos)).To(BeTrue())
			}
		}
	})
})
