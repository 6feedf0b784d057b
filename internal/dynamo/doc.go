// Package dynamo provides core simulation primitives shared by the particle engine.
//
// The package defines the fundamental types used by the integrators and the
// contact resolvers:
//
//   - [State]: flat state/derivative vector ([position..., velocity...])
//   - [Dim]: spatial dimensionality of a particle or environment
//   - [Direction]: forward or backward time stepping
//   - [System]: plain ODE system (dX/dt = f(X, t)) for the generic steppers
//
// # Example
//
//	tb := integrators.RK4.Tableau()
//	x := dynamo.State{1, 0}
//	for i := 0; i < steps; i++ {
//	    x = tb.Step(sys, x, float64(i)*dt, dt)
//	}
//
// # Thread Safety
//
// Nothing in this package is synchronized. Particle state is owned by a single
// environment and mutated by one goroutine at a time.
package dynamo
