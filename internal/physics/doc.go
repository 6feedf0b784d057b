// Package physics provides particles and the force contributors acting on them.
//
// A [Particle] is a sphere with position, velocity, mass and charge. Three
// kinds of contributor produce accelerations:
//
//   - [Interaction]: a [PairLaw] applied between every coupled pair of members
//   - [External]: a [FieldLaw] applied to each member on its own
//   - [Spring]: a nonlinear elastic bond between exactly two particles
//
// Particles keep non-owning back-references to their contributors. [Join],
// [Leave], [JoinExternal], [LeaveExternal] and the [Spring] attach methods
// always update both sides.
//
// # Stage Sampling
//
// [Derive] samples one Runge-Kutta stage for a single particle. It displaces
// the particle by the stage offset, sums the accelerations and restores the
// saved state before returning, so no other particle ever sees a displaced
// neighbour:
//
//	k1, _ := physics.Derive(p, make(dynamo.State, 4), dt)
//	k2, _ := physics.Derive(p, k1.Scale(0.5), dt)
//
// # Coupling Rule
//
// Group forces skip a pair only when both particles are inactive and carry
// the same label. Composite bodies use this to keep their internal members
// from feeling forces meant for their surface.
package physics
