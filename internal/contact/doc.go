// Package contact resolves interpenetration after an integration step:
// sphere-sphere collisions through a closed-form impulse law or by merging,
// and sphere-wall contacts against an axis-aligned box.
//
// Both resolvers can back a body out to its estimated moment of first
// contact using the pre-step position recorded by the integrator, which
// keeps fast bodies from tunnelling through each other or through a wall.
package contact
