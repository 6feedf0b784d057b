package contact

import "gonum.org/v1/gonum/spatial/r3"

// Collide2D maps the relative velocity v of two bodies with separation r to
// its post-impact value: the component along r is reversed and scaled by the
// elasticity e, the tangential component is scaled by the glide g. Only the
// x and y components are used.
func Collide2D(v, r r3.Vec, e, g float64) r3.Vec {
	d := r.X*r.X + r.Y*r.Y
	if d == 0 {
		return r3.Vec{X: v.X, Y: v.Y}
	}
	return r3.Vec{
		X: (v.X*(g*r.Y*r.Y-e*r.X*r.X) - (e+g)*r.X*r.Y*v.Y) / d,
		Y: (v.Y*(g*r.X*r.X-e*r.Y*r.Y) - (e+g)*r.X*r.Y*v.X) / d,
	}
}

// Collide3D is the three dimensional form of Collide2D.
func Collide3D(v, r r3.Vec, e, g float64) r3.Vec {
	d := r3.Norm2(r)
	if d == 0 {
		return v
	}
	return r3.Vec{
		X: (v.X*(g*(r.Y*r.Y+r.Z*r.Z)-e*r.X*r.X) - (v.Y*r.Y+v.Z*r.Z)*(g+e)*r.X) / d,
		Y: (v.Y*(g*(r.X*r.X+r.Z*r.Z)-e*r.Y*r.Y) - (v.X*r.X+v.Z*r.Z)*(g+e)*r.Y) / d,
		Z: (v.Z*(g*(r.X*r.X+r.Y*r.Y)-e*r.Z*r.Z) - (v.X*r.X+v.Y*r.Y)*(g+e)*r.Z) / d,
	}
}
