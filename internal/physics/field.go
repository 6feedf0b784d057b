package physics

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/particlesim/internal/dynamo"
)

// probe is a unit mass, unit charge test particle.
func probe(pt r3.Vec) *Particle {
	p := &Particle{ID: "probe", Pos: pt, radius: 1, mass: 1, charge: 1, active: true, dynamic: true}
	p.SetDim(dynamo.Three)
	return p.computeFromValue()
}

// AccelField is the acceleration a unit test particle at pt would feel from
// the interactions of pts.
func AccelField(pts []*Particle, pt r3.Vec) r3.Vec {
	u := probe(pt)
	var acc r3.Vec
	for _, p := range pts {
		for _, in := range p.interactions {
			acc = r3.Add(acc, in.Acceleration(u, p))
		}
	}
	return acc
}

// PotField is the potential energy of a unit test particle at pt.
func PotField(pts []*Particle, pt r3.Vec) float64 {
	u := probe(pt)
	e := 0.0
	for _, p := range pts {
		for _, in := range p.interactions {
			e += in.PotentialEnergy(p, u)
		}
	}
	return e
}

func gridStep(box r3.Box, detail int) (r3.Vec, error) {
	if detail < 2 {
		return r3.Vec{}, fmt.Errorf("field detail must be at least 2, got %d: %w", detail, dynamo.ErrInvalidConfig)
	}
	n := float64(detail - 1)
	return r3.Vec{
		X: (box.Max.X - box.Min.X) / n,
		Y: (box.Max.Y - box.Min.Y) / n,
		Z: (box.Max.Z - box.Min.Z) / n,
	}, nil
}

// AccelField2D samples AccelField on a detail×detail grid over the xy extent
// of box, indexed [x][y].
func AccelField2D(pts []*Particle, box r3.Box, detail int) ([][]r3.Vec, error) {
	d, err := gridStep(box, detail)
	if err != nil {
		return nil, err
	}
	out := make([][]r3.Vec, detail)
	for i := range out {
		out[i] = make([]r3.Vec, detail)
		x := box.Min.X + d.X*float64(i)
		for j := range out[i] {
			out[i][j] = AccelField(pts, r3.Vec{X: x, Y: box.Min.Y + d.Y*float64(j)})
		}
	}
	return out, nil
}

// AccelField3D samples AccelField on a detail³ grid, indexed [x][y][z].
func AccelField3D(pts []*Particle, box r3.Box, detail int) ([][][]r3.Vec, error) {
	d, err := gridStep(box, detail)
	if err != nil {
		return nil, err
	}
	out := make([][][]r3.Vec, detail)
	for i := range out {
		out[i] = make([][]r3.Vec, detail)
		for j := range out[i] {
			out[i][j] = make([]r3.Vec, detail)
			for k := range out[i][j] {
				pt := r3.Vec{
					X: box.Min.X + d.X*float64(i),
					Y: box.Min.Y + d.Y*float64(j),
					Z: box.Min.Z + d.Z*float64(k),
				}
				out[i][j][k] = AccelField(pts, pt)
			}
		}
	}
	return out, nil
}

// PotField2D samples PotField on a detail×detail grid, indexed [x][y].
func PotField2D(pts []*Particle, box r3.Box, detail int) ([][]float64, error) {
	d, err := gridStep(box, detail)
	if err != nil {
		return nil, err
	}
	out := make([][]float64, detail)
	for i := range out {
		out[i] = make([]float64, detail)
		x := box.Min.X + d.X*float64(i)
		for j := range out[i] {
			out[i][j] = PotField(pts, r3.Vec{X: x, Y: box.Min.Y + d.Y*float64(j)})
		}
	}
	return out, nil
}

// PotField3D samples PotField on a detail³ grid, indexed [x][y][z].
func PotField3D(pts []*Particle, box r3.Box, detail int) ([][][]float64, error) {
	d, err := gridStep(box, detail)
	if err != nil {
		return nil, err
	}
	out := make([][][]float64, detail)
	for i := range out {
		out[i] = make([][]float64, detail)
		for j := range out[i] {
			out[i][j] = make([]float64, detail)
			for k := range out[i][j] {
				pt := r3.Vec{
					X: box.Min.X + d.X*float64(i),
					Y: box.Min.Y + d.Y*float64(j),
					Z: box.Min.Z + d.Z*float64(k),
				}
				out[i][j][k] = PotField(pts, pt)
			}
		}
	}
	return out, nil
}
