package metrics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/particlesim/internal/sim"
)

// RMSSpeed is the root mean square particle speed over all observed steps.
type RMSSpeed struct {
	name    string
	sum     float64
	samples int
}

func NewRMSSpeed() *RMSSpeed {
	return &RMSSpeed{name: "rms_speed"}
}

func (r *RMSSpeed) Name() string {
	return r.name
}

func (r *RMSSpeed) Observe(env *sim.Environment, t float64) {
	for _, p := range env.Particles() {
		r.sum += r3.Norm2(p.Vel)
		r.samples++
	}
}

func (r *RMSSpeed) Value() float64 {
	if r.samples == 0 {
		return 0
	}
	return math.Sqrt(r.sum / float64(r.samples))
}

func (r *RMSSpeed) Reset() {
	r.sum = 0
	r.samples = 0
}
