package integrators

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/particlesim/internal/dynamo"
	"github.com/san-kum/particlesim/internal/physics"
)

const DefaultDt = 0.01

// Integrator advances particles one at a time: every stage of particle i is
// sampled and committed before particle i+1 is touched, which is sound
// because Derive restores the sampled particle before returning.
type Integrator struct {
	method       Method
	dt           float64
	computeError bool

	lastErr float64
	cumErr  float64
}

func New(method Method, dt float64) *Integrator {
	return &Integrator{method: method, dt: dt}
}

func NewDefault() *Integrator {
	return New(RK4, DefaultDt)
}

func (in *Integrator) Method() Method           { return in.method }
func (in *Integrator) Dt() float64              { return in.dt }
func (in *Integrator) ErrorTracking() bool      { return in.computeError }
func (in *Integrator) LastError() float64       { return in.lastErr }
func (in *Integrator) CumulativeError() float64 { return in.cumErr }

func (in *Integrator) SetMethod(m Method) error {
	if !m.Valid() {
		return fmt.Errorf("integration method %d: %w", int(m), dynamo.ErrInvalidConfig)
	}
	in.method = m
	return nil
}

func (in *Integrator) SetDt(dt float64) error {
	if !(dt > 0) || math.IsInf(dt, 0) {
		return fmt.Errorf("time step %g must be positive and finite: %w", dt, dynamo.ErrParameterBounds)
	}
	in.dt = dt
	return nil
}

func (in *Integrator) SetErrorTracking(v bool) *Integrator {
	in.computeError = v
	return in
}

// HasError reports whether Advance updates the error estimates.
func (in *Integrator) HasError() bool {
	return in.computeError && in.method.Embedded()
}

func (in *Integrator) ResetError() {
	in.lastErr = 0
	in.cumErr = 0
}

// Advance moves every dynamic particle by one step. Backward steps apply the
// stage offsets and the committed derivative with the opposite sign, which
// retraces a forward step up to the truncation error.
//
// Every particle's pre-step position is recorded first, for the contact
// resolvers. With error tracking on, LastError becomes the Euclidean norm of
// the embedded error over all particles and is added to CumulativeError.
func (in *Integrator) Advance(pts []*physics.Particle, dir dynamo.Direction) error {
	tb := in.method.Tableau()
	if tb == nil {
		return fmt.Errorf("integration method %d: %w", int(in.method), dynamo.ErrInvalidConfig)
	}
	if !(in.dt > 0) {
		return fmt.Errorf("time step %g: %w", in.dt, dynamo.ErrParameterBounds)
	}

	for _, p := range pts {
		p.SnapshotPos()
	}

	track := in.HasError()
	sign := dir.Sign()
	sq := 0.0
	ks := make([]dynamo.State, tb.Stages())

	for _, p := range pts {
		if !p.IsDynamic() {
			continue
		}
		n := p.Dim().StateLen()
		off := make(dynamo.State, n)

		for i := range ks {
			combine(off, tb.A[i], ks)
			floats.Scale(sign, off)
			k, err := physics.Derive(p, off, in.dt)
			if err != nil {
				return fmt.Errorf("particle %s, stage %d: %w", p.ID, i+1, err)
			}
			ks[i] = k
		}

		K := combine(make(dynamo.State, n), tb.B, ks)
		if err := p.SetK(K); err != nil {
			return err
		}
		p.Commit(dir)

		if track {
			e := combine(off, tb.BHat, ks)
			floats.Sub(e, K)
			sq += floats.Dot(e, e)
		}
	}

	if track {
		in.lastErr = math.Sqrt(sq)
		in.cumErr += in.lastErr
	}
	return nil
}
