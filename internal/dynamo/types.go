package dynamo

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	if len(s) == 0 {
		return 0
	}
	return floats.Norm(s, 2)
}

func (s State) Add(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] + other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

func (s State) Scale(factor float64) State {
	result := make(State, len(s))
	for i := range s {
		result[i] = s[i] * factor
	}
	return result
}

func (s State) Sub(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] - other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

// Dim is the number of spatial components a particle evolves in.
type Dim int

const (
	Two   Dim = 2
	Three Dim = 3
)

// StateLen is the length of a particle state vector: positions then velocities.
func (d Dim) StateLen() int { return 2 * int(d) }

func (d Dim) Valid() bool { return d == Two || d == Three }

func (d Dim) String() string {
	switch d {
	case Two:
		return "2d"
	case Three:
		return "3d"
	}
	return fmt.Sprintf("dim(%d)", int(d))
}

// ParseDim accepts 2, 3, "2d" or "3d".
func ParseDim(s string) (Dim, error) {
	switch s {
	case "2", "2d", "2D":
		return Two, nil
	case "3", "3d", "3D":
		return Three, nil
	}
	return 0, fmt.Errorf("unknown dimension %q: %w", s, ErrInvalidConfig)
}

// Direction selects forward integration or backward scrubbing.
type Direction int

const (
	Forward Direction = iota
	Backward
)

// Sign is +1 for Forward and -1 for Backward.
func (d Direction) Sign() float64 {
	if d == Backward {
		return -1
	}
	return 1
}

func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

// System is a plain ODE right-hand side, used to exercise the tableaus
// outside the particle engine.
type System interface {
	Derive(x State, t float64) State
	StateDim() int
}

type Hamiltonian interface {
	Energy(x State) float64
}
