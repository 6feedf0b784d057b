package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/particlesim/internal/sim"
)

type ExportData struct {
	Run    RunMetadata   `json:"run"`
	Frames []ExportFrame `json:"frames"`
}

type ExportFrame struct {
	Step      int              `json:"step"`
	Time      float64          `json:"time"`
	Energy    float64          `json:"energy"`
	Error     float64          `json:"error"`
	Particles []ExportParticle `json:"particles"`
}

type ExportParticle struct {
	ID  string     `json:"id"`
	Pos [3]float64 `json:"pos"`
	Vel [3]float64 `json:"vel"`
}

// ExportJSON writes a run and its frames as one indented JSON document.
func ExportJSON(w io.Writer, meta RunMetadata, frames []sim.Frame) error {
	data := ExportData{
		Run:    meta,
		Frames: make([]ExportFrame, len(frames)),
	}
	for i, f := range frames {
		ef := ExportFrame{
			Step:      f.Step,
			Time:      f.Time,
			Energy:    f.Energy,
			Error:     f.Error,
			Particles: make([]ExportParticle, len(f.Particles)),
		}
		for j, p := range f.Particles {
			ef.Particles[j] = ExportParticle{
				ID:  p.ID,
				Pos: [3]float64{p.Pos.X, p.Pos.Y, p.Pos.Z},
				Vel: [3]float64{p.Vel.X, p.Vel.Y, p.Vel.Z},
			}
		}
		data.Frames[i] = ef
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
