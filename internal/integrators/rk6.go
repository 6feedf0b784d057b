package integrators

import "math"

var sqrt21 = math.Sqrt(21)

// Seven-stage sixth-order scheme with nodes 0, 1, 1/2, 2/3, (7∓√21)/14, 1.
var rk6 = &Tableau{
	Name:  "rk6",
	Order: 6,
	A: [][]float64{
		{},
		{1},
		{3.0 / 8, 1.0 / 8},
		{8.0 / 27, 2.0 / 27, 8.0 / 27},
		{
			3 * (3*sqrt21 - 7) / 392,
			-8 * (7 - sqrt21) / 392,
			48 * (7 - sqrt21) / 392,
			-3 * (21 - sqrt21) / 392,
		},
		{
			-5 * (231 + 51*sqrt21) / 1960,
			-40 * (7 + sqrt21) / 1960,
			-320 * sqrt21 / 1960,
			3 * (21 + 121*sqrt21) / 1960,
			392 * (6 + sqrt21) / 1960,
		},
		{
			15 * (22 + 7*sqrt21) / 180,
			120.0 / 180,
			40 * (7*sqrt21 - 5) / 180,
			-63 * (3*sqrt21 - 2) / 180,
			-14 * (49 + 9*sqrt21) / 180,
			70 * (7 - sqrt21) / 180,
		},
	},
	B: []float64{9.0 / 180, 0, 64.0 / 180, 0, 49.0 / 180, 49.0 / 180, 9.0 / 180},
}
