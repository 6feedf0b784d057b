package integrators

// Classical fourth-order scheme with weights 1-2-2-1 / 6.
var rk4 = &Tableau{
	Name:  "rk4",
	Order: 4,
	A: [][]float64{
		{},
		{1.0 / 2},
		{0, 1.0 / 2},
		{0, 0, 1},
	},
	B: []float64{1.0 / 6, 2.0 / 6, 2.0 / 6, 1.0 / 6},
}
