package panoc

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// finiteVec reports whether every component of v is finite. Used wherever
// the spec requires a finiteness check before trusting a computed vector
// (direction, Anderson candidate, stop criterion).
func finiteVec(v *mat.VecDense) bool {
	for i := 0; i < v.Len(); i++ {
		if x := v.AtVec(i); math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

// vecNorm is the Euclidean norm, delegating to gonum/floats the way the
// pack's other gonum-based numerical code (e.g.
// other_examples/gonum-optimize__bisection.go) reaches for floats helpers
// instead of hand-summing squares.
func vecNorm(v *mat.VecDense) float64 {
	return floats.Norm(v.RawVector().Data, 2)
}

// vecEqual reports exact elementwise equality, the stall-detection
// criterion spec.md §9 calls intentionally conservative.
func vecEqual(a, b *mat.VecDense) bool {
	n := a.Len()
	if b.Len() != n {
		return false
	}
	for i := 0; i < n; i++ {
		if a.AtVec(i) != b.AtVec(i) {
			return false
		}
	}
	return true
}
