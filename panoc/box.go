package panoc

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Box is an axis-aligned box [lower, upper] in Rⁿ, the canonical
// projectable Set. Components may be set to math.Inf(-1) / math.Inf(1) to
// leave that coordinate unconstrained; a Box with all bounds infinite is
// the unconstrained set C = Rⁿ used by scenario 1 (Rosenbrock, §8).
type Box struct {
	Lower, Upper []float64
}

// NewBox builds a Box from explicit bound slices; lower and upper must
// have equal length and lower[i] <= upper[i] for every i.
func NewBox(lower, upper []float64) *Box {
	if len(lower) != len(upper) {
		panic(fmt.Sprintf("panoc: Box bounds length mismatch: %d vs %d", len(lower), len(upper)))
	}
	for i := range lower {
		if lower[i] > upper[i] {
			panic(fmt.Sprintf("panoc: Box bound %d is empty: lower %g > upper %g", i, lower[i], upper[i]))
		}
	}
	return &Box{Lower: lower, Upper: upper}
}

// NewFreeSet returns an unconstrained Box of the given dimension, i.e. C
// or D equal to the whole space.
func NewFreeSet(n int) *Box {
	lower := make([]float64, n)
	upper := make([]float64, n)
	for i := range lower {
		lower[i] = math.Inf(-1)
		upper[i] = math.Inf(1)
	}
	return &Box{Lower: lower, Upper: upper}
}

// NewZeroSet returns the Box {0}^n, the set used for D when all general
// constraints are equality constraints g(x) = 0.
func NewZeroSet(n int) *Box {
	return &Box{Lower: make([]float64, n), Upper: make([]float64, n)}
}

// NewNonPositiveSet returns (-∞, 0]^n, the set used for D when all general
// constraints are inequalities g(x) <= 0.
func NewNonPositiveSet(n int) *Box {
	upper := make([]float64, n)
	lower := make([]float64, n)
	for i := range lower {
		lower[i] = math.Inf(-1)
	}
	return &Box{Lower: lower, Upper: upper}
}

func (b *Box) Dim() int { return len(b.Lower) }

func (b *Box) Project(out, x *mat.VecDense) {
	for i := 0; i < b.Dim(); i++ {
		v := x.AtVec(i)
		if v < b.Lower[i] {
			v = b.Lower[i]
		} else if v > b.Upper[i] {
			v = b.Upper[i]
		}
		out.SetVec(i, v)
	}
}
