package testproblems

import (
	"github.com/curioloop/panocalm/panoc"
	"gonum.org/v1/gonum/mat"
)

// ScaledQuadratic is f(x) = ½·K·x² on ℝ (spec.md §8 scenario 3): a single
// stiff coordinate used to exercise the quadratic-upper-bound doubling
// loop. The finite-difference Lipschitz estimate of a quadratic is exact up
// to rounding; from x0=1 with the default perturbation it comes out just
// below K, which is enough for the upper bound to fail and L to double.
type ScaledQuadratic struct {
	K float64
}

func (p ScaledQuadratic) N() int { return 1 }
func (p ScaledQuadratic) M() int { return 0 }

func (p ScaledQuadratic) C() panoc.Set { return panoc.NewFreeSet(1) }
func (p ScaledQuadratic) D() panoc.Set { return panoc.NewFreeSet(0) }

func (p ScaledQuadratic) F(x *mat.VecDense) float64 {
	v := x.AtVec(0)
	return 0.5 * p.K * v * v
}

func (p ScaledQuadratic) GradF(x, out *mat.VecDense) {
	out.SetVec(0, p.K*x.AtVec(0))
}

func (ScaledQuadratic) G(x, out *mat.VecDense)          {}
func (ScaledQuadratic) GradGTv(x, v, out *mat.VecDense) {}

// Reciprocal is f(x) = 1/x on ℝ (spec.md §8 scenario 4): starting at x0=0,
// both f and ∇f are infinite at the origin, forcing the initial Lipschitz
// estimate to come out non-finite, so a solve returns NotFinite before its
// first iteration.
type Reciprocal struct{}

func (Reciprocal) N() int { return 1 }
func (Reciprocal) M() int { return 0 }

func (Reciprocal) C() panoc.Set { return panoc.NewFreeSet(1) }
func (Reciprocal) D() panoc.Set { return panoc.NewFreeSet(0) }

func (Reciprocal) F(x *mat.VecDense) float64 {
	return 1 / x.AtVec(0)
}

func (Reciprocal) GradF(x, out *mat.VecDense) {
	v := x.AtVec(0)
	out.SetVec(0, -1/(v*v))
}

func (Reciprocal) G(x, out *mat.VecDense)          {}
func (Reciprocal) GradGTv(x, v, out *mat.VecDense) {}
