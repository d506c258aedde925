// Package testproblems collects small, closed-form Problem implementations
// used to exercise the panoc package's solvers: an unconstrained smooth
// problem, a box-constrained QP, a badly conditioned one-dimensional
// problem for the Lipschitz-doubling path, a problem with a genuine pole
// for the NotFinite path, a convex QP for the PANOC/PGA agreement check,
// and an L2-regularized logistic regression adapted from the teacher's
// liblinear.L2RLRFunc.
package testproblems

import (
	"github.com/curioloop/panocalm/panoc"
	"gonum.org/v1/gonum/mat"
)

// Rosenbrock is the classic banana-shaped unconstrained test function:
//
//	f(x) = 100(x₂ − x₁²)² + (1 − x₁)²
//
// with unique minimizer (1, 1). Used as scenario 1 of spec.md §8: a pure
// smooth problem (m=0) that exercises the L-BFGS direction and FBE line
// search without any augmented-Lagrangian machinery.
type Rosenbrock struct{}

func (Rosenbrock) N() int { return 2 }
func (Rosenbrock) M() int { return 0 }

func (Rosenbrock) C() panoc.Set { return panoc.NewFreeSet(2) }
func (Rosenbrock) D() panoc.Set { return panoc.NewFreeSet(0) }

func (Rosenbrock) F(x *mat.VecDense) float64 {
	x1, x2 := x.AtVec(0), x.AtVec(1)
	t := x2 - x1*x1
	u := 1 - x1
	return 100*t*t + u*u
}

func (Rosenbrock) GradF(x, out *mat.VecDense) {
	x1, x2 := x.AtVec(0), x.AtVec(1)
	t := x2 - x1*x1
	out.SetVec(0, -400*x1*t-2*(1-x1))
	out.SetVec(1, 200*t)
}

func (Rosenbrock) G(x, out *mat.VecDense)          {}
func (Rosenbrock) GradGTv(x, v, out *mat.VecDense) {}
