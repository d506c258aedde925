package testproblems

import (
	"github.com/curioloop/panocalm/panoc"
	"gonum.org/v1/gonum/mat"
)

// ConvexQP is f(x) = ½xᵀQx + bᵀx for a symmetric positive-definite Q
// (spec.md §8 scenario 6): the common ground used to check that PANOC and
// PGA converge to the same minimizer, with PANOC expected to need fewer
// iterations thanks to its quasi-Newton direction.
type ConvexQP struct {
	Q *mat.Dense // n x n, symmetric positive-definite
	B []float64
}

// NewConvexQP builds a ConvexQP from a dense Q and linear term b.
func NewConvexQP(q *mat.Dense, b []float64) ConvexQP {
	return ConvexQP{Q: q, B: b}
}

func (p ConvexQP) N() int { return len(p.B) }
func (p ConvexQP) M() int { return 0 }

func (p ConvexQP) C() panoc.Set { return panoc.NewFreeSet(p.N()) }
func (p ConvexQP) D() panoc.Set { return panoc.NewFreeSet(0) }

func (p ConvexQP) F(x *mat.VecDense) float64 {
	qx := mat.NewVecDense(p.N(), nil)
	qx.MulVec(p.Q, x)
	quad := 0.5 * mat.Dot(x, qx)
	var lin float64
	for i, bi := range p.B {
		lin += bi * x.AtVec(i)
	}
	return quad + lin
}

func (p ConvexQP) GradF(x, out *mat.VecDense) {
	out.MulVec(p.Q, x)
	for i, bi := range p.B {
		out.SetVec(i, out.AtVec(i)+bi)
	}
}

func (ConvexQP) G(x, out *mat.VecDense)          {}
func (ConvexQP) GradGTv(x, v, out *mat.VecDense) {}
