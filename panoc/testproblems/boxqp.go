package testproblems

import (
	"github.com/curioloop/panocalm/panoc"
	"gonum.org/v1/gonum/mat"
)

// BoxQP is f(x) = ½‖x − a‖² subject to x ∈ [0,1]ⁿ (spec.md §8 scenario 2):
// a pure projection problem where a single proximal step already yields the
// exact projection of a onto the box, since ∇f(x) = x − a and γ = 1 makes
// x − γ∇f(x) = a.
type BoxQP struct {
	A []float64
}

// NewBoxQP returns a BoxQP centered at a, constrained to the unit box of
// the same dimension.
func NewBoxQP(a []float64) BoxQP {
	return BoxQP{A: a}
}

func (p BoxQP) N() int { return len(p.A) }
func (p BoxQP) M() int { return 0 }

func (p BoxQP) C() panoc.Set {
	n := len(p.A)
	lower := make([]float64, n)
	upper := make([]float64, n)
	for i := range upper {
		upper[i] = 1
	}
	return panoc.NewBox(lower, upper)
}
func (p BoxQP) D() panoc.Set { return panoc.NewFreeSet(0) }

func (p BoxQP) F(x *mat.VecDense) float64 {
	var f float64
	for i, ai := range p.A {
		d := x.AtVec(i) - ai
		f += d * d
	}
	return 0.5 * f
}

func (p BoxQP) GradF(x, out *mat.VecDense) {
	for i, ai := range p.A {
		out.SetVec(i, x.AtVec(i)-ai)
	}
}

func (p BoxQP) G(x, out *mat.VecDense)          {}
func (p BoxQP) GradGTv(x, v, out *mat.VecDense) {}
