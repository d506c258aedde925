package testproblems

import (
	"math"

	"github.com/curioloop/panocalm/panoc"
	"gonum.org/v1/gonum/mat"
)

// LogisticRegression is L2-regularized logistic regression,
//
//	f(w) = ½‖w‖² + Σᵢ Costᵢ·log(1 + exp(−yᵢ·wᵀxᵢ))
//
// with a dense design matrix (m=0: the regularizer is folded into f itself,
// there is no general constraint). Adapted from the teacher's
// liblinear.L2RLRFunc, which keeps scratch z/d arrays sized by sample count
// and a per-sample cost vector; here z/d become driver-owned locals (the
// Problem contract forbids a Problem from holding solver-iteration state)
// recomputed each call, and SparseOperatorDot/Axpy become plain gonum/mat
// row operations over a dense X.
type LogisticRegression struct {
	X    *mat.Dense // l x n design matrix, one sample per row
	Y    []float64  // length l, each ±1
	Cost []float64  // length l, per-sample cost weight
}

// NewLogisticRegression builds a LogisticRegression problem. cost may be
// nil, in which case every sample gets unit cost.
func NewLogisticRegression(x *mat.Dense, y []float64, cost []float64) LogisticRegression {
	if cost == nil {
		cost = make([]float64, len(y))
		for i := range cost {
			cost[i] = 1
		}
	}
	return LogisticRegression{X: x, Y: y, Cost: cost}
}

func (p LogisticRegression) n() int {
	_, cols := p.X.Dims()
	return cols
}

func (p LogisticRegression) N() int { return p.n() }
func (p LogisticRegression) M() int { return 0 }

func (p LogisticRegression) C() panoc.Set { return panoc.NewFreeSet(p.n()) }
func (p LogisticRegression) D() panoc.Set { return panoc.NewFreeSet(0) }

// z computes wᵀxᵢ for every sample i.
func (p LogisticRegression) z(w *mat.VecDense) []float64 {
	l, _ := p.X.Dims()
	out := make([]float64, l)
	for i := 0; i < l; i++ {
		out[i] = mat.Dot(p.X.RowView(i), w)
	}
	return out
}

func (p LogisticRegression) F(w *mat.VecDense) float64 {
	var f float64
	n := p.n()
	for i := 0; i < n; i++ {
		v := w.AtVec(i)
		f += v * v
	}
	f /= 2

	zv := p.z(w)
	for i, zi := range zv {
		yz := p.Y[i] * zi
		if yz >= 0 {
			f += p.Cost[i] * math.Log(1+math.Exp(-yz))
		} else {
			f += p.Cost[i] * (-yz + math.Log(1+math.Exp(yz)))
		}
	}
	return f
}

func (p LogisticRegression) GradF(w, out *mat.VecDense) {
	l, n := p.X.Dims()
	zv := p.z(w)

	coef := make([]float64, l)
	for i := 0; i < l; i++ {
		sigma := 1 / (1 + math.Exp(-p.Y[i]*zv[i]))
		coef[i] = p.Cost[i] * (sigma - 1) * p.Y[i]
	}

	for j := 0; j < n; j++ {
		out.SetVec(j, w.AtVec(j))
	}
	for i := 0; i < l; i++ {
		row := p.X.RowView(i)
		for j := 0; j < n; j++ {
			out.SetVec(j, out.AtVec(j)+coef[i]*row.AtVec(j))
		}
	}
}

func (LogisticRegression) G(x, out *mat.VecDense)          {}
func (LogisticRegression) GradGTv(x, v, out *mat.VecDense) {}
