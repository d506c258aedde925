package testproblems

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func finiteDiffGrad(f func(*mat.VecDense) float64, x *mat.VecDense, h float64) *mat.VecDense {
	n := x.Len()
	out := mat.NewVecDense(n, nil)
	xh := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		xh.CopyVec(x)
		xh.SetVec(i, xh.AtVec(i)+h)
		fPlus := f(xh)
		xh.SetVec(i, x.AtVec(i)-h)
		fMinus := f(xh)
		out.SetVec(i, (fPlus-fMinus)/(2*h))
	}
	return out
}

func TestRosenbrockGradMatchesFiniteDifference(t *testing.T) {
	p := Rosenbrock{}
	x := mat.NewVecDense(2, []float64{-1.2, 1.0})

	grad := mat.NewVecDense(2, nil)
	p.GradF(x, grad)

	fd := finiteDiffGrad(p.F, x, 1e-6)
	assert.InDelta(t, fd.AtVec(0), grad.AtVec(0), 1e-3)
	assert.InDelta(t, fd.AtVec(1), grad.AtVec(1), 1e-3)
}

func TestRosenbrockMinimumIsZero(t *testing.T) {
	p := Rosenbrock{}
	x := mat.NewVecDense(2, []float64{1, 1})
	assert.InDelta(t, 0.0, p.F(x), 1e-12)
}
