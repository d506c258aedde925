package panoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

// constrainedQuad is f(x) = ½‖x‖² subject to a single inequality
// g(x) = x0+x1-1 <= 0, used to exercise the m>0 branches of alHelpers
// that testproblems (all m=0) never reach.
type constrainedQuad struct{}

func (constrainedQuad) N() int { return 2 }
func (constrainedQuad) M() int { return 1 }

func (constrainedQuad) C() Set { return NewFreeSet(2) }
func (constrainedQuad) D() Set { return NewNonPositiveSet(1) }

func (constrainedQuad) F(x *mat.VecDense) float64 {
	return 0.5 * mat.Dot(x, x)
}

func (constrainedQuad) GradF(x, out *mat.VecDense) {
	out.CopyVec(x)
}

func (constrainedQuad) G(x, out *mat.VecDense) {
	out.SetVec(0, x.AtVec(0)+x.AtVec(1)-1)
}

func (constrainedQuad) GradGTv(x, v, out *mat.VecDense) {
	out.SetVec(0, v.AtVec(0))
	out.SetVec(1, v.AtVec(0))
}

func newTestHelpers() (*alHelpers, *mat.VecDense) {
	p := constrainedQuad{}
	sigma := mat.NewVecDense(1, []float64{2})
	y := mat.NewVecDense(1, []float64{0.5})
	return newALHelpers(p, sigma, y), mat.NewVecDense(2, []float64{0.8, 0.9})
}

func TestCalcPsiYHatMatchesCalcPsiGradPsi(t *testing.T) {
	h, x := newTestHelpers()

	yHat := mat.NewVecDense(1, nil)
	psi1 := h.calcPsiYHat(x, yHat)

	grad := mat.NewVecDense(2, nil)
	psi2 := h.calcPsiGradPsi(x, grad)

	assert.InDelta(t, psi1, psi2, 1e-12)
}

func TestCalcGradPsiFromYHatMatchesCalcGradPsi(t *testing.T) {
	h, x := newTestHelpers()

	yHat := mat.NewVecDense(1, nil)
	h.calcPsiYHat(x, yHat)
	gradFromYHat := mat.NewVecDense(2, nil)
	h.calcGradPsiFromYHat(x, yHat, gradFromYHat)

	gradDirect := mat.NewVecDense(2, nil)
	h.calcGradPsi(x, gradDirect)

	assert.InDelta(t, gradFromYHat.AtVec(0), gradDirect.AtVec(0), 1e-12)
	assert.InDelta(t, gradFromYHat.AtVec(1), gradDirect.AtVec(1), 1e-12)
}

func TestCalcPsiYHatActiveConstraintAddsPenalty(t *testing.T) {
	h, _ := newTestHelpers()
	x := mat.NewVecDense(2, []float64{1, 2})
	yHat := mat.NewVecDense(1, nil)
	psi := h.calcPsiYHat(x, yHat)
	assert.NotEqual(t, h.problem.F(x), psi, "with an active constraint psi must include the penalty term")
}

func TestCalcErrZ(t *testing.T) {
	h, x := newTestHelpers()
	xHat := mat.NewVecDense(2, nil)
	xHat.CopyVec(x)

	errZ := mat.NewVecDense(1, nil)
	h.calcErrZ(xHat, errZ)

	// g(x) = 0.8+0.9-1 = 0.7, active (> 0), so ẑ = proj_{(-inf,0]}(g+y/Σ)
	// clamps to 0 and err_z = g(x) - 0 = 0.7.
	assert.InDelta(t, 0.7, errZ.AtVec(0), 1e-12)
}

func TestCalcErrorStopCrit(t *testing.T) {
	p := mat.NewVecDense(2, []float64{0.2, -0.1})
	gradXHat := mat.NewVecDense(2, []float64{1, 1})
	gradX := mat.NewVecDense(2, []float64{0.5, 0.5})
	eps := calcErrorStopCrit(p, 0.5, gradXHat, gradX)
	// componentwise: 0.2/0.5 + 1 - 0.5 = 0.9 ; -0.1/0.5 + 1 - 0.5 = 0.3
	assert.InDelta(t, 0.9, eps, 1e-12)
}
