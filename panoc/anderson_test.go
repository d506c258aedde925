package panoc_test

import (
	"testing"

	"github.com/curioloop/panocalm/panoc"
	"github.com/curioloop/panocalm/panoc/testproblems"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestAndersonInitFirst(t *testing.T) {
	a := panoc.NewAndersonAccel(2, 3)
	x0 := mat.NewVecDense(2, []float64{1, 1})
	gradPsi0 := mat.NewVecDense(2, []float64{0.5, 0.5})
	gamma := 0.2

	a.InitFirst(x0, gradPsi0, gamma)

	// g0 = x0 - gamma*gradPsi0 = (0.9, 0.9); r_{-1} = g0 - x0 = (-0.1,-0.1)
	assert.InDelta(t, -0.1, a.RPrevForTest().AtVec(0), 1e-12)
	assert.InDelta(t, -0.1, a.RPrevForTest().AtVec(1), 1e-12)
	assert.InDelta(t, 0.9, a.YPrevForTest().AtVec(0), 1e-12)
	// deltaG starts empty in lockstep with qr's empty column window; the
	// first entry is born inside the first real Candidate call, not here.
	assert.Equal(t, 0, a.DeltaGLenForTest())
	assert.Equal(t, 0, a.QRForTest().NumColumns())
}

func TestAndersonCandidateIsFiniteAndProjected(t *testing.T) {
	problem := testproblems.NewBoxQP([]float64{-0.5, 0.5, 1.5})
	sigma := mat.NewVecDense(1, nil)
	y := mat.NewVecDense(1, nil)
	helpers := panoc.NewALHelpersForTest(problem, sigma, y)

	a := panoc.NewAndersonAccel(3, 2)
	x0 := mat.NewVecDense(3, nil)
	gradPsi0 := mat.NewVecDense(3, nil)
	helpers.CalcGradPsiForTest(x0, gradPsi0)
	gamma := 1.0
	a.InitFirst(x0, gradPsi0, gamma)

	x1 := mat.NewVecDense(3, []float64{0, 0.5, 1})
	gradPsi1 := mat.NewVecDense(3, nil)
	helpers.CalcGradPsiForTest(x1, gradPsi1)

	xAA, psiAA, yHatAA := a.CandidateForTest(problem, helpers, x1, gradPsi1, gamma)
	assert.True(t, panoc.FiniteVecForTest(xAA))
	assert.False(t, psiAA < -1e18)
	assert.Equal(t, 1, yHatAA.Len())

	// xAA must lie inside the box, since Candidate projects via problem.C().
	for i := 0; i < 3; i++ {
		v := xAA.AtVec(i)
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
	}
}

// TestAndersonCandidateAlignsCoeffsWithMatchingDeltaG is a focused
// regression test for the deltaG/qr.cols alignment: it recomputes the
// expected combination yK = gK - coeff0*Δg0 directly from the raw g/r
// quantities Candidate itself derives, and checks the result matches
// Candidate's projected output. If deltaG were still seeded with g0 ahead
// of qr.cols (the bug this guards against), deltaG[0] after this first
// Candidate call would be g0 itself rather than gK-g0, and the computed
// xAA below would disagree with Candidate's.
func TestAndersonCandidateAlignsCoeffsWithMatchingDeltaG(t *testing.T) {
	q := mat.NewDense(1, 1, []float64{2})
	problem := testproblems.NewConvexQP(q, []float64{0})
	sigma := mat.NewVecDense(0, nil)
	y := mat.NewVecDense(0, nil)
	helpers := panoc.NewALHelpersForTest(problem, sigma, y)

	a := panoc.NewAndersonAccel(1, 1)
	x0 := mat.NewVecDense(1, []float64{1})
	gradPsi0 := mat.NewVecDense(1, nil)
	helpers.CalcGradPsiForTest(x0, gradPsi0)
	gamma := 0.1
	a.InitFirst(x0, gradPsi0, gamma)

	x1 := mat.NewVecDense(1, []float64{0.5})
	gradPsi1 := mat.NewVecDense(1, nil)
	helpers.CalcGradPsiForTest(x1, gradPsi1)

	xAA, _, _ := a.CandidateForTest(problem, helpers, x1, gradPsi1, gamma)

	// Candidate's own call must be what creates both the first qr column
	// and the first deltaG entry, index-aligned.
	require.Equal(t, 1, a.QRForTest().NumColumns())
	require.Equal(t, 1, a.DeltaGLenForTest())

	g0 := mat.NewVecDense(1, nil)
	g0.AddScaledVec(x0, -gamma, gradPsi0)
	gK := mat.NewVecDense(1, nil)
	gK.AddScaledVec(x1, -gamma, gradPsi1)

	deltaG0 := gK.AtVec(0) - g0.AtVec(0)
	rPrev := g0.AtVec(0) - x0.AtVec(0)
	rK := gK.AtVec(0) - g0.AtVec(0) // a.yPrev is still g0 before Advance
	deltaR0 := rK - rPrev

	coeff0 := (deltaR0 * rK) / (deltaR0 * deltaR0)
	yKExpected := gK.AtVec(0) - coeff0*deltaG0

	assert.InDelta(t, yKExpected, xAA.AtVec(0), 1e-9)
}

func TestAndersonChangedGammaRescalesRPrev(t *testing.T) {
	a := panoc.NewAndersonAccel(2, 2)
	x0 := mat.NewVecDense(2, []float64{1, 1})
	gradPsi0 := mat.NewVecDense(2, []float64{1, 1})
	a.InitFirst(x0, gradPsi0, 1.0)

	rBefore := a.RPrevForTest().AtVec(0)
	a.ChangedGamma(0.5, 1.0)
	assert.InDelta(t, rBefore*0.5, a.RPrevForTest().AtVec(0), 1e-12)
}

func TestAndersonAdvanceSelectsCandidateOrFallback(t *testing.T) {
	a := panoc.NewAndersonAccel(1, 2)
	x0 := mat.NewVecDense(1, []float64{1})
	gradPsi0 := mat.NewVecDense(1, []float64{1})
	a.InitFirst(x0, gradPsi0, 1.0)

	a.SetPendingForTest(
		mat.NewVecDense(1, []float64{7}),
		mat.NewVecDense(1, []float64{8}),
		mat.NewVecDense(1, []float64{9}),
	)

	a.Advance(true)
	assert.Equal(t, 9.0, a.YPrevForTest().AtVec(0))

	a.SetPendingForTest(
		mat.NewVecDense(1, []float64{7}),
		mat.NewVecDense(1, []float64{8}),
		mat.NewVecDense(1, []float64{9}),
	)
	a.Advance(false)
	assert.Equal(t, 7.0, a.YPrevForTest().AtVec(0))
}
