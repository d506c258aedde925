package panoc

import "gonum.org/v1/gonum/mat"

// This file exists only to let the external panoc_test package (which
// must import panoc/testproblems, and therefore cannot be package panoc
// without creating an import cycle) reach the unexported internals those
// tests exercise. It is test-only scaffolding: none of it is compiled
// into non-test builds.

type ALHelpersForTest = alHelpers

func NewALHelpersForTest(problem Problem, sigma, y *mat.VecDense) *ALHelpersForTest {
	return newALHelpers(problem, sigma, y)
}

func (h *alHelpers) CalcGradPsiForTest(x, out *mat.VecDense) { h.calcGradPsi(x, out) }

func (h *alHelpers) CalcPsiYHatForTest(x, yHat *mat.VecDense) float64 { return h.calcPsiYHat(x, yHat) }

func EstimateLipschitzForTest(h *ALHelpersForTest, lp LipschitzParams, x0, gradPsiX0 *mat.VecDense) (float64, bool) {
	return estimateLipschitz(h, lp, x0, gradPsiX0)
}

const MachineEpsilonForTest = machineEpsilon

type UpperBoundAdjusterForTest = upperBoundAdjuster

func NewUpperBoundAdjusterForTest(problem Problem, helpers *ALHelpersForTest, params PANOCParams) *UpperBoundAdjusterForTest {
	return &upperBoundAdjuster{problem: problem, helpers: helpers, params: params}
}

type UpperBoundResultForTest struct {
	L, Gamma, Sigma float64
	GradPsiDotP     float64
	NormSqP         float64
	PsiXHat         float64
	Changed         bool
}

func (u *upperBoundAdjuster) AdjustForTest(x, gradPsiX *mat.VecDense, psiX, l, gamma, sigma float64, xHat, p, yHat *mat.VecDense) UpperBoundResultForTest {
	r := u.adjust(x, gradPsiX, psiX, l, gamma, sigma, xHat, p, yHat)
	return UpperBoundResultForTest{
		L: r.l, Gamma: r.gamma, Sigma: r.sigma,
		GradPsiDotP: r.gradPsiDotP, NormSqP: r.normSqP,
		PsiXHat: r.psiXHat, Changed: r.changed,
	}
}

func CalcXHatForTest(problem Problem, gamma float64, x, gradPsi, xHat, p *mat.VecDense) {
	calcXHat(problem, gamma, x, gradPsi, xHat, p)
}

func FiniteVecForTest(v *mat.VecDense) bool { return finiteVec(v) }

func NewConstrainedQuadForTest() Problem { return constrainedQuad{} }

func (s *PANOCSolver) StopRequestedForTest() bool { return s.stopSignal.StopRequested() }

func (a *AndersonAccel) RPrevForTest() *mat.VecDense { return a.rPrev }
func (a *AndersonAccel) YPrevForTest() *mat.VecDense { return a.yPrev }
func (a *AndersonAccel) DeltaGLenForTest() int       { return len(a.deltaG) }
func (a *AndersonAccel) QRForTest() *LimitedMemoryQR { return a.qr }

func (a *AndersonAccel) SetPendingForTest(g, r, y *mat.VecDense) {
	a.pendingG, a.pendingR, a.pendingY = g, r, y
}

func (a *AndersonAccel) CandidateForTest(problem Problem, helpers *ALHelpersForTest, xK, gradPsiK *mat.VecDense, gamma float64) (*mat.VecDense, float64, *mat.VecDense) {
	return a.Candidate(problem, helpers, xK, gradPsiK, gamma)
}
