package panoc

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// AndersonAccel implements the optional Anderson-acceleration candidate of
// spec.md §4.6: it keeps the latest fixed-point image g(xₖ) = xₖ − γ∇ψ(xₖ),
// a sliding window of the differences Δgₖ = gₖ − gₖ₋₁ between successive
// images, and a LimitedMemoryQR factorization of the residual
// differences Δrₖ = rₖ − rₖ₋₁ (rₖ = g(xₖ) − yₖ, yₖ the previously accepted
// combination), and solves the associated least-squares problem each
// iteration for a combination yₖ. Grounded on
// original_source/.../panoc.hpp lines 65-79 and 251-296 (field layout and
// control flow); the exact least-squares/combination algebra is the
// standard Type-I limited-memory Anderson mixing (Walker & Ni, 2011),
// since detail::minimize_update_anderson's body isn't part of the
// retrieved header set.
type AndersonAccel struct {
	n, mAA int

	qr     *LimitedMemoryQR
	deltaG []*mat.VecDense // Δg history, parallel window to qr's Δr columns

	rPrev *mat.VecDense // r_{k-1}
	gPrev *mat.VecDense // g_{k-1}, needed to form the next Δg
	yPrev *mat.VecDense // y_{k-1}, the previously accepted combination

	coeffs []float64 // least-squares solution scratch, length mAA

	// pendingG/pendingR/pendingY hold the just-computed g_k/r_k/y_k
	// between a Candidate call and the matching Advance call.
	pendingG, pendingR, pendingY *mat.VecDense
}

// NewAndersonAccel allocates Anderson state for vectors of length n and a
// window of at most mAA columns.
func NewAndersonAccel(n, mAA int) *AndersonAccel {
	return &AndersonAccel{
		n:      n,
		mAA:    mAA,
		qr:     NewLimitedMemoryQR(n, mAA),
		rPrev:  mat.NewVecDense(n, nil),
		gPrev:  mat.NewVecDense(n, nil),
		yPrev:  mat.NewVecDense(n, nil),
		coeffs: make([]float64, mAA),
	}
}

// InitFirst seeds the history at k=0: g₀ = x₀ − γ∇ψ(x₀) becomes both the
// first accepted combination y₀, and r₋₁ = g₀ − x₀ (panoc.hpp lines
// 256-259). g₀ is kept only as gPrev, the baseline the first real Candidate
// call diffs against; deltaG starts empty in lockstep with qr's empty
// column window (qr's first column and deltaG's first entry are both born
// together inside that first Candidate call, not here).
func (a *AndersonAccel) InitFirst(x0, gradPsi0 *mat.VecDense, gamma float64) {
	g0 := mat.NewVecDense(a.n, nil)
	g0.AddScaledVec(x0, -gamma, gradPsi0)

	a.rPrev.SubVec(g0, x0)
	a.yPrev.CopyVec(g0)
	a.gPrev.CopyVec(g0)
	a.deltaG = a.deltaG[:0]
}

func cloneVec(v *mat.VecDense) *mat.VecDense {
	c := mat.NewVecDense(v.Len(), nil)
	c.CopyVec(v)
	return c
}

func pushWindow(list []*mat.VecDense, v *mat.VecDense, cap int) []*mat.VecDense {
	if len(list) >= cap {
		list = list[1:]
	}
	return append(list, cloneVec(v))
}

// Candidate computes the k-th (k>0) Anderson candidate: the accelerated,
// unprojected combination yₖ and its projection xₐₐ = project_C(yₖ), along
// with ψ(xₐₐ) and ŷ(xₐₐ). It pushes the new Δr column into the QR and the
// new Δg into the window (and collapses both to the newest column when the
// coefficients are non-finite); the accepted combination, the previous
// image and the previous residual roll forward only in Advance, which the
// driver calls once it has decided whether to accept the candidate.
func (a *AndersonAccel) Candidate(problem Problem, helpers *alHelpers, xK, gradPsiK *mat.VecDense, gamma float64) (xAA *mat.VecDense, psiAA float64, yHatAA *mat.VecDense) {
	gK := mat.NewVecDense(a.n, nil)
	gK.AddScaledVec(xK, -gamma, gradPsiK)

	rK := mat.NewVecDense(a.n, nil)
	rK.SubVec(gK, a.yPrev)

	deltaR := mat.NewVecDense(a.n, nil)
	deltaR.SubVec(rK, a.rPrev)
	a.qr.AddColumn(deltaR)

	deltaG := mat.NewVecDense(a.n, nil)
	deltaG.SubVec(gK, a.gPrev)
	a.deltaG = pushWindow(a.deltaG, deltaG, a.mAA)

	m := a.qr.NumColumns()
	a.qr.Solve(rK, a.coeffs[:m])

	allFinite := true
	for i := 0; i < m; i++ {
		c := a.coeffs[i]
		if math.IsNaN(c) || math.IsInf(c, 0) {
			allFinite = false
			break
		}
	}

	yK := mat.NewVecDense(a.n, nil)
	yK.CopyVec(gK)
	if allFinite {
		for i := 0; i < m; i++ {
			yK.AddScaledVec(yK, -a.coeffs[i], a.deltaG[i])
		}
	} else {
		// Save only the newest column, per spec.md §4.6 ("retain only the
		// newest column in position 0 and reset the QR").
		newest := a.qr.RingTail()
		a.qr.KeepOnly(newest)
		a.deltaG = a.deltaG[newest:]
	}

	xAAv := mat.NewVecDense(a.n, nil)
	problem.C().Project(xAAv, yK)
	yHat := mat.NewVecDense(max(problem.M(), 1), nil)
	psi := helpers.calcPsiYHat(xAAv, yHat)

	// Stash gK/rK for Advance to roll forward (only meaningful values
	// needed until Advance runs).
	a.pendingG = gK
	a.pendingR = rK
	a.pendingY = yK

	return xAAv, psi, yHat
}

// Advance rolls the per-iteration bookkeeping forward (panoc.hpp lines
// 389-397): if the candidate was accepted, yₐₐₖ is already current;
// otherwise yₐₐₖ reverts to gₐₐₖ. Either way rₐₐₖ and rₐₐₖ₋₁ swap roles.
func (a *AndersonAccel) Advance(accepted bool) {
	if accepted {
		a.yPrev.CopyVec(a.pendingY)
	} else {
		a.yPrev.CopyVec(a.pendingG)
	}
	a.gPrev.CopyVec(a.pendingG)
	a.rPrev.CopyVec(a.pendingR)
}

// ChangedGamma rescales the state that is proportional to the step size γ
// (spec.md §9 "Anderson γ-consistency"): the QR's R factor and the
// previous residual r_{k-1}.
func (a *AndersonAccel) ChangedGamma(gammaNew, gammaOld float64) {
	if gammaOld == 0 {
		return
	}
	factor := gammaNew / gammaOld
	a.qr.ScaleR(factor)
	a.rPrev.ScaleVec(factor, a.rPrev)
}
