package panoc

import "gonum.org/v1/gonum/mat"

// alHelpers bundles the problem together with the outer ALM's current
// penalty weights Σ and multiplier estimates y, and exposes the augmented
// Lagrangian quantities of spec.md §4.2. It holds no iteration state of its
// own beyond a handful of scratch buffers reused across calls (§3 invariant
// 6: the driver owns scratch, callbacks get read-only views).
//
// Grounded on original_source/.../panoc.hpp lines 85-106, which wraps the
// same calc_* functions as closures capturing problem/y/Σ/work buffers.
type alHelpers struct {
	problem Problem
	sigma   *mat.VecDense // Σ, length m
	y       *mat.VecDense // y, length m

	workM    *mat.VecDense // scratch, length m: zHat in calcPsiYHat/calcErrZ
	workM2   *mat.VecDense // scratch, length m: "scaled" in calcErrZ
	workN    *mat.VecDense // scratch, length n: gTyHat in calcGradPsiFromYHat
	workYHat *mat.VecDense // scratch, length m: internal yHat for calcPsiGradPsi/calcGradPsi
}

func newALHelpers(problem Problem, sigma, y *mat.VecDense) *alHelpers {
	m, n := problem.M(), problem.N()
	return &alHelpers{
		problem:  problem,
		sigma:    sigma,
		y:        y,
		workM:    mat.NewVecDense(max(m, 1), nil),
		workM2:   mat.NewVecDense(max(m, 1), nil),
		workN:    mat.NewVecDense(n, nil),
		workYHat: mat.NewVecDense(max(m, 1), nil),
	}
}

// calcPsiYHat evaluates ψ(x) and writes ŷ(x) into yHat.
//
//	ẑ(x) = proj_D( g(x) + y/Σ )
//	ŷ(x) = Σ ⊙ ( g(x) + y/Σ − ẑ(x) )
//	ψ(x) = f(x) + Σᵢ ŷᵢ·(ŷᵢ − yᵢ) / (2·Σᵢ)
func (h *alHelpers) calcPsiYHat(x, yHat *mat.VecDense) float64 {
	fx := h.problem.F(x)
	if h.problem.M() == 0 {
		return fx
	}
	zHat := h.workM
	h.problem.G(x, yHat) // yHat temporarily holds g(x)
	for i := 0; i < h.problem.M(); i++ {
		yHat.SetVec(i, yHat.AtVec(i)+h.y.AtVec(i)/h.sigma.AtVec(i))
	}
	h.problem.D().Project(zHat, yHat)
	var penalty float64
	for i := 0; i < h.problem.M(); i++ {
		gPlusYOverSigma := yHat.AtVec(i)
		yi := h.sigma.AtVec(i) * (gPlusYOverSigma - zHat.AtVec(i))
		yHat.SetVec(i, yi)
		penalty += yi * (yi - h.y.AtVec(i)) / h.sigma.AtVec(i)
	}
	return fx + 0.5*penalty
}

// calcGradPsiFromYHat writes ∇ψ(x) = ∇f(x) + ∇g(x)ᵀ·ŷ(x) into out, given a
// previously computed ŷ(x) (saves the g(x) evaluation calcPsiYHat needed).
func (h *alHelpers) calcGradPsiFromYHat(x, yHat, out *mat.VecDense) {
	h.problem.GradF(x, out)
	if h.problem.M() == 0 {
		return
	}
	gTyHat := h.workN
	h.problem.GradGTv(x, yHat, gTyHat)
	out.AddVec(out, gTyHat)
}

// calcPsiGradPsi evaluates ψ(x) and writes ∇ψ(x) into gradOut, sharing the
// g/projection work between the value and the gradient in one pass.
func (h *alHelpers) calcPsiGradPsi(x, gradOut *mat.VecDense) float64 {
	yHat := h.workYHat
	psi := h.calcPsiYHat(x, yHat)
	h.calcGradPsiFromYHat(x, yHat, gradOut)
	return psi
}

// calcGradPsi writes ∇ψ(x) into out without returning ψ(x).
func (h *alHelpers) calcGradPsi(x, out *mat.VecDense) {
	yHat := h.workYHat
	h.calcPsiYHat(x, yHat)
	h.calcGradPsiFromYHat(x, yHat, out)
}

// calcErrZ writes g(x̂) - ẑ(x̂) into out, the slack-variable error reported
// to the outer ALM for its multiplier update.
func (h *alHelpers) calcErrZ(xHat, out *mat.VecDense) {
	if h.problem.M() == 0 {
		return
	}
	h.problem.G(xHat, out)
	zHat := h.workM
	scaled := h.workM2
	for i := 0; i < h.problem.M(); i++ {
		scaled.SetVec(i, out.AtVec(i)+h.y.AtVec(i)/h.sigma.AtVec(i))
	}
	h.problem.D().Project(zHat, scaled)
	out.SubVec(out, zHat)
}

// calcErrorStopCrit computes εₖ, the infinity norm of (1/γ)·p + ∇ψ(x̂) − ∇ψ(x),
// the PANOC stopping residual.
func calcErrorStopCrit(p *mat.VecDense, gamma float64, gradPsiXHat, gradPsiX *mat.VecDense) float64 {
	var maxAbs float64
	for i := 0; i < p.Len(); i++ {
		v := p.AtVec(i)/gamma + gradPsiXHat.AtVec(i) - gradPsiX.AtVec(i)
		if a := abs(v); a > maxAbs {
			maxAbs = a
		}
	}
	return maxAbs
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
