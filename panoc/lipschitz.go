package panoc

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// estimateLipschitz computes the finite-difference estimate of ‖∇²ψ‖ at x0
// (spec.md §4.4): perturb x0 componentwise by h = max(δ, ε·|x0|), then
//
//	L = ‖∇ψ(x0+h) − ∇ψ(x0)‖ / ‖h‖
//
// gradPsiX0 must already hold ∇ψ(x0) (the driver computes it anyway for
// ψ₀). Returns the floored/validated L and whether the result was finite;
// a non-finite L must make the caller return SolverStatus NotFinite.
func estimateLipschitz(h *alHelpers, lp LipschitzParams, x0, gradPsiX0 *mat.VecDense) (l float64, finite bool) {
	n := x0.Len()
	step := mat.NewVecDense(n, nil)
	xh := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		v := lp.Epsilon * math.Abs(x0.AtVec(i))
		if v < lp.Delta {
			v = lp.Delta
		}
		step.SetVec(i, v)
		xh.SetVec(i, x0.AtVec(i)+v)
	}
	gradAtXh := mat.NewVecDense(n, nil)
	h.calcGradPsi(xh, gradAtXh)

	diff := mat.NewVecDense(n, nil)
	diff.SubVec(gradAtXh, gradPsiX0)

	l = floats.Norm(diff.RawVector().Data, 2) / floats.Norm(step.RawVector().Data, 2)
	if l < machineEpsilon {
		l = machineEpsilon
	} else if math.IsInf(l, 0) || math.IsNaN(l) {
		return l, false
	}
	return l, true
}

// machineEpsilon mirrors C++'s std::numeric_limits<double>::epsilon(): the
// smallest representable value such that 1+ε != 1, used by
// estimateLipschitz to floor a degenerate (near-zero) L estimate.
const machineEpsilon = 2.220446049250313e-16

// upperBoundAdjuster runs the quadratic-upper-bound doubling loop of
// spec.md §4.4 for the PANOC driver: while the upper bound on ψ(x̂) is
// violated and the ψ-scale threshold gate hasn't fired, double L (halve γ
// and σ) and recompute x̂, p, and the related scalars.
type upperBoundAdjuster struct {
	problem Problem
	helpers *alHelpers
	params  PANOCParams
}

// result of one upper-bound adjustment: the (possibly updated) scalars and
// the recomputed x̂, p and ŷ(x̂) at the final step size.
type upperBoundResult struct {
	l, gamma, sigma   float64
	gradPsiDotP       float64
	normSqP           float64
	psiXHat           float64
	changed           bool // true iff γ actually changed (doubling fired at least once)
}

// adjust returns the new L/γ/σ and the scalars ∇ψᵀp, ‖p‖², ψ(x̂) at whatever
// step size the loop settles on; x̂ₖ, pₖ and ŷ(x̂ₖ) at that step size are
// written into xHat, p and yHat, which are overwritten in place
// (driver-owned scratch, spec.md §3 invariant 6).
func (u *upperBoundAdjuster) adjust(x, gradPsiX *mat.VecDense, psiX, l, gamma, sigma float64, xHat, p, yHat *mat.VecDense) upperBoundResult {
	calcXHat(u.problem, gamma, x, gradPsiX, xHat, p)
	psiXHat := u.helpers.calcPsiYHat(xHat, yHat)
	gradDotP := mat.Dot(gradPsiX, p)
	normSqP := mat.Dot(p, p)

	changed := false
	for psiXHat-psiX > gradDotP+0.5*l*normSqP &&
		abs(gradDotP/psiX) > u.params.QuadraticUpperboundThreshold {
		l *= 2
		sigma /= 2
		gamma /= 2
		changed = true

		calcXHat(u.problem, gamma, x, gradPsiX, xHat, p)
		gradDotP = mat.Dot(gradPsiX, p)
		normSqP = mat.Dot(p, p)
		psiXHat = u.helpers.calcPsiYHat(xHat, yHat)
	}

	return upperBoundResult{l: l, gamma: gamma, sigma: sigma, gradPsiDotP: gradDotP, normSqP: normSqP, psiXHat: psiXHat, changed: changed}
}

// adjustPGA runs PGA's own, looser upper-bound loop (pga.hpp lines
// 174-187): no σ, no quadratic_upperbound_threshold gate, margin is
// always zero. It returns the updated L, γ, ∇ψᵀp, ‖p‖² and ψ(x̂), and
// overwrites xHat, p and yHat in place with x̂, p and ŷ(x̂).
func adjustPGA(problem Problem, h *alHelpers, x, gradPsiX *mat.VecDense, psiX, l, gamma float64, xHat, p, yHat *mat.VecDense) (newL, newGamma, gradDotP, normSqP, psiXHat float64) {
	calcXHat(problem, gamma, x, gradPsiX, xHat, p)
	psiXHat = h.calcPsiYHat(xHat, yHat)
	gradDotP = mat.Dot(gradPsiX, p)
	normSqP = mat.Dot(p, p)

	for psiXHat > psiX+gradDotP+0.5*l*normSqP {
		l *= 2
		gamma /= 2

		calcXHat(problem, gamma, x, gradPsiX, xHat, p)
		psiXHat = h.calcPsiYHat(xHat, yHat)
		gradDotP = mat.Dot(gradPsiX, p)
		normSqP = mat.Dot(p, p)
	}
	return l, gamma, gradDotP, normSqP, psiXHat
}
