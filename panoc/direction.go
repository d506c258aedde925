package panoc

import "gonum.org/v1/gonum/mat"

// Direction supplies the quasi-Newton direction q used by the PANOC line
// search (spec.md §4.5, §9 "Polymorphic direction"). The C++ original
// selects an implementation through a template parameter; here the driver
// depends only on this interface, and LBFGSDirection is the sole built-in
// implementation.
type Direction interface {
	// Initialize sets up internal memory from the first iterate. Called
	// exactly once, at k=0.
	Initialize(x, xHat, p, gradPsi *mat.VecDense)

	// Apply runs the two-loop recursion and writes an approximation of
	// H·p (H the inverse-Hessian estimate) into q. If memory is empty, q
	// must be the zero vector.
	Apply(x, xHat, p, gradPsi, q *mat.VecDense)

	// Update pushes a new curvature pair derived from
	// (xK, xKPlus1, pK, pKPlus1, gradPsiKPlus1) and returns whether it was
	// accepted. c is the set the proximal step was projected onto (CBFGS
	// safeguards may depend on whether xK/xKPlus1 lie on its boundary);
	// gamma is the step size currently in effect.
	Update(xK, xKPlus1, pK, pKPlus1, gradPsiKPlus1 *mat.VecDense, c Set, gamma float64) (accepted bool)

	// ChangedGamma rescales any internally stored quantities that depend
	// on the step size after γ changes from gammaOld to gammaNew.
	ChangedGamma(gammaNew, gammaOld float64)

	// Reset clears all stored curvature memory, e.g. after Apply produced
	// a non-finite direction.
	Reset()
}
