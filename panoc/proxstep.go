package panoc

import "gonum.org/v1/gonum/mat"

// calcXHat computes the proximal gradient step x̂ = project_C(x - γ∇ψ)
// and the forward-backward residual p = x̂ - x (spec.md §4.3). xHat and p
// must not alias x or gradPsi.
func calcXHat(problem Problem, gamma float64, x, gradPsi, xHat, p *mat.VecDense) {
	p.ScaleVec(-gamma, gradPsi)
	p.AddVec(p, x)
	problem.C().Project(xHat, p)
	p.SubVec(xHat, x)
}
