package panoc

import "gonum.org/v1/gonum/mat"

// Set is a simple, projectable subset of Rⁿ: a constraint region for which
// an O(n) Euclidean projection is available. Box returns the canonical
// implementation.
type Set interface {
	// Dim is the dimension of the ambient space.
	Dim() int
	// Project writes the Euclidean projection of x onto the set into out.
	// out and x may not alias.
	Project(out, x *mat.VecDense)
}

// Problem is the read-only evaluator contract the solver drives: the
// smooth part f of the objective, its gradient, the general constraint
// function g together with its transposed-Jacobian-vector product, and the
// two projectable sets C (decision variable) and D (constraint values).
//
// Problem implementations hold no solver state; every method receives a
// read-only view of its input and writes into a caller-owned output. A
// Problem must be safe to call repeatedly and, if shared across solver
// instances running concurrently, safe for concurrent read-only use (the
// solver itself never calls a Problem from more than one goroutine at a
// time).
type Problem interface {
	// N is the dimension of the decision vector x.
	N() int
	// M is the number of general constraints (0 if there are none).
	M() int

	// C is the simple set the decision variable is projected onto.
	C() Set
	// D is the simple set constraint values are projected onto.
	D() Set

	// F evaluates the smooth objective at x.
	F(x *mat.VecDense) float64
	// GradF writes ∇f(x) into out.
	GradF(x *mat.VecDense, out *mat.VecDense)
	// G writes the constraint value g(x) into out. Never called when M()==0.
	G(x *mat.VecDense, out *mat.VecDense)
	// GradGTv writes ∇g(x)ᵀ·v into out, for v of length M(). Never called
	// when M()==0.
	GradGTv(x, v *mat.VecDense, out *mat.VecDense)
}
