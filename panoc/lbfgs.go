package panoc

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// LBFGSDirection is the built-in Direction implementation: a limited-memory
// quasi-Newton direction provider storing up to Memory curvature pairs
// (s, t) with s = xₖ₊₁ - xₖ and t = pₖ₊₁ - pₖ (the forward-backward
// residual difference, the adapted form spec.md §4.5 calls for in place of
// the usual gradient difference).
//
// Grounded on liblinear/tron.go's style of keeping fixed-size scratch
// arrays and hand-rolled vector arithmetic (dot/daxpy/scale) around an
// iterative numerical core; the two-loop recursion itself has no teacher
// analogue and follows the standard L-BFGS algorithm (Nocedal & Wright),
// applied here to ψ instead of to a plain smooth objective.
type LBFGSDirection struct {
	n      int
	memory int

	s   []*mat.VecDense
	t   []*mat.VecDense
	rho []float64

	head  int // ring index of the most recently stored pair
	count int // number of valid pairs currently stored

	alpha []float64 // two-loop recursion scratch, length memory

	// CBFGS safeguard parameters (Powell-damped curvature test): a
	// candidate pair is accepted only if s·t >= cbfgsEpsilon *
	// ||s||^cbfgsAlpha * ||t||, guarding against near-degenerate updates
	// that would otherwise pass the plain s·t > 0 test.
	cbfgsAlpha   float64
	cbfgsEpsilon float64
}

// NewLBFGSDirection builds an empty L-BFGS direction provider for vectors
// of length n with the given curvature-pair memory size.
func NewLBFGSDirection(n, memory int) *LBFGSDirection {
	d := &LBFGSDirection{
		n:            n,
		memory:       memory,
		s:            make([]*mat.VecDense, memory),
		t:            make([]*mat.VecDense, memory),
		rho:          make([]float64, memory),
		alpha:        make([]float64, memory),
		cbfgsAlpha:   0,
		cbfgsEpsilon: 1e-10,
	}
	for i := range d.s {
		d.s[i] = mat.NewVecDense(n, nil)
		d.t[i] = mat.NewVecDense(n, nil)
	}
	return d
}

// Initialize is a no-op: memory starts (and, per spec.md invariant 5,
// stays until a reset) empty at k=0.
func (d *LBFGSDirection) Initialize(x, xHat, p, gradPsi *mat.VecDense) {}

// index returns the ring-buffer slot of the j-th most recent pair (j=0 is
// the newest).
func (d *LBFGSDirection) index(j int) int {
	idx := d.head - j
	idx %= d.memory
	if idx < 0 {
		idx += d.memory
	}
	return idx
}

func (d *LBFGSDirection) Apply(x, xHat, p, gradPsi, q *mat.VecDense) {
	if d.count == 0 {
		q.Zero()
		return
	}
	q.CopyVec(p)

	// First loop: newest to oldest.
	for j := 0; j < d.count; j++ {
		i := d.index(j)
		alpha := d.rho[i] * mat.Dot(d.s[i], q)
		d.alpha[i] = alpha
		q.AddScaledVec(q, -alpha, d.t[i])
	}

	// H0 scaling from the most recent pair.
	newest := d.index(0)
	tDotT := mat.Dot(d.t[newest], d.t[newest])
	if tDotT > 0 {
		gamma0 := mat.Dot(d.s[newest], d.t[newest]) / tDotT
		q.ScaleVec(gamma0, q)
	}

	// Second loop: oldest to newest.
	for j := d.count - 1; j >= 0; j-- {
		i := d.index(j)
		beta := d.rho[i] * mat.Dot(d.t[i], q)
		q.AddScaledVec(q, d.alpha[i]-beta, d.s[i])
	}
}

func (d *LBFGSDirection) Update(xK, xKPlus1, pK, pKPlus1, gradPsiKPlus1 *mat.VecDense, c Set, gamma float64) bool {
	s := mat.NewVecDense(d.n, nil)
	t := mat.NewVecDense(d.n, nil)
	s.SubVec(xKPlus1, xK)
	t.SubVec(pKPlus1, pK)

	if !finiteVec(s) || !finiteVec(t) {
		return false
	}

	sDotT := mat.Dot(s, t)
	if sDotT <= 0 {
		return false
	}
	sNorm := vecNorm(s)
	tNorm := vecNorm(t)
	if sDotT < d.cbfgsEpsilon*math.Pow(sNorm, d.cbfgsAlpha)*tNorm {
		return false
	}

	// Advance the ring buffer and store the accepted pair.
	d.head = (d.head + 1) % d.memory
	d.s[d.head].CopyVec(s)
	d.t[d.head].CopyVec(t)
	d.rho[d.head] = 1 / sDotT
	if d.count < d.memory {
		d.count++
	}
	return true
}

func (d *LBFGSDirection) ChangedGamma(gammaNew, gammaOld float64) {
	if gammaOld == 0 {
		return
	}
	scale := gammaNew / gammaOld
	for j := 0; j < d.count; j++ {
		i := d.index(j)
		d.t[i].ScaleVec(scale, d.t[i])
		d.rho[i] = 1 / mat.Dot(d.s[i], d.t[i])
	}
}

func (d *LBFGSDirection) Reset() {
	d.head = 0
	d.count = 0
}
