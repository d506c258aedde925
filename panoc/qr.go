package panoc

import "gonum.org/v1/gonum/mat"

// LimitedMemoryQR maintains a QR factorization of a sliding window of at
// most mMax columns (spec.md §4.6, "a LimitedMemoryQR with columns <= mₐₐ").
// Anderson acceleration uses it to factor the residual-difference history
// and solve the acceleration least-squares problem by triangular
// back-substitution instead of forming and inverting ΔRᵀΔR directly.
//
// Columns are kept in insertion order (oldest first); once the window is
// full, AddColumn drops the oldest column before appending the new one.
// Rather than hand-rolling a Givens-rotation column delete/downdate (the
// approach a fully optimized implementation would take), the orthonormal
// basis and R factor are recomputed from the retained raw columns via
// modified Gram-Schmidt on every structural change. mₐₐ is small (a
// handful to a few dozen columns in practice, like the L-BFGS memory it
// mirrors), so the O(n·m²) recompute is cheap and this avoids a delicate,
// easy-to-get-subtly-wrong downdate — the same engineering trade the
// teacher makes in liblinear/tron.go's trcg, which re-derives its
// trust-region step from scratch each CG iteration rather than maintaining
// an incremental factorization across iterations.
type LimitedMemoryQR struct {
	n, mMax int
	cols    []*mat.VecDense // raw columns, oldest first
	q       []*mat.VecDense // orthonormal basis, parallel to cols
	r       *mat.Dense      // mMax x mMax, valid in the top-left len(cols) square
}

// NewLimitedMemoryQR allocates an empty factorization for vectors of
// length n and a window of at most mMax columns.
func NewLimitedMemoryQR(n, mMax int) *LimitedMemoryQR {
	return &LimitedMemoryQR{
		n:    n,
		mMax: mMax,
		r:    mat.NewDense(mMax, mMax, nil),
	}
}

// NumColumns is the number of columns currently in the window.
func (qr *LimitedMemoryQR) NumColumns() int { return len(qr.cols) }

// RingTail is the index, within the current window, of the most recently
// added column (the original's qr.ring_tail(), used by Anderson's reset
// fallback to locate the newest column before flushing the rest).
func (qr *LimitedMemoryQR) RingTail() int { return len(qr.cols) - 1 }

// AddColumn appends v to the window, evicting the oldest column first if
// the window is already at capacity.
func (qr *LimitedMemoryQR) AddColumn(v *mat.VecDense) {
	c := mat.NewVecDense(qr.n, nil)
	c.CopyVec(v)
	if len(qr.cols) >= qr.mMax {
		qr.cols = qr.cols[1:]
	}
	qr.cols = append(qr.cols, c)
	qr.recompute()
}

// ScaleR rescales the factorization by factor, used when γ changes (spec.md
// §4.6, §9 "Anderson γ-consistency"): the underlying residual-difference
// columns are proportional to γ, so they (and hence R) must be rescaled in
// lockstep with γ.
func (qr *LimitedMemoryQR) ScaleR(factor float64) {
	for _, c := range qr.cols {
		c.ScaleVec(factor, c)
	}
	qr.recompute()
}

// Reset discards the entire window.
func (qr *LimitedMemoryQR) Reset() {
	qr.cols = nil
	qr.q = nil
}

// KeepOnly discards every column except the one at index idx (used by
// Anderson's non-finite-coefficients fallback, spec.md §4.6), retaining it
// as the sole (newest) column of a fresh window.
func (qr *LimitedMemoryQR) KeepOnly(idx int) {
	if idx < 0 || idx >= len(qr.cols) {
		qr.Reset()
		return
	}
	kept := qr.cols[idx]
	qr.cols = []*mat.VecDense{kept}
	qr.recompute()
}

// recompute rebuilds the orthonormal basis q and upper-triangular R from
// the current raw columns via modified Gram-Schmidt.
func (qr *LimitedMemoryQR) recompute() {
	m := len(qr.cols)
	qr.q = make([]*mat.VecDense, m)
	qr.r.Zero()
	for j := 0; j < m; j++ {
		v := mat.NewVecDense(qr.n, nil)
		v.CopyVec(qr.cols[j])
		for i := 0; i < j; i++ {
			rij := mat.Dot(qr.q[i], v)
			qr.r.Set(i, j, rij)
			v.AddScaledVec(v, -rij, qr.q[i])
		}
		norm := vecNorm(v)
		const tiny = 1e-300
		if norm < tiny {
			// v is (numerically) in the span of the earlier columns:
			// degenerate direction, contributes nothing new.
			qr.q[j] = mat.NewVecDense(qr.n, nil)
			qr.r.Set(j, j, tiny)
			continue
		}
		qr.r.Set(j, j, norm)
		v.ScaleVec(1/norm, v)
		qr.q[j] = v
	}
}

// Solve finds the least-squares coefficients γ minimizing
// ‖Σⱼ γⱼ·colⱼ − rhs‖, by projecting rhs onto the orthonormal basis and
// back-substituting through R. out must have length >= NumColumns(); only
// the first NumColumns() entries are written.
func (qr *LimitedMemoryQR) Solve(rhs *mat.VecDense, out []float64) {
	m := len(qr.cols)
	y := make([]float64, m)
	for i := 0; i < m; i++ {
		y[i] = mat.Dot(qr.q[i], rhs)
	}
	for i := m - 1; i >= 0; i-- {
		sum := y[i]
		for j := i + 1; j < m; j++ {
			sum -= qr.r.At(i, j) * out[j]
		}
		out[i] = sum / qr.r.At(i, i)
	}
}
