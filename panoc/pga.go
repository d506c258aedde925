package panoc

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"
)

// PGASolver is the degenerate Proximal Gradient Algorithm driver of
// spec.md §4.8: PANOC with no direction provider, no Anderson
// acceleration, and no line search, so the next iterate is always the
// plain prox step x̂ₖ. It shares the helper contracts and upper-bound
// machinery with PANOCSolver but uses its own, tighter no-progress
// threshold and has no γ-change notifications to issue (there is no
// direction provider or Anderson state to rescale).
//
// Grounded the same way as PANOCSolver, on liblinear/tron.go's driver
// shape; the iteration itself follows original_source/.../pga.hpp, with
// the Solver contract's always_overwrite_results gating (spec.md §6)
// applied uniformly across both drivers even though the original PGA
// reference always overwrote its results unconditionally.
type PGASolver struct {
	params     PGAParams
	stopSignal AtomicStopSignal
}

// pgaMaxNoProgress is PGA's no-progress grace window (spec.md §4.8: "its
// max_no_progress threshold is 1, tighter than PANOC").
const pgaMaxNoProgress = 1

// NewPGASolver builds a solver with the given parameters and a fresh,
// not-yet-requested stop signal.
func NewPGASolver(params PGAParams) *PGASolver {
	return &PGASolver{params: params, stopSignal: NewAtomicStopSignal()}
}

func (s *PGASolver) Name() string { return "PGA" }

func (s *PGASolver) Params() PGAParams { return s.params }

// Stop requests cancellation of any solve currently running on this
// solver. Safe to call from any goroutine.
func (s *PGASolver) Stop() { s.stopSignal.Stop() }

// ResetStop clears a previous Stop request, see PANOCSolver.ResetStop.
func (s *PGASolver) ResetStop() { s.stopSignal = NewAtomicStopSignal() }

// Solve runs PGA on problem. The in/out parameters and Stats shape match
// PANOCSolver.Solve exactly (spec.md §4.8: "status semantics are
// identical").
func (s *PGASolver) Solve(problem Problem, sigma *mat.VecDense, eps float64, alwaysOverwriteResults bool, x, y, errZ *mat.VecDense) (Stats, error) {
	if err := validateSolveInputs(problem, sigma, y, errZ, eps, 1); err != nil {
		return Stats{}, err
	}
	n, m := problem.N(), problem.M()
	if x.Len() != n {
		return Stats{}, fmt.Errorf("pga: x has length %d, want %d", x.Len(), n)
	}

	start := time.Now()
	helpers := newALHelpers(problem, sigma, y)

	xK := mat.NewVecDense(n, nil)
	xK.CopyVec(x)
	xHatK := mat.NewVecDense(n, nil)
	pK := mat.NewVecDense(n, nil)
	gradPsiK := mat.NewVecDense(n, nil)
	gradPsiXHatK := mat.NewVecDense(n, nil)
	yHatXHatK := mat.NewVecDense(max(m, 1), nil)

	psiK := helpers.calcPsiGradPsi(xK, gradPsiK)
	l, finite := estimateLipschitz(helpers, s.params.Lipschitz, xK, gradPsiK)
	if !finite {
		return Stats{Status: NotFinite, ElapsedTime: time.Since(start)}, nil
	}
	gamma := s.params.Lipschitz.LGammaFactor / l

	noProgress := 0
	var stats Stats
	var psiXHatK float64

	for k := 0; ; k++ {
		l, gamma, _, _, psiXHatK = adjustPGA(problem, helpers, xK, gradPsiK, psiK, l, gamma, xHatK, pK, yHatXHatK)

		helpers.calcGradPsiFromYHat(xHatK, yHatXHatK, gradPsiXHatK)
		epsK := calcErrorStopCrit(pK, gamma, gradPsiXHatK, gradPsiK)

		if s.params.PrintInterval != 0 && k%s.params.PrintInterval == 0 {
			pgaLogger.Printf("k=%d psi=%.6g eps=%.3g gamma=%.3g L=%.3g", k, psiK, epsK, gamma, l)
		}

		elapsed := time.Since(start)
		converged := epsK <= eps
		outOfTime := elapsed > s.params.MaxTime
		outOfIter := k == s.params.MaxIter
		interrupted := s.stopSignal.StopRequested()
		notFinite := math.IsNaN(epsK) || math.IsInf(epsK, 0)
		noProgressExit := noProgress > pgaMaxNoProgress

		if converged || outOfTime || outOfIter || interrupted || notFinite || noProgressExit {
			status := Unknown
			switch {
			case notFinite:
				status = NotFinite
			case converged:
				status = Converged
			case interrupted:
				status = Interrupted
			case outOfTime:
				status = MaxTime
			case outOfIter:
				status = MaxIter
			case noProgressExit:
				status = NoProgress
			}
			if converged || interrupted || alwaysOverwriteResults {
				helpers.calcErrZ(xHatK, errZ)
				x.CopyVec(xHatK)
				y.CopyVec(yHatXHatK)
			}
			stats.Iterations = k
			stats.EpsFinal = epsK
			stats.ElapsedTime = elapsed
			stats.Status = status
			return stats, nil
		}

		if vecEqual(xK, xHatK) {
			noProgress++
		} else {
			noProgress = 0
		}

		// No line search: the next iterate is simply the prox step.
		xK, xHatK = xHatK, xK
		gradPsiK, gradPsiXHatK = gradPsiXHatK, gradPsiK
		psiK = psiXHatK
	}
}
