package panoc

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"
)

// PANOCSolver is the full PANOC inner solver of spec.md §4.7: adaptive
// Lipschitz estimation, an L-BFGS direction provider, an optional Anderson
// acceleration candidate, and a forward-backward-envelope line search.
//
// Grounded on liblinear/tron.go's tron() driver loop for the overall shape
// (single struct owning Params/a stop flag, one big Solve method running a
// bounded loop with its own scratch, a Stats-like return value); the
// iteration algebra itself follows original_source/.../panoc.hpp lines
// 108-419.
type PANOCSolver struct {
	params     PANOCParams
	stopSignal AtomicStopSignal
}

// NewPANOCSolver builds a solver with the given parameters and a fresh,
// not-yet-requested stop signal.
func NewPANOCSolver(params PANOCParams) *PANOCSolver {
	return &PANOCSolver{params: params, stopSignal: NewAtomicStopSignal()}
}

// Name identifies the solver for logging/diagnostics, mirroring the C++
// drivers' get_name() accessor (SPEC_FULL.md "Supplemented features"
// item 4).
func (s *PANOCSolver) Name() string { return "PANOC" }

// Params returns the parameters this solver was constructed with.
func (s *PANOCSolver) Params() PANOCParams { return s.params }

// Stop requests cancellation of any solve currently running (or about to
// run) on this solver. Safe to call from any goroutine.
func (s *PANOCSolver) Stop() { s.stopSignal.Stop() }

// ResetStop clears a previous Stop request so the solver can be reused for
// another solve. Solve itself never clears the flag, since a caller that
// stops a solver mid-solve and immediately reuses it for another Solve call
// almost certainly wants that second call to stop too.
func (s *PANOCSolver) ResetStop() { s.stopSignal = NewAtomicStopSignal() }

// Solve runs PANOC on problem with the given penalty weights Σ (sigma) and
// multiplier estimate y, to stopping tolerance eps (spec.md §4.7, §6). x is
// both the initial iterate and, on return, the solution estimate; y is both
// input and output (ŷ(x̂) at exit); errZ receives g(x̂) − ẑ(x̂). Results are
// written back only on Converged, Interrupted, or when
// alwaysOverwriteResults is true; on MaxIter/MaxTime/NoProgress/NotFinite
// without the flag, x/y/errZ are left exactly as the caller passed them in
// (spec.md §7, Open Question: callers that want the best iterate on budget
// exhaustion must pass alwaysOverwriteResults=true).
func (s *PANOCSolver) Solve(problem Problem, sigma *mat.VecDense, eps float64, alwaysOverwriteResults bool, x, y, errZ *mat.VecDense) (Stats, error) {
	if err := validateSolveInputs(problem, sigma, y, errZ, eps, s.params.LBFGSMem); err != nil {
		return Stats{}, err
	}

	n, m := problem.N(), problem.M()
	if x.Len() != n {
		return Stats{}, fmt.Errorf("panoc: x has length %d, want %d", x.Len(), n)
	}

	start := time.Now()
	helpers := newALHelpers(problem, sigma, y)
	direction := NewLBFGSDirection(n, s.params.LBFGSMem)

	var anderson *AndersonAccel
	if s.params.AndersonAcceleration > 0 {
		anderson = NewAndersonAccel(n, s.params.AndersonAcceleration)
	}

	xK := mat.NewVecDense(n, nil)
	xK.CopyVec(x)
	xKPlus1 := mat.NewVecDense(n, nil)
	xHatK := mat.NewVecDense(n, nil)
	xHatKPlus1 := mat.NewVecDense(n, nil)
	pK := mat.NewVecDense(n, nil)
	pKPlus1 := mat.NewVecDense(n, nil)
	qK := mat.NewVecDense(n, nil)
	gradPsiK := mat.NewVecDense(n, nil)
	gradPsiXHatK := mat.NewVecDense(n, nil)
	gradPsiKPlus1 := mat.NewVecDense(n, nil)
	yHatXHatK := mat.NewVecDense(max(m, 1), nil)
	yHatXHatKPlus1 := mat.NewVecDense(max(m, 1), nil)

	psiK := helpers.calcPsiGradPsi(xK, gradPsiK)
	l, finite := estimateLipschitz(helpers, s.params.Lipschitz, xK, gradPsiK)
	if !finite {
		return Stats{Status: NotFinite, ElapsedTime: time.Since(start)}, nil
	}
	gamma := s.params.Lipschitz.LGammaFactor / l
	sigmaLS := gamma * (1 - gamma*l) / 2

	var (
		psiXHatK      float64
		gradPsiKDotPK float64
		normSqPK      float64
		phiK          float64
	)

	adjuster := &upperBoundAdjuster{problem: problem, helpers: helpers, params: s.params}
	noProgress := 0

	var stats Stats

	for k := 0; ; k++ {
		oldGamma := gamma

		if k == 0 || !s.params.UpdateLipschitzInLinesearch {
			res := adjuster.adjust(xK, gradPsiK, psiK, l, gamma, sigmaLS, xHatK, pK, yHatXHatK)
			l, gamma, sigmaLS = res.l, res.gamma, res.sigma
			gradPsiKDotPK, normSqPK, psiXHatK = res.gradPsiDotP, res.normSqP, res.psiXHat
			phiK = psiK + normSqPK/(2*gamma) + gradPsiKDotPK
		}

		if k > 0 && gamma != oldGamma {
			direction.ChangedGamma(gamma, oldGamma)
			if anderson != nil {
				anderson.ChangedGamma(gamma, oldGamma)
			}
		}
		if k == 0 {
			direction.Initialize(xK, xHatK, pK, gradPsiK)
		}

		helpers.calcGradPsiFromYHat(xHatK, yHatXHatK, gradPsiXHatK)
		epsK := calcErrorStopCrit(pK, gamma, gradPsiXHatK, gradPsiK)

		if s.params.PrintInterval != 0 && k%s.params.PrintInterval == 0 {
			panocLogger.Printf("k=%d psi=%.6g eps=%.3g gamma=%.3g L=%.3g", k, psiK, epsK, gamma, l)
		}
		if s.params.Progress != nil {
			s.params.Progress(ProgressInfo{
				K: k, X: cloneSlice(xK), P: cloneSlice(pK), XHat: cloneSlice(xHatK),
				NormSqP: normSqPK, Psi: psiK, GradPsi: cloneSlice(gradPsiK),
				PsiXHat: psiXHatK, GradPsiXHat: cloneSlice(gradPsiXHatK),
				L: l, Gamma: gamma, Eps: epsK,
			})
		}

		elapsed := time.Since(start)
		converged := epsK <= eps
		outOfTime := elapsed > s.params.MaxTime
		outOfIter := k == s.params.MaxIter
		interrupted := s.stopSignal.StopRequested()
		notFinite := math.IsNaN(epsK) || math.IsInf(epsK, 0)
		noProgressExit := noProgress > s.params.LBFGSMem

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

		if k > 0 {
			direction.Apply(xK, xHatK, pK, gradPsiK, qK)
		} else {
			qK.Zero()
		}

		andersonAccepted := false
		if anderson != nil {
			if k == 0 {
				anderson.InitFirst(xK, gradPsiK, gamma)
			} else {
				xAA, psiAA, yHatAA := anderson.Candidate(problem, helpers, xK, gradPsiK, gamma)
				if psiAA < psiXHatK {
					andersonAccepted = true
					xHatK.CopyVec(xAA)
					pK.SubVec(xHatK, xK)
					psiXHatK = psiAA
					yHatXHatK.CopyVec(yHatAA)
					helpers.calcGradPsiFromYHat(xHatK, yHatXHatK, gradPsiXHatK)
				}
			}
		}

		tau := 1.0
		if k == 0 {
			tau = 0
		} else if !finiteVec(qK) {
			tau = 0
			stats.LBFGSFailures++
			direction.Reset()
		}

		sigmaNormGammaInvPK := sigmaLS * normSqPK / (gamma * gamma)

		var (
			l2, sigma2, gamma2                   float64
			psiKPlus1, psiXHatKPlus1             float64
			gradPsiKPlus1DotPKPlus1               float64
			normSqPKPlus1, normSqPKPlus1AtGammaK float64
		)

		for {
			l2, sigma2, gamma2 = l, sigmaLS, gamma

			if tau/2 < s.params.TauMin {
				xKPlus1.CopyVec(xHatK)
				psiKPlus1 = psiXHatK
				gradPsiKPlus1.CopyVec(gradPsiXHatK)
			} else {
				xKPlus1.CopyVec(xK)
				xKPlus1.AddScaledVec(xKPlus1, 1-tau, pK)
				xKPlus1.AddScaledVec(xKPlus1, tau, qK)
				psiKPlus1 = helpers.calcPsiGradPsi(xKPlus1, gradPsiKPlus1)
			}

			calcXHat(problem, gamma2, xKPlus1, gradPsiKPlus1, xHatKPlus1, pKPlus1)
			psiXHatKPlus1 = helpers.calcPsiYHat(xHatKPlus1, yHatXHatKPlus1)
			gradPsiKPlus1DotPKPlus1 = mat.Dot(gradPsiKPlus1, pKPlus1)
			normSqPKPlus1 = mat.Dot(pKPlus1, pKPlus1)
			normSqPKPlus1AtGammaK = normSqPKPlus1

			if s.params.UpdateLipschitzInLinesearch {
				oldGamma2 := gamma2
				for psiXHatKPlus1-psiKPlus1 > gradPsiKPlus1DotPKPlus1+0.5*l2*normSqPKPlus1 &&
					abs(gradPsiKPlus1DotPKPlus1/psiKPlus1) > s.params.QuadraticUpperboundThreshold {
					l2 *= 2
					sigma2 /= 2
					gamma2 /= 2
					calcXHat(problem, gamma2, xKPlus1, gradPsiKPlus1, xHatKPlus1, pKPlus1)
					gradPsiKPlus1DotPKPlus1 = mat.Dot(gradPsiKPlus1, pKPlus1)
					normSqPKPlus1 = mat.Dot(pKPlus1, pKPlus1)
					psiXHatKPlus1 = helpers.calcPsiYHat(xHatKPlus1, yHatXHatKPlus1)
				}
				if gamma2 != oldGamma2 {
					direction.ChangedGamma(gamma2, oldGamma2)
					if anderson != nil {
						anderson.ChangedGamma(gamma2, oldGamma2)
					}
				}
			}

			phiKPlus1 := psiKPlus1 + normSqPKPlus1/(2*gamma2) + gradPsiKPlus1DotPKPlus1

			tau /= 2

			lsCond := phiKPlus1 - (phiK - sigmaNormGammaInvPK)
			if s.params.AlternativeLinesearchCond {
				lsCond -= (0.5/gamma2 - 0.5/gamma) * normSqPKPlus1AtGammaK
			}
			if !(lsCond > 0 && tau >= s.params.TauMin) {
				break
			}
		}

		if tau < s.params.TauMin && k != 0 {
			stats.LinesearchFailures++
		}

		accepted := direction.Update(xK, xKPlus1, pK, pKPlus1, gradPsiKPlus1, problem.C(), gamma2)
		if !accepted {
			stats.LBFGSRejected++
		}

		if noProgress > 0 || k%s.params.LBFGSMem == 0 {
			if vecEqual(xK, xKPlus1) {
				noProgress++
			} else {
				noProgress = 0
			}
		}

		if anderson != nil && k > 0 {
			anderson.Advance(andersonAccepted)
		}

		l, sigmaLS, gamma = l2, sigma2, gamma2
		psiK = psiKPlus1
		psiXHatK = psiXHatKPlus1
		phiK = psiKPlus1 + normSqPKPlus1/(2*gamma2) + gradPsiKPlus1DotPKPlus1
		gradPsiKDotPK = gradPsiKPlus1DotPKPlus1
		normSqPK = normSqPKPlus1

		xK, xKPlus1 = xKPlus1, xK
		xHatK, xHatKPlus1 = xHatKPlus1, xHatK
		yHatXHatK, yHatXHatKPlus1 = yHatXHatKPlus1, yHatXHatK
		pK, pKPlus1 = pKPlus1, pK
		gradPsiK, gradPsiKPlus1 = gradPsiKPlus1, gradPsiK
	}
}

func cloneSlice(v *mat.VecDense) []float64 {
	out := make([]float64, v.Len())
	for i := range out {
		out[i] = v.AtVec(i)
	}
	return out
}

// validateSolveInputs fails fast on the preconditions spec.md §7 calls out
// explicitly (malformed dimensions, non-positive Σ or ε), rather than
// letting them surface as a panic or silent garbage deep in the iteration.
func validateSolveInputs(problem Problem, sigma, y, errZ *mat.VecDense, eps float64, lbfgsMem int) error {
	m := problem.M()
	if sigma.Len() != m {
		return fmt.Errorf("panoc: sigma has length %d, want %d", sigma.Len(), m)
	}
	if y.Len() != m {
		return fmt.Errorf("panoc: y has length %d, want %d", y.Len(), m)
	}
	if errZ.Len() != m {
		return fmt.Errorf("panoc: errZ has length %d, want %d", errZ.Len(), m)
	}
	for i := 0; i < m; i++ {
		if sigma.AtVec(i) <= 0 {
			return fmt.Errorf("panoc: sigma[%d] = %g, want > 0", i, sigma.AtVec(i))
		}
	}
	if eps <= 0 {
		return fmt.Errorf("panoc: eps = %g, want > 0", eps)
	}
	if lbfgsMem < 1 {
		return fmt.Errorf("panoc: LBFGSMem = %d, want >= 1", lbfgsMem)
	}
	return nil
}
